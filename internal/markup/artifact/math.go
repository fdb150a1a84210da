package artifact

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Errors returned by math rendering.
var (
	// ErrNoTypesetter indicates a math artifact was requested without a typesetter.
	ErrNoTypesetter = errors.New("no typesetter configured")

	// ErrBatchClosed indicates a render on a batch that was already finalized.
	ErrBatchClosed = errors.New("typesetting batch already finalized")

	// ErrForeignNode indicates a node not created by the surface in use.
	ErrForeignNode = errors.New("node was not created by this surface")
)

// Typesetter is the external math typesetting engine.
//
// Implementations may batch work: results of Typeset are only stable after
// Finalize. The engine supports one in-flight batch at a time.
type Typesetter interface {
	// Typeset renders LaTeX source into serialized markup.
	Typeset(source string, inline bool) (string, error)

	// Finalize completes all pending renders of the current batch.
	Finalize() error
}

// RenderError is returned when the typesetter fails on one source.
type RenderError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("typesetting %q: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// Batch is one render-then-finalize unit on a typesetter.
type Batch struct {
	// ID identifies the batch in logs.
	ID string

	ts      Typesetter
	renders int
	closed  bool
}

// Begin opens a batch. The caller must Close it on every path.
func Begin(ts Typesetter) *Batch {
	return &Batch{ID: uuid.NewString(), ts: ts}
}

// Typeset renders one source within the batch.
func (b *Batch) Typeset(source string, inline bool) (string, error) {
	if b.closed {
		return "", ErrBatchClosed
	}
	b.renders++
	return b.ts.Typeset(source, inline)
}

// Renders returns the number of Typeset calls made on the batch.
func (b *Batch) Renders() int {
	return b.renders
}

// Close finalizes the batch. Closing twice is a no-op.
func (b *Batch) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.ts.Finalize()
}

// WithBatch runs fn inside a batch and finalizes it afterwards, including
// when fn fails. A finalize error is returned if fn succeeded.
func WithBatch(ts Typesetter, fn func(b *Batch) error) (err error) {
	b := Begin(ts)
	defer func() {
		if cerr := b.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(b)
}

// Math is typeset math notation.
type Math struct {
	Source string
	Inline bool
	Markup string
}

// NewMath typesets source in its own batch. On failure it returns a
// Fallback carrying the raw source and a *RenderError, and logs the failure.
func NewMath(ts Typesetter, source string, inline bool, logger *slog.Logger) Artifact {
	var markup, batchID string
	err := ErrNoTypesetter
	if ts != nil {
		err = WithBatch(ts, func(b *Batch) error {
			batchID = b.ID
			var terr error
			markup, terr = b.Typeset(source, inline)
			return terr
		})
	}
	if err != nil {
		if logger != nil {
			logger.Warn("math render failed, showing raw source",
				slog.String("batch", batchID),
				slog.String("source", source),
				slog.Any("error", err))
		}
		return &Fallback{Raw: source, Err: &RenderError{Source: source, Err: err}}
	}
	return &Math{Source: source, Inline: inline, Markup: markup}
}

// Node implements Artifact.
func (m *Math) Node(s Surface) (Node, error) {
	if s == nil {
		return nil, nil
	}
	n := s.CreateElement(PlainTag)
	if err := s.SetInnerContent(n, m.Markup); err != nil {
		return nil, err
	}
	return n, nil
}

// String implements Artifact.
func (m *Math) String() string { return m.Markup }

// Replaces implements Artifact.
func (m *Math) Replaces() bool { return true }

// Content implements Artifact.
func (m *Math) Content() string { return m.Source }
