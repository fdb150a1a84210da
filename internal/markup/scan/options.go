package scan

import (
	"log/slog"

	"github.com/dshills/inlinemark/internal/markup/artifact"
	"github.com/dshills/inlinemark/internal/markup/guard"
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithPolicy sets the selection guard policy. The default is guard.PolicyOverlap.
func WithPolicy(p guard.Policy) Option {
	return func(s *Scanner) {
		s.policy = p
	}
}

// WithTypesetter sets the typesetter used by math rules.
func WithTypesetter(ts artifact.Typesetter) Option {
	return func(s *Scanner) {
		s.env.Typesetter = ts
	}
}

// WithLogger sets the logger that receives render failures and offset
// repairs. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
			s.env.Logger = l
		}
	}
}

// WithStrictOffsets makes an out-of-bounds match panic with a
// *core.OffsetError instead of being clamped. Intended for tests.
func WithStrictOffsets(strict bool) Option {
	return func(s *Scanner) {
		s.strict = strict
	}
}
