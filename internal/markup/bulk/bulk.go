// Package bulk applies a RuleSet to a finished text or HTML fragment in
// one pass per rule, with no selection concept.
//
// Rules chain: each rule scans the output of the rules before it. This
// differs from live mode, where every rule sees the original document
// and never another rule's replacement.
package bulk

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dshills/inlinemark/internal/markup/artifact"
	"github.com/dshills/inlinemark/internal/markup/core"
	"github.com/dshills/inlinemark/internal/markup/rule"
)

// Option configures Apply.
type Option func(*config)

type config struct {
	env    rule.Env
	logger *slog.Logger
}

// WithTypesetter sets the typesetter used by math rules.
func WithTypesetter(ts artifact.Typesetter) Option {
	return func(c *config) {
		c.env.Typesetter = ts
	}
}

// WithLogger sets the logger for render failures and per-rule counts.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
			c.env.Logger = l
		}
	}
}

// Apply replaces every occurrence of every rule in fragment with the
// serialized artifact and returns the result.
func Apply(fragment string, rs *rule.RuleSet, opts ...Option) string {
	out, _ := ApplyContext(context.Background(), fragment, rs, opts...)
	return out
}

// ApplyContext is Apply with cancellation between rules. When ctx is done
// the fragment as transformed so far is returned with ctx.Err().
func ApplyContext(ctx context.Context, fragment string, rs *rule.RuleSet, opts ...Option) (string, error) {
	logger := slog.New(slog.DiscardHandler)
	cfg := config{logger: logger, env: rule.Env{Logger: logger}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if rs == nil {
		return fragment, nil
	}

	cur := fragment
	for _, r := range rs.Rules {
		if err := ctx.Err(); err != nil {
			return cur, err
		}
		if r == nil {
			continue
		}
		var n int
		cur, n = substitute(cur, r, cfg.env)
		if n > 0 {
			cfg.logger.Debug("substituted",
				slog.String("rule", r.Name()),
				slog.Int("count", n))
		}
	}
	return cur, nil
}

// substitute performs one rule's global replace over text.
func substitute(text string, r *rule.Rule, env rule.Env) (string, int) {
	var b strings.Builder
	last, n := 0, 0
	for m := range r.Scan(text, core.Range{From: 0, To: len(text)}) {
		if m.Left < last {
			continue
		}
		b.WriteString(text[last:m.Left])
		b.WriteString(r.Render(env, m.Content).String())
		last = m.Right
		n++
	}
	if n == 0 {
		return text, 0
	}
	b.WriteString(text[last:])
	return b.String(), n
}
