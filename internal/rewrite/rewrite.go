package rewrite

import (
	"context"
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
)

var ErrNoConvergence = errors.New("rewrite did not reach a fixed point")

// Transform receives the match context and returns the ENTIRE new text, not
// a replacement fragment. Returning only the replacement discards everything
// outside the match; use m.Splice to keep it.
type Transform func(m *Match) (string, error)

type Rule struct {
	Pattern   *regexp2.Regexp
	Transform Transform
}

// Table is an ordered list of rules. Order is significant: each rule sees
// the text as left by the rules before it.
type Table []Rule

// NewRule compiles pattern with regexp2 options and pairs it with t.
func NewRule(pattern string, opts regexp2.RegexOptions, t Transform) (Rule, error) {
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return Rule{}, fmt.Errorf("compile %q: %w", pattern, err)
	}
	return Rule{Pattern: re, Transform: t}, nil
}

// MustRule is like NewRule but panics on an invalid pattern.
func MustRule(pattern string, t Transform) Rule {
	r, err := NewRule(pattern, regexp2.None, t)
	if err != nil {
		panic(err)
	}
	return r
}

// Once applies every rule of table in order, each at most once, against the
// current text. A rule that does not match leaves the text unchanged. A
// transform error stops the pass and is returned.
func Once(text string, table Table) (string, error) {
	for i, rule := range table {
		m, err := rule.Pattern.FindStringMatch(text)
		if err != nil {
			return "", fmt.Errorf("rule %d: match: %w", i, err)
		}
		if m == nil {
			continue
		}
		text, err = rule.Transform(newMatch(text, m))
		if err != nil {
			return "", fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return text, nil
}

type fixedPointConfig struct {
	ctx           context.Context
	maxIterations int
	onPass        func(pass int, text string)
}

type Option func(*fixedPointConfig)

// WithMaxIterations caps the number of passes; ErrNoConvergence is returned
// when the cap is reached. Zero means unbounded.
func WithMaxIterations(n int) Option {
	return func(c *fixedPointConfig) { c.maxIterations = n }
}

// WithContext stops iterating once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(c *fixedPointConfig) { c.ctx = ctx }
}

// WithPassHook calls fn after each pass with the pass number and its output.
func WithPassHook(fn func(pass int, text string)) Option {
	return func(c *fixedPointConfig) { c.onPass = fn }
}

// ToFixedPoint runs Once on its own output until a pass leaves the text
// unchanged. Termination depends on the table: a transform that always
// changes the text never converges, so untrusted tables need
// WithMaxIterations or WithContext.
func ToFixedPoint(text string, table Table, opts ...Option) (string, error) {
	cfg := fixedPointConfig{ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}

	for pass := 1; ; pass++ {
		if err := cfg.ctx.Err(); err != nil {
			return text, err
		}
		if cfg.maxIterations > 0 && pass > cfg.maxIterations {
			return text, fmt.Errorf("%w after %d passes", ErrNoConvergence, cfg.maxIterations)
		}

		next, err := Once(text, table)
		if err != nil {
			return "", fmt.Errorf("pass %d: %w", pass, err)
		}
		if cfg.onPass != nil {
			cfg.onPass(pass, next)
		}
		if next == text {
			return next, nil
		}
		text = next
	}
}
