package span

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// Defaults describe a double-quoted string with backslash escapes.
const (
	DefaultOpening = `"`
	DefaultClosing = `"`
	DefaultNormal  = `[^"\\]`
	DefaultSpecial = `\\.`

	bodyGroup = "body"
)

// ErrNoMatch is returned when text holds no complete span.
var ErrNoMatch = errors.New("no delimited span found")

// UnescapeFunc maps one matched special sequence to its literal expansion.
type UnescapeFunc func(seq string) string

// Config holds the four sub-pattern fragments, in regexp2 syntax. Normal and
// Special together must cover every character legal inside a body; overlap
// or gaps show up as non-matches or wrong boundaries.
type Config struct {
	Opening string
	Closing string
	Normal  string
	Special string

	// MatchTimeout bounds a single match attempt. Zero means no limit.
	MatchTimeout time.Duration
}

// Option overrides one field of DefaultConfig.
type Option func(*Config)

// WithOpening sets the pattern that starts a span.
func WithOpening(p string) Option {
	return func(c *Config) { c.Opening = p }
}

// WithClosing sets the pattern that ends a span.
func WithClosing(p string) Option {
	return func(c *Config) { c.Closing = p }
}

// WithNormal sets the pattern for one plain body character.
func WithNormal(p string) Option {
	return func(c *Config) { c.Normal = p }
}

// WithSpecial sets the pattern for one escape sequence.
func WithSpecial(p string) Option {
	return func(c *Config) { c.Special = p }
}

// WithMatchTimeout bounds each match attempt.
func WithMatchTimeout(d time.Duration) Option {
	return func(c *Config) { c.MatchTimeout = d }
}

// DefaultConfig returns the double-quoted string configuration.
func DefaultConfig() Config {
	return Config{
		Opening: DefaultOpening,
		Closing: DefaultClosing,
		Normal:  DefaultNormal,
		Special: DefaultSpecial,
	}
}

// Pattern is a compiled span pattern. It is safe for concurrent use.
type Pattern struct {
	cfg     Config
	re      *regexp2.Regexp
	special *regexp2.Regexp
}

// Build compiles
//
//	OPEN (?<body> NORMAL* (SPECIAL NORMAL*)* ) CLOSE
//
// The body consumes each special sequence as a unit, so an escaped delimiter
// never ends the span early.
func Build(opts ...Option) (*Pattern, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	expr := fmt.Sprintf(`(?:%s)(?<%s>(?:%s)*(?:(?:%s)(?:%s)*)*)(?:%s)`,
		cfg.Opening, bodyGroup, cfg.Normal, cfg.Special, cfg.Normal, cfg.Closing)

	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile span pattern: %w", err)
	}
	special, err := regexp2.Compile(cfg.Special, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile special pattern: %w", err)
	}
	if cfg.MatchTimeout > 0 {
		re.MatchTimeout = cfg.MatchTimeout
		special.MatchTimeout = cfg.MatchTimeout
	}

	return &Pattern{cfg: cfg, re: re, special: special}, nil
}

// MustBuild is like Build but panics if a fragment does not compile.
func MustBuild(opts ...Option) *Pattern {
	p, err := Build(opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Config returns the fragments p was built from.
func (p *Pattern) Config() Config {
	return p.cfg
}

// Regexp returns the compiled span expression.
func (p *Pattern) Regexp() *regexp2.Regexp {
	return p.re
}

func (p *Pattern) String() string {
	return p.re.String()
}

// Find returns the body of the first span in text.
func (p *Pattern) Find(text string) (string, error) {
	m, err := p.re.FindStringMatch(text)
	if err != nil {
		return "", fmt.Errorf("match span: %w", err)
	}
	if m == nil {
		return "", ErrNoMatch
	}
	return m.GroupByName(bodyGroup).String(), nil
}

// FindAll returns the bodies of all non-overlapping spans in text.
func (p *Pattern) FindAll(text string) ([]string, error) {
	var bodies []string
	m, err := p.re.FindStringMatch(text)
	for m != nil && err == nil {
		bodies = append(bodies, m.GroupByName(bodyGroup).String())
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("match span: %w", err)
	}
	if len(bodies) == 0 {
		return nil, ErrNoMatch
	}
	return bodies, nil
}

// ExtractAndUnescape finds the first body and replaces each special
// sequence in it, left to right, with fn(sequence). A nil fn leaves the body
// as found.
func (p *Pattern) ExtractAndUnescape(text string, fn UnescapeFunc) (string, error) {
	body, err := p.Find(text)
	if err != nil {
		return "", err
	}
	return p.Unescape(body, fn)
}

// Unescape replaces every special sequence in body with fn(sequence).
func (p *Pattern) Unescape(body string, fn UnescapeFunc) (string, error) {
	if fn == nil {
		return body, nil
	}
	out, err := p.special.ReplaceFunc(body, func(m regexp2.Match) string {
		return fn(m.String())
	}, -1, -1)
	if err != nil {
		return "", fmt.Errorf("unescape body: %w", err)
	}
	return out, nil
}

// ExtractAndUnescape builds a pattern from opts and runs it once.
func ExtractAndUnescape(text string, fn UnescapeFunc, opts ...Option) (string, error) {
	p, err := Build(opts...)
	if err != nil {
		return "", err
	}
	return p.ExtractAndUnescape(text, fn)
}
