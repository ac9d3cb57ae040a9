package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/schovi/textkit/internal/escape"
	"github.com/schovi/textkit/internal/rewrite"
	"github.com/schovi/textkit/internal/term"
)

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

const (
	ActionReplace   = "replace"
	ActionSplice    = "splice"
	ActionTemplate  = "template"
	ActionUpper     = "upper"
	ActionLower     = "lower"
	ActionTitle     = "title"
	ActionStripANSI = "strip-ansi"
	ActionUnescape  = "unescape"
)

// Spec is one rule as written in a rule file.
type Spec struct {
	Pattern string `yaml:"pattern" toml:"pattern" json:"pattern"`
	Flags   string `yaml:"flags,omitempty" toml:"flags" json:"flags,omitempty"`
	Action  string `yaml:"action,omitempty" toml:"action" json:"action,omitempty"`
	Value   string `yaml:"value,omitempty" toml:"value" json:"value,omitempty"`
	Lang    string `yaml:"lang,omitempty" toml:"lang" json:"lang,omitempty"`
}

type File struct {
	Rules []Spec `yaml:"rules" toml:"rules" json:"rules"`
}

// DetectFormat picks the format from the file extension; anything that is
// not .yaml or .yml is read as TOML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads a rule file and compiles it into a rewrite table.
func Load(path string) (rewrite.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	table, err := Parse(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func Parse(data []byte, format Format) (rewrite.Table, error) {
	var f File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	}
	return Compile(f.Rules)
}

// Compile turns specs into a table, keeping their order.
func Compile(specs []Spec) (rewrite.Table, error) {
	table := make(rewrite.Table, 0, len(specs))
	for i, spec := range specs {
		rule, err := compileSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		table = append(table, rule)
	}
	return table, nil
}

func compileSpec(spec Spec) (rewrite.Rule, error) {
	if spec.Pattern == "" {
		return rewrite.Rule{}, fmt.Errorf("pattern is required")
	}
	opts, err := parseFlags(spec.Flags)
	if err != nil {
		return rewrite.Rule{}, err
	}
	t, err := transformFor(spec)
	if err != nil {
		return rewrite.Rule{}, err
	}
	return rewrite.NewRule(spec.Pattern, opts, t)
}

func parseFlags(flags string) (regexp2.RegexOptions, error) {
	opts := regexp2.None
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		case 'n':
			opts |= regexp2.ExplicitCapture
		default:
			return opts, fmt.Errorf("unknown flag %q", f)
		}
	}
	return opts, nil
}

func transformFor(spec Spec) (rewrite.Transform, error) {
	switch spec.Action {
	case ActionReplace:
		return rewrite.Replace(spec.Value), nil
	case ActionSplice:
		return rewrite.Splice(spec.Value), nil
	case ActionTemplate, "":
		return rewrite.Template(spec.Value), nil
	case ActionUpper, ActionLower, ActionTitle:
		tag, err := language.Parse(orDefault(spec.Lang, "und"))
		if err != nil {
			return nil, fmt.Errorf("lang %q: %w", spec.Lang, err)
		}
		return caseTransform(spec.Action, tag), nil
	case ActionStripANSI:
		return rewrite.SpliceFunc(func(s string) string {
			return term.Strip(s, term.DefaultCols)
		}), nil
	case ActionUnescape:
		return func(m *rewrite.Match) (string, error) {
			s, err := escape.Interpret(m.Text)
			if err != nil {
				return "", err
			}
			return m.Splice(s), nil
		}, nil
	}
	return nil, fmt.Errorf("unknown action %q", spec.Action)
}

// caseTransform builds a fresh Caser per call; a Caser is not safe for
// concurrent use.
func caseTransform(action string, tag language.Tag) rewrite.Transform {
	return rewrite.SpliceFunc(func(s string) string {
		switch action {
		case ActionUpper:
			return cases.Upper(tag).String(s)
		case ActionLower:
			return cases.Lower(tag).String(s)
		default:
			return cases.Title(tag).String(s)
		}
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
