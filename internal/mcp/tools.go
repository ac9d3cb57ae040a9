package mcp

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/schovi/textkit/internal/escape"
	"github.com/schovi/textkit/internal/hexdump"
	"github.com/schovi/textkit/internal/numeric"
	"github.com/schovi/textkit/internal/rewrite"
	"github.com/schovi/textkit/internal/rules"
	"github.com/schovi/textkit/internal/span"
)

// DefaultMaxIterations bounds the rewrite tool when the caller sets no limit.
const DefaultMaxIterations = 1000

type ToolRegistry struct{}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{}
}

func (r *ToolRegistry) List() []ToolDef {
	return []ToolDef{
		{
			Name:        "parse_number",
			Description: "Parse a numeric token into the narrowest exact kind: integer, rational, float, special (Infinity/NaN) or complex. Accepts 0x/0o/0b prefixes, underscores between digits, fractions like 3/4 and complex forms like 1+2i or 2@1.57.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"token": map[string]interface{}{
						"type":        "string",
						"description": "The token to parse. Surrounding whitespace is not trimmed.",
					},
				},
				"required": []string{"token"},
			},
		},
		{
			Name:        "is_numeric",
			Description: "Report whether each token parses as a number. Results come back in request order, one per token.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"tokens": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Tokens to check",
					},
				},
				"required": []string{"tokens"},
			},
		},
		{
			Name:        "extract_span",
			Description: "Extract the body of a delimited span such as a quoted string. Escape sequences inside the body are matched as units, so an escaped delimiter does not end the span. Patterns use Perl/.NET regex syntax.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text to search",
					},
					"opening": map[string]interface{}{
						"type":        "string",
						"description": `Opening delimiter pattern (default ")`,
					},
					"closing": map[string]interface{}{
						"type":        "string",
						"description": `Closing delimiter pattern (default ")`,
					},
					"normal": map[string]interface{}{
						"type":        "string",
						"description": `Pattern for one plain body character (default [^"\\])`,
					},
					"special": map[string]interface{}{
						"type":        "string",
						"description": `Pattern for one escape sequence (default \\.)`,
					},
					"unescape": map[string]interface{}{
						"type":        "boolean",
						"description": "Interpret backslash escapes in the body",
					},
					"all": map[string]interface{}{
						"type":        "boolean",
						"description": "Return every span instead of the first",
					},
					"match_timeout_ms": map[string]interface{}{
						"type":        "integer",
						"description": "Abort a single match attempt after this many milliseconds",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "rewrite",
			Description: "Rewrite text with an ordered rule table. Each pass applies every rule once, in order. Passes repeat until the text stops changing unless once is set.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text to rewrite",
					},
					"rules": map[string]interface{}{
						"type":        "array",
						"description": "Rules in application order",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"pattern": map[string]interface{}{"type": "string"},
								"flags":   map[string]interface{}{"type": "string", "description": "Any of i m s x n"},
								"action": map[string]interface{}{
									"type": "string",
									"enum": []string{
										rules.ActionReplace, rules.ActionSplice, rules.ActionTemplate,
										rules.ActionUpper, rules.ActionLower, rules.ActionTitle,
										rules.ActionStripANSI, rules.ActionUnescape,
									},
								},
								"value": map[string]interface{}{"type": "string"},
								"lang":  map[string]interface{}{"type": "string", "description": "BCP 47 tag for case actions"},
							},
							"required": []string{"pattern"},
						},
					},
					"once": map[string]interface{}{
						"type":        "boolean",
						"description": "Run a single pass",
					},
					"max_iterations": map[string]interface{}{
						"type":        "integer",
						"description": fmt.Sprintf("Give up after N passes (default %d)", DefaultMaxIterations),
					},
				},
				"required": []string{"text", "rules"},
			},
		},
		{
			Name:        "unhexdump",
			Description: "Decode hex digits (whitespace ignored) into bytes. The result is returned base64 encoded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Hex digits, optionally separated by spaces, tabs or newlines",
					},
				},
				"required": []string{"hex"},
			},
		},
	}
}

func (r *ToolRegistry) Call(name string, args json.RawMessage) (*CallToolResult, error) {
	switch name {
	case "parse_number":
		return r.callParseNumber(args)
	case "is_numeric":
		return r.callIsNumeric(args)
	case "extract_span":
		return r.callExtractSpan(args)
	case "rewrite":
		return r.callRewrite(args)
	case "unhexdump":
		return r.callUnhexdump(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

type ParseNumberArgs struct {
	Token *string `json:"token"`
}

func (r *ToolRegistry) callParseNumber(args json.RawMessage) (*CallToolResult, error) {
	var a ParseNumberArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Token == nil {
		return nil, fmt.Errorf("token is required")
	}

	v, err := numeric.Parse(*a.Token)
	if err != nil {
		return nil, err
	}
	return jsonResult(v)
}

type IsNumericArgs struct {
	Tokens []string `json:"tokens"`
}

// NumericCheck is one is_numeric answer, reported in request order.
type NumericCheck struct {
	Token   string `json:"token"`
	Numeric bool   `json:"numeric"`
}

func (r *ToolRegistry) callIsNumeric(args json.RawMessage) (*CallToolResult, error) {
	var a IsNumericArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Tokens) == 0 {
		return nil, fmt.Errorf("tokens is required")
	}

	results := make([]NumericCheck, 0, len(a.Tokens))
	for _, tok := range a.Tokens {
		results = append(results, NumericCheck{Token: tok, Numeric: numeric.IsNumeric(tok)})
	}
	return jsonResult(results)
}

type ExtractSpanArgs struct {
	Text           string `json:"text"`
	Opening        string `json:"opening,omitempty"`
	Closing        string `json:"closing,omitempty"`
	Normal         string `json:"normal,omitempty"`
	Special        string `json:"special,omitempty"`
	Unescape       bool   `json:"unescape,omitempty"`
	All            bool   `json:"all,omitempty"`
	MatchTimeoutMs int    `json:"match_timeout_ms,omitempty"`
}

func (a ExtractSpanArgs) options() []span.Option {
	var opts []span.Option
	if a.Opening != "" {
		opts = append(opts, span.WithOpening(a.Opening))
	}
	if a.Closing != "" {
		opts = append(opts, span.WithClosing(a.Closing))
	}
	if a.Normal != "" {
		opts = append(opts, span.WithNormal(a.Normal))
	}
	if a.Special != "" {
		opts = append(opts, span.WithSpecial(a.Special))
	}
	if a.MatchTimeoutMs > 0 {
		opts = append(opts, span.WithMatchTimeout(time.Duration(a.MatchTimeoutMs)*time.Millisecond))
	}
	return opts
}

func (r *ToolRegistry) callExtractSpan(args json.RawMessage) (*CallToolResult, error) {
	var a ExtractSpanArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MatchTimeoutMs < 0 {
		return nil, fmt.Errorf("match_timeout_ms must be non-negative")
	}

	p, err := span.Build(a.options()...)
	if err != nil {
		return nil, err
	}

	var bodies []string
	if a.All {
		bodies, err = p.FindAll(a.Text)
	} else {
		var body string
		body, err = p.Find(a.Text)
		bodies = []string{body}
	}
	if errors.Is(err, span.ErrNoMatch) {
		return nil, fmt.Errorf("no span matching %s", p)
	}
	if err != nil {
		return nil, err
	}

	if a.Unescape {
		for i, body := range bodies {
			if bodies[i], err = p.Unescape(body, escape.Sequence); err != nil {
				return nil, err
			}
		}
	}

	return jsonResult(map[string]interface{}{
		"pattern": p.String(),
		"bodies":  bodies,
	})
}

type RewriteArgs struct {
	Text          string       `json:"text"`
	Rules         []rules.Spec `json:"rules"`
	Once          bool         `json:"once,omitempty"`
	MaxIterations int          `json:"max_iterations,omitempty"`
}

func (r *ToolRegistry) callRewrite(args json.RawMessage) (*CallToolResult, error) {
	var a RewriteArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Rules) == 0 {
		return nil, fmt.Errorf("rules is required")
	}
	if a.MaxIterations < 0 {
		return nil, fmt.Errorf("max_iterations must be non-negative")
	}

	table, err := rules.Compile(a.Rules)
	if err != nil {
		return nil, err
	}

	if a.Once {
		out, err := rewrite.Once(a.Text, table)
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]interface{}{"output": out, "passes": 1})
	}

	maxIter := a.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}
	passes := 0
	out, err := rewrite.ToFixedPoint(a.Text, table,
		rewrite.WithMaxIterations(maxIter),
		rewrite.WithPassHook(func(pass int, _ string) { passes = pass }),
	)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]interface{}{"output": out, "passes": passes})
}

type UnhexdumpArgs struct {
	Hex string `json:"hex"`
}

func (r *ToolRegistry) callUnhexdump(args json.RawMessage) (*CallToolResult, error) {
	var a UnhexdumpArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	data, err := hexdump.Decode(a.Hex)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]interface{}{
		"bytes":  len(data),
		"base64": base64.StdEncoding.EncodeToString(data),
	})
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func jsonResult(v interface{}) (*CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(data)}},
	}, nil
}
