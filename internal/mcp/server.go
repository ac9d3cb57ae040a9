package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
)

// ProtocolVersion is the newest MCP revision the server speaks.
const ProtocolVersion = "2025-06-18"

const ServerName = "textkit"

var supportedVersions = []string{ProtocolVersion, "2025-03-26", "2024-11-05"}

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// isNotification reports a request that must not be answered.
func (r *Request) isNotification() bool {
	return r.ID == nil
}

type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.Data == "" {
		return e.Message
	}
	return e.Message + ": " + e.Data
}

type InitializeParams struct {
	ProtocolVersion string `json:"protocolVersion"`
	ClientInfo      struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"clientInfo"`
}

type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
	Instructions string `json:"instructions,omitempty"`
}

type ToolsListResult struct {
	Tools []ToolDef `json:"tools"`
}

type ToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type CallToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type method func(params json.RawMessage) (any, *Error)

// Server answers MCP requests, one JSON object per line, read from r and
// written to w. Tool failures are reported as isError results; only
// malformed requests produce JSON-RPC errors.
type Server struct {
	tools   *ToolRegistry
	version string
	methods map[string]method

	in  *bufio.Reader
	mu  sync.Mutex
	enc *json.Encoder
}

func NewServer(tools *ToolRegistry, version string, r io.Reader, w io.Writer) *Server {
	s := &Server{
		tools:   tools,
		version: version,
		in:      bufio.NewReader(r),
		enc:     json.NewEncoder(w),
	}
	s.methods = map[string]method{
		"initialize": s.initialize,
		"ping":       func(json.RawMessage) (any, *Error) { return struct{}{}, nil },
		"tools/list": func(json.RawMessage) (any, *Error) { return ToolsListResult{Tools: tools.List()}, nil },
		"tools/call": s.callTool,
	}
	return s
}

// Run serves until r is exhausted.
func (s *Server) Run() error {
	for {
		line, err := s.in.ReadBytes('\n')
		if len(line) > 0 {
			s.serveLine(line)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read request: %w", err)
		}
	}
}

func (s *Server) serveLine(line []byte) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.reply(nil, nil, &Error{Code: codeParseError, Message: "Parse error", Data: err.Error()})
		return
	}
	if req.Method == "" {
		if !req.isNotification() {
			s.reply(req.ID, nil, &Error{Code: codeInvalidRequest, Message: "Invalid request", Data: "method is required"})
		}
		return
	}

	m, ok := s.methods[req.Method]
	if !ok {
		// Unknown notifications, notifications/initialized included, need no reply.
		if !req.isNotification() {
			s.reply(req.ID, nil, &Error{Code: codeMethodNotFound, Message: "Method not found", Data: req.Method})
		}
		return
	}

	result, rpcErr := m(req.Params)
	if req.isNotification() {
		return
	}
	s.reply(req.ID, result, rpcErr)
}

func (s *Server) initialize(params json.RawMessage) (any, *Error) {
	var p InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &Error{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
		}
	}

	result := InitializeResult{
		ProtocolVersion: negotiate(p.ProtocolVersion),
		Capabilities:    map[string]any{"tools": map[string]any{}},
		Instructions:    "Text utilities: numeric token parsing, escape-aware span extraction and rule-table rewriting.",
	}
	result.ServerInfo.Name = ServerName
	result.ServerInfo.Version = s.version
	return result, nil
}

// negotiate echoes the client's revision when it is one we speak and offers
// ours otherwise.
func negotiate(requested string) string {
	if slices.Contains(supportedVersions, requested) {
		return requested
	}
	return ProtocolVersion
}

func (s *Server) callTool(params json.RawMessage) (any, *Error) {
	var p CallToolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
	}
	if p.Name == "" {
		return nil, &Error{Code: codeInvalidParams, Message: "Invalid params", Data: "tool name is required"}
	}

	result, err := s.tools.Call(p.Name, p.Arguments)
	if err != nil {
		return CallToolResult{
			Content: []ContentBlock{{Type: "text", Text: err.Error()}},
			IsError: true,
		}, nil
	}
	return result, nil
}

func (s *Server) reply(id any, result any, rpcErr *Error) {
	resp := Response{JSONRPC: "2.0", ID: id, Error: rpcErr}
	if rpcErr == nil {
		resp.Result = result
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.enc.Encode(resp) //nolint:errcheck
}
