// Package mcp implements a Model Context Protocol (MCP) server that exposes
// tag and card sheet generation as tools and resources for AI assistants.
//
// The server communicates via JSON-RPC 2.0 over stdio and implements the
// MCP protocol revision 2024-11-05 for tools and resources.
//
// # Usage with Claude Desktop
//
// Add to your claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "tagsheet": {
//	      "command": "tagsheet-mcp"
//	    }
//	  }
//	}
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// maxMessage bounds a single newline-delimited message.
const maxMessage = 10 << 20

type method func(params json.RawMessage) (interface{}, *jsonrpcError)

// Server answers MCP requests read line by line from its input.
type Server struct {
	name      string
	version   string
	tools     map[string]Tool
	resources map[string]Resource
	methods   map[string]method

	input  io.Reader
	output io.Writer
	log    *zap.Logger

	// serialises writes to output
	mu sync.Mutex
}

// NewServer returns a server on stdin and stdout. A nil logger discards
// log output.
func NewServer(log *zap.Logger) *Server {
	return NewServerWithIO(os.Stdin, os.Stdout, log)
}

// NewServerWithIO returns a server on the given streams.
func NewServerWithIO(in io.Reader, out io.Writer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		name:      "tagsheet-mcp",
		version:   "1.0.0",
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		input:     in,
		output:    out,
		log:       log,
	}
	s.methods = map[string]method{
		"initialize":     s.initialize,
		"ping":           func(json.RawMessage) (interface{}, *jsonrpcError) { return struct{}{}, nil },
		"tools/list":     s.listTools,
		"tools/call":     s.callTool,
		"resources/list": s.listResources,
		"resources/read": s.readResource,
	}
	return s
}

// SetVersion sets the version reported by initialize.
func (s *Server) SetVersion(v string) { s.version = v }

// AddTool registers t, replacing any tool of the same name.
func (s *Server) AddTool(t Tool) { s.tools[t.Name] = t }

// AddResource registers r, replacing any resource with the same URI.
func (s *Server) AddResource(r Resource) { s.resources[r.URI] = r }

// Run serves requests until the input ends.
func (s *Server) Run() error {
	in := bufio.NewScanner(s.input)
	in.Buffer(make([]byte, 0, 64<<10), maxMessage)
	for in.Scan() {
		if len(in.Bytes()) == 0 {
			continue
		}
		if resp, ok := s.handle(in.Bytes()); ok {
			s.write(resp)
		}
	}
	return in.Err()
}

// handle decodes one message and reports whether it needs an answer.
func (s *Server) handle(msg []byte) (jsonrpcResponse, bool) {
	resp := jsonrpcResponse{JSONRPC: "2.0"}

	var req jsonrpcRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		s.log.Warn("discarding malformed message", zap.Error(err))
		resp.Error = newError(codeParseError, "Parse error", err.Error())
		return resp, true
	}
	s.log.Debug("request", zap.String("method", req.Method), zap.Bool("notification", req.isNotification()))
	if req.isNotification() {
		return resp, false
	}

	resp.ID = req.ID
	m, ok := s.methods[req.Method]
	if !ok {
		resp.Error = newError(codeMethodNotFound, "Method not found", req.Method)
		return resp, true
	}
	resp.Result, resp.Error = m(req.Params)
	return resp, true
}

func (s *Server) write(resp jsonrpcResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("encoding response", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.output.Write(append(data, '\n')); err != nil {
		s.log.Error("writing response", zap.Error(err))
	}
}

func (s *Server) initialize(json.RawMessage) (interface{}, *jsonrpcError) {
	type info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	return map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools":     struct{}{},
			"resources": struct{}{},
		},
		"serverInfo": info{Name: s.name, Version: s.version},
	}, nil
}

func (s *Server) listTools(json.RawMessage) (interface{}, *jsonrpcError) {
	tools := make([]Tool, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return map[string]interface{}{"tools": tools}, nil
}

func (s *Server) callTool(params json.RawMessage) (interface{}, *jsonrpcError) {
	var call struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if rpcErr := decodeParams(params, &call); rpcErr != nil {
		return nil, rpcErr
	}
	tool, ok := s.tools[call.Name]
	if !ok {
		return nil, newError(codeInvalidParams, "Unknown tool", call.Name)
	}
	if call.Arguments == nil {
		call.Arguments = map[string]interface{}{}
	}

	result, err := tool.Handler(call.Arguments)
	if err != nil {
		s.log.Info("tool failed", zap.String("tool", call.Name), zap.Error(err))
		result = textResult(fmt.Sprintf("Error: %v", err))
		result.IsError = true
	}
	return result, nil
}

func (s *Server) listResources(json.RawMessage) (interface{}, *jsonrpcError) {
	resources := make([]Resource, 0, len(s.resources))
	for _, r := range s.resources {
		resources = append(resources, r)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].URI < resources[j].URI })
	return map[string]interface{}{"resources": resources}, nil
}

func (s *Server) readResource(params json.RawMessage) (interface{}, *jsonrpcError) {
	var read struct {
		URI string `json:"uri"`
	}
	if rpcErr := decodeParams(params, &read); rpcErr != nil {
		return nil, rpcErr
	}
	r, ok := s.resources[read.URI]
	if !ok {
		return nil, newError(codeInvalidParams, "Unknown resource", read.URI)
	}
	contents, err := r.Handler(read.URI)
	if err != nil {
		return nil, newError(codeInternalError, "Resource error", err.Error())
	}
	return map[string]interface{}{"contents": contents}, nil
}
