// Package tools exposes the editor as MCP tools.
//
// Every handler answers with a JSON text result. Operation failures are
// returned as tool errors carrying {"success":false,"code":...,"error":...};
// the Go error return is reserved for transport problems.
package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/agentic-research/canopy/internal/editor"
	"github.com/agentic-research/canopy/internal/logging"
)

// Name is the MCP server name.
const Name = "canopy"

// Server binds the editor to MCP tool handlers.
type Server struct {
	ed  *editor.Editor
	log *logrus.Entry
}

// New returns a tool server. A nil logger discards.
func New(ed *editor.Editor, log *logrus.Entry) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{ed: ed, log: log}
}

// MCP builds an MCP server with every tool registered.
func (s *Server) MCP(version string) *server.MCPServer {
	m := server.NewMCPServer(Name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	m.AddTools(s.Tools()...)
	return m
}

// ServeStdio serves the tools over stdin/stdout until the input closes.
func (s *Server) ServeStdio(version string) error {
	return server.ServeStdio(s.MCP(version))
}

// Tools returns every tool with its handler.
func (s *Server) Tools() []server.ServerTool {
	tools := s.documentTools()
	tools = append(tools, s.elementTools()...)
	tools = append(tools, s.catalogTools()...)
	tools = append(tools, s.shortcutTools()...)
	for i := range tools {
		tools[i].Handler = s.logged(tools[i].Tool.Name, tools[i].Handler)
	}
	return tools
}

func (s *Server) logged(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		res, err := h(ctx, req)
		entry := s.log.WithFields(logrus.Fields{"tool": name, "elapsed": time.Since(start)})
		switch {
		case err != nil:
			entry.WithError(err).Error("tool call failed")
		case res != nil && res.IsError:
			entry.Info("tool call rejected")
		default:
			entry.Debug("tool call")
		}
		return res, err
	}
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

type failure struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// reply renders v as the JSON text of a successful result, or err as a
// failure result.
func reply(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return failed(err), nil
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func failed(err error) *mcp.CallToolResult {
	f := failure{Code: string(editor.KindOf(err)), Error: err.Error()}
	raw, mErr := json.Marshal(f)
	if mErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(raw))
}

// ---------------------------------------------------------------------------
// Arguments
// ---------------------------------------------------------------------------

var errBadArgument = errors.New("bad argument")

// argError is an InvalidInput failure naming the argument.
func argError(name, format string, args ...any) error {
	return &editor.Error{
		Kind:    editor.KindInvalidInput,
		Subject: name,
		Message: fmt.Sprintf("%s: %s", name, fmt.Sprintf(format, args...)),
		Err:     errBadArgument,
	}
}

func requireString(req mcp.CallToolRequest, name string) (string, error) {
	v, err := req.RequireString(name)
	if err != nil || v == "" {
		return "", argError(name, "required string argument")
	}
	return v, nil
}

// decode re-encodes argument name into dst. Absent arguments leave dst
// untouched.
func decode(req mcp.CallToolRequest, name string, dst any) error {
	v, ok := req.GetArguments()[name]
	if !ok || v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return argError(name, "%v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return argError(name, "%v", err)
	}
	return nil
}

func position(req mcp.CallToolRequest) int {
	return req.GetInt("position", -1)
}
