package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/isdmx/codeexec/config"
	"github.com/isdmx/codeexec/language"
	"github.com/isdmx/codeexec/sandbox"
)

// ToolName is the name of the only tool the server exposes.
const ToolName = "execute_code"

// MCPServer represents the MCP server
type MCPServer struct {
	config      *config.Config
	logger      *zap.Logger
	sandboxExec sandbox.SandboxExecutor
	mcpServer   *server.MCPServer
	httpServer  *http.Server
	httpDone    chan struct{}
	listenAddr  string
	cancelStdio context.CancelFunc
}

// New creates a new MCPServer
func New(cfg *config.Config, logger *zap.Logger, sandboxExec sandbox.SandboxExecutor, registry *language.Registry) *MCPServer {
	s := &MCPServer{
		config:      cfg,
		logger:      logger.Named("mcp"),
		sandboxExec: sandboxExec,
		mcpServer:   server.NewMCPServer("codeexec", "1.0.0", server.WithToolCapabilities(false)),
	}

	s.mcpServer.AddTool(executeCodeTool(registry.Aliases()), s.handleExecuteCode)
	return s
}

func executeCodeTool(aliases []string) mcp.Tool {
	return mcp.Tool{
		Name:        ToolName,
		Description: "Run source code in an isolated container, installing its third-party imports first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Source code to run",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Language name or alias",
					"enum":        aliases,
				},
				"version": map[string]any{
					"type":        "string",
					"description": "Informational runtime version (optional)",
				},
			},
			Required: []string{"code", "language"},
		},
	}
}

func (s *MCPServer) handleExecuteCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return nil, fmt.Errorf("code parameter is required: %w", err)
	}

	lang, err := request.RequireString("language")
	if err != nil {
		return nil, fmt.Errorf("language parameter is required: %w", err)
	}

	result, err := s.sandboxExec.Execute(ctx, sandbox.ExecuteRequest{
		Language: lang,
		Version:  request.GetString("version", sandbox.DefaultVersion),
		Code:     code,
	})
	if err != nil {
		text := fmt.Sprintf("Execution failed: %v", err)
		if errors.Is(err, language.ErrUnsupportedLanguage) {
			text = "Unsupported language: " + lang
		}
		s.logger.Warn("tool call rejected", zap.String("language", lang), zap.Error(err))
		return mcp.NewToolResultError(text), nil
	}

	s.logger.Info("code execution completed",
		zap.String("language", lang),
		zap.Int("exit_code", result.ExitCode),
		zap.Int("stdout_len", len(result.Stdout)),
		zap.Int("stderr_len", len(result.Stderr)))

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(resultJSON),
			},
		},
		IsError: result.Error != "",
	}, nil
}

// Start serves the configured transport in the background.
func (s *MCPServer) Start(_ context.Context) error {
	switch strings.ToLower(s.config.MCP.Transport) {
	case "stdio":
		ctx, cancel := context.WithCancel(context.Background())
		s.cancelStdio = cancel
		s.logger.Info("starting MCP server on stdio")
		go func() {
			if err := server.NewStdioServer(s.mcpServer).Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("MCP stdio server stopped", zap.Error(err))
			}
		}()
	case "http":
		// Bind here so a busy port fails startup instead of a background goroutine.
		addr := fmt.Sprintf(":%d", s.config.MCP.HTTPPort)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		s.listenAddr = ln.Addr().String()
		s.httpServer = &http.Server{
			Handler:           server.NewStreamableHTTPServer(s.mcpServer),
			ReadHeaderTimeout: 5 * time.Second,
		}
		s.httpDone = make(chan struct{})
		s.logger.Info("starting MCP server on HTTP", zap.String("addr", s.listenAddr))
		go func() {
			defer close(s.httpDone)
			if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("MCP HTTP server stopped", zap.Error(err))
			}
		}()
	default:
		return fmt.Errorf("unsupported mcp transport: %s", s.config.MCP.Transport)
	}
	return nil
}

// Stop shuts the transport down.
func (s *MCPServer) Stop(ctx context.Context) error {
	if s.cancelStdio != nil {
		s.cancelStdio()
	}
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	<-s.httpDone
	return nil
}

// GetMCPServer returns the underlying MCP server
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
