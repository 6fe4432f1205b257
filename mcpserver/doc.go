// Package mcpserver provides the Model Context Protocol (MCP) server implementation.
//
// The mcpserver package exposes the execution service as the execute_code
// tool using the mark3labs/mcp-go library. The tool result is the same JSON
// document POST /execute returns.
//
// The server supports both stdio and HTTP transports as configured by the
// mcp section of the application configuration.
//
// Usage:
//
//	srv := mcpserver.New(cfg, logger, executor, registry)
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Stop(ctx)
package mcpserver
