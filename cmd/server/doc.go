// Package main is the entry point for the code execution service.
//
// The server accepts source code in Python, JavaScript, Go or C++, installs
// the third-party packages the code imports, and runs it in a resource-limited
// Docker container with a wall-clock deadline. Results are served over HTTP
// (POST /execute) and, when enabled, as an MCP tool.
//
// The application uses Uber's fx framework for dependency injection and lifecycle
// management, with zap for structured logging and viper for configuration.
// Container images are provisioned before the server accepts requests; a
// provisioning failure aborts startup.
package main
