// Package config provides application configuration management.
//
// The config package handles loading and validation of the application's
// configuration from YAML files and CODEEXEC_* environment variables. It
// covers the HTTP API, the optional MCP server, sandbox limits, logging, and
// per-language image overrides.
//
// Usage:
//
//	cfg, err := config.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Listening on: %d\n", cfg.Server.HTTPPort)
package config
