// Package sandbox provides secure code execution capabilities.
//
// The sandbox package implements the execution engine for running untrusted
// code in isolated Docker containers. An execution moves through a fixed
// sequence of states:
//
//	CREATED -> WORKSPACE_READY -> CONTAINER_STARTED -> COMPLETED | TIMED_OUT | CRASHED -> REAPED
//
// Every execution owns exactly one workspace directory and at most one
// container, and both are released on every exit path. Failures other than
// an unsupported language are reported as a Result with ExitCode -1 rather
// than as an error.
//
// Images are provisioned once at startup by NewImageCache; the resulting
// cache is handed to the Orchestrator and never changes afterwards.
//
// Usage:
//
//	cache, err := sandbox.NewImageCache(ctx, cli, registry.Images(), logger)
//	orch := sandbox.NewOrchestrator(logger, sandbox.DefaultConfig(), cli, cache)
//	svc := sandbox.NewService(logger, registry, orch)
//	result, err := svc.Execute(ctx, sandbox.ExecuteRequest{
//	    Language: "python",
//	    Code:     "print('Hello, World!')",
//	})
package sandbox
