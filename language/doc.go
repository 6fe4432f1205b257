// Package language describes the runtimes the service can execute.
//
// Each supported language is an execution Profile: the container image it
// runs in, the file name the submitted source is written to, the command
// that runs it, and a Toolchain. The Toolchain is the per-language strategy
// that scans raw source text for third-party dependencies and turns them
// into a best-effort install script for the runtime's package manager.
//
// Usage:
//
//	registry, err := language.NewRegistry(nil, nil)
//	profile, err := registry.Resolve("py")
//	deps := profile.Toolchain.ExtractDependencies(code)
//	script := profile.Toolchain.InstallScript(deps)
package language
