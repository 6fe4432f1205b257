package httpserver

import "github.com/isdmx/codeexec/sandbox"

// ExecuteRequest is the body of POST /execute.
type ExecuteRequest struct {
	Language string  `json:"language"`
	Version  string  `json:"version,omitempty"`
	Code     *string `json:"code"`
}

// ExecuteResponse is the body of a successful POST /execute.
type ExecuteResponse = sandbox.Result

// ErrorResponse is returned with every 4xx status.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is returned by GET /.
type MessageResponse struct {
	Message string `json:"message"`
}

// LanguageInfo describes one supported language.
type LanguageInfo struct {
	Language string   `json:"language"`
	Aliases  []string `json:"aliases"`
	Image    string   `json:"image"`
}
