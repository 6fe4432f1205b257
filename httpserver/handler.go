package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/isdmx/codeexec/language"
	"github.com/isdmx/codeexec/sandbox"
)

// RootMessage is the body of GET /.
const RootMessage = "Code Execution API is running"

// Handler serves the execution API.
type Handler struct {
	logger   *zap.Logger
	executor sandbox.SandboxExecutor
	registry *language.Registry
}

// NewHandler creates a new Handler
func NewHandler(logger *zap.Logger, executor sandbox.SandboxExecutor, registry *language.Registry) *Handler {
	return &Handler{
		logger:   logger,
		executor: executor,
		registry: registry,
	}
}

// Root reports that the API is up.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	h.sendJSON(w, MessageResponse{Message: RootMessage}, http.StatusOK)
}

// Health is a plain-text liveness probe.
func (*Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Languages lists the supported languages.
func (h *Handler) Languages(w http.ResponseWriter, _ *http.Request) {
	profiles := h.registry.Profiles()
	response := make([]LanguageInfo, len(profiles))
	for i, p := range profiles {
		response[i] = LanguageInfo{
			Language: string(p.Language),
			Aliases:  p.Aliases,
			Image:    p.Image,
		}
	}
	h.sendJSON(w, response, http.StatusOK)
}

// Execute runs the submitted code. Sandbox failures still produce a 200
// with a populated error field; only bad input is rejected.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	var request ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			sendError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(request.Language) == "" {
		sendError(w, "language is required", http.StatusBadRequest)
		return
	}
	if request.Code == nil {
		sendError(w, "code is required", http.StatusBadRequest)
		return
	}

	result, err := h.executor.Execute(r.Context(), sandbox.ExecuteRequest{
		Language: request.Language,
		Version:  request.Version,
		Code:     *request.Code,
	})
	if err != nil {
		if errors.Is(err, language.ErrUnsupportedLanguage) {
			sendError(w, "Unsupported language: "+request.Language, http.StatusBadRequest)
			return
		}
		h.logger.Error("execution failed", zap.Error(err))
		sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, result, http.StatusOK)
}

func (h *Handler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

func sendError(w http.ResponseWriter, detail string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: detail})
}
