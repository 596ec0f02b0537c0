package http

import (
	"log/slog"
	"net/http"

	"github.com/qasimqz1/ecommerce/pkg/httputil"
	"github.com/qasimqz1/ecommerce/pkg/middleware"
	"github.com/qasimqz1/ecommerce/pkg/validator"

	"github.com/qasimqz1/ecommerce/internal/auth"
)

// AuthHandler serves the auth gate.
type AuthHandler struct {
	gate   *auth.Gate
	logger *slog.Logger
}

// NewAuthHandler creates a new auth gate HTTP handler.
func NewAuthHandler(gate *auth.Gate, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{gate: gate, logger: logger}
}

// --- Request DTOs ---

// SubmitAuthRequest is the JSON body of a login or signup attempt.
type SubmitAuthRequest struct {
	Mode     string `json:"mode"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ValidateAuthFieldRequest asks for the live message of one field.
type ValidateAuthFieldRequest struct {
	Mode  string `json:"mode"`
	Field string `json:"field" validate:"required,oneof=email name password"`
	Value string `json:"value"`
}

// FieldCheck is the live validation answer for a single field.
type FieldCheck struct {
	Field   string `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// GateStatus reports whether the profile still has to pass the gate.
type GateStatus struct {
	Required bool `json:"required"`
}

// --- Handlers ---

// Status handles GET /api/v1/auth
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	required := h.gate.Required(r.Context(), middleware.ProfileID(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: GateStatus{Required: required}})
}

// Submit handles POST /api/v1/auth
func (h *AuthHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitAuthRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	mode, err := auth.ParseMode(req.Mode)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := h.gate.Submit(r.Context(), middleware.ProfileID(r), auth.Credentials{
		Mode:     mode,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if !out.Authenticated {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Data: out,
			Error: &httputil.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "please correct the highlighted fields",
				Fields:  out.Errors,
			},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// Validate handles POST /api/v1/auth/validate
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateAuthFieldRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	mode, err := auth.ParseMode(req.Mode)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	msg := auth.ValidateField(mode, req.Field, req.Value)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: FieldCheck{Field: req.Field, Valid: msg == "", Message: msg},
	})
}
