package http

import (
	"log/slog"
	"net/http"

	"github.com/qasimqz1/ecommerce/pkg/httputil"
	"github.com/qasimqz1/ecommerce/pkg/middleware"
	"github.com/qasimqz1/ecommerce/pkg/validator"

	"github.com/qasimqz1/ecommerce/internal/contact"
	"github.com/qasimqz1/ecommerce/internal/storefront"
)

// ContactHandler serves the contact form.
type ContactHandler struct {
	manager *storefront.Manager
	logger  *slog.Logger
}

// NewContactHandler creates a new contact form HTTP handler.
func NewContactHandler(manager *storefront.Manager, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{manager: manager, logger: logger}
}

// --- Request DTOs ---

// SubmitContactRequest is the form plus the optional page session whose
// notification feed shows the outcome.
type SubmitContactRequest struct {
	contact.Form
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
}

// ValidateContactFieldRequest asks for the live state of one field.
type ValidateContactFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=name email phone subject message"`
	Value string `json:"value"`
}

// --- Handlers ---

// Submit handles POST /api/v1/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitContactRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	var notifier contact.Notifier
	if req.SessionID != "" {
		sess, err := h.manager.Get(req.SessionID)
		if err != nil || sess.ProfileID != middleware.ProfileID(r) {
			h.logger.WarnContext(r.Context(), "contact form session not found",
				slog.String("session_id", req.SessionID),
			)
		} else {
			notifier = sess.Feed()
		}
	}

	sub := contact.Submit(req.Form, notifier)
	if !sub.Valid {
		fields := make(map[string]string, len(sub.Fields))
		for name, fs := range sub.Fields {
			if !fs.OK() {
				fields[name] = fs.Message
			}
		}
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Data: sub,
			Error: &httputil.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: sub.Message,
				Fields:  fields,
			},
		})
		return
	}

	h.logger.InfoContext(r.Context(), "contact form accepted")
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sub})
}

// Validate handles POST /api/v1/contact/validate
func (h *ContactHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateContactFieldRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: contact.ValidateField(req.Field, req.Value)})
}
