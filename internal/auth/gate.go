package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/qasimqz1/ecommerce/pkg/errors"
	"github.com/qasimqz1/ecommerce/pkg/validator"

	"github.com/qasimqz1/ecommerce/internal/store"
)

// GuestMarker is stored when a submission carries no usable email.
const GuestMarker = "guest@local"

// WelcomeMessage is shown once the gate lets the user through.
const WelcomeMessage = "Welcome to QZ Stores!"

// Mode is the tab the user picked in the gate modal.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

// ParseMode maps a request value to a Mode. Empty means login.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLogin:
		return ModeLogin, nil
	case ModeSignup:
		return ModeSignup, nil
	default:
		return "", apperrors.InvalidInput("mode must be one of: login, signup")
	}
}

// Form fields in display order.
const (
	FieldEmail    = "email"
	FieldName     = "name"
	FieldPassword = "password"
)

type rule struct {
	tag      string
	messages map[string]string
}

var rules = map[string]rule{
	FieldEmail: {
		tag: "required,looseemail",
		messages: map[string]string{
			"required":   "Email is required.",
			"looseemail": "Enter a valid email.",
		},
	},
	FieldName: {
		tag: "required,min=2",
		messages: map[string]string{
			"required": "Full name is required.",
			"min":      "Please enter at least 2 characters.",
		},
	},
	FieldPassword: {
		tag: "required,min=6",
		messages: map[string]string{
			"required": "Password is required.",
			"min":      "Password must be at least 6 characters.",
		},
	},
}

// ValidateField checks one field as the user types and returns its error
// message, or "" when the value is acceptable. The name field is only
// checked in signup mode; unknown fields always pass.
func ValidateField(mode Mode, field, value string) string {
	if field == FieldName && mode != ModeSignup {
		return ""
	}
	r, ok := rules[field]
	if !ok {
		return ""
	}
	if err := validator.Var(strings.TrimSpace(value), r.tag); err != nil {
		return r.messages[validator.FailedTag(err)]
	}
	return ""
}

// Credentials is a gate submission. Nothing is checked against a backend.
type Credentials struct {
	Mode     Mode   `json:"mode"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// FieldErrors maps field names to their messages.
type FieldErrors map[string]string

// Outcome is the result of a gate submission.
type Outcome struct {
	Authenticated bool        `json:"authenticated"`
	Errors        FieldErrors `json:"errors,omitempty"`
	// FirstInvalid is the field the UI scrolls to.
	FirstInvalid string `json:"first_invalid,omitempty"`
	Marker       string `json:"marker,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Gate decides whether a profile may use the storefront.
type Gate struct {
	store  store.Store
	logger *slog.Logger
}

// NewGate creates a gate over the un-namespaced store.
func NewGate(s store.Store, logger *slog.Logger) *Gate {
	return &Gate{store: s, logger: logger}
}

// Required reports whether the profile must pass the gate first. A storage
// failure counts as not authenticated.
func (g *Gate) Required(ctx context.Context, profileID string) bool {
	marker, err := store.ForProfile(g.store, profileID).Get(ctx, store.KeyAuthMarker)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			g.logger.WarnContext(ctx, "auth marker read failed",
				slog.String("profile_id", profileID),
				slog.String("error", err.Error()),
			)
		}
		return true
	}
	return marker == ""
}

// Submit validates every visible field and, when all pass, records the
// profile as authenticated. A failed marker write is logged and ignored.
func (g *Gate) Submit(ctx context.Context, profileID string, c Credentials) Outcome {
	fields := []string{FieldEmail, FieldPassword}
	if c.Mode == ModeSignup {
		fields = []string{FieldEmail, FieldName, FieldPassword}
	}
	values := map[string]string{
		FieldEmail:    c.Email,
		FieldName:     c.Name,
		FieldPassword: c.Password,
	}

	var out Outcome
	for _, f := range fields {
		if msg := ValidateField(c.Mode, f, values[f]); msg != "" {
			if out.Errors == nil {
				out.Errors = FieldErrors{}
			}
			out.Errors[f] = msg
			if out.FirstInvalid == "" {
				out.FirstInvalid = f
			}
		}
	}
	if len(out.Errors) > 0 {
		return out
	}

	marker := strings.TrimSpace(c.Email)
	if marker == "" {
		marker = GuestMarker
	}
	if err := store.ForProfile(g.store, profileID).Set(ctx, store.KeyAuthMarker, marker); err != nil {
		g.logger.WarnContext(ctx, "auth marker write failed",
			slog.String("profile_id", profileID),
			slog.String("error", err.Error()),
		)
	}

	g.logger.InfoContext(ctx, "profile authenticated",
		slog.String("profile_id", profileID),
		slog.String("mode", string(c.Mode)),
	)

	out.Authenticated = true
	out.Marker = marker
	out.Message = WelcomeMessage
	return out
}
