package middleware

import (
	"net/http"
	"strings"

	"github.com/qasimqz1/ecommerce/pkg/httputil"
	"github.com/qasimqz1/ecommerce/pkg/logger"
	"github.com/qasimqz1/ecommerce/pkg/validator"
)

// ProfileHeader carries the browser profile a request acts for.
const ProfileHeader = "X-Profile-ID"

// profileIDTag keeps profile ids usable as a storage key segment.
const profileIDTag = "required,max=64,profileid"

// Profile requires a well-formed X-Profile-ID header and stores it in the
// request context, where logger.WithContext and ProfileID pick it up.
func Profile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(ProfileHeader))
		if err := validator.Var(id, profileIDTag); err != nil {
			writeProfileError(w, id)
			return
		}

		ctx := logger.WithProfileID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ProfileID returns the profile id stored by Profile, or "".
func ProfileID(r *http.Request) string {
	return logger.ProfileIDFromContext(r.Context())
}

func writeProfileError(w http.ResponseWriter, id string) {
	message := "missing " + ProfileHeader + " header"
	if id != "" {
		message = "malformed " + ProfileHeader + " header"
	}
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: message},
	})
}
