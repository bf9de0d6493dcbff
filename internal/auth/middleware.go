package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const subjectKey ctxKey = "subject"

// SubjectFromContext returns the authenticated user's email, as placed
// there by RequireAuth.
func SubjectFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(subjectKey)
	s, ok := v.(string)
	return s, ok
}

// ResolveBearer extracts and verifies the token from an Authorization
// header value. Absent header, wrong scheme and an invalid token all
// come back as ErrUnauthenticated.
func ResolveBearer(header string, jwtSvc *JWT) (string, error) {
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", ErrUnauthenticated
	}
	sub, err := jwtSvc.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return "", ErrUnauthenticated
	}
	return sub, nil
}

func RequireAuth(jwtSvc *JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, err := ResolveBearer(r.Header.Get("Authorization"), jwtSvc)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Not authenticated"}`))
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
