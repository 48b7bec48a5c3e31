// internal/infrastructure/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/damon-houk/card-transaction-service/internal/infrastructure/logger"
	"github.com/golang-jwt/jwt/v5"
)

// unauthorizedBody mirrors the error half of the API response envelope
type unauthorizedBody struct {
	Errors []string `json:"erros"`
}

// AuthMiddleware requires a valid HS256 bearer token signed with secret.
// The token subject is stored in the request context.
func AuthMiddleware(secret []byte, log logger.Logger) func(http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				rejectUnauthorized(w, log, "Authorization header with a bearer token is required")
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil || !token.Valid {
				log.Warn("Rejected bearer token", map[string]interface{}{
					"request_id": GetRequestID(r.Context()),
					"error":      errString(err),
				})
				rejectUnauthorized(w, log, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject returns the authenticated token subject, if any
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

func rejectUnauthorized(w http.ResponseWriter, log logger.Logger, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(unauthorizedBody{Errors: []string{message}}); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"status_code": http.StatusUnauthorized,
			"error":       err.Error(),
		})
	}
}

func errString(err error) string {
	if err == nil {
		return "token not valid"
	}
	return err.Error()
}
