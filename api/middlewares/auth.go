package middlewares

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/mrFedocc/survey-app/api/jsonutil"
)

// AdminAuthMiddleware gates the export surface behind the static admin
// bearer token. Respondent traffic stays unauthenticated, so this is the
// only auth in the service.
func AdminAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			expected := os.Getenv("ADMIN_TOKEN")
			if expected == "" {
				response := jsonutil.Response{
					Status:  "error",
					Message: "admin token not configured",
				}
				jsonutil.WriteJSONResponse(responseWriter, response, http.StatusUnauthorized)
				return
			}

			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				response := jsonutil.Response{
					Status:  "error",
					Message: "authorization header required",
				}
				jsonutil.WriteJSONResponse(responseWriter, response, http.StatusUnauthorized)
				return
			}

			tokenString := strings.Split(authHeader, " ")

			if len(tokenString) != 2 || tokenString[0] != "Bearer" {
				response := jsonutil.Response{
					Status:  "error",
					Message: "invalid authorization header format",
				}
				jsonutil.WriteJSONResponse(responseWriter, response, http.StatusUnauthorized)
				return
			}

			token := strings.TrimSpace(tokenString[1])
			if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
				response := jsonutil.Response{
					Status:  "error",
					Message: "invalid token",
				}
				jsonutil.WriteJSONResponse(responseWriter, response, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(responseWriter, request)
		})
	}
}
