package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gatortrader/internal/config"
	handlers "gatortrader/internal/handler"
)

type Middleware func(http.Handler) http.Handler

// protectedPaths require an authenticated caller; everything else on the
// API is public browsing.
var protectedPaths = []string{
	"/api/post/pending",
	"/api/post/statusChange",
	"/api/post/fileUpload",
	"/api/message",
}

func isProtected(path string) bool {
	for _, protected := range protectedPaths {
		if strings.HasPrefix(path, protected) {
			return true
		}
	}
	return false
}

// AuthMiddleware verifies the JWT bearer token when one is present and adds
// the user id and role claims to the request context. Requests to protected
// paths without a valid token are rejected; public paths pass through.
// This is where the moderator capability gets minted: a valid token with a
// moderator role claim is the only way moderation handlers see one.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			if authHeader == "" {
				if isProtected(r.URL.Path) {
					handlers.WriteError(w, "authentication required", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				handlers.WriteError(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(cfg.JWTSecretKey), nil
			})
			if err != nil || !token.Valid {
				handlers.WriteError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				handlers.WriteError(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			if userID, ok := claims["user_id"].(float64); ok {
				ctx = context.WithValue(ctx, handlers.ContextKeyUserID, int64(userID))
			}
			if role, ok := claims["role"].(string); ok {
				ctx = context.WithValue(ctx, handlers.ContextKeyRole, role)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware tags every request with an id and logs method, path and
// duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("request_id=%s method=%s path=%s duration=%s", requestID, r.Method, r.URL.Path, time.Since(start))
	})
}

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
