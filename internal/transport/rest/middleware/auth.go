package middleware

import (
	"context"
	"net/http"
	"strings"

	"branchbot/internal/service"
)

type contextKey string

const (
	BuilderIDKey  contextKey = "builderId"
	ResponseIDKey contextKey = "responseId"
	SurveyIDKey   contextKey = "surveyId"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireBuilder validates a builder JWT from the Authorization header
func (m *AuthMiddleware) RequireBuilder(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateBuilderToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), BuilderIDKey, claims.BuilderID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRespondent validates a respondent JWT from the Authorization header
// or, for WebSocket upgrades, the token query param
func (m *AuthMiddleware) RequireRespondent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateRespondentToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, ResponseIDKey, claims.ResponseID)
		ctx = context.WithValue(ctx, SurveyIDKey, claims.SurveyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetBuilderID extracts the builder id from context
func GetBuilderID(ctx context.Context) string {
	if v := ctx.Value(BuilderIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetResponseID extracts the response id from context
func GetResponseID(ctx context.Context) string {
	if v := ctx.Value(ResponseIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetSurveyID extracts the survey id from context
func GetSurveyID(ctx context.Context) string {
	if v := ctx.Value(SurveyIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
