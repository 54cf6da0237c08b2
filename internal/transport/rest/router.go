package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"branchbot/internal/service"
	"branchbot/internal/transport/rest/handler"
	"branchbot/internal/transport/rest/middleware"
	"branchbot/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	SurveyService     *service.SurveyService
	RuleService       *service.RuleService
	NavigationService *service.NavigationService
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService)
	ruleHandler := handler.NewRuleHandler(c.RuleService)
	responseHandler := handler.NewResponseHandler(c.NavigationService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.NavigationService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}/responses", responseHandler.Start).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/responses/{responseId}", wsHandler.RespondentWS).Methods("GET")
	v1.HandleFunc("/ws/surveys/{surveyId}/monitor", wsHandler.MonitorWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Builder routes (require builder auth)
	builderRoutes := v1.NewRoute().Subrouter()
	builderRoutes.Use(authMW.RequireBuilder)

	builderRoutes.HandleFunc("/surveys", surveyHandler.Create).Methods("POST", "OPTIONS")
	builderRoutes.HandleFunc("/surveys", surveyHandler.List).Methods("GET", "OPTIONS")
	builderRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Get).Methods("GET", "OPTIONS")
	builderRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Update).Methods("PUT", "OPTIONS")
	builderRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Delete).Methods("DELETE", "OPTIONS")

	builderRoutes.HandleFunc("/surveys/{surveyId}/rules", ruleHandler.Create).Methods("POST", "OPTIONS")
	builderRoutes.HandleFunc("/surveys/{surveyId}/rules", ruleHandler.List).Methods("GET", "OPTIONS")
	builderRoutes.HandleFunc("/surveys/{surveyId}/rules/validate", ruleHandler.Validate).Methods("POST", "OPTIONS")
	builderRoutes.HandleFunc("/surveys/{surveyId}/rules/audit", ruleHandler.Audit).Methods("GET", "OPTIONS")
	builderRoutes.HandleFunc("/surveys/{surveyId}/rules/{sourceId}/{targetId}", ruleHandler.Delete).Methods("DELETE", "OPTIONS")

	// Respondent routes (require respondent auth)
	respondentRoutes := v1.NewRoute().Subrouter()
	respondentRoutes.Use(authMW.RequireRespondent)

	respondentRoutes.HandleFunc("/responses/{responseId}", responseHandler.GetState).Methods("GET", "OPTIONS")
	respondentRoutes.HandleFunc("/responses/{responseId}/answers", responseHandler.Answer).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/responses/{responseId}/back", responseHandler.Back).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
