package model

import "github.com/golang-jwt/jwt/v5"

// BuilderClaims are JWT claims for survey-builder authentication
type BuilderClaims struct {
	BuilderID string `json:"builderId"`
	jwt.RegisteredClaims
}

// RespondentClaims are JWT claims for response-scoped respondent tokens
type RespondentClaims struct {
	SurveyID   string `json:"surveyId"`
	ResponseID string `json:"responseId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for builder login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token     string `json:"token"`
	BuilderID string `json:"builderId"`
}
