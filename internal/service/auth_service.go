package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"branchbot/internal/config"
	"branchbot/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles builder and respondent authentication
type AuthService struct {
	builderUsername string
	builderPassword string
	jwtSecret       []byte
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		builderUsername: cfg.BuilderUsername,
		builderPassword: cfg.BuilderPassword,
		jwtSecret:       []byte(cfg.JWTSecret),
	}
}

// Login validates builder credentials and returns a token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.builderUsername || password != s.builderPassword {
		return nil, ErrInvalidCredentials
	}

	builderID := "b_" + uuid.New().String()[:8]

	claims := &model.BuilderClaims{
		BuilderID: builderID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		BuilderID: builderID,
	}, nil
}

// ValidateBuilderToken validates a builder JWT and returns claims
func (s *AuthService) ValidateBuilderToken(tokenString string) (*model.BuilderClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.BuilderClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.BuilderClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateRespondentToken creates a response-scoped token for a respondent
func (s *AuthService) GenerateRespondentToken(surveyID, responseID string) (string, error) {
	claims := &model.RespondentClaims{
		SurveyID:   surveyID,
		ResponseID: responseID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // matches state TTL
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateRespondentToken validates a respondent JWT and returns claims
func (s *AuthService) ValidateRespondentToken(tokenString string) (*model.RespondentClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.RespondentClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.RespondentClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
