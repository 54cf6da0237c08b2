package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"branchbot/internal/model"
	"branchbot/internal/service"
	"branchbot/internal/transport/rest/middleware"
)

// SurveyHandler handles survey endpoints
type SurveyHandler struct {
	surveySvc *service.SurveyService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveySvc: surveySvc}
}

// CreateSurveyRequest is the request body for creating a survey
type CreateSurveyRequest struct {
	Title     string               `json:"title"`
	Settings  model.SurveySettings `json:"settings"`
	Questions []model.Question     `json:"questions"`
}

// Create handles POST /v1/surveys
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	builderID := middleware.GetBuilderID(r.Context())
	if builderID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Assign ids/positions to questions that came without them
	for i := range req.Questions {
		if req.Questions[i].ID == 0 {
			req.Questions[i].ID = i + 1
		}
		if req.Questions[i].Position == 0 {
			req.Questions[i].Position = i + 1
		}
	}

	survey := &model.Survey{
		BuilderID: builderID,
		Title:     req.Title,
		Settings:  req.Settings,
		Questions: req.Questions,
	}

	id, err := h.surveySvc.Create(r.Context(), survey)
	if err != nil {
		writeSurveyError(w, err)
		return
	}
	survey.ID = id

	writeJSON(w, http.StatusCreated, survey)
}

// List handles GET /v1/surveys
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	builderID := middleware.GetBuilderID(r.Context())
	surveys, err := h.surveySvc.GetByBuilderID(r.Context(), builderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if surveys == nil {
		surveys = []*model.Survey{}
	}
	writeJSON(w, http.StatusOK, surveys)
}

// Get handles GET /v1/surveys/{surveyId}
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	builderID := middleware.GetBuilderID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	survey, err := h.surveySvc.GetByID(r.Context(), builderID, surveyID)
	if err != nil {
		writeSurveyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// Update handles PUT /v1/surveys/{surveyId}
func (h *SurveyHandler) Update(w http.ResponseWriter, r *http.Request) {
	builderID := middleware.GetBuilderID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	var req CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey := &model.Survey{
		ID:        surveyID,
		Title:     req.Title,
		Settings:  req.Settings,
		Questions: req.Questions,
	}
	if err := h.surveySvc.Update(r.Context(), builderID, survey); err != nil {
		writeSurveyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// Delete handles DELETE /v1/surveys/{surveyId}
func (h *SurveyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	builderID := middleware.GetBuilderID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	if err := h.surveySvc.Delete(r.Context(), builderID, surveyID); err != nil {
		writeSurveyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeSurveyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSurveyNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotSurveyOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidQuestion), errors.Is(err, service.ErrQuestionInUse):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
