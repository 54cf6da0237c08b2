package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"branchbot/internal/branching"
	"branchbot/internal/model"
	"branchbot/internal/service"
	"branchbot/internal/transport/rest/middleware"
)

// ResponseHandler handles respondent navigation endpoints
type ResponseHandler struct {
	navSvc *service.NavigationService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(navSvc *service.NavigationService) *ResponseHandler {
	return &ResponseHandler{navSvc: navSvc}
}

// AnswerRequest carries one answer for the question the respondent is at
type AnswerRequest struct {
	QuestionID int                 `json:"questionId"`
	Answer     model.AnswerPayload `json:"answer"`
}

// Start handles POST /v1/surveys/{surveyId}/responses (public)
func (h *ResponseHandler) Start(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	result, err := h.navSvc.Start(r.Context(), surveyID)
	if err != nil {
		writeNavigationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Answer handles POST /v1/responses/{responseId}/answers
func (h *ResponseHandler) Answer(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["responseId"]
	if middleware.GetResponseID(r.Context()) != responseID {
		writeError(w, http.StatusForbidden, "token not valid for this response")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.navSvc.Advance(r.Context(), responseID, req.QuestionID, req.Answer)
	if err != nil {
		writeNavigationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Back handles POST /v1/responses/{responseId}/back
func (h *ResponseHandler) Back(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["responseId"]
	if middleware.GetResponseID(r.Context()) != responseID {
		writeError(w, http.StatusForbidden, "token not valid for this response")
		return
	}

	question, err := h.navSvc.Back(r.Context(), responseID)
	if err != nil {
		writeNavigationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// GetState handles GET /v1/responses/{responseId}
func (h *ResponseHandler) GetState(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["responseId"]
	if middleware.GetResponseID(r.Context()) != responseID {
		writeError(w, http.StatusForbidden, "token not valid for this response")
		return
	}

	state, err := h.navSvc.GetState(r.Context(), responseID)
	if err != nil {
		writeNavigationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func writeNavigationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrResponseNotFound), errors.Is(err, service.ErrSurveyNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, branching.ErrResponseCompleted),
		errors.Is(err, branching.ErrNoHistory),
		errors.Is(err, branching.ErrNotStarted),
		errors.Is(err, service.ErrBackDisabled):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, branching.ErrUnknownQuestion), errors.Is(err, branching.ErrEmptySurvey):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
