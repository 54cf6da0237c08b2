package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"branchbot/internal/branching"
	"branchbot/internal/model"
	"branchbot/internal/service"
	"branchbot/internal/transport/rest/middleware"
)

// RuleHandler handles branching-rule endpoints
type RuleHandler struct {
	ruleSvc *service.RuleService
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(ruleSvc *service.RuleService) *RuleHandler {
	return &RuleHandler{ruleSvc: ruleSvc}
}

// Create handles POST /v1/surveys/{surveyId}/rules
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	builderID := middleware.GetBuilderID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	var req service.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := h.ruleSvc.Create(r.Context(), builderID, surveyID, &req)
	if err != nil {
		writeRuleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// Validate handles POST /v1/surveys/{surveyId}/rules/validate (dry run)
func (h *RuleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	builderID := middleware.GetBuilderID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	var req service.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ruleSvc.Validate(r.Context(), builderID, surveyID, &req); err != nil {
		writeRuleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"accepted": true})
}

// List handles GET /v1/surveys/{surveyId}/rules
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	builderID := middleware.GetBuilderID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	rules, err := h.ruleSvc.List(r.Context(), builderID, surveyID)
	if err != nil {
		writeRuleError(w, err)
		return
	}
	if rules == nil {
		rules = []model.BranchingRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

// Delete handles DELETE /v1/surveys/{surveyId}/rules/{sourceId}/{targetId}
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	builderID := middleware.GetBuilderID(r.Context())
	vars := mux.Vars(r)
	surveyID := vars["surveyId"]

	sourceID, err := strconv.Atoi(vars["sourceId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}
	targetID, err := strconv.Atoi(vars["targetId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target id")
		return
	}

	if err := h.ruleSvc.Delete(r.Context(), builderID, surveyID, sourceID, targetID); err != nil {
		writeRuleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Audit handles GET /v1/surveys/{surveyId}/rules/audit
func (h *RuleHandler) Audit(w http.ResponseWriter, r *http.Request) {
	builderID := middleware.GetBuilderID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	cycles, err := h.ruleSvc.AuditCycles(r.Context(), builderID, surveyID)
	if err != nil {
		writeRuleError(w, err)
		return
	}
	if cycles == nil {
		cycles = [][]int{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"acyclic": len(cycles) == 0,
		"cycles":  cycles,
	})
}

func writeRuleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, branching.ErrCycleDetected),
		errors.Is(err, branching.ErrDuplicateRule),
		errors.Is(err, branching.ErrSelfLoop):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, branching.ErrUnknownQuestion),
		errors.Is(err, branching.ErrUnsupportedKind),
		errors.Is(err, branching.ErrKindMismatch),
		errors.Is(err, branching.ErrInvalidCondition):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeSurveyError(w, err)
	}
}
