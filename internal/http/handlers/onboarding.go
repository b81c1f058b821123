package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-onboarding/internal/http/response"
	"github.com/yungbote/neurobridge-onboarding/internal/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/apierr"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
)

type OnboardingHandler struct {
	log      *logger.Logger
	registry *onboarding.Registry
}

func NewOnboardingHandler(log *logger.Logger, registry *onboarding.Registry) *OnboardingHandler {
	return &OnboardingHandler{log: log.With("handler", "OnboardingHandler"), registry: registry}
}

type bootstrapResponse struct {
	Entry    onboarding.Entry     `json:"entry"`
	Redirect onboarding.Redirect  `json:"redirect,omitempty"`
	State    *onboarding.Snapshot `json:"state,omitempty"`
}

// POST /api/onboarding/bootstrap
// Entering the onboarding page. Replaces any previous flow for the user.
func (h *OnboardingHandler) Bootstrap(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondOK(c, bootstrapResponse{Entry: onboarding.EntryLogin, Redirect: onboarding.RedirectLogin})
		return
	}
	flow, err := h.registry.Open(rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	entry, err := flow.Bootstrap(c.Request.Context(), onboarding.Authenticated(rd.UserID))
	if err != nil {
		response.RespondAPIError(c, flowError(err))
		return
	}
	snap := flow.Snapshot()
	response.RespondOK(c, bootstrapResponse{Entry: entry, Redirect: snap.Redirect, State: &snap})
}

// GET /api/onboarding
func (h *OnboardingHandler) GetState(c *gin.Context) {
	flow, ok := h.flow(c)
	if !ok {
		return
	}
	response.RespondOK(c, gin.H{"state": flow.Snapshot()})
}

// POST /api/onboarding/advance
func (h *OnboardingHandler) Advance(c *gin.Context) {
	flow, ok := h.flow(c)
	if !ok {
		return
	}
	if _, err := flow.Advance(); err != nil {
		response.RespondAPIError(c, flowError(err))
		return
	}
	response.RespondOK(c, gin.H{"state": flow.Snapshot()})
}

type submitAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// POST /api/onboarding/answers
// body: { "question_id": "...", "answer": "..." }
func (h *OnboardingHandler) SubmitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.BadRequest("invalid_request", err))
		return
	}
	flow, ok := h.flow(c)
	if !ok {
		return
	}
	out, err := flow.SubmitAnswer(c.Request.Context(), req.QuestionID, req.Answer)
	if err != nil {
		response.RespondAPIError(c, flowError(err))
		return
	}
	response.RespondOK(c, gin.H{"outcome": out, "state": flow.Snapshot()})
}

// POST /api/onboarding/finish
func (h *OnboardingHandler) Finish(c *gin.Context) {
	flow, ok := h.flow(c)
	if !ok {
		return
	}
	redirect, err := flow.Finish(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, flowError(err))
		return
	}
	h.registry.Close(flow.UserID())
	response.RespondOK(c, gin.H{"redirect": redirect})
}

func (h *OnboardingHandler) flow(c *gin.Context) (*onboarding.Controller, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
		return nil, false
	}
	flow, err := h.registry.Get(rd.UserID)
	if err != nil {
		response.RespondAPIError(c, flowError(err))
		return nil, false
	}
	return flow, true
}
