package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	onboardingrepo "github.com/yungbote/neurobridge-onboarding/internal/data/repos/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/http/response"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/apierr"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
)

const maxHistoryLimit = 100

var (
	errHistoryUnavailable = errors.New("completion history unavailable")
	errCompletionNotFound = errors.New("completion not found")
)

// HistoryHandler serves the caller's completion ledger.
type HistoryHandler struct {
	log     *logger.Logger
	records onboardingrepo.CompletionRecordRepo
}

func NewHistoryHandler(log *logger.Logger, records onboardingrepo.CompletionRecordRepo) *HistoryHandler {
	return &HistoryHandler{log: log.With("handler", "HistoryHandler"), records: records}
}

// GET /api/onboarding/history?limit=N
func (h *HistoryHandler) List(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	limit := 20
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondAPIError(c, apierr.BadRequest("invalid_limit", errors.New("limit must be a positive integer")))
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	recs, err := h.records.ListByUser(dbctx.Context{Ctx: c.Request.Context()}, rd.UserID, limit)
	if err != nil {
		h.log.Error("list completion records failed", "user_id", rd.UserID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "history_unavailable", errHistoryUnavailable)
		return
	}
	response.RespondOK(c, gin.H{"completions": recs})
}

// GET /api/onboarding/history/:session_id
func (h *HistoryHandler) Get(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	rec, err := h.records.GetBySessionID(dbctx.Context{Ctx: c.Request.Context()}, c.Param("session_id"))
	if err != nil {
		h.log.Error("get completion record failed", "user_id", rd.UserID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "history_unavailable", errHistoryUnavailable)
		return
	}
	// Another user's session reads as missing.
	if rec == nil || rec.UserID != rd.UserID {
		response.RespondError(c, http.StatusNotFound, "not_found", errCompletionNotFound)
		return
	}
	response.RespondOK(c, gin.H{"completion": rec})
}
