package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-onboarding/internal/http/response"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/apierr"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-onboarding/internal/usercache"
)

type UserHandler struct {
	users *usercache.Cache
}

func NewUserHandler(users *usercache.Cache) *UserHandler {
	return &UserHandler{users: users}
}

// GET /me
func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	me, err := uh.users.Load(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, apierr.Upstream("user_unavailable", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"me": me})
}
