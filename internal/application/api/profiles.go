package api

import (
	"net/http"

	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/gin-gonic/gin"
)

func (s *Server) getProfile(c *gin.Context) {
	userID := callerID(c)
	if userID == "" {
		s.respondError(c, errs.Validation("authentication required"))
		return
	}

	profile, err := s.services.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type upsertProfileRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

func (s *Server) upsertProfile(c *gin.Context) {
	var req upsertProfileRequest
	if !s.bindJSON(c, &req) {
		return
	}

	profile, err := s.services.Profiles.Upsert(c.Request.Context(),
		callerID(c), req.Username, req.AvatarURL, req.Bio)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
