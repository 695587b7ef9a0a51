package api

import (
	"net/http"

	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/gin-gonic/gin"
)

func (s *Server) listAPIKeys(c *gin.Context) {
	keys, err := s.services.APIKeys.List(c.Request.Context(), callerID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, keys)
}

type saveAPIKeyRequest struct {
	ServiceName string `json:"service_name"`
	Key         string `json:"api_key"`
}

func (s *Server) saveAPIKey(c *gin.Context) {
	var req saveAPIKeyRequest
	if !s.bindJSON(c, &req) {
		return
	}

	key, err := s.services.APIKeys.Save(c.Request.Context(), callerID(c), req.ServiceName, req.Key)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, key)
}

type setAPIKeyActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

func (s *Server) setAPIKeyActive(c *gin.Context) {
	var req setAPIKeyActiveRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if req.IsActive == nil {
		s.respondError(c, errs.Validation("is_active is required"))
		return
	}

	if err := s.services.APIKeys.SetActive(c.Request.Context(), callerID(c), c.Param("id"), *req.IsActive); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteAPIKey(c *gin.Context) {
	if err := s.services.APIKeys.Delete(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
