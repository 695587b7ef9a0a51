package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listSeries(c *gin.Context) {
	series, err := s.services.Series.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (s *Server) getSeries(c *gin.Context) {
	series, err := s.services.Series.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}
