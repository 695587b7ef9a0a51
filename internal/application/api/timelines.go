package api

import (
	"net/http"

	"github.com/fanbase/fanbase/internal/domain/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) listTimelines(c *gin.Context) {
	var isOfficial *bool
	switch c.Query("official") {
	case "true":
		v := true
		isOfficial = &v
	case "false":
		v := false
		isOfficial = &v
	}

	timelines, err := s.services.Timelines.List(c.Request.Context(), isOfficial)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timelines)
}

type createTimelineRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) createTimeline(c *gin.Context) {
	var req createTimelineRequest
	if !s.bindJSON(c, &req) {
		return
	}

	timeline, err := s.services.Timelines.CreateFanTimeline(c.Request.Context(),
		req.Title, req.Description, callerID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, timeline)
}

func (s *Server) listTimelineEvents(c *gin.Context) {
	events, err := s.services.Timelines.Events(c.Request.Context(), c.Param("id"), c.Query("series_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

type createTimelineEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Year        string `json:"year"`
	SeriesID    string `json:"series_id"`
	Importance  int    `json:"importance"`
}

func (s *Server) createTimelineEvent(c *gin.Context) {
	var req createTimelineEventRequest
	if !s.bindJSON(c, &req) {
		return
	}

	event, err := s.services.Timelines.AddEvent(c.Request.Context(), services.AddEventParams{
		TimelineID:  c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Year:        req.Year,
		SeriesID:    req.SeriesID,
		Importance:  req.Importance,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}
