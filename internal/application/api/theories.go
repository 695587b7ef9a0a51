package api

import (
	"net/http"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) listTheories(c *gin.Context) {
	theories, err := s.services.Theories.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, theories)
}

type createTheoryRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	BranchingPoint    string `json:"branching_point"`
	AlternateTimeline string `json:"alternate_timeline"`
}

func (s *Server) createTheory(c *gin.Context) {
	var req createTheoryRequest
	if !s.bindJSON(c, &req) {
		return
	}

	theory, err := s.services.Theories.Create(c.Request.Context(), services.CreateTheoryParams{
		Title:             req.Title,
		Description:       req.Description,
		BranchingPoint:    req.BranchingPoint,
		AlternateTimeline: req.AlternateTimeline,
		CreatorID:         callerID(c),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, theory)
}

func (s *Server) theoryDetail(c *gin.Context) {
	detail, err := s.services.Query.TheoryDetail(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// toggleVote flips the caller's vote. Calling it twice restores the original
// state, so clients can treat it as a plain toggle button.
func (s *Server) toggleVote(c *gin.Context) {
	result, err := s.services.Engagement.ToggleVote(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listTheoryComments(c *gin.Context) {
	comments, err := s.services.Engagement.Comments(c.Request.Context(),
		entities.CommentParent{TheoryID: c.Param("id")})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (s *Server) createTheoryComment(c *gin.Context) {
	var req createCommentRequest
	if !s.bindJSON(c, &req) {
		return
	}

	comment, err := s.services.Engagement.AddComment(c.Request.Context(), req.Content, callerID(c),
		entities.CommentParent{TheoryID: c.Param("id")})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
