package api

import (
	"net/http"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) listLore(c *gin.Context) {
	entries, err := s.services.Lore.List(c.Request.Context(), c.Query("series_id"), c.Query("tag"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type createLoreRequest struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	SeriesID     string   `json:"series_id"`
	Tags         []string `json:"tags"`
	Sources      []string `json:"sources"`
	CharacterIDs []string `json:"character_ids"`
}

func (s *Server) createLore(c *gin.Context) {
	var req createLoreRequest
	if !s.bindJSON(c, &req) {
		return
	}

	entry, err := s.services.Lore.Create(c.Request.Context(), services.CreateLoreParams{
		Title:        req.Title,
		Content:      req.Content,
		SeriesID:     req.SeriesID,
		Tags:         req.Tags,
		Sources:      req.Sources,
		CreatorID:    callerID(c),
		CharacterIDs: req.CharacterIDs,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// loreDetail applies the approval gate: pending entries resolve only for
// their creator, everyone else gets a 404.
func (s *Server) loreDetail(c *gin.Context) {
	detail, err := s.services.Query.LoreEntryDetail(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type associateCharacterRequest struct {
	CharacterID string `json:"character_id"`
}

func (s *Server) associateCharacter(c *gin.Context) {
	var req associateCharacterRequest
	if !s.bindJSON(c, &req) {
		return
	}

	assoc, err := s.services.Associations.Associate(c.Request.Context(), req.CharacterID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assoc)
}

func (s *Server) listLoreComments(c *gin.Context) {
	comments, err := s.services.Engagement.Comments(c.Request.Context(),
		entities.CommentParent{LoreEntryID: c.Param("id")})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

type createCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) createLoreComment(c *gin.Context) {
	var req createCommentRequest
	if !s.bindJSON(c, &req) {
		return
	}

	comment, err := s.services.Engagement.AddComment(c.Request.Context(), req.Content, callerID(c),
		entities.CommentParent{LoreEntryID: c.Param("id")})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
