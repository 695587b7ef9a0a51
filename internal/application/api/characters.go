package api

import (
	"net/http"

	"github.com/fanbase/fanbase/internal/domain/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) listCharacters(c *gin.Context) {
	characters, err := s.services.Characters.List(c.Request.Context(), c.Query("series_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, characters)
}

type createCharacterRequest struct {
	Name            string `json:"name"`
	Alias           string `json:"alias"`
	Description     string `json:"description"`
	PortraitURL     string `json:"portrait_url"`
	FirstAppearance string `json:"first_appearance"`
	SeriesID        string `json:"series_id"`
	IsRobotMaster   bool   `json:"is_robot_master"`
	IsMaverick      bool   `json:"is_maverick"`
	IsHuman         bool   `json:"is_human"`
	IsReploid       bool   `json:"is_reploid"`
}

func (s *Server) createCharacter(c *gin.Context) {
	var req createCharacterRequest
	if !s.bindJSON(c, &req) {
		return
	}

	character, err := s.services.Characters.Create(c.Request.Context(), services.CreateCharacterParams{
		Name:            req.Name,
		Alias:           req.Alias,
		Description:     req.Description,
		PortraitURL:     req.PortraitURL,
		FirstAppearance: req.FirstAppearance,
		SeriesID:        req.SeriesID,
		IsRobotMaster:   req.IsRobotMaster,
		IsMaverick:      req.IsMaverick,
		IsHuman:         req.IsHuman,
		IsReploid:       req.IsReploid,
		CreatedBy:       callerID(c),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, character)
}

// characterDetail returns the full character page read-model: the character,
// its relationship edges and its approved lore entries.
func (s *Server) characterDetail(c *gin.Context) {
	detail, err := s.services.Query.CharacterDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) listRelationships(c *gin.Context) {
	edges, err := s.services.Relationships.EdgesForCharacter(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, edges)
}

type createRelationshipRequest struct {
	TargetCharacterID string `json:"target_character_id"`
	Type              string `json:"type"`
	Description       string `json:"description"`
}

func (s *Server) createRelationship(c *gin.Context) {
	var req createRelationshipRequest
	if !s.bindJSON(c, &req) {
		return
	}

	edge, err := s.services.Relationships.AddEdge(c.Request.Context(),
		c.Param("id"), req.TargetCharacterID, req.Type, req.Description)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, edge)
}

func (s *Server) deleteRelationship(c *gin.Context) {
	if err := s.services.Relationships.RemoveEdge(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
