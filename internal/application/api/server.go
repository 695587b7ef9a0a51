// Package api exposes the domain services over HTTP.
package api

import (
	"net/http"

	"github.com/fanbase/fanbase/internal/domain/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles the domain services the HTTP layer depends on.
type Services struct {
	Series        *services.SeriesService
	Characters    *services.CharacterService
	Relationships *services.RelationshipService
	Associations  *services.AssociationService
	Lore          *services.LoreService
	Theories      *services.TheoryService
	Engagement    *services.EngagementService
	Timelines     *services.TimelineService
	Profiles      *services.ProfileService
	APIKeys       *services.APIKeyService
	Query         *services.QueryService
}

// Server routes HTTP requests to the domain services.
type Server struct {
	services Services
	log      *zap.Logger
}

// NewServer creates a new Server.
func NewServer(svcs Services, log *zap.Logger) *Server {
	return &Server{services: svcs, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router(production bool) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestLogger(s.log))
	router.Use(gin.Recovery())
	router.Use(cors())
	router.Use(identity())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/series", s.listSeries)
		api.GET("/series/:id", s.getSeries)

		api.GET("/characters", s.listCharacters)
		api.POST("/characters", s.createCharacter)
		api.GET("/characters/:id", s.characterDetail)
		api.GET("/characters/:id/relationships", s.listRelationships)
		api.POST("/characters/:id/relationships", s.createRelationship)
		api.DELETE("/relationships/:id", s.deleteRelationship)

		api.GET("/lore", s.listLore)
		api.POST("/lore", s.createLore)
		api.GET("/lore/:id", s.loreDetail)
		api.POST("/lore/:id/characters", s.associateCharacter)
		api.GET("/lore/:id/comments", s.listLoreComments)
		api.POST("/lore/:id/comments", s.createLoreComment)

		api.GET("/theories", s.listTheories)
		api.POST("/theories", s.createTheory)
		api.GET("/theories/:id", s.theoryDetail)
		api.POST("/theories/:id/vote", s.toggleVote)
		api.GET("/theories/:id/comments", s.listTheoryComments)
		api.POST("/theories/:id/comments", s.createTheoryComment)

		api.GET("/timelines", s.listTimelines)
		api.POST("/timelines", s.createTimeline)
		api.GET("/timelines/:id/events", s.listTimelineEvents)
		api.POST("/timelines/:id/events", s.createTimelineEvent)

		api.GET("/profiles/me", s.getProfile)
		api.PUT("/profiles/me", s.upsertProfile)
		api.GET("/profiles/me/keys", s.listAPIKeys)
		api.POST("/profiles/me/keys", s.saveAPIKey)
		api.PUT("/profiles/me/keys/:id", s.setAPIKeyActive)
		api.DELETE("/profiles/me/keys/:id", s.deleteAPIKey)
	}

	return router
}
