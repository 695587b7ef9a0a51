package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/ports"
	"github.com/google/uuid"
)

// TimelineService manages timelines and their events.
type TimelineService struct {
	store ports.Store
}

// NewTimelineService creates a new TimelineService.
func NewTimelineService(store ports.Store) *TimelineService {
	return &TimelineService{store: store}
}

// List returns timelines, optionally filtered by official status.
func (s *TimelineService) List(ctx context.Context, isOfficial *bool) ([]*entities.Timeline, error) {
	return s.store.ListTimelines(ctx, isOfficial)
}

// Events returns a timeline's events ordered by year, optionally filtered
// by series.
func (s *TimelineService) Events(ctx context.Context, timelineID, seriesID string) ([]*entities.TimelineEvent, error) {
	timeline, err := s.store.FindTimelineByID(ctx, timelineID)
	if err != nil {
		return nil, fmt.Errorf("checking timeline: %w", err)
	}
	if timeline == nil {
		return nil, errs.NotFound("timeline", timelineID)
	}
	return s.store.FindTimelineEvents(ctx, timelineID, seriesID)
}

// CreateFanTimeline adds a fan-made timeline. Official timelines are seeded
// out of band, never created through this path.
func (s *TimelineService) CreateFanTimeline(ctx context.Context, title, description, creatorID string) (*entities.Timeline, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errs.Validation("timeline title is required")
	}
	if creatorID == "" {
		return nil, errs.Validation("creator id is required")
	}

	now := time.Now()
	timeline := &entities.Timeline{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(title),
		Description: description,
		IsOfficial:  false,
		CreatorID:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.SaveTimeline(ctx, timeline); err != nil {
		return nil, fmt.Errorf("saving timeline: %w", err)
	}
	return timeline, nil
}

// AddEventParams carries the fields for a new timeline event.
type AddEventParams struct {
	TimelineID  string
	Title       string
	Description string
	Year        string
	SeriesID    string
	Importance  int
}

// AddEvent adds an event to a timeline. Importance defaults to 1.
func (s *TimelineService) AddEvent(ctx context.Context, params AddEventParams) (*entities.TimelineEvent, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, errs.Validation("event title is required")
	}
	if strings.TrimSpace(params.Year) == "" {
		return nil, errs.Validation("event year is required")
	}

	timeline, err := s.store.FindTimelineByID(ctx, params.TimelineID)
	if err != nil {
		return nil, fmt.Errorf("checking timeline: %w", err)
	}
	if timeline == nil {
		return nil, errs.NotFound("timeline", params.TimelineID)
	}

	importance := params.Importance
	if importance <= 0 {
		importance = 1
	}

	event := &entities.TimelineEvent{
		ID:          uuid.New().String(),
		TimelineID:  params.TimelineID,
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		Year:        params.Year,
		SeriesID:    params.SeriesID,
		Importance:  importance,
		CreatedAt:   time.Now(),
	}
	if err := s.store.SaveTimelineEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("saving timeline event: %w", err)
	}
	return event, nil
}
