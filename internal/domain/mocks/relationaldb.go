// Package mocks provides in-memory port implementations for tests.
package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/ports"
)

// Store is an in-memory mock implementation of ports.Store. Setting Err
// makes every operation fail with it, for error-path tests.
type Store struct {
	mu sync.Mutex

	Series     map[string]*entities.Series
	Characters map[string]*entities.Character
	Edges      map[string]*entities.RelationshipEdge
	LoreByID   map[string]*entities.LoreEntry
	Theories   map[string]*entities.Theory
	Profiles   map[string]*entities.Profile
	Timelines  map[string]*entities.Timeline
	APIKeys    map[string]*entities.APIKey

	// Assocs holds character->lore links as "characterID|loreEntryID" keys.
	Assocs map[string]bool
	// Votes holds vote rows as "userID|theoryID" keys.
	Votes map[string]bool

	Comments []entities.Comment
	Events   []*entities.TimelineEvent

	Err error
}

// NewStore creates an empty mock Store.
func NewStore() *Store {
	return &Store{
		Series:     make(map[string]*entities.Series),
		Characters: make(map[string]*entities.Character),
		Edges:      make(map[string]*entities.RelationshipEdge),
		LoreByID:   make(map[string]*entities.LoreEntry),
		Theories:   make(map[string]*entities.Theory),
		Profiles:   make(map[string]*entities.Profile),
		Timelines:  make(map[string]*entities.Timeline),
		APIKeys:    make(map[string]*entities.APIKey),
		Assocs:     make(map[string]bool),
		Votes:      make(map[string]bool),
	}
}

func pairKey(a, b string) string { return a + "|" + b }

// EnsureSchema is a no-op for the in-memory store.
func (m *Store) EnsureSchema(_ context.Context) error { return m.Err }

// Close is a no-op for the in-memory store.
func (m *Store) Close() error { return nil }

// Series operations.

func (m *Store) SaveSeries(_ context.Context, series *entities.Series) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Series[series.ID] = series
	return nil
}

func (m *Store) FindSeriesByID(_ context.Context, id string) (*entities.Series, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Series[id], nil
}

func (m *Store) ListSeries(_ context.Context) ([]*entities.Series, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*entities.Series, 0, len(m.Series))
	for _, s := range m.Series {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Character operations.

func (m *Store) SaveCharacter(_ context.Context, character *entities.Character) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Characters[character.ID] = character
	return nil
}

func (m *Store) FindCharacterByID(_ context.Context, id string) (*entities.Character, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	character, ok := m.Characters[id]
	if !ok {
		return nil, nil
	}
	withSeries := *character
	if s, ok := m.Series[character.SeriesID]; ok {
		withSeries.Series = s
	}
	return &withSeries, nil
}

func (m *Store) ListCharacters(_ context.Context, seriesID string) ([]*entities.Character, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*entities.Character, 0, len(m.Characters))
	for _, c := range m.Characters {
		if seriesID != "" && c.SeriesID != seriesID {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Relationship edge operations.

func (m *Store) SaveEdge(_ context.Context, edge *entities.RelationshipEdge) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Edges[edge.ID] = edge
	return nil
}

func (m *Store) FindEdgeByID(_ context.Context, id string) (*entities.RelationshipEdge, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Edges[id], nil
}

func (m *Store) FindEdgesByCharacter(_ context.Context, characterID string) ([]entities.RelationshipEdge, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []entities.RelationshipEdge
	for _, e := range m.Edges {
		if e.SourceCharacterID == characterID || e.TargetCharacterID == characterID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Store) FindEdgeBetween(_ context.Context, characterA, characterB, edgeType string) (*entities.RelationshipEdge, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Edges {
		if e.Type != edgeType {
			continue
		}
		if (e.SourceCharacterID == characterA && e.TargetCharacterID == characterB) ||
			(e.SourceCharacterID == characterB && e.TargetCharacterID == characterA) {
			return e, nil
		}
	}
	return nil, nil
}

func (m *Store) DeleteEdge(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Edges[id]; !ok {
		return errs.NotFound("relationship edge", id)
	}
	delete(m.Edges, id)
	return nil
}

// Association operations.

func (m *Store) SaveAssociation(_ context.Context, characterID, loreEntryID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Assocs[pairKey(characterID, loreEntryID)] = true
	return nil
}

func (m *Store) FindCharactersByLoreEntry(_ context.Context, loreEntryID string) ([]*entities.Character, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entities.Character
	for key := range m.Assocs {
		for id, c := range m.Characters {
			if key == pairKey(id, loreEntryID) {
				withSeries := *c
				if s, ok := m.Series[c.SeriesID]; ok {
					withSeries.Series = s
				}
				result = append(result, &withSeries)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Store) FindLoreEntriesByCharacter(_ context.Context, characterID string) ([]*entities.LoreEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entities.LoreEntry
	for key := range m.Assocs {
		for id, entry := range m.LoreByID {
			if key == pairKey(characterID, id) {
				withSeries := *entry
				if s, ok := m.Series[entry.SeriesID]; ok {
					withSeries.Series = s
				}
				result = append(result, &withSeries)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

// Lore entry operations.

func (m *Store) SaveLoreEntry(_ context.Context, entry *entities.LoreEntry) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoreByID[entry.ID] = entry
	return nil
}

func (m *Store) FindLoreEntryByID(_ context.Context, id string) (*entities.LoreEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoreByID[id], nil
}

func (m *Store) ListLoreEntries(_ context.Context, filter ports.LoreFilter) ([]*entities.LoreEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entities.LoreEntry
	for _, entry := range m.LoreByID {
		if filter.ApprovedOnly && !entry.IsApproved {
			continue
		}
		if filter.SeriesID != "" && entry.SeriesID != filter.SeriesID {
			continue
		}
		if filter.Tag != "" && !containsTag(entry.Tags, filter.Tag) {
			continue
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *Store) SetLoreApproval(_ context.Context, id string, approved bool) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.LoreByID[id]
	if !ok {
		return errs.NotFound("lore entry", id)
	}
	entry.IsApproved = approved
	return nil
}

// Theory operations.

func (m *Store) SaveTheory(_ context.Context, theory *entities.Theory) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Theories[theory.ID] = theory
	return nil
}

func (m *Store) FindTheoryByID(_ context.Context, id string) (*entities.Theory, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Theories[id], nil
}

func (m *Store) ListApprovedTheories(_ context.Context) ([]*entities.Theory, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entities.Theory
	for _, t := range m.Theories {
		if t.IsApproved {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Upvotes > result[j].Upvotes })
	return result, nil
}

func (m *Store) SetTheoryApproval(_ context.Context, id string, approved bool) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	theory, ok := m.Theories[id]
	if !ok {
		return errs.NotFound("theory", id)
	}
	theory.IsApproved = approved
	return nil
}

// Vote operations.

func (m *Store) ToggleVote(_ context.Context, userID, theoryID string) (*entities.VoteResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	theory, ok := m.Theories[theoryID]
	if !ok {
		return nil, errs.NotFound("theory", theoryID)
	}
	key := pairKey(userID, theoryID)
	if m.Votes[key] {
		delete(m.Votes, key)
		theory.Upvotes--
		return &entities.VoteResult{Upvoted: false, Upvotes: theory.Upvotes}, nil
	}
	m.Votes[key] = true
	theory.Upvotes++
	return &entities.VoteResult{Upvoted: true, Upvotes: theory.Upvotes}, nil
}

func (m *Store) HasVoted(_ context.Context, userID, theoryID string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Votes[pairKey(userID, theoryID)], nil
}

// Comment operations.

func (m *Store) SaveComment(_ context.Context, comment *entities.Comment) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Comments = append(m.Comments, *comment)
	return nil
}

func (m *Store) FindCommentsByLoreEntry(_ context.Context, loreEntryID string) ([]entities.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []entities.Comment
	for _, c := range m.Comments {
		if c.LoreEntryID == loreEntryID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *Store) FindCommentsByTheory(_ context.Context, theoryID string) ([]entities.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []entities.Comment
	for _, c := range m.Comments {
		if c.TheoryID == theoryID {
			result = append(result, c)
		}
	}
	return result, nil
}

// Profile operations.

func (m *Store) SaveProfile(_ context.Context, profile *entities.Profile) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Profiles[profile.ID] = profile
	return nil
}

func (m *Store) FindProfileByID(_ context.Context, userID string) (*entities.Profile, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Profiles[userID], nil
}

// API key operations.

func (m *Store) SaveAPIKey(_ context.Context, key *entities.APIKey) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.APIKeys {
		if existing.UserID == key.UserID && existing.ServiceName == key.ServiceName {
			existing.Key = key.Key
			existing.IsActive = key.IsActive
			existing.UpdatedAt = key.UpdatedAt
			return nil
		}
	}
	m.APIKeys[key.ID] = key
	return nil
}

func (m *Store) FindAPIKeyByService(_ context.Context, userID, serviceName string) (*entities.APIKey, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.APIKeys {
		if k.UserID == userID && k.ServiceName == serviceName {
			return k, nil
		}
	}
	return nil, nil
}

func (m *Store) ListAPIKeys(_ context.Context, userID string) ([]*entities.APIKey, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entities.APIKey
	for _, k := range m.APIKeys {
		if k.UserID == userID {
			result = append(result, k)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *Store) SetAPIKeyActive(_ context.Context, userID, id string, active bool) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.APIKeys[id]
	if !ok || key.UserID != userID {
		return errs.NotFound("api key", id)
	}
	key.IsActive = active
	return nil
}

func (m *Store) DeleteAPIKey(_ context.Context, userID, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.APIKeys[id]
	if !ok || key.UserID != userID {
		return errs.NotFound("api key", id)
	}
	delete(m.APIKeys, id)
	return nil
}

// Timeline operations.

func (m *Store) SaveTimeline(_ context.Context, timeline *entities.Timeline) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timelines[timeline.ID] = timeline
	return nil
}

func (m *Store) FindTimelineByID(_ context.Context, id string) (*entities.Timeline, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Timelines[id], nil
}

func (m *Store) ListTimelines(_ context.Context, isOfficial *bool) ([]*entities.Timeline, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entities.Timeline
	for _, t := range m.Timelines {
		if isOfficial != nil && t.IsOfficial != *isOfficial {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (m *Store) SaveTimelineEvent(_ context.Context, event *entities.TimelineEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *Store) FindTimelineEvents(_ context.Context, timelineID, seriesID string) ([]*entities.TimelineEvent, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entities.TimelineEvent
	for _, e := range m.Events {
		if e.TimelineID != timelineID {
			continue
		}
		if seriesID != "" && e.SeriesID != seriesID {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year < result[j].Year })
	return result, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
