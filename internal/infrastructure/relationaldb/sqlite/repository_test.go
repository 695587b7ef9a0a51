package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/ports"
	"github.com/fanbase/fanbase/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func seedCharacter(t *testing.T, repo *Repository, id, name, seriesID string) {
	t.Helper()
	err := repo.SaveCharacter(context.Background(), &entities.Character{
		ID:        id,
		Name:      name,
		SeriesID:  seriesID,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func seedTheory(t *testing.T, repo *Repository, id string, approved bool) {
	t.Helper()
	now := time.Now()
	err := repo.SaveTheory(context.Background(), &entities.Theory{
		ID:          id,
		Title:       "theory " + id,
		Description: "what if",
		CreatorID:   "user-1",
		IsApproved:  approved,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	// Verify tables exist
	tables := []string{
		"series", "profiles", "characters", "relationship_edges",
		"lore_entries", "character_lore_entries", "fan_theories",
		"votes", "comments", "api_keys", "timelines", "timeline_events",
	}
	for _, table := range tables {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	// Should not error when called again
	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_Series(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("save and find", func(t *testing.T) {
		err := repo.SaveSeries(ctx, &entities.Series{
			ID:        "classic",
			Name:      "Classic",
			ColorCode: "#0088ff",
		})
		require.NoError(t, err)

		found, err := repo.FindSeriesByID(ctx, "classic")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Classic", found.Name)
		assert.Equal(t, "#0088ff", found.ColorCode)
	})

	t.Run("missing series returns nil", func(t *testing.T) {
		found, err := repo.FindSeriesByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		err := repo.SaveSeries(ctx, &entities.Series{ID: "x", Name: "X"})
		require.NoError(t, err)

		all, err := repo.ListSeries(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Classic", all[0].Name)
		assert.Equal(t, "X", all[1].Name)
	})
}

func TestRepository_Characters(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	err := repo.SaveSeries(ctx, &entities.Series{ID: "classic", Name: "Classic", ColorCode: "#0088ff"})
	require.NoError(t, err)

	t.Run("save and find with series resolved", func(t *testing.T) {
		seedCharacter(t, repo, "char-1", "Rock", "classic")

		found, err := repo.FindCharacterByID(ctx, "char-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Rock", found.Name)
		require.NotNil(t, found.Series)
		assert.Equal(t, "Classic", found.Series.Name)
	})

	t.Run("missing character returns nil", func(t *testing.T) {
		found, err := repo.FindCharacterByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("list filters by series", func(t *testing.T) {
		seedCharacter(t, repo, "char-2", "Zero", "x-series")

		all, err := repo.ListCharacters(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		classic, err := repo.ListCharacters(ctx, "classic")
		require.NoError(t, err)
		require.Len(t, classic, 1)
		assert.Equal(t, "Rock", classic[0].Name)
	})

	t.Run("save is an upsert", func(t *testing.T) {
		err := repo.SaveCharacter(ctx, &entities.Character{
			ID:       "char-1",
			Name:     "Mega Man",
			SeriesID: "classic",
		})
		require.NoError(t, err)

		found, err := repo.FindCharacterByID(ctx, "char-1")
		require.NoError(t, err)
		assert.Equal(t, "Mega Man", found.Name)
	})
}

func TestRepository_Edges(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	seedCharacter(t, repo, "char-1", "Rock", "classic")
	seedCharacter(t, repo, "char-2", "Roll", "classic")
	seedCharacter(t, repo, "char-3", "Blues", "classic")

	edge := &entities.RelationshipEdge{
		ID:                "edge-1",
		SourceCharacterID: "char-1",
		TargetCharacterID: "char-2",
		Type:              "sibling",
		CreatedAt:         time.Now(),
	}
	require.NoError(t, repo.SaveEdge(ctx, edge))

	t.Run("find by character sees both roles", func(t *testing.T) {
		asSource, err := repo.FindEdgesByCharacter(ctx, "char-1")
		require.NoError(t, err)
		require.Len(t, asSource, 1)

		asTarget, err := repo.FindEdgesByCharacter(ctx, "char-2")
		require.NoError(t, err)
		require.Len(t, asTarget, 1)
		assert.Equal(t, "edge-1", asTarget[0].ID)
	})

	t.Run("find between matches either direction", func(t *testing.T) {
		found, err := repo.FindEdgeBetween(ctx, "char-2", "char-1", "sibling")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "edge-1", found.ID)

		// Different type between the same pair is a different edge
		none, err := repo.FindEdgeBetween(ctx, "char-1", "char-2", "rival")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("delete missing edge returns not found", func(t *testing.T) {
		err := repo.DeleteEdge(ctx, "nope")
		require.Error(t, err)
		var notFound *errs.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("delete removes the edge", func(t *testing.T) {
		require.NoError(t, repo.DeleteEdge(ctx, "edge-1"))

		edges, err := repo.FindEdgesByCharacter(ctx, "char-1")
		require.NoError(t, err)
		assert.Empty(t, edges)
	})
}

func TestRepository_Associations(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	seedCharacter(t, repo, "char-1", "Rock", "classic")
	now := time.Now()
	err := repo.SaveLoreEntry(ctx, &entities.LoreEntry{
		ID:        "lore-1",
		Title:     "Origins",
		Content:   "Built by Dr. Light",
		Tags:      []string{"Canon"},
		CreatorID: "user-1",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	t.Run("associate is idempotent", func(t *testing.T) {
		require.NoError(t, repo.SaveAssociation(ctx, "char-1", "lore-1"))
		require.NoError(t, repo.SaveAssociation(ctx, "char-1", "lore-1"))

		chars, err := repo.FindCharactersByLoreEntry(ctx, "lore-1")
		require.NoError(t, err)
		require.Len(t, chars, 1)
		assert.Equal(t, "Rock", chars[0].Name)
	})

	t.Run("resolves both directions", func(t *testing.T) {
		entries, err := repo.FindLoreEntriesByCharacter(ctx, "char-1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Origins", entries[0].Title)
		assert.Equal(t, []string{"Canon"}, entries[0].Tags)
	})
}

func TestRepository_LoreEntries(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	save := func(id, seriesID string, tags []string, approved bool, at time.Time) {
		t.Helper()
		err := repo.SaveLoreEntry(ctx, &entities.LoreEntry{
			ID:         id,
			Title:      "entry " + id,
			Content:    "content",
			SeriesID:   seriesID,
			Tags:       tags,
			Sources:    []string{"Mega Man 1"},
			CreatorID:  "user-1",
			IsApproved: approved,
			CreatedAt:  at,
			UpdatedAt:  at,
		})
		require.NoError(t, err)
	}

	base := time.Now().Add(-time.Hour)
	save("lore-1", "classic", []string{"Canon"}, true, base)
	save("lore-2", "classic", []string{"Theory"}, false, base.Add(time.Minute))
	save("lore-3", "x-series", []string{"Canon", "Game Only"}, true, base.Add(2*time.Minute))

	t.Run("find round-trips tags and sources", func(t *testing.T) {
		found, err := repo.FindLoreEntryByID(ctx, "lore-3")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, []string{"Canon", "Game Only"}, found.Tags)
		assert.Equal(t, []string{"Mega Man 1"}, found.Sources)
	})

	t.Run("approved only filter", func(t *testing.T) {
		entries, err := repo.ListLoreEntries(ctx, ports.LoreFilter{ApprovedOnly: true})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		// Newest first
		assert.Equal(t, "lore-3", entries[0].ID)
		assert.Equal(t, "lore-1", entries[1].ID)
	})

	t.Run("series and tag filters", func(t *testing.T) {
		entries, err := repo.ListLoreEntries(ctx, ports.LoreFilter{SeriesID: "classic", ApprovedOnly: true})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "lore-1", entries[0].ID)

		tagged, err := repo.ListLoreEntries(ctx, ports.LoreFilter{Tag: "Game Only", ApprovedOnly: true})
		require.NoError(t, err)
		require.Len(t, tagged, 1)
		assert.Equal(t, "lore-3", tagged[0].ID)
	})

	t.Run("set approval", func(t *testing.T) {
		require.NoError(t, repo.SetLoreApproval(ctx, "lore-2", true))

		found, err := repo.FindLoreEntryByID(ctx, "lore-2")
		require.NoError(t, err)
		assert.True(t, found.IsApproved)

		err = repo.SetLoreApproval(ctx, "nope", true)
		var notFound *errs.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestRepository_Theories(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	seedTheory(t, repo, "theory-1", true)
	seedTheory(t, repo, "theory-2", false)

	t.Run("list returns approved only", func(t *testing.T) {
		theories, err := repo.ListApprovedTheories(ctx)
		require.NoError(t, err)
		require.Len(t, theories, 1)
		assert.Equal(t, "theory-1", theories[0].ID)
	})

	t.Run("set approval", func(t *testing.T) {
		require.NoError(t, repo.SetTheoryApproval(ctx, "theory-2", true))

		theories, err := repo.ListApprovedTheories(ctx)
		require.NoError(t, err)
		assert.Len(t, theories, 2)
	})

	t.Run("update does not touch upvotes", func(t *testing.T) {
		_, err := repo.ToggleVote(ctx, "user-1", "theory-1")
		require.NoError(t, err)

		theory, err := repo.FindTheoryByID(ctx, "theory-1")
		require.NoError(t, err)
		theory.Title = "renamed"
		theory.Upvotes = 99
		require.NoError(t, repo.SaveTheory(ctx, theory))

		after, err := repo.FindTheoryByID(ctx, "theory-1")
		require.NoError(t, err)
		assert.Equal(t, "renamed", after.Title)
		assert.Equal(t, 1, after.Upvotes)
	})
}

func TestRepository_ToggleVote(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	seedTheory(t, repo, "theory-1", true)

	countVotes := func() int {
		t.Helper()
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM votes WHERE fan_theory_id = ?`, "theory-1").Scan(&count)
		require.NoError(t, err)
		return count
	}

	t.Run("first toggle creates the vote", func(t *testing.T) {
		result, err := repo.ToggleVote(ctx, "user-1", "theory-1")
		require.NoError(t, err)
		assert.True(t, result.Upvoted)
		assert.Equal(t, 1, result.Upvotes)
		assert.Equal(t, 1, countVotes())
	})

	t.Run("second toggle removes it", func(t *testing.T) {
		result, err := repo.ToggleVote(ctx, "user-1", "theory-1")
		require.NoError(t, err)
		assert.False(t, result.Upvoted)
		assert.Equal(t, 0, result.Upvotes)
		assert.Equal(t, 0, countVotes())
	})

	t.Run("counter always matches the row count", func(t *testing.T) {
		users := []string{"user-1", "user-2", "user-3"}
		for _, user := range users {
			_, err := repo.ToggleVote(ctx, user, "theory-1")
			require.NoError(t, err)
		}
		_, err := repo.ToggleVote(ctx, "user-2", "theory-1")
		require.NoError(t, err)

		theory, err := repo.FindTheoryByID(ctx, "theory-1")
		require.NoError(t, err)
		assert.Equal(t, countVotes(), theory.Upvotes)
		assert.Equal(t, 2, theory.Upvotes)
	})

	t.Run("has voted reflects the row", func(t *testing.T) {
		voted, err := repo.HasVoted(ctx, "user-1", "theory-1")
		require.NoError(t, err)
		assert.True(t, voted)

		voted, err = repo.HasVoted(ctx, "user-2", "theory-1")
		require.NoError(t, err)
		assert.False(t, voted)
	})

	t.Run("missing theory returns not found", func(t *testing.T) {
		_, err := repo.ToggleVote(ctx, "user-1", "nope")
		var notFound *errs.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestRepository_Comments(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	seedTheory(t, repo, "theory-1", true)
	require.NoError(t, repo.SaveProfile(ctx, entities.NewProfile("user-1", "rockfan", "", "", entities.RoleUser)))

	base := time.Now().Add(-time.Hour)
	save := func(id, content, loreEntryID, theoryID string, at time.Time) {
		t.Helper()
		err := repo.SaveComment(ctx, &entities.Comment{
			ID:          id,
			Content:     content,
			UserID:      "user-1",
			LoreEntryID: loreEntryID,
			TheoryID:    theoryID,
			CreatedAt:   at,
		})
		require.NoError(t, err)
	}

	save("comment-2", "second", "", "theory-1", base.Add(time.Minute))
	save("comment-1", "first", "", "theory-1", base)
	save("comment-3", "other parent", "lore-1", "", base)

	t.Run("listed oldest first with author resolved", func(t *testing.T) {
		comments, err := repo.FindCommentsByTheory(ctx, "theory-1")
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "second", comments[1].Content)
		require.NotNil(t, comments[0].User)
		assert.Equal(t, "rockfan", comments[0].User.Username)
	})

	t.Run("lore entry comments are separate", func(t *testing.T) {
		comments, err := repo.FindCommentsByLoreEntry(ctx, "lore-1")
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "other parent", comments[0].Content)
	})

	t.Run("both parents set is rejected by the schema", func(t *testing.T) {
		err := repo.SaveComment(ctx, &entities.Comment{
			ID:          "comment-bad",
			Content:     "nope",
			UserID:      "user-1",
			LoreEntryID: "lore-1",
			TheoryID:    "theory-1",
			CreatedAt:   time.Now(),
		})
		require.Error(t, err)
	})
}

func TestRepository_Profiles(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("save and find", func(t *testing.T) {
		err := repo.SaveProfile(ctx, entities.NewProfile("user-1", "rockfan", "http://a/p.png", "hi", entities.RoleModerator))
		require.NoError(t, err)

		found, err := repo.FindProfileByID(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "rockfan", found.Username)
		assert.Equal(t, entities.RoleModerator, found.Role)
	})

	t.Run("upsert keeps the role column", func(t *testing.T) {
		err := repo.SaveProfile(ctx, entities.NewProfile("user-1", "renamed", "", "", entities.RoleModerator))
		require.NoError(t, err)

		found, err := repo.FindProfileByID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "renamed", found.Username)
	})

	t.Run("missing profile returns nil", func(t *testing.T) {
		found, err := repo.FindProfileByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestRepository_APIKeys(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	saveKey := func(id, userID, service, value string) {
		t.Helper()
		now := time.Now()
		err := repo.SaveAPIKey(ctx, &entities.APIKey{
			ID:          id,
			UserID:      userID,
			ServiceName: service,
			Key:         value,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		require.NoError(t, err)
	}

	t.Run("save and find by service", func(t *testing.T) {
		saveKey("key-1", "user-1", "openai", "sk-123")

		found, err := repo.FindAPIKeyByService(ctx, "user-1", "openai")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "sk-123", found.Key)
		assert.True(t, found.IsActive)

		missing, err := repo.FindAPIKeyByService(ctx, "user-1", "anthropic")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("resaving the same service keeps one row and its ID", func(t *testing.T) {
		require.NoError(t, repo.SetAPIKeyActive(ctx, "user-1", "key-1", false))
		saveKey("key-replaced", "user-1", "openai", "sk-456")

		found, err := repo.FindAPIKeyByService(ctx, "user-1", "openai")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "key-1", found.ID)
		assert.Equal(t, "sk-456", found.Key)
		assert.True(t, found.IsActive)

		keys, err := repo.ListAPIKeys(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, keys, 1)
	})

	t.Run("list is scoped to the user", func(t *testing.T) {
		saveKey("key-2", "user-2", "openai", "sk-789")

		keys, err := repo.ListAPIKeys(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, keys, 1)
		assert.Equal(t, "key-2", keys[0].ID)
	})

	t.Run("another user's key reads as missing", func(t *testing.T) {
		var notFound *errs.NotFoundError
		require.ErrorAs(t, repo.SetAPIKeyActive(ctx, "user-2", "key-1", false), &notFound)
		require.ErrorAs(t, repo.DeleteAPIKey(ctx, "user-2", "key-1"), &notFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteAPIKey(ctx, "user-1", "key-1"))

		var notFound *errs.NotFoundError
		require.ErrorAs(t, repo.DeleteAPIKey(ctx, "user-1", "key-1"), &notFound)
	})
}

func TestRepository_Timelines(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	now := time.Now()
	official := &entities.Timeline{ID: "tl-1", Title: "Official", IsOfficial: true, CreatedAt: now, UpdatedAt: now}
	fan := &entities.Timeline{ID: "tl-2", Title: "What If", CreatorID: "user-1", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.SaveTimeline(ctx, official))
	require.NoError(t, repo.SaveTimeline(ctx, fan))

	t.Run("list filters by official flag", func(t *testing.T) {
		all, err := repo.ListTimelines(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		officialOnly := true
		timelines, err := repo.ListTimelines(ctx, &officialOnly)
		require.NoError(t, err)
		require.Len(t, timelines, 1)
		assert.Equal(t, "tl-1", timelines[0].ID)
	})

	t.Run("events ordered by year", func(t *testing.T) {
		save := func(id, year, seriesID string) {
			t.Helper()
			err := repo.SaveTimelineEvent(ctx, &entities.TimelineEvent{
				ID:         id,
				TimelineID: "tl-1",
				Title:      "event " + id,
				Year:       year,
				SeriesID:   seriesID,
				Importance: 1,
				CreatedAt:  time.Now(),
			})
			require.NoError(t, err)
		}
		save("ev-2", "21XX", "x-series")
		save("ev-1", "20XX", "classic")

		events, err := repo.FindTimelineEvents(ctx, "tl-1", "")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "ev-1", events[0].ID)
		assert.Equal(t, "ev-2", events[1].ID)

		filtered, err := repo.FindTimelineEvents(ctx, "tl-1", "classic")
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, "ev-1", filtered[0].ID)
	})
}
