// Package sqlite provides a SQLite implementation of the Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/fanbase/fanbase/internal/domain/ports"
	"github.com/fanbase/fanbase/internal/infrastructure/config"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.Store using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Game series (display grouping and coloring)
	CREATE TABLE IF NOT EXISTS series (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_year TEXT NOT NULL DEFAULT '',
		end_year TEXT NOT NULL DEFAULT '',
		color_code TEXT NOT NULL DEFAULT ''
	);

	-- Profile rows keyed by the external identity provider's user id
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		avatar_url TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user'
	);

	-- Characters
	CREATE TABLE IF NOT EXISTS characters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		alias TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		portrait_url TEXT NOT NULL DEFAULT '',
		first_appearance TEXT NOT NULL DEFAULT '',
		series_id TEXT NOT NULL,
		is_robot_master INTEGER NOT NULL DEFAULT 0,
		is_maverick INTEGER NOT NULL DEFAULT 0,
		is_human INTEGER NOT NULL DEFAULT 0,
		is_reploid INTEGER NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_characters_series ON characters(series_id);
	CREATE INDEX IF NOT EXISTS idx_characters_name ON characters(name);

	-- Relationship edges (directed in storage, symmetric in presentation)
	CREATE TABLE IF NOT EXISTS relationship_edges (
		id TEXT PRIMARY KEY,
		source_character_id TEXT NOT NULL,
		target_character_id TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_edges_source ON relationship_edges(source_character_id);
	CREATE INDEX IF NOT EXISTS idx_edges_target ON relationship_edges(target_character_id);

	-- Lore entries (tags and sources stored as JSON arrays)
	CREATE TABLE IF NOT EXISTS lore_entries (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		series_id TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		sources TEXT NOT NULL DEFAULT '[]',
		creator_id TEXT NOT NULL,
		is_approved INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_lore_series ON lore_entries(series_id);
	CREATE INDEX IF NOT EXISTS idx_lore_approved ON lore_entries(is_approved);

	-- Character <-> lore entry join (one row per pair)
	CREATE TABLE IF NOT EXISTS character_lore_entries (
		character_id TEXT NOT NULL,
		lore_entry_id TEXT NOT NULL,
		PRIMARY KEY (character_id, lore_entry_id)
	);
	CREATE INDEX IF NOT EXISTS idx_cle_lore ON character_lore_entries(lore_entry_id);

	-- Fan theories (upvotes is denormalized, kept in sync inside ToggleVote)
	CREATE TABLE IF NOT EXISTS fan_theories (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		branching_point TEXT NOT NULL DEFAULT '',
		alternate_timeline TEXT NOT NULL DEFAULT '',
		creator_id TEXT NOT NULL,
		is_approved INTEGER NOT NULL DEFAULT 0,
		upvotes INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_theories_approved ON fan_theories(is_approved);

	-- Votes (one row per user+theory pair)
	CREATE TABLE IF NOT EXISTS votes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		fan_theory_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, fan_theory_id)
	);
	CREATE INDEX IF NOT EXISTS idx_votes_theory ON votes(fan_theory_id);

	-- Comments (append-only, exactly one parent)
	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		user_id TEXT NOT NULL,
		lore_entry_id TEXT,
		fan_theory_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CHECK ((lore_entry_id IS NULL) != (fan_theory_id IS NULL))
	);
	CREATE INDEX IF NOT EXISTS idx_comments_lore ON comments(lore_entry_id);
	CREATE INDEX IF NOT EXISTS idx_comments_theory ON comments(fan_theory_id);

	-- Per-user API keys for external services (one row per user+service)
	CREATE TABLE IF NOT EXISTS api_keys (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		service_name TEXT NOT NULL,
		api_key TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, service_name)
	);
	CREATE INDEX IF NOT EXISTS idx_api_keys_user ON api_keys(user_id);

	-- Timelines and their events
	CREATE TABLE IF NOT EXISTS timelines (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_official INTEGER NOT NULL DEFAULT 0,
		creator_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS timeline_events (
		id TEXT PRIMARY KEY,
		timeline_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		year TEXT NOT NULL,
		series_id TEXT NOT NULL DEFAULT '',
		importance INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_events_timeline ON timeline_events(timeline_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return errs.Store("creating schema", err)
	}
	return nil
}

// Series operations

// SaveSeries saves or updates a series.
func (r *Repository) SaveSeries(ctx context.Context, series *entities.Series) error {
	query := `
		INSERT INTO series (id, name, description, start_year, end_year, color_code)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			start_year = excluded.start_year,
			end_year = excluded.end_year,
			color_code = excluded.color_code
	`
	_, err := r.db.ExecContext(ctx, query,
		series.ID, series.Name, series.Description, series.StartYear, series.EndYear, series.ColorCode)
	return errs.Store("saving series", err)
}

// FindSeriesByID finds a series by its ID.
func (r *Repository) FindSeriesByID(ctx context.Context, id string) (*entities.Series, error) {
	query := `SELECT id, name, description, start_year, end_year, color_code FROM series WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s entities.Series
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.StartYear, &s.EndYear, &s.ColorCode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store("scanning series", err)
	}
	return &s, nil
}

// ListSeries lists all series ordered by name.
func (r *Repository) ListSeries(ctx context.Context) ([]*entities.Series, error) {
	query := `SELECT id, name, description, start_year, end_year, color_code FROM series ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errs.Store("querying series", err)
	}
	defer rows.Close()

	result := make([]*entities.Series, 0, 8)
	for rows.Next() {
		var s entities.Series
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.StartYear, &s.EndYear, &s.ColorCode); err != nil {
			return nil, errs.Store("scanning series", err)
		}
		result = append(result, &s)
	}
	return result, errs.Store("listing series", rows.Err())
}

// Character operations

const characterColumns = `
	c.id, c.name, c.alias, c.description, c.portrait_url, c.first_appearance,
	c.series_id, c.is_robot_master, c.is_maverick, c.is_human, c.is_reploid,
	c.created_by, c.created_at,
	s.id, s.name, s.color_code`

// scanCharacter scans a character row joined with its series columns.
func scanCharacter(scan func(dest ...any) error) (*entities.Character, error) {
	var c entities.Character
	var seriesID, seriesName, seriesColor sql.NullString
	err := scan(
		&c.ID, &c.Name, &c.Alias, &c.Description, &c.PortraitURL, &c.FirstAppearance,
		&c.SeriesID, &c.IsRobotMaster, &c.IsMaverick, &c.IsHuman, &c.IsReploid,
		&c.CreatedBy, &c.CreatedAt,
		&seriesID, &seriesName, &seriesColor,
	)
	if err != nil {
		return nil, err
	}
	if seriesID.Valid {
		c.Series = &entities.Series{
			ID:        seriesID.String,
			Name:      seriesName.String,
			ColorCode: seriesColor.String,
		}
	}
	return &c, nil
}

// SaveCharacter saves or updates a character.
func (r *Repository) SaveCharacter(ctx context.Context, character *entities.Character) error {
	query := `
		INSERT INTO characters (
			id, name, alias, description, portrait_url, first_appearance, series_id,
			is_robot_master, is_maverick, is_human, is_reploid, created_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			alias = excluded.alias,
			description = excluded.description,
			portrait_url = excluded.portrait_url,
			first_appearance = excluded.first_appearance,
			series_id = excluded.series_id,
			is_robot_master = excluded.is_robot_master,
			is_maverick = excluded.is_maverick,
			is_human = excluded.is_human,
			is_reploid = excluded.is_reploid
	`
	_, err := r.db.ExecContext(ctx, query,
		character.ID, character.Name, character.Alias, character.Description,
		character.PortraitURL, character.FirstAppearance, character.SeriesID,
		character.IsRobotMaster, character.IsMaverick, character.IsHuman, character.IsReploid,
		character.CreatedBy, character.CreatedAt,
	)
	return errs.Store("saving character", err)
}

// FindCharacterByID finds a character by ID with its series resolved.
func (r *Repository) FindCharacterByID(ctx context.Context, id string) (*entities.Character, error) {
	query := `
		SELECT ` + characterColumns + `
		FROM characters c
		LEFT JOIN series s ON s.id = c.series_id
		WHERE c.id = ?
	`
	row := r.db.QueryRowContext(ctx, query, id)
	character, err := scanCharacter(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store("scanning character", err)
	}
	return character, nil
}

// ListCharacters lists characters ordered by name, optionally by series.
func (r *Repository) ListCharacters(ctx context.Context, seriesID string) ([]*entities.Character, error) {
	query := `
		SELECT ` + characterColumns + `
		FROM characters c
		LEFT JOIN series s ON s.id = c.series_id
	`
	args := []any{}
	if seriesID != "" {
		query += ` WHERE c.series_id = ?`
		args = append(args, seriesID)
	}
	query += ` ORDER BY c.name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("querying characters", err)
	}
	defer rows.Close()

	result := make([]*entities.Character, 0, 16)
	for rows.Next() {
		character, err := scanCharacter(rows.Scan)
		if err != nil {
			return nil, errs.Store("scanning character", err)
		}
		result = append(result, character)
	}
	return result, errs.Store("listing characters", rows.Err())
}

// Relationship edge operations

// SaveEdge inserts a relationship edge.
func (r *Repository) SaveEdge(ctx context.Context, edge *entities.RelationshipEdge) error {
	query := `
		INSERT INTO relationship_edges (id, source_character_id, target_character_id, type, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		edge.ID, edge.SourceCharacterID, edge.TargetCharacterID, edge.Type, edge.Description, edge.CreatedAt)
	return errs.Store("saving edge", err)
}

// FindEdgeByID finds an edge by its ID.
func (r *Repository) FindEdgeByID(ctx context.Context, id string) (*entities.RelationshipEdge, error) {
	query := `
		SELECT id, source_character_id, target_character_id, type, description, created_at
		FROM relationship_edges
		WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var edge entities.RelationshipEdge
	err := row.Scan(&edge.ID, &edge.SourceCharacterID, &edge.TargetCharacterID,
		&edge.Type, &edge.Description, &edge.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store("scanning edge", err)
	}
	return &edge, nil
}

// FindEdgesByCharacter finds every edge touching a character, in either role.
// Ordering by rowid keeps results stable across reads.
func (r *Repository) FindEdgesByCharacter(ctx context.Context, characterID string) ([]entities.RelationshipEdge, error) {
	query := `
		SELECT id, source_character_id, target_character_id, type, description, created_at
		FROM relationship_edges
		WHERE source_character_id = ? OR target_character_id = ?
		ORDER BY rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, characterID, characterID)
	if err != nil {
		return nil, errs.Store("querying edges", err)
	}
	defer rows.Close()

	edges := make([]entities.RelationshipEdge, 0, 16)
	for rows.Next() {
		var edge entities.RelationshipEdge
		if err := rows.Scan(&edge.ID, &edge.SourceCharacterID, &edge.TargetCharacterID,
			&edge.Type, &edge.Description, &edge.CreatedAt); err != nil {
			return nil, errs.Store("scanning edge", err)
		}
		edges = append(edges, edge)
	}
	return edges, errs.Store("listing edges", rows.Err())
}

// FindEdgeBetween finds an edge of the given type between two characters in
// either direction. Returns nil if none exists.
func (r *Repository) FindEdgeBetween(ctx context.Context, characterA, characterB, edgeType string) (*entities.RelationshipEdge, error) {
	query := `
		SELECT id, source_character_id, target_character_id, type, description, created_at
		FROM relationship_edges
		WHERE type = ?
		  AND ((source_character_id = ? AND target_character_id = ?)
		   OR (source_character_id = ? AND target_character_id = ?))
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, edgeType, characterA, characterB, characterB, characterA)

	var edge entities.RelationshipEdge
	err := row.Scan(&edge.ID, &edge.SourceCharacterID, &edge.TargetCharacterID,
		&edge.Type, &edge.Description, &edge.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store("scanning edge", err)
	}
	return &edge, nil
}

// DeleteEdge deletes an edge by ID.
func (r *Repository) DeleteEdge(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM relationship_edges WHERE id = ?`, id)
	if err != nil {
		return errs.Store("deleting edge", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errs.NotFound("relationship edge", id)
	}
	return nil
}

// Association operations

// SaveAssociation links a character to a lore entry. INSERT OR IGNORE makes
// re-linking an existing pair a no-op.
func (r *Repository) SaveAssociation(ctx context.Context, characterID, loreEntryID string) error {
	query := `INSERT OR IGNORE INTO character_lore_entries (character_id, lore_entry_id) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, query, characterID, loreEntryID)
	return errs.Store("saving association", err)
}

// FindCharactersByLoreEntry resolves the characters linked to a lore entry.
func (r *Repository) FindCharactersByLoreEntry(ctx context.Context, loreEntryID string) ([]*entities.Character, error) {
	query := `
		SELECT ` + characterColumns + `
		FROM character_lore_entries cle
		JOIN characters c ON c.id = cle.character_id
		LEFT JOIN series s ON s.id = c.series_id
		WHERE cle.lore_entry_id = ?
		ORDER BY c.name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, loreEntryID)
	if err != nil {
		return nil, errs.Store("querying associated characters", err)
	}
	defer rows.Close()

	result := make([]*entities.Character, 0, 8)
	for rows.Next() {
		character, err := scanCharacter(rows.Scan)
		if err != nil {
			return nil, errs.Store("scanning character", err)
		}
		result = append(result, character)
	}
	return result, errs.Store("listing associated characters", rows.Err())
}

// FindLoreEntriesByCharacter resolves the lore entries linked to a character.
func (r *Repository) FindLoreEntriesByCharacter(ctx context.Context, characterID string) ([]*entities.LoreEntry, error) {
	query := `
		SELECT ` + loreColumns + `
		FROM character_lore_entries cle
		JOIN lore_entries l ON l.id = cle.lore_entry_id
		LEFT JOIN series s ON s.id = l.series_id
		WHERE cle.character_id = ?
		ORDER BY l.created_at DESC
	`
	return r.queryLoreEntries(ctx, query, characterID)
}

// Lore entry operations

const loreColumns = `
	l.id, l.title, l.content, l.series_id, l.tags, l.sources,
	l.creator_id, l.is_approved, l.created_at, l.updated_at,
	s.id, s.name, s.color_code`

// SaveLoreEntry saves or updates a lore entry.
func (r *Repository) SaveLoreEntry(ctx context.Context, entry *entities.LoreEntry) error {
	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}
	sources, err := json.Marshal(entry.Sources)
	if err != nil {
		return fmt.Errorf("marshaling sources: %w", err)
	}

	query := `
		INSERT INTO lore_entries (id, title, content, series_id, tags, sources, creator_id, is_approved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			series_id = excluded.series_id,
			tags = excluded.tags,
			sources = excluded.sources,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.Title, entry.Content, entry.SeriesID, string(tags), string(sources),
		entry.CreatorID, entry.IsApproved, entry.CreatedAt, entry.UpdatedAt)
	return errs.Store("saving lore entry", err)
}

// scanLoreEntry scans a lore entry row joined with its series columns.
func scanLoreEntry(scan func(dest ...any) error) (*entities.LoreEntry, error) {
	var entry entities.LoreEntry
	var tags, sources string
	var seriesID, seriesName, seriesColor sql.NullString
	err := scan(
		&entry.ID, &entry.Title, &entry.Content, &entry.SeriesID, &tags, &sources,
		&entry.CreatorID, &entry.IsApproved, &entry.CreatedAt, &entry.UpdatedAt,
		&seriesID, &seriesName, &seriesColor,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &entry.Tags); err != nil {
		return nil, fmt.Errorf("unmarshaling tags: %w", err)
	}
	if err := json.Unmarshal([]byte(sources), &entry.Sources); err != nil {
		return nil, fmt.Errorf("unmarshaling sources: %w", err)
	}
	if seriesID.Valid {
		entry.Series = &entities.Series{
			ID:        seriesID.String,
			Name:      seriesName.String,
			ColorCode: seriesColor.String,
		}
	}
	return &entry, nil
}

// FindLoreEntryByID finds a lore entry by its ID.
func (r *Repository) FindLoreEntryByID(ctx context.Context, id string) (*entities.LoreEntry, error) {
	query := `
		SELECT ` + loreColumns + `
		FROM lore_entries l
		LEFT JOIN series s ON s.id = l.series_id
		WHERE l.id = ?
	`
	row := r.db.QueryRowContext(ctx, query, id)
	entry, err := scanLoreEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store("scanning lore entry", err)
	}
	return entry, nil
}

// ListLoreEntries lists lore entries newest first, narrowed by filter. The
// tag filter is applied after scanning because tags live in a JSON column.
func (r *Repository) ListLoreEntries(ctx context.Context, filter ports.LoreFilter) ([]*entities.LoreEntry, error) {
	query := `
		SELECT ` + loreColumns + `
		FROM lore_entries l
		LEFT JOIN series s ON s.id = l.series_id
	`
	var conditions []string
	var args []any
	if filter.ApprovedOnly {
		conditions = append(conditions, "l.is_approved = 1")
	}
	if filter.SeriesID != "" {
		conditions = append(conditions, "l.series_id = ?")
		args = append(args, filter.SeriesID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY l.created_at DESC"

	entries, err := r.queryLoreEntries(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if filter.Tag == "" {
		return entries, nil
	}

	filtered := make([]*entities.LoreEntry, 0, len(entries))
	for _, entry := range entries {
		for _, tag := range entry.Tags {
			if tag == filter.Tag {
				filtered = append(filtered, entry)
				break
			}
		}
	}
	return filtered, nil
}

// SetLoreApproval flips the approval flag on a lore entry.
func (r *Repository) SetLoreApproval(ctx context.Context, id string, approved bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE lore_entries SET is_approved = ?, updated_at = ? WHERE id = ?`,
		approved, timeNow(), id)
	if err != nil {
		return errs.Store("updating lore approval", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errs.NotFound("lore entry", id)
	}
	return nil
}

// queryLoreEntries is a helper to execute lore entry queries.
func (r *Repository) queryLoreEntries(ctx context.Context, query string, args ...any) ([]*entities.LoreEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("querying lore entries", err)
	}
	defer rows.Close()

	result := make([]*entities.LoreEntry, 0, 16)
	for rows.Next() {
		entry, err := scanLoreEntry(rows.Scan)
		if err != nil {
			return nil, errs.Store("scanning lore entry", err)
		}
		result = append(result, entry)
	}
	return result, errs.Store("listing lore entries", rows.Err())
}

// Theory operations

// SaveTheory saves or updates a theory. Upvotes is deliberately absent from
// the update set: only ToggleVote touches the counter after insert.
func (r *Repository) SaveTheory(ctx context.Context, theory *entities.Theory) error {
	query := `
		INSERT INTO fan_theories (id, title, description, branching_point, alternate_timeline, creator_id, is_approved, upvotes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			branching_point = excluded.branching_point,
			alternate_timeline = excluded.alternate_timeline,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		theory.ID, theory.Title, theory.Description, theory.BranchingPoint, theory.AlternateTimeline,
		theory.CreatorID, theory.IsApproved, theory.Upvotes, theory.CreatedAt, theory.UpdatedAt)
	return errs.Store("saving theory", err)
}

const theoryColumns = `id, title, description, branching_point, alternate_timeline, creator_id, is_approved, upvotes, created_at, updated_at`

func scanTheory(scan func(dest ...any) error) (*entities.Theory, error) {
	var t entities.Theory
	err := scan(&t.ID, &t.Title, &t.Description, &t.BranchingPoint, &t.AlternateTimeline,
		&t.CreatorID, &t.IsApproved, &t.Upvotes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindTheoryByID finds a theory by its ID.
func (r *Repository) FindTheoryByID(ctx context.Context, id string) (*entities.Theory, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+theoryColumns+` FROM fan_theories WHERE id = ?`, id)
	theory, err := scanTheory(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store("scanning theory", err)
	}
	return theory, nil
}

// ListApprovedTheories lists approved theories ordered by upvotes descending.
func (r *Repository) ListApprovedTheories(ctx context.Context) ([]*entities.Theory, error) {
	query := `SELECT ` + theoryColumns + ` FROM fan_theories WHERE is_approved = 1 ORDER BY upvotes DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errs.Store("querying theories", err)
	}
	defer rows.Close()

	result := make([]*entities.Theory, 0, 16)
	for rows.Next() {
		theory, err := scanTheory(rows.Scan)
		if err != nil {
			return nil, errs.Store("scanning theory", err)
		}
		result = append(result, theory)
	}
	return result, errs.Store("listing theories", rows.Err())
}

// SetTheoryApproval flips the approval flag on a theory.
func (r *Repository) SetTheoryApproval(ctx context.Context, id string, approved bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE fan_theories SET is_approved = ?, updated_at = ? WHERE id = ?`,
		approved, timeNow(), id)
	if err != nil {
		return errs.Store("updating theory approval", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errs.NotFound("theory", id)
	}
	return nil
}

// Vote operations

// ToggleVote creates or removes the (user, theory) vote row and adjusts the
// upvote counter inside one transaction, so a partial application can never
// leave the counter out of sync with the row count.
func (r *Repository) ToggleVote(ctx context.Context, userID, theoryID string) (*entities.VoteResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.Store("beginning vote transaction", err)
	}
	defer tx.Rollback()

	var voteID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM votes WHERE user_id = ? AND fan_theory_id = ?`,
		userID, theoryID).Scan(&voteID)
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO votes (id, user_id, fan_theory_id, created_at) VALUES (?, ?, ?, ?)`,
			generateUUID(), userID, theoryID, timeNow())
		if err != nil {
			if isUniqueViolation(err) {
				return nil, errs.Conflict("vote already recorded for this theory")
			}
			return nil, errs.Store("inserting vote", err)
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE fan_theories SET upvotes = upvotes + 1 WHERE id = ?`, theoryID); err != nil {
			return nil, errs.Store("incrementing upvotes", err)
		}
	case err != nil:
		return nil, errs.Store("checking existing vote", err)
	default:
		if _, err = tx.ExecContext(ctx, `DELETE FROM votes WHERE id = ?`, voteID); err != nil {
			return nil, errs.Store("deleting vote", err)
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE fan_theories SET upvotes = upvotes - 1 WHERE id = ?`, theoryID); err != nil {
			return nil, errs.Store("decrementing upvotes", err)
		}
	}

	var upvotes int
	if err := tx.QueryRowContext(ctx,
		`SELECT upvotes FROM fan_theories WHERE id = ?`, theoryID).Scan(&upvotes); err != nil {
		if err == sql.ErrNoRows {
			return nil, errs.NotFound("theory", theoryID)
		}
		return nil, errs.Store("reading upvotes", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.Store("committing vote transaction", err)
	}
	return &entities.VoteResult{Upvoted: voteID == "", Upvotes: upvotes}, nil
}

// HasVoted reports whether a vote row exists for the pair.
func (r *Repository) HasVoted(ctx context.Context, userID, theoryID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE user_id = ? AND fan_theory_id = ?`,
		userID, theoryID).Scan(&count)
	if err != nil {
		return false, errs.Store("checking vote", err)
	}
	return count > 0, nil
}

// Comment operations

// SaveComment appends a comment. Empty parent IDs store as NULL so the
// exactly-one-parent CHECK constraint holds.
func (r *Repository) SaveComment(ctx context.Context, comment *entities.Comment) error {
	query := `
		INSERT INTO comments (id, content, user_id, lore_entry_id, fan_theory_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.Content, comment.UserID,
		nullableString(comment.LoreEntryID), nullableString(comment.TheoryID), comment.CreatedAt)
	return errs.Store("saving comment", err)
}

// FindCommentsByLoreEntry lists a lore entry's comments oldest first.
func (r *Repository) FindCommentsByLoreEntry(ctx context.Context, loreEntryID string) ([]entities.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		LEFT JOIN profiles p ON p.id = c.user_id
		WHERE c.lore_entry_id = ?
		ORDER BY c.created_at ASC, c.rowid ASC
	`
	return r.queryComments(ctx, query, loreEntryID)
}

// FindCommentsByTheory lists a theory's comments oldest first.
func (r *Repository) FindCommentsByTheory(ctx context.Context, theoryID string) ([]entities.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		LEFT JOIN profiles p ON p.id = c.user_id
		WHERE c.fan_theory_id = ?
		ORDER BY c.created_at ASC, c.rowid ASC
	`
	return r.queryComments(ctx, query, theoryID)
}

const commentColumns = `
	c.id, c.content, c.user_id, c.lore_entry_id, c.fan_theory_id, c.created_at,
	p.username, p.avatar_url, p.role`

// queryComments is a helper to execute comment queries.
func (r *Repository) queryComments(ctx context.Context, query string, args ...any) ([]entities.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("querying comments", err)
	}
	defer rows.Close()

	comments := make([]entities.Comment, 0, 16)
	for rows.Next() {
		var c entities.Comment
		var loreEntryID, theoryID, username, avatarURL, role sql.NullString
		if err := rows.Scan(&c.ID, &c.Content, &c.UserID, &loreEntryID, &theoryID, &c.CreatedAt,
			&username, &avatarURL, &role); err != nil {
			return nil, errs.Store("scanning comment", err)
		}
		c.LoreEntryID = loreEntryID.String
		c.TheoryID = theoryID.String
		if username.Valid {
			c.User = entities.NewProfile(c.UserID, username.String, avatarURL.String, "", entities.Role(role.String))
		}
		comments = append(comments, c)
	}
	return comments, errs.Store("listing comments", rows.Err())
}

// Profile operations

// SaveProfile saves or updates a profile row.
func (r *Repository) SaveProfile(ctx context.Context, profile *entities.Profile) error {
	query := `
		INSERT INTO profiles (id, username, avatar_url, bio, role)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			avatar_url = excluded.avatar_url,
			bio = excluded.bio
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.Username, profile.AvatarURL, profile.Bio, string(profile.Role))
	return errs.Store("saving profile", err)
}

// FindProfileByID finds a profile by the identity provider's user ID.
func (r *Repository) FindProfileByID(ctx context.Context, userID string) (*entities.Profile, error) {
	query := `SELECT id, username, avatar_url, bio, role FROM profiles WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, userID)

	var id, username, avatarURL, bio, role string
	err := row.Scan(&id, &username, &avatarURL, &bio, &role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store("scanning profile", err)
	}
	return entities.NewProfile(id, username, avatarURL, bio, entities.Role(role)), nil
}

// API key operations

const apiKeyColumns = `id, user_id, service_name, api_key, is_active, created_at, updated_at`

func scanAPIKey(scan func(dest ...any) error) (*entities.APIKey, error) {
	var k entities.APIKey
	err := scan(&k.ID, &k.UserID, &k.ServiceName, &k.Key, &k.IsActive, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// SaveAPIKey inserts or replaces the (user, service) key row. The conflict
// path keeps the original row ID and created_at, stores the new value and
// reactivates the key.
func (r *Repository) SaveAPIKey(ctx context.Context, key *entities.APIKey) error {
	query := `
		INSERT INTO api_keys (id, user_id, service_name, api_key, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, service_name) DO UPDATE SET
			api_key = excluded.api_key,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		key.ID, key.UserID, key.ServiceName, key.Key, key.IsActive, key.CreatedAt, key.UpdatedAt)
	return errs.Store("saving api key", err)
}

// FindAPIKeyByService finds a user's key for a service.
func (r *Repository) FindAPIKeyByService(ctx context.Context, userID, serviceName string) (*entities.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE user_id = ? AND service_name = ?`
	row := r.db.QueryRowContext(ctx, query, userID, serviceName)
	key, err := scanAPIKey(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store("scanning api key", err)
	}
	return key, nil
}

// ListAPIKeys lists a user's keys newest first.
func (r *Repository) ListAPIKeys(ctx context.Context, userID string) ([]*entities.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errs.Store("querying api keys", err)
	}
	defer rows.Close()

	result := make([]*entities.APIKey, 0, 8)
	for rows.Next() {
		key, err := scanAPIKey(rows.Scan)
		if err != nil {
			return nil, errs.Store("scanning api key", err)
		}
		result = append(result, key)
	}
	return result, errs.Store("listing api keys", rows.Err())
}

// SetAPIKeyActive flips a key's active flag. The user filter keeps one user
// from toggling another's key.
func (r *Repository) SetAPIKeyActive(ctx context.Context, userID, id string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET is_active = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		active, timeNow(), id, userID)
	if err != nil {
		return errs.Store("updating api key", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errs.NotFound("api key", id)
	}
	return nil
}

// DeleteAPIKey deletes a user's key by ID.
func (r *Repository) DeleteAPIKey(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM api_keys WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return errs.Store("deleting api key", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errs.NotFound("api key", id)
	}
	return nil
}

// Timeline operations

// SaveTimeline saves or updates a timeline.
func (r *Repository) SaveTimeline(ctx context.Context, timeline *entities.Timeline) error {
	query := `
		INSERT INTO timelines (id, title, description, is_official, creator_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		timeline.ID, timeline.Title, timeline.Description, timeline.IsOfficial,
		timeline.CreatorID, timeline.CreatedAt, timeline.UpdatedAt)
	return errs.Store("saving timeline", err)
}

// FindTimelineByID finds a timeline by its ID.
func (r *Repository) FindTimelineByID(ctx context.Context, id string) (*entities.Timeline, error) {
	query := `SELECT id, title, description, is_official, creator_id, created_at, updated_at FROM timelines WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var t entities.Timeline
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsOfficial, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store("scanning timeline", err)
	}
	return &t, nil
}

// ListTimelines lists timelines, optionally filtered by official status.
func (r *Repository) ListTimelines(ctx context.Context, isOfficial *bool) ([]*entities.Timeline, error) {
	query := `SELECT id, title, description, is_official, creator_id, created_at, updated_at FROM timelines`
	args := []any{}
	if isOfficial != nil {
		query += ` WHERE is_official = ?`
		args = append(args, *isOfficial)
	}
	query += ` ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("querying timelines", err)
	}
	defer rows.Close()

	result := make([]*entities.Timeline, 0, 8)
	for rows.Next() {
		var t entities.Timeline
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsOfficial, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, errs.Store("scanning timeline", err)
		}
		result = append(result, &t)
	}
	return result, errs.Store("listing timelines", rows.Err())
}

// SaveTimelineEvent adds an event to a timeline.
func (r *Repository) SaveTimelineEvent(ctx context.Context, event *entities.TimelineEvent) error {
	query := `
		INSERT INTO timeline_events (id, timeline_id, title, description, year, series_id, importance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.TimelineID, event.Title, event.Description, event.Year,
		event.SeriesID, event.Importance, event.CreatedAt)
	return errs.Store("saving timeline event", err)
}

// FindTimelineEvents lists a timeline's events ordered by year.
func (r *Repository) FindTimelineEvents(ctx context.Context, timelineID, seriesID string) ([]*entities.TimelineEvent, error) {
	query := `
		SELECT e.id, e.timeline_id, e.title, e.description, e.year, e.series_id, e.importance, e.created_at,
		       s.id, s.name, s.color_code
		FROM timeline_events e
		LEFT JOIN series s ON s.id = e.series_id
		WHERE e.timeline_id = ?
	`
	args := []any{timelineID}
	if seriesID != "" {
		query += ` AND e.series_id = ?`
		args = append(args, seriesID)
	}
	query += ` ORDER BY e.year ASC, e.rowid ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("querying timeline events", err)
	}
	defer rows.Close()

	result := make([]*entities.TimelineEvent, 0, 16)
	for rows.Next() {
		var e entities.TimelineEvent
		var seriesIDCol, seriesName, seriesColor sql.NullString
		if err := rows.Scan(&e.ID, &e.TimelineID, &e.Title, &e.Description, &e.Year,
			&e.SeriesID, &e.Importance, &e.CreatedAt,
			&seriesIDCol, &seriesName, &seriesColor); err != nil {
			return nil, errs.Store("scanning timeline event", err)
		}
		if seriesIDCol.Valid {
			e.Series = &entities.Series{
				ID:        seriesIDCol.String,
				Name:      seriesName.String,
				ColorCode: seriesColor.String,
			}
		}
		result = append(result, &e)
	}
	return result, errs.Store("listing timeline events", rows.Err())
}

// nullableString converts "" to NULL for optional foreign keys.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
