package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/mixt/internal/models"
	"github.com/desertthunder/mixt/internal/shared"
)

// SourceRepository caches normalized source playlists in SQLite.
//
// Sources are keyed by name. Save replaces any existing snapshot with the
// same name; Get reconstructs the full [models.SourcePlaylist] including
// metadata rows and first-seen track order.
type SourceRepository struct {
	db *sql.DB
}

// NewSourceRepository creates a new SourceRepository with the given database connection
func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// Save stores a source playlist snapshot, replacing any existing source
// with the same name. Returns the generated source ID.
func (r *SourceRepository) Save(src *models.SourcePlaylist) (string, error) {
	headerJSON, err := json.Marshal(src.Header)
	if err != nil {
		return "", fmt.Errorf("failed to encode header: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM source_tracks
		WHERE source_id IN (SELECT id FROM sources WHERE name = ?)
	`, src.Name); err != nil {
		return "", fmt.Errorf("failed to clear previous tracks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sources WHERE name = ?", src.Name); err != nil {
		return "", fmt.Errorf("failed to clear previous source: %w", err)
	}

	id := shared.GenerateID()
	now := time.Now()

	if _, err := tx.Exec(`
		INSERT INTO sources (id, name, header, track_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, src.Name, string(headerJSON), len(src.Keys), now, now); err != nil {
		return "", fmt.Errorf("failed to insert source: %w", err)
	}

	insert, err := tx.Prepare(`
		INSERT INTO source_tracks (source_id, position, artist, title, record)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer insert.Close()

	for i, key := range src.Keys {
		recordJSON, err := json.Marshal(src.Lookup(key))
		if err != nil {
			return "", fmt.Errorf("failed to encode record: %w", err)
		}
		if _, err := insert.Exec(id, i, key.Artist, key.Title, string(recordJSON)); err != nil {
			return "", fmt.Errorf("failed to insert track %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit source: %w", err)
	}

	return id, nil
}

// Get retrieves a cached source playlist by name
func (r *SourceRepository) Get(name string) (*models.SourcePlaylist, error) {
	var (
		id         string
		headerJSON string
	)

	err := r.db.QueryRow("SELECT id, header FROM sources WHERE name = ?", name).Scan(&id, &headerJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrSourceNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan source: %w", err)
	}

	var header []string
	if err := json.Unmarshal([]byte(headerJSON), &header); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT artist, title, record
		FROM source_tracks
		WHERE source_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	src := &models.SourcePlaylist{
		Name:    name,
		Records: make(map[models.TrackKey]models.TrackRecord),
		Header:  header,
	}

	for rows.Next() {
		var artist, title, recordJSON string
		if err := rows.Scan(&artist, &title, &recordJSON); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}

		var record models.TrackRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}

		key := models.TrackKey{Artist: artist, Title: title}
		src.Keys = append(src.Keys, key)
		src.Records[key] = record
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return src, nil
}

// List retrieves metadata for all cached sources, ordered by name
func (r *SourceRepository) List() ([]models.SourceInfo, error) {
	rows, err := r.db.Query(`
		SELECT id, name, track_count, created_at, updated_at
		FROM sources
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var infos []models.SourceInfo
	for rows.Next() {
		var info models.SourceInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.TrackCount, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return infos, nil
}

// Delete removes a cached source and its tracks by name
func (r *SourceRepository) Delete(name string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM source_tracks
		WHERE source_id IN (SELECT id FROM sources WHERE name = ?)
	`, name); err != nil {
		return fmt.Errorf("failed to delete tracks: %w", err)
	}

	result, err := tx.Exec("DELETE FROM sources WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSourceNotFound, name)
	}

	return tx.Commit()
}

// Clear removes all cached sources and tracks
func (r *SourceRepository) Clear() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM source_tracks"); err != nil {
		return fmt.Errorf("failed to clear tracks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sources"); err != nil {
		return fmt.Errorf("failed to clear sources: %w", err)
	}

	return tx.Commit()
}
