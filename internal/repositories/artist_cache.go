package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/shared"
)

// ArtistRepository caches artist genre lookups in sqlite so repeated analyses
// skip refetching unchanged artist metadata.
//
// Entries older than the TTL are treated as misses and refetched. A
// non-positive TTL keeps entries fresh forever.
type ArtistRepository struct {
	db  *sql.DB
	ttl time.Duration
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB, ttl time.Duration) *ArtistRepository {
	return &ArtistRepository{db: db, ttl: ttl}
}

// cutoff returns the oldest fetched_at still considered fresh.
func (r *ArtistRepository) cutoff() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(-r.ttl)
}

// Get retrieves cached artists for the given ids. Returns the fresh hits
// keyed by artist id and the ids that need fetching, in input order.
func (r *ArtistRepository) Get(ids []string) (map[string]models.Artist, []string, error) {
	hits := make(map[string]models.Artist, len(ids))
	if len(ids) == 0 {
		return hits, nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		SELECT artist_id, name, genres
		FROM artists
		WHERE artist_id IN (%s) AND fetched_at > ?
	`, placeholders)

	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, r.cutoff())

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query cached artists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, nil, err
		}
		hits[artist.ID] = artist
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row iteration error: %w", err)
	}

	var missing []string
	for _, id := range ids {
		if _, ok := hits[id]; !ok {
			missing = append(missing, id)
		}
	}

	return hits, missing, nil
}

// Put caches the given artists, refreshing entries that already exist.
func (r *ArtistRepository) Put(artists []models.Artist) error {
	now := time.Now()
	for _, artist := range artists {
		if artist.ID == "" {
			continue
		}

		genres, err := json.Marshal(artist.Genres)
		if err != nil {
			return fmt.Errorf("failed to encode genres: %w", err)
		}

		if err := r.insert(artist, string(genres), now); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				if err := r.refresh(artist, string(genres), now); err != nil {
					return err
				}
				continue
			}
			return err
		}
	}
	return nil
}

func (r *ArtistRepository) insert(artist models.Artist, genres string, now time.Time) error {
	sequence, err := NextSequence(r.db, "artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO artists (id, sequence, artist_id, name, genres, fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, shared.GenerateID(), sequence, artist.ID, artist.Name, genres, now, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}
	return nil
}

func (r *ArtistRepository) refresh(artist models.Artist, genres string, now time.Time) error {
	query := `
		UPDATE artists
		SET name = ?, genres = ?, fetched_at = ?, updated_at = ?
		WHERE artist_id = ?
	`

	if _, err := r.db.Exec(query, artist.Name, genres, now, now, artist.ID); err != nil {
		return fmt.Errorf("failed to refresh artist: %w", err)
	}
	return nil
}

// Count returns the number of cached artists, fresh or stale.
func (r *ArtistRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM artists").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count artists: %w", err)
	}
	return count, nil
}

// Clear removes all cached artists.
func (r *ArtistRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM artists"); err != nil {
		return fmt.Errorf("failed to clear artists: %w", err)
	}
	return nil
}

// scanArtist scans a row from [sql.Rows] into a [models.Artist]
func scanArtist(rows *sql.Rows) (models.Artist, error) {
	var (
		artistID string
		name     string
		genres   string
	)

	if err := rows.Scan(&artistID, &name, &genres); err != nil {
		return models.Artist{}, fmt.Errorf("failed to scan artist: %w", err)
	}

	artist := models.Artist{ID: artistID, Name: name}
	if genres != "" {
		if err := json.Unmarshal([]byte(genres), &artist.Genres); err != nil {
			return models.Artist{}, fmt.Errorf("failed to decode genres: %w", err)
		}
	}

	return artist, nil
}
