package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/shared"
)

// FeatureRepository caches per-track audio features in sqlite. Feature
// scalars never change for a released track, so the TTL mostly guards
// against provider corrections.
type FeatureRepository struct {
	db  *sql.DB
	ttl time.Duration
}

// NewFeatureRepository creates a new FeatureRepository with the given database connection
func NewFeatureRepository(db *sql.DB, ttl time.Duration) *FeatureRepository {
	return &FeatureRepository{db: db, ttl: ttl}
}

func (r *FeatureRepository) cutoff() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(-r.ttl)
}

// Get retrieves cached audio features for the given track ids. Returns the
// fresh hits keyed by track id and the ids that need fetching, in input
// order.
func (r *FeatureRepository) Get(ids []string) (map[string]models.AudioFeatures, []string, error) {
	hits := make(map[string]models.AudioFeatures, len(ids))
	if len(ids) == 0 {
		return hits, nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		SELECT track_id, energy, valence, danceability, tempo, acousticness, instrumentalness
		FROM audio_features
		WHERE track_id IN (%s) AND fetched_at > ?
	`, placeholders)

	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, r.cutoff())

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query cached features: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var trackID string
		var features models.AudioFeatures
		err := rows.Scan(
			&trackID,
			&features.Energy,
			&features.Valence,
			&features.Danceability,
			&features.Tempo,
			&features.Acousticness,
			&features.Instrumentalness,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan features: %w", err)
		}
		hits[trackID] = features
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

// Put caches the given features, refreshing entries that already exist.
func (r *FeatureRepository) Put(features map[string]models.AudioFeatures) error {
	now := time.Now()
	for trackID, f := range features {
		if trackID == "" {
			continue
		}

		if err := r.insert(trackID, f, now); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				if err := r.refresh(trackID, f, now); err != nil {
					return err
				}
				continue
			}
			return err
		}
	}
	return nil
}

func (r *FeatureRepository) insert(trackID string, f models.AudioFeatures, now time.Time) error {
	sequence, err := NextSequence(r.db, "audio_features")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO audio_features (id, sequence, track_id, energy, valence, danceability, tempo, acousticness, instrumentalness, fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		shared.GenerateID(),
		sequence,
		trackID,
		f.Energy,
		f.Valence,
		f.Danceability,
		f.Tempo,
		f.Acousticness,
		f.Instrumentalness,
		now,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert features: %w", err)
	}
	return nil
}

func (r *FeatureRepository) refresh(trackID string, f models.AudioFeatures, now time.Time) error {
	query := `
		UPDATE audio_features
		SET energy = ?, valence = ?, danceability = ?, tempo = ?, acousticness = ?, instrumentalness = ?, fetched_at = ?, updated_at = ?
		WHERE track_id = ?
	`

	_, err := r.db.Exec(query,
		f.Energy,
		f.Valence,
		f.Danceability,
		f.Tempo,
		f.Acousticness,
		f.Instrumentalness,
		now,
		now,
		trackID,
	)
	if err != nil {
		return fmt.Errorf("failed to refresh features: %w", err)
	}
	return nil
}

// Count returns the number of cached feature rows, fresh or stale.
func (r *FeatureRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM audio_features").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count features: %w", err)
	}
	return count, nil
}

// Clear removes all cached features.
func (r *FeatureRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM audio_features"); err != nil {
		return fmt.Errorf("failed to clear features: %w", err)
	}
	return nil
}
