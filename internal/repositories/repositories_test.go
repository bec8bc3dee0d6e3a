package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestArtistRepository(t *testing.T) {
	t.Run("Put And Get", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewArtistRepository(db, 24*time.Hour)

		artists := []models.Artist{
			{ID: "a1", Name: "First Band", Genres: []string{"rock", "indie rock"}},
			{ID: "a2", Name: "Second Act", Genres: nil},
		}
		if err := repo.Put(artists); err != nil {
			t.Fatalf("failed to cache artists: %v", err)
		}

		hits, missing, err := repo.Get([]string{"a1", "a2", "a3"})
		if err != nil {
			t.Fatalf("failed to get artists: %v", err)
		}

		if len(hits) != 2 {
			t.Fatalf("expected 2 hits, got %d", len(hits))
		}
		if got := hits["a1"]; got.Name != "First Band" || len(got.Genres) != 2 || got.Genres[1] != "indie rock" {
			t.Errorf("unexpected cached artist: %+v", got)
		}
		if got := hits["a2"]; len(got.Genres) != 0 {
			t.Errorf("expected empty genres to roundtrip, got %v", got.Genres)
		}
		if len(missing) != 1 || missing[0] != "a3" {
			t.Errorf("expected a3 to be missing, got %v", missing)
		}
	})

	t.Run("Refresh Existing", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewArtistRepository(db, 24*time.Hour)

		if err := repo.Put([]models.Artist{{ID: "a1", Name: "Old Name", Genres: []string{"pop"}}}); err != nil {
			t.Fatalf("failed to cache artist: %v", err)
		}
		if err := repo.Put([]models.Artist{{ID: "a1", Name: "New Name", Genres: []string{"pop", "synthpop"}}}); err != nil {
			t.Fatalf("failed to refresh artist: %v", err)
		}

		hits, _, err := repo.Get([]string{"a1"})
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}
		if got := hits["a1"]; got.Name != "New Name" || len(got.Genres) != 2 {
			t.Errorf("expected refreshed entry, got %+v", got)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count artists: %v", err)
		}
		if count != 1 {
			t.Errorf("expected a single row after refresh, got %d", count)
		}
	})

	t.Run("Stale Entries Are Misses", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewArtistRepository(db, 24*time.Hour)

		if err := repo.Put([]models.Artist{{ID: "a1", Name: "Stale Band"}}); err != nil {
			t.Fatalf("failed to cache artist: %v", err)
		}
		if _, err := db.Exec("UPDATE artists SET fetched_at = ?", time.Now().Add(-48*time.Hour)); err != nil {
			t.Fatalf("failed to backdate entry: %v", err)
		}

		hits, missing, err := repo.Get([]string{"a1"})
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("expected stale entry to miss, got %+v", hits)
		}
		if len(missing) != 1 || missing[0] != "a1" {
			t.Errorf("expected a1 to need refetching, got %v", missing)
		}
	})

	t.Run("Zero TTL Never Expires", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewArtistRepository(db, 0)

		if err := repo.Put([]models.Artist{{ID: "a1", Name: "Evergreen"}}); err != nil {
			t.Fatalf("failed to cache artist: %v", err)
		}
		if _, err := db.Exec("UPDATE artists SET fetched_at = ?", time.Now().Add(-24*365*time.Hour)); err != nil {
			t.Fatalf("failed to backdate entry: %v", err)
		}

		hits, _, err := repo.Get([]string{"a1"})
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}
		if len(hits) != 1 {
			t.Errorf("expected ancient entry to stay fresh, got %+v", hits)
		}
	})

	t.Run("Count And Clear", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewArtistRepository(db, 24*time.Hour)

		artists := []models.Artist{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}}
		if err := repo.Put(artists); err != nil {
			t.Fatalf("failed to cache artists: %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 rows, got %d", count)
		}

		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		count, err = repo.Count()
		if err != nil {
			t.Fatalf("failed to count after clear: %v", err)
		}
		if count != 0 {
			t.Errorf("expected empty cache, got %d rows", count)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewArtistRepository(db, 24*time.Hour)

		hits, missing, err := repo.Get(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hits) != 0 || len(missing) != 0 {
			t.Errorf("expected no hits or misses, got %v / %v", hits, missing)
		}
	})

	t.Run("Skips Blank IDs", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewArtistRepository(db, 24*time.Hour)

		if err := repo.Put([]models.Artist{{ID: ""}, {ID: "a1"}}); err != nil {
			t.Fatalf("failed to cache artists: %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected blank id skipped, got %d rows", count)
		}
	})
}

func TestFeatureRepository(t *testing.T) {
	t.Run("Put And Get", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewFeatureRepository(db, 24*time.Hour)

		features := map[string]models.AudioFeatures{
			"t1": {Energy: 0.5, Valence: 0.25, Danceability: 0.75, Tempo: 120.5, Acousticness: 0.125, Instrumentalness: 0.0625},
			"t2": {Energy: 1},
		}
		if err := repo.Put(features); err != nil {
			t.Fatalf("failed to cache features: %v", err)
		}

		hits, missing, err := repo.Get([]string{"t1", "t2", "t3"})
		if err != nil {
			t.Fatalf("failed to get features: %v", err)
		}

		if len(hits) != 2 {
			t.Fatalf("expected 2 hits, got %d", len(hits))
		}
		got := hits["t1"]
		if got.Energy != 0.5 || got.Valence != 0.25 || got.Danceability != 0.75 {
			t.Errorf("unexpected cached features: %+v", got)
		}
		if got.Tempo != 120.5 || got.Acousticness != 0.125 || got.Instrumentalness != 0.0625 {
			t.Errorf("unexpected cached features: %+v", got)
		}
		if len(missing) != 1 || missing[0] != "t3" {
			t.Errorf("expected t3 to be missing, got %v", missing)
		}
	})

	t.Run("Refresh Existing", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewFeatureRepository(db, 24*time.Hour)

		if err := repo.Put(map[string]models.AudioFeatures{"t1": {Energy: 0.1}}); err != nil {
			t.Fatalf("failed to cache features: %v", err)
		}
		if err := repo.Put(map[string]models.AudioFeatures{"t1": {Energy: 0.9}}); err != nil {
			t.Fatalf("failed to refresh features: %v", err)
		}

		hits, _, err := repo.Get([]string{"t1"})
		if err != nil {
			t.Fatalf("failed to get features: %v", err)
		}
		if hits["t1"].Energy != 0.9 {
			t.Errorf("expected refreshed energy, got %f", hits["t1"].Energy)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected a single row after refresh, got %d", count)
		}
	})

	t.Run("Stale Entries Are Misses", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewFeatureRepository(db, time.Hour)

		if err := repo.Put(map[string]models.AudioFeatures{"t1": {Energy: 0.4}}); err != nil {
			t.Fatalf("failed to cache features: %v", err)
		}
		if _, err := db.Exec("UPDATE audio_features SET fetched_at = ?", time.Now().Add(-2*time.Hour)); err != nil {
			t.Fatalf("failed to backdate entry: %v", err)
		}

		_, missing, err := repo.Get([]string{"t1"})
		if err != nil {
			t.Fatalf("failed to get features: %v", err)
		}
		if len(missing) != 1 || missing[0] != "t1" {
			t.Errorf("expected t1 to need refetching, got %v", missing)
		}
	})

	t.Run("Count And Clear", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewFeatureRepository(db, 24*time.Hour)

		if err := repo.Put(map[string]models.AudioFeatures{"t1": {}, "t2": {}}); err != nil {
			t.Fatalf("failed to cache features: %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 rows, got %d", count)
		}

		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		count, err = repo.Count()
		if err != nil {
			t.Fatalf("failed to count after clear: %v", err)
		}
		if count != 0 {
			t.Errorf("expected empty cache, got %d rows", count)
		}
	})
}
