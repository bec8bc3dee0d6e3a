package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/desertthunder/vibes/internal/shared"
)

func newTestFeatures(t *testing.T, handler http.Handler) *FeatureService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := shared.CatalogConfig{
		FeaturesBaseURL:  server.URL,
		FeatureBatchSize: 40,
		RateLimit:        1000,
		MaxRetries:       3,
		RetryBaseMS:      1,
	}
	return NewFeatureService(cfg, shared.NewLogger(io.Discard))
}

func TestNewFeatureService(t *testing.T) {
	svc := NewFeatureService(shared.CatalogConfig{FeatureBatchSize: 200}, shared.NewLogger(io.Discard))

	if svc.baseURL != reccoBeatsBaseURL {
		t.Errorf("expected default base URL, got %s", svc.baseURL)
	}
	if svc.batchSize != defaultFeatureBatchSize {
		t.Errorf("expected batch size clamped to %d, got %d", defaultFeatureBatchSize, svc.batchSize)
	}
}

func TestGetAudioFeatures(t *testing.T) {
	t.Run("Maps Features Positionally", func(t *testing.T) {
		svc := newTestFeatures(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/audio-features" {
				t.Errorf("expected features path, got %s", r.URL.Path)
			}
			ids := strings.Split(r.URL.Query().Get("ids"), ",")
			if len(ids) != 3 {
				t.Errorf("expected 3 ids, got %v", ids)
			}
			json.NewEncoder(w).Encode(featureContent{
				Content: []*featurePayload{
					{Energy: 0.8, Valence: 0.6, Tempo: 120},
					nil,
					{Energy: 0.2, Danceability: 0.4},
				},
			})
		}))

		features, err := svc.GetAudioFeatures(context.Background(), []string{"t1", "t2", "t3"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(features) != 2 {
			t.Fatalf("expected null entry dropped, got %d features", len(features))
		}
		if _, ok := features["t2"]; ok {
			t.Error("expected t2 to be missing")
		}
		if got := features["t1"]; got.Energy != 0.8 || got.Valence != 0.6 || got.Tempo != 120 {
			t.Errorf("unexpected features for t1: %+v", got)
		}
		if got := features["t3"]; got.Energy != 0.2 || got.Danceability != 0.4 {
			t.Errorf("unexpected features for t3: %+v", got)
		}
	})

	t.Run("Chunks Requests", func(t *testing.T) {
		var batchSizes []int
		svc := newTestFeatures(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ids := strings.Split(r.URL.Query().Get("ids"), ",")
			batchSizes = append(batchSizes, len(ids))

			content := make([]*featurePayload, len(ids))
			for i := range content {
				content[i] = &featurePayload{Energy: 0.5}
			}
			json.NewEncoder(w).Encode(featureContent{Content: content})
		}))

		ids := make([]string, 90)
		for i := range ids {
			ids[i] = "track-" + strconv.Itoa(i)
		}

		features, err := svc.GetAudioFeatures(context.Background(), ids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(batchSizes) != 3 || batchSizes[0] != 40 || batchSizes[1] != 40 || batchSizes[2] != 10 {
			t.Errorf("expected batches of 40/40/10, got %v", batchSizes)
		}
		if len(features) != 90 {
			t.Errorf("expected features for all tracks, got %d", len(features))
		}
	})

	t.Run("Ignores Excess Entries", func(t *testing.T) {
		svc := newTestFeatures(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(featureContent{
				Content: []*featurePayload{{Energy: 0.1}, {Energy: 0.2}, {Energy: 0.3}},
			})
		}))

		features, err := svc.GetAudioFeatures(context.Background(), []string{"only"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(features) != 1 {
			t.Errorf("expected extra entries ignored, got %d features", len(features))
		}
	})

	t.Run("Retries Outage Then Succeeds", func(t *testing.T) {
		calls := 0
		svc := newTestFeatures(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			json.NewEncoder(w).Encode(featureContent{Content: []*featurePayload{{Energy: 0.7}}})
		}))

		features, err := svc.GetAudioFeatures(context.Background(), []string{"t1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 2 {
			t.Errorf("expected retry after outage, got %d calls", calls)
		}
		if features["t1"].Energy != 0.7 {
			t.Errorf("unexpected features: %+v", features["t1"])
		}
	})

	t.Run("Surfaces Rate Limit After Budget", func(t *testing.T) {
		svc := newTestFeatures(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))

		if _, err := svc.GetAudioFeatures(context.Background(), []string{"t1"}); !errors.Is(err, shared.ErrRateLimited) {
			t.Errorf("expected rate limited error, got %v", err)
		}
	})

	t.Run("Empty Input Makes No Requests", func(t *testing.T) {
		calls := 0
		svc := newTestFeatures(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))

		features, err := svc.GetAudioFeatures(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(features) != 0 || calls != 0 {
			t.Errorf("expected no work for empty input, got %d features and %d calls", len(features), calls)
		}
	})
}
