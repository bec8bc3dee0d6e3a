// ReccoBeats implementation of the audio-features fetch.
//
// Spotify deprecated its own audio-features endpoint, so features come from
// https://api.reccobeats.com, which accepts Spotify track ids.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/shared"
	"golang.org/x/time/rate"
)

const (
	reccoBeatsBaseURL = "https://api.reccobeats.com"

	defaultFeatureBatchSize = 40
)

type featurePayload struct {
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Danceability     float64 `json:"danceability"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
}

type featureContent struct {
	Content []*featurePayload `json:"content"`
}

// FeatureService fetches per-track audio features from the ReccoBeats API.
// Requests are unauthenticated, paced by a [rate.Limiter], and retried under
// the same policy as catalog batches.
type FeatureService struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryPolicy
	logger     *log.Logger
	baseURL    string
	batchSize  int
}

// NewFeatureService creates a features client from catalog settings.
func NewFeatureService(cfg shared.CatalogConfig, logger *log.Logger) *FeatureService {
	baseURL := cfg.FeaturesBaseURL
	if baseURL == "" {
		baseURL = reccoBeatsBaseURL
	}
	batchSize := cfg.FeatureBatchSize
	if batchSize <= 0 || batchSize > defaultFeatureBatchSize {
		batchSize = defaultFeatureBatchSize
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5
	}
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}

	return &FeatureService{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(limit), burst),
		retry:      retryPolicyFromConfig(cfg),
		logger:     logger,
		baseURL:    baseURL,
		batchSize:  batchSize,
	}
}

// GetAudioFeatures retrieves audio features keyed by the requested track ids.
// The provider returns entries in request order without echoing the ids, so
// entries are matched back to ids by position. Null entries and tracks the
// provider does not know are simply absent from the result.
func (f *FeatureService) GetAudioFeatures(ctx context.Context, ids []string) (map[string]models.AudioFeatures, error) {
	features := make(map[string]models.AudioFeatures, len(ids))

	for _, batch := range chunk(ids, f.batchSize) {
		endpoint := "/v1/audio-features?ids=" + url.QueryEscape(strings.Join(batch, ","))
		var payload featureContent
		err := runBatch(ctx, f.retry, f.logger, "audio features", func(ctx context.Context) error {
			payload = featureContent{}
			return f.get(ctx, endpoint, &payload)
		})
		if err != nil {
			return nil, err
		}

		for i, item := range payload.Content {
			if item == nil || i >= len(batch) {
				continue
			}
			features[batch[i]] = models.AudioFeatures{
				Energy:           item.Energy,
				Valence:          item.Valence,
				Danceability:     item.Danceability,
				Tempo:            item.Tempo,
				Acousticness:     item.Acousticness,
				Instrumentalness: item.Instrumentalness,
			}
		}
	}

	return features, nil
}

func (f *FeatureService) get(ctx context.Context, endpoint string, result any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
