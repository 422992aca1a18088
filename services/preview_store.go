package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fieldhouse-sports/scheduler-core/models"
)

// SchedulePreview is the cached result of an orchestrator.ScheduleEvent
// call awaiting a CommitSchedule. Token is the opaque handle the
// caller presents back to commit it.
type SchedulePreview struct {
	Token        string         `json:"token"`
	EventID      string         `json:"eventId"`
	Event        *models.Event  `json:"event"`
	Matches      []models.Match `json:"matches"`
	EffectiveEnd time.Time      `json:"effectiveEnd"`
	RequestedAt  time.Time      `json:"requestedAt"`
}

// PreviewStore is a TTL-backed cache for schedule previews, promoting
// the in-memory proposalStore pattern of
// other_examples/314e9bc8_noah-isme-sma-adp-api.../schedule_generator_service.go.go
// (Save/Get/Delete over a map keyed by a generated id, lazily expired
// on Get) onto a shared github.com/redis/go-redis/v9 cache so that
// ScheduleEvent and CommitSchedule can be served by different
// orchestrator instances behind a load balancer.
type PreviewStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

func NewPreviewStore(client *redis.Client, ttl time.Duration) *PreviewStore {
	return &PreviewStore{client: client, ttl: ttl, keyPrefix: "scheduler:preview:"}
}

func (s *PreviewStore) key(token string) string {
	return s.keyPrefix + token
}

// Save stores preview under a freshly generated token and returns it.
func (s *PreviewStore) Save(ctx context.Context, preview SchedulePreview) (SchedulePreview, error) {
	preview.Token = uuid.NewString()
	preview.RequestedAt = time.Now().UTC()

	raw, err := json.Marshal(preview)
	if err != nil {
		return SchedulePreview{}, fmt.Errorf("marshal schedule preview: %w", err)
	}
	if err := s.client.Set(ctx, s.key(preview.Token), raw, s.ttl).Err(); err != nil {
		return SchedulePreview{}, fmt.Errorf("cache schedule preview: %w", err)
	}
	return preview, nil
}

// Get fetches a previously saved preview by token. The ttl is enforced
// by Redis itself (SET ... EX), so a miss here means either the token
// never existed or it already expired — both surface as ok == false.
func (s *PreviewStore) Get(ctx context.Context, token string) (SchedulePreview, bool, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err == redis.Nil {
		return SchedulePreview{}, false, nil
	}
	if err != nil {
		return SchedulePreview{}, false, fmt.Errorf("fetch schedule preview %q: %w", token, err)
	}

	var preview SchedulePreview
	if err := json.Unmarshal(raw, &preview); err != nil {
		return SchedulePreview{}, false, fmt.Errorf("decode schedule preview %q: %w", token, err)
	}
	return preview, true, nil
}

func (s *PreviewStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete schedule preview %q: %w", token, err)
	}
	return nil
}
