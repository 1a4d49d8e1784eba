package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"infoseek-tracker/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.RemovalLedger = (*RemovalLedger)(nil)

const removalKey = "infoseek:removed_tasks"

// RemovalLedger persists the dismissed-job id set as a single JSON record.
// The in-memory set answers Contains; every Add rewrites the record. Ids are
// only ever appended.
type RemovalLedger struct {
	client RedisClient

	mu  sync.RWMutex
	ids []string
	set map[string]struct{}
}

func NewRemovalLedger(client RedisClient) *RemovalLedger {
	return &RemovalLedger{
		client: client,
		set:    make(map[string]struct{}),
	}
}

// Load reads the persisted record, replacing the in-memory set. A missing
// key means nothing has ever been dismissed.
func (l *RemovalLedger) Load(ctx context.Context) error {
	data, err := l.client.Get(ctx, removalKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	var ids []string
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids = l.ids[:0]
	l.set = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := l.set[id]; ok {
			continue
		}
		l.set[id] = struct{}{}
		l.ids = append(l.ids, id)
	}
	return nil
}

// Add appends an id and persists the full record. Adding a known id is a
// no-op.
func (l *RemovalLedger) Add(ctx context.Context, id string) error {
	l.mu.Lock()
	if _, ok := l.set[id]; ok {
		l.mu.Unlock()
		return nil
	}
	l.set[id] = struct{}{}
	l.ids = append(l.ids, id)
	payload, err := json.Marshal(l.ids)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	return l.client.Set(ctx, removalKey, payload, 0)
}

func (l *RemovalLedger) Contains(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.set[id]
	return ok
}

func (l *RemovalLedger) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.ids))
	copy(out, l.ids)
	return out
}
