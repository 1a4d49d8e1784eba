package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// fakeRedis is an in-memory RedisClient for unit tests.
type fakeRedis struct {
	data map[string]string
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: make(map[string]string)} }

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case string:
		f.data[key] = v
	case []byte:
		f.data[key] = string(v)
	}
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedis) Close() error { return nil }

func TestRemovalLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("load on empty store yields empty set", func(t *testing.T) {
		ledger := NewRemovalLedger(newFakeRedis())
		if err := ledger.Load(ctx); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if ledger.Contains("job-1") {
			t.Error("empty ledger should not contain anything")
		}
		if len(ledger.IDs()) != 0 {
			t.Errorf("expected no ids, got %v", ledger.IDs())
		}
	})

	t.Run("add persists and is idempotent", func(t *testing.T) {
		store := newFakeRedis()
		ledger := NewRemovalLedger(store)

		if err := ledger.Add(ctx, "job-1"); err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := ledger.Add(ctx, "job-1"); err != nil {
			t.Fatalf("second add: %v", err)
		}
		if err := ledger.Add(ctx, "job-2"); err != nil {
			t.Fatalf("add: %v", err)
		}

		if !ledger.Contains("job-1") || !ledger.Contains("job-2") {
			t.Error("ledger must contain both added ids")
		}
		got := ledger.IDs()
		if len(got) != 2 || got[0] != "job-1" || got[1] != "job-2" {
			t.Errorf("expected insertion-ordered [job-1 job-2], got %v", got)
		}

		var persisted []string
		if err := json.Unmarshal([]byte(store.data[removalKey]), &persisted); err != nil {
			t.Fatalf("persisted record is not a JSON id list: %v", err)
		}
		if len(persisted) != 2 {
			t.Errorf("expected 2 persisted ids, got %v", persisted)
		}
	})

	t.Run("load restores a previously persisted set", func(t *testing.T) {
		store := newFakeRedis()
		first := NewRemovalLedger(store)
		_ = first.Add(ctx, "job-a")
		_ = first.Add(ctx, "job-b")

		second := NewRemovalLedger(store)
		if err := second.Load(ctx); err != nil {
			t.Fatalf("load: %v", err)
		}
		if !second.Contains("job-a") || !second.Contains("job-b") {
			t.Error("restored ledger must contain persisted ids")
		}
	})
}
