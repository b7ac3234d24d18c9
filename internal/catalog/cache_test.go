package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type countingLister struct {
	calls int
	items []LocalizedItem
	err   error
}

func (l *countingLister) ListSports(locale string) ([]LocalizedItem, error) {
	l.calls++
	return l.items, l.err
}

func TestSportCache_NilClientReadsSource(t *testing.T) {
	src := &countingLister{items: []LocalizedItem{{ID: 1, Name: "Football", Locale: "en"}}}
	c := &SportCache{Source: src}

	for i := 0; i < 2; i++ {
		items, cached, err := c.Sports(context.Background(), "en")
		if err != nil || cached || len(items) != 1 {
			t.Fatalf("unexpected result: %v %v %+v", err, cached, items)
		}
	}
	if src.calls != 2 {
		t.Fatalf("expected source hit every time, got %d", src.calls)
	}
	c.Invalidate(context.Background())
}

func TestSportCache_UnreachableRedisDegrades(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	src := &countingLister{items: []LocalizedItem{{ID: 2, Name: "Tennis", Locale: "en"}}}
	c := &SportCache{Redis: client, TTL: time.Minute, Source: src}

	items, cached, err := c.Sports(context.Background(), "en")
	if err != nil {
		t.Fatalf("expected fallback, got %v", err)
	}
	if cached || len(items) != 1 || items[0].Name != "Tennis" {
		t.Fatalf("unexpected result: cached=%v items=%+v", cached, items)
	}
	c.Invalidate(context.Background())
}

func TestSportCache_SourceError(t *testing.T) {
	c := &SportCache{Source: &countingLister{err: errors.New("db down")}}
	if _, _, err := c.Sports(context.Background(), "en"); err == nil {
		t.Fatalf("expected source error")
	}
}
