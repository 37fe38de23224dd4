// Package extdata probes extended-data storage for facts recorded outside the
// validation pipeline, currently whether a landing has a related sales note.
package extdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"catchrec/internal/platform/redis"
)

// SalesNoteStore answers whether a sales note exists for a landing, keyed by
// landing date and RSS number.
type SalesNoteStore interface {
	HasSalesNote(ctx context.Context, date time.Time, rssNumber string) (bool, error)
}

// RedisSalesNotes reads sales-note presence flags maintained by the upstream
// ingestion jobs.
type RedisSalesNotes struct {
	client *redis.Client
}

func NewRedisSalesNotes(client *redis.Client) (*RedisSalesNotes, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisSalesNotes{client: client}, nil
}

func (s *RedisSalesNotes) HasSalesNote(ctx context.Context, date time.Time, rssNumber string) (bool, error) {
	_, err := s.client.Get(ctx, Key(date, rssNumber)).Result()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sales note lookup: %w", err)
	}
	return true, nil
}

// Key builds the extended-data key for a landing: salesnote:<yyyy-mm-dd>:<rss>.
func Key(date time.Time, rssNumber string) string {
	return "salesnote:" + date.UTC().Format("2006-01-02") + ":" + rssNumber
}

// MemorySalesNotes is an in-memory SalesNoteStore for tests.
type MemorySalesNotes struct {
	mu   sync.RWMutex
	keys map[string]struct{}
	// Err, when set, is returned by every lookup.
	Err error
}

func NewMemorySalesNotes() *MemorySalesNotes {
	return &MemorySalesNotes{keys: make(map[string]struct{})}
}

// Add records a sales note for the given landing.
func (s *MemorySalesNotes) Add(date time.Time, rssNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[Key(date, rssNumber)] = struct{}{}
}

func (s *MemorySalesNotes) HasSalesNote(_ context.Context, date time.Time, rssNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.keys[Key(date, rssNumber)]
	return ok, nil
}
