package archive

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"amenitymap/internal/events"
	"amenitymap/internal/service"
	"amenitymap/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type fakeSource struct {
	ch        chan kafka.Message
	mu        sync.Mutex
	committed []int64
}

func newFakeSource(ids ...string) *fakeSource {
	ch := make(chan kafka.Message, len(ids))
	for i, id := range ids {
		ch <- kafka.Message{Offset: int64(i), Value: []byte(`{"id":"` + id + `","sessionId":"s1"}`)}
	}
	close(ch)
	return &fakeSource{ch: ch}
}

func (s *fakeSource) Messages() <-chan kafka.Message { return s.ch }

func (s *fakeSource) CommitOffset(_ context.Context, msg kafka.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed = append(s.committed, msg.Offset)
	return nil
}

func (s *fakeSource) offsets() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.committed...)
}

type fakeStore struct {
	existing map[string]bool
	failing  map[string]bool
	stored   []string
}

func (f *fakeStore) StoreSnapshot(_ context.Context, _ string, ev events.Rendered) (string, bool, error) {
	key := "renders/" + ev.ID + ".json"
	if f.failing[ev.ID] {
		return key, false, errors.New("bucket unreachable")
	}
	if f.existing[ev.ID] {
		return key, false, nil
	}
	f.stored = append(f.stored, ev.ID)
	return key, true, nil
}

func TestRun(t *testing.T) {
	tests := []struct {
		name          string
		ids           []string
		store         *fakeStore
		wantErr       bool
		wantCommitted []int64
		wantStats     Stats
	}{
		{
			name:          "stores and commits each event once",
			ids:           []string{"a", "b"},
			store:         &fakeStore{},
			wantCommitted: []int64{0, 1},
			wantStats:     Stats{Stored: 2},
		},
		{
			name:          "existing object is skipped and still committed",
			ids:           []string{"a", "b"},
			store:         &fakeStore{existing: map[string]bool{"a": true}},
			wantCommitted: []int64{0, 1},
			wantStats:     Stats{Stored: 1, Skipped: 1},
		},
		{
			name:          "storage failure stops before committing",
			ids:           []string{"a", "b", "c"},
			store:         &fakeStore{failing: map[string]bool{"b": true}},
			wantErr:       true,
			wantCommitted: []int64{0},
			wantStats:     Stats{Stored: 1},
		},
		{
			name:          "failure on first event commits nothing",
			ids:           []string{"a"},
			store:         &fakeStore{failing: map[string]bool{"a": true}},
			wantErr:       true,
			wantCommitted: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			src := newFakeSource(tt.ids...)
			it := service.NewIterator[events.Rendered](src, nil, logger.Discard())

			stats, err := Run(ctx, it, tt.store, "snapshots", logger.Discard())
			cancel()

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if stats != tt.wantStats {
				t.Errorf("stats = %+v, want %+v", stats, tt.wantStats)
			}
			got := src.offsets()
			if len(got) != len(tt.wantCommitted) {
				t.Fatalf("committed = %v, want %v", got, tt.wantCommitted)
			}
			for i := range got {
				if got[i] != tt.wantCommitted[i] {
					t.Errorf("committed = %v, want %v", got, tt.wantCommitted)
				}
			}
		})
	}
}
