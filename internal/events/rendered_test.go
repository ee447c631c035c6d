package events

import (
	"context"
	"errors"
	"testing"
)

func TestFanout_DeliversToAll(t *testing.T) {
	var calls []string
	record := func(name string, err error) Recorder {
		return RecorderFunc(func(_ context.Context, ev Rendered) error {
			calls = append(calls, name+":"+ev.ID)
			return err
		})
	}
	failure := errors.New("kafka down")

	f := Fanout{record("a", nil), record("b", failure), record("c", nil)}
	err := f.Record(context.Background(), Rendered{ID: "1"})

	if !errors.Is(err, failure) {
		t.Fatalf("expected joined failure, got %v", err)
	}
	if len(calls) != 3 || calls[2] != "c:1" {
		t.Errorf("calls = %v", calls)
	}
	if (Fanout{}).Record(context.Background(), Rendered{}) != nil {
		t.Error("empty fanout should not fail")
	}
}

type fakePublisher struct {
	keys   []string
	values []any
}

func (p *fakePublisher) Publish(_ context.Context, key string, value any) error {
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
	return nil
}

func TestPublishTo_KeysBySession(t *testing.T) {
	p := &fakePublisher{}
	ev := Rendered{ID: "ev-1", SessionID: "sess-9"}

	if err := PublishTo(p).Record(context.Background(), ev); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(p.keys) != 1 || p.keys[0] != "sess-9" {
		t.Fatalf("keys = %v", p.keys)
	}
	if got, ok := p.values[0].(Rendered); !ok || got.ID != "ev-1" {
		t.Errorf("value = %#v", p.values[0])
	}
}
