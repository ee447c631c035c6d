package events

import "context"

// Publisher is satisfied by *kafkaclient.Producer.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
}

// PublishTo returns a Recorder that publishes every event keyed by its
// session id, so one session's renders stay ordered on a partition.
func PublishTo(p Publisher) Recorder {
	return RecorderFunc(func(ctx context.Context, ev Rendered) error {
		return p.Publish(ctx, ev.SessionID, ev)
	})
}
