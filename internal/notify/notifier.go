package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/synapsnap/quizbot/internal/eventlog"
	"github.com/synapsnap/quizbot/internal/results"
)

const TypeResultRecorded = "result.recorded"

// Publisher is the queue side; nil-able (offline mode logs only to the DB).
type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

// Notifier implements results.EventSink: every recorded result is appended
// to the durable event log and, when a publisher is configured, pushed to
// the notification queue.
type Notifier struct {
	events *eventlog.Repo
	pub    Publisher
	queue  string
}

func New(events *eventlog.Repo, pub Publisher, queue string) *Notifier {
	return &Notifier{events: events, pub: pub, queue: queue}
}

func (n *Notifier) ResultRecorded(ctx context.Context, r results.Result) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if n.events != nil {
		if err := n.events.Append(ctx, eventlog.Event{
			Type:     TypeResultRecorded,
			Key:      r.ID,
			DataJSON: string(body),
		}); err != nil {
			return fmt.Errorf("notify: append event: %w", err)
		}
	}
	if n.pub != nil {
		if err := n.pub.Publish(ctx, n.queue, body); err != nil {
			return fmt.Errorf("notify: publish event: %w", err)
		}
	}
	return nil
}
