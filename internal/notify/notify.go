// Package notify announces completed glossary dumps on Kafka. Events carry
// only the glossary's location and size, never its words.
package notify

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/logger"
)

// GlossaryDumped is the payload published after a successful dump.
type GlossaryDumped struct {
	RunID     string    `json:"run_id"`
	Location  string    `json:"location"`
	Backend   string    `json:"backend"`
	WordCount int       `json:"word_count"`
	DumpedAt  time.Time `json:"dumped_at"`
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

type Notifier struct {
	publisher Publisher
	backend   string
	now       func() time.Time
}

func New(publisher Publisher, backend string) *Notifier {
	return &Notifier{publisher: publisher, backend: backend, now: time.Now}
}

// GlossaryDumped publishes a dump event keyed by location. The glossary is
// already durable at this point, so a failed publish is logged and
// returned for the caller to report, not to abort on.
func (n *Notifier) GlossaryDumped(ctx context.Context, location string, wordCount int) error {
	event := GlossaryDumped{
		RunID:     logger.RunID(ctx),
		Location:  location,
		Backend:   n.backend,
		WordCount: wordCount,
		DumpedAt:  n.now().UTC(),
	}
	if err := n.publisher.Publish(ctx, kafka.Event{Key: location, Value: event}); err != nil {
		logger.FromContext(ctx).Warn("glossary dump notification failed",
			"location", location,
			"error", err,
		)
		return err
	}
	return nil
}
