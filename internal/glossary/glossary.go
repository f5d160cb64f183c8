// Package glossary accumulates words into an order-agnostic set and
// persists it through a Backend. Record order is randomized on every dump so
// the stored artifact never reveals insertion order or word frequency.
package glossary

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/metrics"
)

// Backend is a durable location a glossary is loaded from and dumped to.
type Backend interface {
	// Load returns the persisted words. A location that does not exist
	// yields an empty set and no error.
	Load(ctx context.Context) (tokenizer.WordSet, error)
	// Save replaces the persisted glossary with words, keeping their order.
	Save(ctx context.Context, words []string) error
	// Location identifies the backing store in logs and events.
	Location() string
}

// Store owns the in-memory glossary for one run. It is not safe for
// concurrent use.
type Store struct {
	words   tokenizer.WordSet
	backend Backend
	metrics *metrics.Metrics
	logger  *slog.Logger
	shuffle func(n int, swap func(i, j int))
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records glossary size and dump outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithShuffle replaces the permutation applied before each dump.
func WithShuffle(fn func(n int, swap func(i, j int))) Option {
	return func(s *Store) { s.shuffle = fn }
}

// New creates a Store on backend. When load is true the existing glossary
// is read first; otherwise the store starts empty and the first dump
// overwrites whatever the backend holds.
func New(ctx context.Context, backend Backend, load bool, opts ...Option) (*Store, error) {
	s := &Store{
		words:   make(tokenizer.WordSet),
		backend: backend,
		logger:  logger.WithComponent(ctx, "glossary"),
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if load {
		words, err := s.Load(ctx)
		if err != nil {
			return nil, err
		}
		s.words = words
		s.logger.Info("glossary loaded",
			"location", backend.Location(),
			"size", len(words),
		)
	}
	s.observeSize()
	return s, nil
}

// Load reads the glossary currently persisted by the backend. It does not
// modify the store.
func (s *Store) Load(ctx context.Context) (tokenizer.WordSet, error) {
	words, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading glossary from %s: %w", s.backend.Location(), err)
	}
	return words, nil
}

// Add merges words into the glossary and returns how many were new.
// Adding the same words again has no effect.
func (s *Store) Add(words tokenizer.WordSet) int {
	added := 0
	for w := range words {
		if _, ok := s.words[w]; ok {
			continue
		}
		s.words[w] = struct{}{}
		added++
	}
	if added > 0 {
		s.observeSize()
	}
	return added
}

// Len returns the number of words in the glossary.
func (s *Store) Len() int {
	return len(s.words)
}

// Contains reports whether word is in the glossary.
func (s *Store) Contains(word string) bool {
	return s.words.Contains(word)
}

// Words returns a copy of the glossary.
func (s *Store) Words() tokenizer.WordSet {
	out := make(tokenizer.WordSet, len(s.words))
	for w := range s.words {
		out[w] = struct{}{}
	}
	return out
}

// Location identifies where Dump writes.
func (s *Store) Location() string {
	return s.backend.Location()
}

// Dump writes the glossary to the backend in a freshly randomized record
// order, replacing any prior content.
func (s *Store) Dump(ctx context.Context) error {
	start := time.Now()
	records := s.shuffled()

	log := logger.WithComponent(ctx, "glossary").With("location", s.backend.Location())
	log.Info("writing glossary", "size", len(records))

	if err := s.backend.Save(ctx, records); err != nil {
		s.observeDump("failure", start)
		return fmt.Errorf("dumping glossary to %s: %w", s.backend.Location(), err)
	}
	s.observeDump("success", start)
	return nil
}

func (s *Store) shuffled() []string {
	records := make([]string, 0, len(s.words))
	for w := range s.words {
		records = append(records, w)
	}
	s.shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
	return records
}

func (s *Store) observeSize() {
	if s.metrics != nil {
		s.metrics.GlossarySize.Set(float64(len(s.words)))
	}
}

func (s *Store) observeDump(status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.GlossaryDumpsTotal.WithLabelValues(status).Inc()
	s.metrics.GlossaryDumpDuration.Observe(time.Since(start).Seconds())
}
