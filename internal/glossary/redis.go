package glossary

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/errors"
)

// SetStore is the subset of the Redis client the backend needs.
type SetStore interface {
	SetMembers(ctx context.Context, key string) ([]string, error)
	ReplaceSet(ctx context.Context, key string, members []string) error
}

// RedisBackend keeps the glossary as a Redis set under a single key.
type RedisBackend struct {
	client SetStore
	key    string
}

func NewRedisBackend(client SetStore, keyPrefix, name string) *RedisBackend {
	return &RedisBackend{client: client, key: keyPrefix + name}
}

func (b *RedisBackend) Location() string {
	return "redis://" + b.key
}

func (b *RedisBackend) Load(ctx context.Context) (tokenizer.WordSet, error) {
	members, err := b.client.SetMembers(ctx, b.key)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrBackend, apperrors.ExitFatal, "%v", err)
	}
	words := make(tokenizer.WordSet, len(members))
	for _, m := range members {
		if m == "" {
			continue
		}
		words[m] = struct{}{}
	}
	return words, nil
}

func (b *RedisBackend) Save(ctx context.Context, words []string) error {
	if err := b.client.ReplaceSet(ctx, b.key, words); err != nil {
		return apperrors.Newf(apperrors.ErrBackend, apperrors.ExitFatal, "%v", err)
	}
	return nil
}
