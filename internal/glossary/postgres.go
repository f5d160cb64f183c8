package glossary

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/postgres"
)

const createWordsTable = `
CREATE TABLE IF NOT EXISTS glossary_words (
	glossary TEXT NOT NULL,
	word     TEXT NOT NULL,
	PRIMARY KEY (glossary, word)
)`

// PostgresBackend keeps each glossary as the rows of glossary_words that
// share a glossary name.
type PostgresBackend struct {
	client *postgres.Client
	name   string
}

// NewPostgresBackend creates the glossary_words table if needed.
func NewPostgresBackend(ctx context.Context, client *postgres.Client, name string) (*PostgresBackend, error) {
	if _, err := client.DB.ExecContext(ctx, createWordsTable); err != nil {
		return nil, apperrors.Newf(apperrors.ErrBackend, apperrors.ExitFatal, "creating glossary_words table: %v", err)
	}
	return &PostgresBackend{client: client, name: name}, nil
}

func (b *PostgresBackend) Location() string {
	return "postgres://glossary_words/" + b.name
}

func (b *PostgresBackend) Load(ctx context.Context) (tokenizer.WordSet, error) {
	rows, err := b.client.DB.QueryContext(ctx,
		`SELECT word FROM glossary_words WHERE glossary = $1`, b.name)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrBackend, apperrors.ExitFatal, "querying glossary words: %v", err)
	}
	defer rows.Close()

	words := make(tokenizer.WordSet)
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, apperrors.Newf(apperrors.ErrBackend, apperrors.ExitFatal, "scanning glossary word: %v", err)
		}
		if w == "" {
			continue
		}
		words[w] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Newf(apperrors.ErrBackend, apperrors.ExitFatal, "iterating glossary words: %v", err)
	}
	return words, nil
}

func (b *PostgresBackend) Save(ctx context.Context, words []string) error {
	err := b.client.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM glossary_words WHERE glossary = $1`, b.name); err != nil {
			return fmt.Errorf("clearing glossary: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO glossary_words (glossary, word) VALUES ($1, $2)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()
		for _, w := range words {
			if _, err := stmt.ExecContext(ctx, b.name, w); err != nil {
				return fmt.Errorf("inserting word %q: %w", w, err)
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Newf(apperrors.ErrBackend, apperrors.ExitFatal, "%v", err)
	}
	return nil
}
