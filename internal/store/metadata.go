package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

// SaveMetadata inserts or replaces the record for m.Shortcode.
// A zero CreatedAt is stored as the current time.
func (s *Store) SaveMetadata(ctx context.Context, m emoji.Metadata) error {
	if m.Shortcode == "" {
		return emoji.NewInvalidInputError("shortcode must not be empty")
	}
	aliasesJSON, err := marshalAliases(m.Aliases)
	if err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO custom_emojis (shortcode, filename, aliases, added_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(shortcode) DO UPDATE SET
			filename = excluded.filename,
			aliases = excluded.aliases,
			added_date = excluded.added_date
	`,
		m.Shortcode,
		m.SourceName,
		aliasesJSON,
		created.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	return nil
}

// SetAliases replaces the alias list of an existing record.
// Returns a NOT_FOUND error if there is none.
func (s *Store) SetAliases(ctx context.Context, shortcode string, aliases []string) error {
	aliasesJSON, err := marshalAliases(aliases)
	if err != nil {
		return fmt.Errorf("set aliases: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE custom_emojis SET aliases = ? WHERE shortcode = ?`,
		aliasesJSON, shortcode,
	)
	if err != nil {
		return fmt.Errorf("set aliases: %w", err)
	}
	return requireAffected(res, shortcode)
}

// DeleteMetadata removes the record for shortcode.
// Returns a NOT_FOUND error if there is none.
func (s *Store) DeleteMetadata(ctx context.Context, shortcode string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM custom_emojis WHERE shortcode = ?`, shortcode)
	if err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	return requireAffected(res, shortcode)
}

// ReadMetadata returns the record for shortcode.
// Returns a NOT_FOUND error if there is none.
func (s *Store) ReadMetadata(ctx context.Context, shortcode string) (emoji.Metadata, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT shortcode, filename, aliases, added_date
		FROM custom_emojis
		WHERE shortcode = ?
	`, shortcode)

	m, err := scanMetadata(row)
	if errors.Is(err, sql.ErrNoRows) {
		return emoji.Metadata{}, emoji.NewNotFoundError(shortcode)
	}
	if err != nil {
		return emoji.Metadata{}, fmt.Errorf("read metadata: %w", err)
	}
	return m, nil
}

// ListMetadata returns every record, oldest first.
func (s *Store) ListMetadata(ctx context.Context) ([]emoji.Metadata, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT shortcode, filename, aliases, added_date
		FROM custom_emojis
		ORDER BY added_date ASC, shortcode COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}
	defer rows.Close()

	var out []emoji.Metadata
	for rows.Next() {
		m, err := scanMetadata(rows)
		if err != nil {
			return nil, fmt.Errorf("list metadata: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMetadata(row rowScanner) (emoji.Metadata, error) {
	var (
		m           emoji.Metadata
		aliasesJSON string
		addedMillis int64
	)
	if err := row.Scan(&m.Shortcode, &m.SourceName, &aliasesJSON, &addedMillis); err != nil {
		return emoji.Metadata{}, err
	}
	aliases, err := unmarshalAliases(aliasesJSON)
	if err != nil {
		return emoji.Metadata{}, fmt.Errorf("shortcode %q: %w", m.Shortcode, err)
	}
	m.Aliases = aliases
	m.CreatedAt = time.UnixMilli(addedMillis).UTC()
	return m, nil
}

func requireAffected(res sql.Result, shortcode string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return emoji.NewNotFoundError(shortcode)
	}
	return nil
}

// marshalAliases stores a nil list as "[]".
func marshalAliases(aliases []string) (string, error) {
	if aliases == nil {
		aliases = []string{}
	}
	data, err := json.Marshal(aliases)
	if err != nil {
		return "", fmt.Errorf("marshal aliases: %w", err)
	}
	return string(data), nil
}

func unmarshalAliases(data string) ([]string, error) {
	aliases := []string{}
	if data == "" {
		return aliases, nil
	}
	if err := json.Unmarshal([]byte(data), &aliases); err != nil {
		return nil, fmt.Errorf("unmarshal aliases: %w", err)
	}
	return aliases, nil
}
