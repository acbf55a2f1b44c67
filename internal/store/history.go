package store

import (
	"context"
	"time"

	"github.com/BaGreal2/filmes-server/internal/db"
	"github.com/BaGreal2/filmes-server/internal/model"
)

const (
	sqlInsertHistory = `
		INSERT INTO historico (titulo, tipo, data_busca)
		VALUES ($1, $2, $3)`

	sqlListHistory = `
		SELECT id, titulo, tipo, data_busca
		FROM   historico
		ORDER  BY data_busca DESC, id DESC`

	sqlClearHistory = `
		DELETE FROM historico`
)

// HistoryStore is append-only per lookup and only ever cleared in bulk.
type HistoryStore struct {
	q   db.Querier
	now func() time.Time
}

func NewHistoryStore(q db.Querier) *HistoryStore {
	return &HistoryStore{q: q, now: func() time.Time { return time.Now().UTC() }}
}

func (s *HistoryStore) Record(ctx context.Context, title string, mediaType model.MediaType) error {
	if _, err := s.q.Exec(ctx, sqlInsertHistory, title, string(mediaType), s.now()); err != nil {
		return unavailable("record history", err)
	}
	return nil
}

func (s *HistoryStore) List(ctx context.Context) ([]model.HistoryEntry, error) {
	rows, err := s.q.Query(ctx, sqlListHistory)
	if err != nil {
		return nil, unavailable("list history", err)
	}
	defer rows.Close()

	entries := make([]model.HistoryEntry, 0)
	for rows.Next() {
		var (
			e    model.HistoryEntry
			kind string
		)
		if err := rows.Scan(&e.ID, &e.Title, &kind, &e.SearchedAt); err != nil {
			return nil, unavailable("scan history", err)
		}
		e.MediaType = model.MediaType(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list history", err)
	}
	return entries, nil
}

// Clear deletes every entry and reports how many were removed.
func (s *HistoryStore) Clear(ctx context.Context) (int64, error) {
	res, err := s.q.Exec(ctx, sqlClearHistory)
	if err != nil {
		return 0, unavailable("clear history", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("clear history", err)
	}
	return n, nil
}
