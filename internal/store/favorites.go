package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BaGreal2/filmes-server/internal/db"
	"github.com/BaGreal2/filmes-server/internal/model"
)

const (
	sqlInsertFavorite = `
		INSERT INTO favoritos (titulo, tipo, descricao, data_adicao)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	sqlListFavorites = `
		SELECT id, titulo, tipo, descricao, data_adicao
		FROM   favoritos
		ORDER  BY data_adicao DESC, id DESC`

	sqlDeleteFavorite = `
		DELETE FROM favoritos WHERE id = $1`
)

// FavoriteStore is a single global list; duplicate titles are allowed.
type FavoriteStore struct {
	q   db.Querier
	now func() time.Time
}

func NewFavoriteStore(q db.Querier) *FavoriteStore {
	return &FavoriteStore{q: q, now: func() time.Time { return time.Now().UTC() }}
}

func (s *FavoriteStore) Add(ctx context.Context, title string, mediaType model.MediaType, description string) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("%w: titulo is required", ErrInvalidArgument)
	}
	if !mediaType.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, model.ErrInvalidMediaType)
	}

	var id int64
	err := s.q.QueryRow(ctx, sqlInsertFavorite, title, string(mediaType), description, s.now()).Scan(&id)
	if err != nil {
		return 0, unavailable("add favorite", err)
	}
	return id, nil
}

// List returns every favorite, newest first.
func (s *FavoriteStore) List(ctx context.Context) ([]model.Favorite, error) {
	rows, err := s.q.Query(ctx, sqlListFavorites)
	if err != nil {
		return nil, unavailable("list favorites", err)
	}
	defer rows.Close()

	favorites := make([]model.Favorite, 0)
	for rows.Next() {
		var (
			f    model.Favorite
			kind string
		)
		if err := rows.Scan(&f.ID, &f.Title, &kind, &f.Description, &f.AddedAt); err != nil {
			return nil, unavailable("scan favorite", err)
		}
		f.MediaType = model.MediaType(kind)
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list favorites", err)
	}
	return favorites, nil
}

// Remove deletes the favorite if present. Removing an unknown id is not an
// error.
func (s *FavoriteStore) Remove(ctx context.Context, id int64) error {
	if _, err := s.q.Exec(ctx, sqlDeleteFavorite, id); err != nil {
		return unavailable("remove favorite", err)
	}
	return nil
}
