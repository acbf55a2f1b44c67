package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/BaGreal2/filmes-server/internal/middleware"
	"github.com/BaGreal2/filmes-server/internal/model"
	"github.com/BaGreal2/filmes-server/internal/store"
)

type Favorites interface {
	Add(ctx context.Context, title string, mediaType model.MediaType, description string) (int64, error)
	List(ctx context.Context) ([]model.Favorite, error)
	Remove(ctx context.Context, id int64) error
}

var _ Favorites = (*store.FavoriteStore)(nil)

type favoriteView struct {
	ID          int64           `json:"id"`
	Title       string          `json:"titulo"`
	MediaType   model.MediaType `json:"tipo"`
	Description string          `json:"descricao"`
	AddedAt     string          `json:"data_adicao"`
}

func AddFavoriteHandler(favorites Favorites) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.FavoriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, msgInvalidParams)
			return
		}
		mediaType, err := model.ParseMediaType(req.MediaType)
		if err != nil {
			writeErr(w, http.StatusBadRequest, msgInvalidParams)
			return
		}

		id, err := favorites.Add(r.Context(), req.Title, mediaType, req.Description)
		if errors.Is(err, store.ErrInvalidArgument) {
			writeErr(w, http.StatusBadRequest, msgInvalidParams)
			return
		}
		if err != nil {
			middleware.LoggerFrom(r.Context()).ErrorContext(r.Context(), "add favorite", "error", err)
			writeErr(w, http.StatusInternalServerError, "Erro ao adicionar favorito")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"mensagem": "Favorito adicionado com sucesso!",
			"id":       id,
		})
	}
}

func ListFavoritesHandler(favorites Favorites) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := favorites.List(r.Context())
		if err != nil {
			middleware.LoggerFrom(r.Context()).ErrorContext(r.Context(), "list favorites", "error", err)
			writeErr(w, http.StatusInternalServerError, "Erro ao listar favoritos")
			return
		}

		out := make([]favoriteView, 0, len(items))
		for _, f := range items {
			out = append(out, favoriteView{
				ID:          f.ID,
				Title:       f.Title,
				MediaType:   f.MediaType,
				Description: f.Description,
				AddedAt:     f.AddedAt.UTC().Format(model.TimeLayout),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// RemoveFavoriteHandler answers 200 whether or not the id existed. The same
// handler backs the public and the session-gated delete routes. The route
// only matches digits, so an id that overflows int64 names no row.
func RemoveFavoriteHandler(favorites Favorites, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			writeMsg(w, http.StatusOK, msg)
			return
		}
		if err != nil {
			writeErr(w, http.StatusBadRequest, msgInvalidParams)
			return
		}

		if err := favorites.Remove(r.Context(), id); err != nil {
			middleware.LoggerFrom(r.Context()).ErrorContext(r.Context(), "remove favorite", "id", id, "error", err)
			writeErr(w, http.StatusInternalServerError, "Erro ao apagar favorito")
			return
		}
		writeMsg(w, http.StatusOK, msg)
	}
}
