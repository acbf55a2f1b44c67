package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/BaGreal2/filmes-server/internal/middleware"
	"github.com/BaGreal2/filmes-server/internal/model"
	"github.com/BaGreal2/filmes-server/internal/tmdb"
)

type Catalog interface {
	Search(ctx context.Context, mediaType model.MediaType, title string) (model.CatalogResult, error)
}

type HistoryRecorder interface {
	Record(ctx context.Context, title string, mediaType model.MediaType) error
}

var _ Catalog = (*tmdb.Client)(nil)

// SearchHandler looks a title up and records the catalog's title in the
// history. The history entry is only written for successful lookups.
func SearchHandler(catalog Catalog, history HistoryRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFrom(r.Context())
		q := r.URL.Query()

		title := strings.TrimSpace(q.Get("titulo"))
		mediaType, err := model.ParseMediaType(q.Get("tipo"))
		if err != nil || title == "" {
			writeErr(w, http.StatusBadRequest, msgInvalidParams)
			return
		}

		res, err := catalog.Search(r.Context(), mediaType, title)
		switch {
		case errors.Is(err, tmdb.ErrNotFound):
			writeErr(w, http.StatusNotFound, "Nenhum resultado encontrado")
			return
		case errors.Is(err, tmdb.ErrUpstreamUnavailable):
			logger.WarnContext(r.Context(), "catalog lookup failed", "error", err)
			writeErr(w, http.StatusBadGateway, "Serviço de catálogo indisponível")
			return
		case err != nil:
			logger.ErrorContext(r.Context(), "catalog lookup", "error", err)
			writeErr(w, http.StatusInternalServerError, msgInternal)
			return
		}

		recorded := res.Title
		if recorded == "" {
			recorded = title
		}
		if err := history.Record(r.Context(), recorded, mediaType); err != nil {
			logger.ErrorContext(r.Context(), "record history", "error", err)
			writeErr(w, http.StatusInternalServerError, "Erro ao registrar histórico")
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}
