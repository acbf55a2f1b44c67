package handler

import (
	"context"
	"net/http"

	"github.com/BaGreal2/filmes-server/internal/middleware"
	"github.com/BaGreal2/filmes-server/internal/model"
	"github.com/BaGreal2/filmes-server/internal/store"
)

type History interface {
	HistoryRecorder
	List(ctx context.Context) ([]model.HistoryEntry, error)
	Clear(ctx context.Context) (int64, error)
}

var _ History = (*store.HistoryStore)(nil)

type historyView struct {
	Title      string          `json:"titulo"`
	MediaType  model.MediaType `json:"tipo"`
	SearchedAt string          `json:"data_busca"`
}

func ListHistoryHandler(history History) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := history.List(r.Context())
		if err != nil {
			middleware.LoggerFrom(r.Context()).ErrorContext(r.Context(), "list history", "error", err)
			writeErr(w, http.StatusInternalServerError, "Erro ao listar histórico")
			return
		}

		out := make([]historyView, 0, len(entries))
		for _, e := range entries {
			out = append(out, historyView{
				Title:      e.Title,
				MediaType:  e.MediaType,
				SearchedAt: e.SearchedAt.UTC().Format(model.TimeLayout),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func ClearHistoryHandler(history History) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := history.Clear(r.Context())
		if err != nil {
			middleware.LoggerFrom(r.Context()).ErrorContext(r.Context(), "clear history", "error", err)
			writeErr(w, http.StatusInternalServerError, "Erro ao apagar histórico")
			return
		}
		middleware.LoggerFrom(r.Context()).InfoContext(r.Context(), "history cleared", "removed", n)
		writeMsg(w, http.StatusOK, "Histórico apagado com sucesso!")
	}
}
