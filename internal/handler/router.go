package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BaGreal2/filmes-server/internal/auth"
	"github.com/BaGreal2/filmes-server/internal/middleware"
)

type Deps struct {
	Auth      *auth.Manager
	Catalog   Catalog
	Favorites Favorites
	History   History
	DB        Pinger
	Logger    *slog.Logger
}

// NewRouter wires every route behind the shared middleware chain.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	secured := middleware.RequireSession(d.Auth)

	r := mux.NewRouter()
	r.HandleFunc("/", IndexHandler(d.Auth.Provider().Enabled())).Methods(http.MethodGet)
	r.HandleFunc("/filmes", SearchPageHandler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", HealthHandler(d.DB)).Methods(http.MethodGet)

	r.HandleFunc("/cadastro", RegisterHandler(d.Auth)).Methods(http.MethodPost)
	r.HandleFunc("/login", LoginHandler(d.Auth)).Methods(http.MethodPost)
	r.HandleFunc("/login/google", GoogleLoginHandler(d.Auth)).Methods(http.MethodGet)
	r.HandleFunc("/login/google/callback", GoogleCallbackHandler(d.Auth)).Methods(http.MethodGet)
	r.Handle("/perfil", secured(ProfileHandler())).Methods(http.MethodGet)
	r.Handle("/logout", secured(LogoutHandler(d.Auth))).Methods(http.MethodGet)

	r.HandleFunc("/buscar", SearchHandler(d.Catalog, d.History)).Methods(http.MethodGet)

	r.HandleFunc("/favoritos", ListFavoritesHandler(d.Favorites)).Methods(http.MethodGet)
	r.HandleFunc("/favoritos/adicionar", AddFavoriteHandler(d.Favorites)).Methods(http.MethodPost)
	r.HandleFunc("/favoritos/{id:[0-9]+}", RemoveFavoriteHandler(d.Favorites, "Favorito removido com sucesso!")).Methods(http.MethodDelete)
	r.Handle("/favoritos/apagar/{id:[0-9]+}", secured(RemoveFavoriteHandler(d.Favorites, "Favorito apagado com sucesso!"))).Methods(http.MethodDelete)

	r.HandleFunc("/historico", ListHistoryHandler(d.History)).Methods(http.MethodGet)
	r.Handle("/historico/apagar", secured(ClearHistoryHandler(d.History))).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "Rota não encontrada")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "Método não permitido")
	})

	return middleware.Chain(r,
		middleware.RequestID(logger),
		middleware.AccessLog,
		middleware.Recover,
		middleware.CORS,
	)
}
