package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/kasuboski/reelbox/pkg/catalog"
	"github.com/kasuboski/reelbox/pkg/collection"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/metrics"
	"github.com/kasuboski/reelbox/pkg/movie"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type GenericResponse struct {
	Error    string `json:"error,omitempty"`
	Response any    `json:"response"`
}

// Catalog is the subset of the remote catalog the server exposes.
type Catalog interface {
	Search(ctx context.Context, query string) (catalog.Page, error)
	SearchDetailed(ctx context.Context, query string) (catalog.Page, error)
	Details(ctx context.Context, id int) (movie.Movie, error)
	Discover(ctx context.Context) (catalog.Page, error)
	Genres(ctx context.Context) (map[int]string, error)
}

// Server exposes the collections and the catalog over HTTP
type Server struct {
	baseLogger  *zap.SugaredLogger
	collections *collection.Manager
	catalog     Catalog
	locale      language.Tag
}

// New creates a new server. locale drives title collation in list views.
func New(logger *zap.SugaredLogger, collections *collection.Manager, catalog Catalog, locale language.Tag) Server {
	return Server{
		baseLogger:  logger,
		collections: collections,
		catalog:     catalog,
		locale:      locale,
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, err error) error {
	return writeResponse(w, status, GenericResponse{
		Error: err.Error(),
	})
}

func writeResponse(w http.ResponseWriter, status int, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	w.Header().Set("content-type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}

	w.Write(b)
	return nil
}

// Router builds the route table.
func (s Server) Router() http.Handler {
	rtr := mux.NewRouter()
	rtr.Use(s.LogMiddleware())
	rtr.HandleFunc("/healthz", s.Healthz()).Methods(http.MethodGet)
	rtr.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := rtr.PathPrefix("/api").Subrouter()

	v1 := api.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/search", s.SearchMovies()).Methods(http.MethodGet)
	v1.HandleFunc("/discover", s.DiscoverMovies()).Methods(http.MethodGet)
	v1.HandleFunc("/genres", s.ListGenres()).Methods(http.MethodGet)
	v1.HandleFunc("/movies/{id:[0-9]+}", s.GetMovie()).Methods(http.MethodGet)

	v1.HandleFunc("/{collection:favorites|watched|watchlist}", s.ListCollection()).Methods(http.MethodGet)
	v1.HandleFunc("/favorites/toggle", s.ToggleFavorite()).Methods(http.MethodPost)
	v1.HandleFunc("/watched/toggle", s.ToggleWatched()).Methods(http.MethodPost)
	v1.HandleFunc("/watchlist", s.AddToWatchlist()).Methods(http.MethodPost)
	v1.HandleFunc("/watchlist/toggle", s.ToggleWatchlist()).Methods(http.MethodPost)
	v1.HandleFunc("/watchlist/{id:[0-9]+}", s.RemoveFromWatchlist()).Methods(http.MethodDelete)

	v1.HandleFunc("/ratings/{id:[0-9]+}", s.GetRating()).Methods(http.MethodGet)
	v1.HandleFunc("/ratings/{id:[0-9]+}", s.RateMovie()).Methods(http.MethodPut)
	v1.HandleFunc("/membership/{id:[0-9]+}", s.GetMembership()).Methods(http.MethodGet)

	v1.HandleFunc("/stats", s.GetStats()).Methods(http.MethodGet)

	v1.HandleFunc("/theme", s.GetTheme()).Methods(http.MethodGet)
	v1.HandleFunc("/theme", s.SetTheme()).Methods(http.MethodPut)
	v1.HandleFunc("/theme/toggle", s.ToggleTheme()).Methods(http.MethodPost)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(rtr)
}

// Serve starts the http server and is a blocking call
func (s Server) Serve(port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.baseLogger.Infow("serving...", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.baseLogger.Error(err.Error())
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	return srv.Shutdown(ctx)
}

// Healthz is an endpoint that can be used for probes
func (s Server) Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := GenericResponse{
			Response: "ok",
		}
		writeResponse(w, http.StatusOK, response)
	}
}

func respond(w http.ResponseWriter, r *http.Request, body any) {
	if err := writeResponse(w, http.StatusOK, GenericResponse{Response: body}); err != nil {
		logger.FromCtx(r.Context()).Errorw("failed to write response", "error", err)
	}
}
