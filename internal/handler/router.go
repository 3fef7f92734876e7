package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	itemHandler "github.com/quickrest/items-api/internal/handler/item"
	"github.com/quickrest/items-api/internal/handler/watch"
	middlewarePkg "github.com/quickrest/items-api/internal/middleware"
	itemModel "github.com/quickrest/items-api/internal/model/item"
	"github.com/quickrest/items-api/internal/service/feed"
	"github.com/quickrest/items-api/pkg/utils"
)

// Options tunes router behavior beyond its collaborators.
type Options struct {
	CORSOrigin    string
	FeedHeartbeat time.Duration
}

// NewRouter wires HTTP routes to the item store and change feed.
func NewRouter(store itemModel.Store, broadcaster *feed.Broadcaster, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middlewarePkg.Recoverer)
	r.Use(middlewarePkg.CORS(opts.CORSOrigin))

	instanceID := uuid.NewString()
	startedAt := time.Now().UTC()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Welcome to the Flask API!",
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"instance": instanceID,
			"uptime":   time.Since(startedAt).Truncate(time.Second).String(),
		})
	})

	itemHandler.New(store, broadcaster).RegisterRoutes(r)

	if broadcaster != nil {
		watch.New(broadcaster, opts.FeedHeartbeat).RegisterRoutes(r)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "Not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
