package item

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quickrest/items-api/internal/model/item"
	"github.com/quickrest/items-api/internal/service/feed"
	"github.com/quickrest/items-api/pkg/utils"
)

// Handler serves the item CRUD endpoints.
type Handler struct {
	store item.Store
	feed  *feed.Broadcaster
}

// New creates the item handler. The broadcaster may be nil when no change
// feed is wired.
func New(store item.Store, broadcaster *feed.Broadcaster) *Handler {
	return &Handler{
		store: store,
		feed:  broadcaster,
	}
}

// RegisterRoutes mounts the item routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/items", h.handleListItems)
	r.Post("/items", h.handleCreateItem)
	r.Get("/items/{id}", h.handleGetItem)
	r.Put("/items/{id}", h.handleUpdateItem)
	r.Delete("/items/{id}", h.handleDeleteItem)
}

// handleListItems returns every item in insertion order.
func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"items": h.store.List()})
}

// handleCreateItem adds a new item from the request body.
func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(r)
	if !ok {
		respondNameRequired(w)
		return
	}

	created, err := h.store.Create(name)
	if err != nil {
		respondNameRequired(w)
		return
	}

	h.feed.Publish(feed.EventCreated, created)
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"item": created})
}

// handleGetItem returns a single item by id.
func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondItemNotFound(w)
		return
	}

	found, err := h.store.Get(id)
	if err != nil {
		respondItemNotFound(w)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"item": found})
}

// handleUpdateItem renames an existing item. The name is validated before the
// existence lookup, so a body without a name is a 400 even for unknown ids.
func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, idOK := parseID(r)

	name, ok := decodeName(r)
	if !ok {
		respondNameRequired(w)
		return
	}

	if !idOK {
		respondItemNotFound(w)
		return
	}

	updated, err := h.store.Update(id, name)
	switch {
	case errors.Is(err, item.ErrNameRequired):
		respondNameRequired(w)
	case errors.Is(err, item.ErrNotFound):
		respondItemNotFound(w)
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
	default:
		h.feed.Publish(feed.EventUpdated, updated)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"item": updated})
	}
}

// handleDeleteItem removes an item by id.
func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondItemNotFound(w)
		return
	}

	removed, err := h.store.Get(id)
	if err != nil {
		respondItemNotFound(w)
		return
	}

	if err := h.store.Delete(id); err != nil {
		respondItemNotFound(w)
		return
	}

	h.feed.Publish(feed.EventDeleted, removed)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

// decodeName extracts the name field from a JSON request body. A malformed
// body and a missing name are reported the same way, matching how the
// original API treated both as a bad request.
func decodeName(r *http.Request) (string, bool) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return "", false
	}
	if payload.Name == "" {
		return "", false
	}
	return payload.Name, true
}

// parseID reads the id route parameter. Non-numeric ids can never match an
// item, so callers treat a parse failure as not found.
func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

func respondNameRequired(w http.ResponseWriter) {
	utils.RespondErrorDetail(w, http.StatusBadRequest, "Bad Request", "Name is required")
}

func respondItemNotFound(w http.ResponseWriter) {
	utils.RespondError(w, http.StatusNotFound, "Item not found")
}
