package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Chidera261/koraDB/pkg/domain"
	"github.com/Chidera261/koraDB/pkg/storage"
	"github.com/gorilla/mux"
)

// Handler provides HTTP handlers for the database API
type Handler struct {
	db     *storage.Database
	logger *slog.Logger
}

// NewHandler creates a new API handler over db. A nil logger uses
// slog.Default().
func NewHandler(db *storage.Database, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:     db,
		logger: logger,
	}
}

// collection resolves the {coll} route variable. On failure the error
// response has already been written.
func (h *Handler) collection(w http.ResponseWriter, r *http.Request) (*storage.Collection, bool) {
	name := mux.Vars(r)["coll"]
	coll, err := h.db.Collection(name)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCollectionName) {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		h.logger.Error("Failed to open collection", "collection", name, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return coll, true
}

// writeResult writes res with the HTTP status taken from its envelope code.
// A non-nil err is an internal fault and becomes a 500.
func writeResult[T any](w http.ResponseWriter, res domain.Result[T], err error) {
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Status.Code)
	_ = json.NewEncoder(w).Encode(res)
}

// decodeBody decodes a JSON request body into an untyped value so that
// shape validation is left to the collection.
func decodeBody(r *http.Request) (any, error) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}
