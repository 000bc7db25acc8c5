package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// HandleCreateIndex registers a field index on a collection and returns the
// indexed fields
func (h *Handler) HandleCreateIndex(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	field := mux.Vars(r)["field"]

	res, err := coll.AddIndexField(field)
	if err == nil && res.OK() {
		h.logger.Info("Index created", "collection", coll.Name(), "field", field)
	}
	writeResult(w, res, err)
}
