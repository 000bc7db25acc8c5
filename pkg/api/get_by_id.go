package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// HandleGetById handles GET requests to retrieve a specific record by id
func (h *Handler) HandleGetById(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	res, err := coll.FindByID(mux.Vars(r)["id"])
	writeResult(w, res, err)
}
