package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// HandleDeleteById handles DELETE requests and returns the removed record
func (h *Handler) HandleDeleteById(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	res, err := coll.Delete(mux.Vars(r)["id"])
	writeResult(w, res, err)
}
