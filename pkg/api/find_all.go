package api

import (
	"net/http"

	"github.com/Chidera261/koraDB/pkg/domain"
)

// HandleFindAll handles GET requests that list every record of a collection
func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	res, err := coll.FindAll()
	if err == nil && res.OK() && res.Data == nil {
		res.Data = []domain.Record{}
	}
	writeResult(w, res, err)
}
