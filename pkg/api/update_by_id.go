package api

import (
	"net/http"

	"github.com/Chidera261/koraDB/pkg/domain"
	"github.com/gorilla/mux"
)

// HandleUpdateById handles PATCH requests that merge fields into a record
func (h *Handler) HandleUpdateById(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	body, err := decodeBody(r)
	if err != nil {
		h.logger.Warn("Decoding body failed", "collection", coll.Name(), "id", id, "err", err)
		writeResult(w, domain.Failure[domain.Record](domain.StatusInvalidData), nil)
		return
	}

	res, err := coll.Update(id, body)
	writeResult(w, res, err)
}
