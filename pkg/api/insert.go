package api

import (
	"net/http"

	"github.com/Chidera261/koraDB/pkg/domain"
)

// HandleInsert handles POST requests that add a record to a collection
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		h.logger.Warn("Decoding body failed", "collection", coll.Name(), "err", err)
		writeResult(w, domain.Failure[domain.Record](domain.StatusInvalidData), nil)
		return
	}

	res, err := coll.Insert(body)
	if err == nil && res.OK() {
		h.logger.Debug("Inserted record", "collection", coll.Name(), "id", res.Data.ID())
	}
	writeResult(w, res, err)
}
