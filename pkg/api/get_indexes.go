package api

import (
	"net/http"

	"github.com/Chidera261/koraDB/pkg/domain"
)

// HandleGetIndexes handles GET requests for a collection's indexed fields
func (h *Handler) HandleGetIndexes(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	writeResult(w, domain.Success(coll.IndexedFields()), nil)
}
