package api

import (
	"encoding/json"
	"net/http"

	"github.com/Chidera261/koraDB/pkg/domain"
)

// SyncConfigRequest is the body of a sync configuration request
type SyncConfigRequest struct {
	Endpoint string `json:"endpoint"`
}

// HandleConfigureSync sets the remote endpoint used by pull and push
func (h *Handler) HandleConfigureSync(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	var req SyncConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, domain.Failure[string](domain.StatusInvalidData), nil)
		return
	}
	if err := coll.Sync().Configure(req.Endpoint, h.logger); err != nil {
		h.logger.Warn("Rejected sync endpoint", "collection", coll.Name(), "err", err)
		writeResult(w, domain.Failure[string](domain.StatusInvalidData), nil)
		return
	}

	writeResult(w, domain.Success(coll.Sync().Endpoint()), nil)
}

// HandleSyncPull ingests the remote endpoint's records into the collection
func (h *Handler) HandleSyncPull(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	writeResult(w, coll.Sync().Pull(r.Context()), nil)
}

// HandleSyncPush uploads the collection's records to the remote endpoint
func (h *Handler) HandleSyncPush(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	writeResult(w, coll.Sync().Push(r.Context()), nil)
}
