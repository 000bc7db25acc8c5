package api

import (
	"encoding/json"
	"net/http"
)

// HandleFindByField handles GET /find?field=&value= requests. The value is
// decoded as JSON when possible so that numbers and booleans match stored
// values; anything else is used as a plain string.
func (h *Handler) HandleFindByField(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	res, err := coll.FindByField(query.Get("field"), parseQueryValue(query.Get("value")))
	writeResult(w, res, err)
}

func parseQueryValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
