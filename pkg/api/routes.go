package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Collection operations
	router.HandleFunc("/collections/{coll}", h.HandleInsert).Methods("POST")
	router.HandleFunc("/collections/{coll}/documents", h.HandleFindAll).Methods("GET")
	router.HandleFunc("/collections/{coll}/find", h.HandleFindByField).Methods("GET")

	// Record operations (by id)
	router.HandleFunc("/collections/{coll}/documents/{id}", h.HandleGetById).Methods("GET")
	router.HandleFunc("/collections/{coll}/documents/{id}", h.HandleUpdateById).Methods("PATCH")
	router.HandleFunc("/collections/{coll}/documents/{id}", h.HandleDeleteById).Methods("DELETE")

	// Index operations
	router.HandleFunc("/collections/{coll}/indexes", h.HandleGetIndexes).Methods("GET")
	router.HandleFunc("/collections/{coll}/indexes/{field}", h.HandleCreateIndex).Methods("POST")

	// Remote sync
	router.HandleFunc("/collections/{coll}/sync", h.HandleConfigureSync).Methods("POST")
	router.HandleFunc("/collections/{coll}/sync/pull", h.HandleSyncPull).Methods("POST")
	router.HandleFunc("/collections/{coll}/sync/push", h.HandleSyncPush).Methods("POST")

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
}
