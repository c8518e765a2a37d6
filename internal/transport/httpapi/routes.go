package httpapi

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes.
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware)

	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/search", handler.Search).Methods("GET")
	api.HandleFunc("/stocks/{symbol}", handler.GetStock).Methods("GET")
	api.HandleFunc("/stocks/{symbol}/history", handler.GetStockHistory).Methods("GET")
	api.HandleFunc("/portfolio", handler.GetPortfolio).Methods("GET")
	api.HandleFunc("/portfolio/holdings", handler.AddHolding).Methods("POST")
	api.HandleFunc("/portfolio/holdings/{symbol}", handler.SetHoldingShares).Methods("PUT")
	api.HandleFunc("/portfolio/holdings/{symbol}", handler.RemoveHolding).Methods("DELETE")
	api.HandleFunc("/portfolio/export", handler.ExportPortfolio).Methods("GET")

	return r
}
