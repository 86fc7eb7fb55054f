package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuctionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/auction/status", handler.GetAuctionStatus)
	mux.HandleFunc("POST /v1/auction/start", handler.StartAuction)
	mux.HandleFunc("POST /v1/auction/bid", handler.PlaceBid)
	mux.HandleFunc("POST /v1/auction/confirm", handler.ConfirmSale)
	mux.HandleFunc("POST /v1/auction/cancel", handler.CancelAuction)
	mux.HandleFunc("GET /v1/history", handler.ListHistory)
	mux.HandleFunc("POST /v1/history/delete", handler.DeleteHistory)
	mux.HandleFunc("GET /v1/players", handler.ListAvailablePlayers)
	mux.HandleFunc("GET /v1/budgets", handler.ListRemainingBudgets)
}
