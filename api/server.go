// Package api exposes the weekly board game over HTTP.
package api

import (
	"net/http"

	"deadpigeons/domain/interfaces"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the services behind the HTTP surface
type Server struct {
	boards      interfaces.BoardService
	entries     interfaces.EntryService
	ledger      interfaces.LedgerService
	settlements interfaces.SettlementService
	history     interfaces.HistoryService
}

// NewServer creates a new API server
func NewServer(
	boards interfaces.BoardService,
	entries interfaces.EntryService,
	ledger interfaces.LedgerService,
	settlements interfaces.SettlementService,
	history interfaces.HistoryService,
) *Server {
	return &Server{
		boards:      boards,
		entries:     entries,
		ledger:      ledger,
		settlements: settlements,
		history:     history,
	}
}

// Handler builds the routed handler with the full middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/boards/current", s.handleCurrentBoard)
	mux.HandleFunc("GET /api/boards/{week}", s.handleBoardByWeek)
	mux.HandleFunc("POST /api/entries", s.handlePlaceEntry)
	mux.HandleFunc("POST /api/draws", s.handleDeclareDraw)
	mux.HandleFunc("GET /api/accounts/{id}/history", s.handleAccountHistory)
	mux.HandleFunc("GET /api/accounts/{id}/balance", s.handleAccountBalance)
	mux.HandleFunc("GET /api/accounts/{id}/ledger", s.handleAccountLedger)
	mux.HandleFunc("POST /api/accounts/{id}/topup", s.handleTopup)

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	return withRecovery(withRequestID(withLogging(withMetrics(mux))))
}
