package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"crossrates/internal/adapters"
	"crossrates/internal/domain"
	"crossrates/internal/optimizer"
)

// OptimizerService is the slice of the optimizer the handlers need.
type OptimizerService interface {
	Optimize(ctx context.Context, req optimizer.OptimizeRequest) (*optimizer.OptimizeResult, error)
	Preview(ctx context.Context, req optimizer.PreviewRequest) (*optimizer.PreviewResult, error)
	Wallets() []*domain.SenderWallet
}

type Handler struct {
	service             OptimizerService
	directory           adapters.WalletDirectory // nil when the directory store is disabled
	supportedCurrencies []string
	startedAt           time.Time
}

func NewHandler(service OptimizerService, directory adapters.WalletDirectory, supportedCurrencies []string) *Handler {
	return &Handler{
		service:             service,
		directory:           directory,
		supportedCurrencies: supportedCurrencies,
		startedAt:           time.Now(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
