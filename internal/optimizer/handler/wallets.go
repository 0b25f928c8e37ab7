package handler

import (
	"net/http"
	"time"
)

type walletInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type walletsResponse struct {
	Wallets []walletInfo `json:"wallets"`
	Count   int          `json:"count"`
}

func (h *Handler) GetWallets(w http.ResponseWriter, r *http.Request) {
	wallets := h.service.Wallets()
	infos := make([]walletInfo, 0, len(wallets))
	for _, wallet := range wallets {
		infos = append(infos, walletInfo{ID: wallet.ID, Name: wallet.Name, URL: wallet.URL})
	}
	writeJSON(w, http.StatusOK, walletsResponse{Wallets: infos, Count: len(infos)})
}

type statusResponse struct {
	Status              string   `json:"status"`
	SenderWallets       int      `json:"senderWallets"`
	SupportedCurrencies []string `json:"supportedCurrencies"`
	DirectoryEnabled    bool     `json:"directoryEnabled"`
	UptimeSeconds       int64    `json:"uptimeSeconds"`
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:              "ok",
		SenderWallets:       len(h.service.Wallets()),
		SupportedCurrencies: h.supportedCurrencies,
		DirectoryEnabled:    h.directory != nil,
		UptimeSeconds:       int64(time.Since(h.startedAt).Seconds()),
	})
}
