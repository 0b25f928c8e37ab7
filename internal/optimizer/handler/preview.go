package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"crossrates/internal/domain"
	"crossrates/internal/optimizer"

	"github.com/sirupsen/logrus"
)

func (h *Handler) QuotePreview(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req optimizer.PreviewRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ReceivingWalletURLs) == 0 {
		writeError(w, http.StatusBadRequest, "receivingWalletUrls is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	result, err := h.service.Preview(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrSenderNotFound) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		msg := "failed to fetch quote preview"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "QuotePreview", "sender": req.SenderWalletID}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
