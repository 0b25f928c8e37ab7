package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"crossrates/internal/domain"
	"crossrates/internal/optimizer"

	"github.com/sirupsen/logrus"
)

func (h *Handler) OptimizationMatrix(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req optimizer.OptimizeRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	result, err := h.service.Optimize(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrSenderNotFound) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		msg := "failed to build optimization matrix"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "OptimizationMatrix", "sender": req.SenderWalletID}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
