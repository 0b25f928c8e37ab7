package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"crossrates/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type addEntryRequest struct {
	PublicName string  `json:"publicName"`
	WalletURL  string  `json:"walletUrl"`
	IsDummy    bool    `json:"isDummy"`
	Owner      *string `json:"owner,omitempty"`
}

type updateEntryRequest struct {
	WalletURL string `json:"walletUrl"`
}

func (h *Handler) ListDirectory(w http.ResponseWriter, r *http.Request) {
	if h.directory == nil {
		writeError(w, http.StatusServiceUnavailable, domain.ErrDirectoryDisabled.Error())
		return
	}

	entries, err := h.directory.List(r.Context())
	if err != nil {
		msg := "failed to list directory entries"
		logrus.WithError(err).WithField("handler", "ListDirectory").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) ResolveDirectoryEntry(w http.ResponseWriter, r *http.Request) {
	if h.directory == nil {
		writeError(w, http.StatusServiceUnavailable, domain.ErrDirectoryDisabled.Error())
		return
	}

	publicName := strings.TrimSpace(chi.URLParam(r, "publicName"))
	entry, err := h.directory.Resolve(r.Context(), publicName)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		msg := "failed to resolve directory entry"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "ResolveDirectoryEntry", "publicName": publicName}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) ListDirectoryByOwner(w http.ResponseWriter, r *http.Request) {
	if h.directory == nil {
		writeError(w, http.StatusServiceUnavailable, domain.ErrDirectoryDisabled.Error())
		return
	}

	owner := strings.TrimSpace(chi.URLParam(r, "owner"))
	entries, err := h.directory.ListByOwner(r.Context(), owner)
	if err != nil {
		msg := "failed to list directory entries by owner"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "ListDirectoryByOwner", "owner": owner}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) AddDirectoryEntry(w http.ResponseWriter, r *http.Request) {
	if h.directory == nil {
		writeError(w, http.StatusServiceUnavailable, domain.ErrDirectoryDisabled.Error())
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req addEntryRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.PublicName = strings.TrimSpace(req.PublicName)
	req.WalletURL = strings.TrimSpace(req.WalletURL)
	if req.PublicName == "" || req.WalletURL == "" {
		writeError(w, http.StatusBadRequest, "publicName and walletUrl are required")
		return
	}

	entry, err := h.directory.Add(r.Context(), req.PublicName, domain.NormalizeWalletURL(req.WalletURL), req.IsDummy, req.Owner)
	if err != nil {
		if errors.Is(err, domain.ErrEntryExists) {
			writeError(w, http.StatusConflict, "entry already exists")
			return
		}
		msg := "failed to add directory entry"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "AddDirectoryEntry", "publicName": req.PublicName}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) UpdateDirectoryEntry(w http.ResponseWriter, r *http.Request) {
	if h.directory == nil {
		writeError(w, http.StatusServiceUnavailable, domain.ErrDirectoryDisabled.Error())
		return
	}

	publicName := strings.TrimSpace(chi.URLParam(r, "publicName"))
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req updateEntryRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.WalletURL = strings.TrimSpace(req.WalletURL)
	if req.WalletURL == "" {
		writeError(w, http.StatusBadRequest, "walletUrl is required")
		return
	}

	if err := h.directory.Update(r.Context(), publicName, domain.NormalizeWalletURL(req.WalletURL)); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		msg := "failed to update directory entry"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "UpdateDirectoryEntry", "publicName": publicName}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteDirectoryEntry(w http.ResponseWriter, r *http.Request) {
	if h.directory == nil {
		writeError(w, http.StatusServiceUnavailable, domain.ErrDirectoryDisabled.Error())
		return
	}

	publicName := strings.TrimSpace(chi.URLParam(r, "publicName"))
	if err := h.directory.Delete(r.Context(), publicName); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		msg := "failed to delete directory entry"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "DeleteDirectoryEntry", "publicName": publicName}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
