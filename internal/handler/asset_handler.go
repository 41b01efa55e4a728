package handlers

import (
	"net/http"
	"strconv"
	"strings"
)

const assetsPrefix = "/assets/"

// ServeAsset writes an object of the in-memory asset store.
func (h *Handlers) ServeAsset(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, assetsPrefix)

	payload, ok := h.Assets.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "Asset not found", nil)
		return
	}

	w.Header().Set("Content-Type", payload.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload.Data)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(payload.Data)
	}
}
