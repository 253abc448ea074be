package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/charkeeper/internal/api"
	"github.com/dmitrijs2005/charkeeper/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}

// writeError maps service errors onto HTTP statuses. The expired-token body
// is exact: clients match on it to trigger a refresh.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		writeErrorMsg(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrRefreshTokenExpired):
		writeErrorMsg(w, http.StatusUnauthorized, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeErrorMsg(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrNotFound):
		writeErrorMsg(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
	}
}
