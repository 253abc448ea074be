package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/charkeeper/internal/common"
	"github.com/dmitrijs2005/charkeeper/internal/server/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// userID returns the authenticated user's id placed in ctx by withAuth.
func userID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// withAuth verifies the Bearer access token and injects the user id into the
// request context.
func (s *Server) withAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AccessTokenHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeErrorMsg(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := auth.GetUserIDFromToken(token, s.secretKey)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}
