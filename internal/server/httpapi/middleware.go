package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/finapp/internal/common"
)

type contextKey string

const userIDKey contextKey = "userID"

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// withAuth verifies the bearer access token and stores the user ID in the
// request context. An expired token is reported with its exact sentinel
// message; clients use it to decide whether a refresh-and-retry is worth it.
func (s *Server) withAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, common.ErrInvalidToken.Error())
			return
		}

		userID, err := s.accounts.UserIDFromAccessToken(token)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
				return
			}
			writeError(w, http.StatusUnauthorized, common.ErrInvalidToken.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}
