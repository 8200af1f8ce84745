package httpserver

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// requireAdmin checks HTTP basic auth against the bcrypt hash in
// ADMIN_PASSWORD_HASH. With no hash configured the route does not exist.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.AdminPasswordHash == "" {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		user, pw, ok := r.BasicAuth()
		if !ok || user != "admin" ||
			bcrypt.CompareHashAndPassword([]byte(s.opts.AdminPasswordHash), []byte(pw)) != nil {
			log.Warn().Str("remote", r.RemoteAddr).Msg("admin auth failed")
			w.Header().Set("WWW-Authenticate", `Basic realm="bingo-admin"`)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
