package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/session"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// SessionManager строит контекст сессии по токену.
type SessionManager interface {
	Initialize(ctx context.Context, token string) (*session.Context, error)
	Refresh(ctx context.Context, c *session.Context) (*session.Context, error)
	Teardown(ctx context.Context, c *session.Context) (*session.Context, error)
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			if status >= http.StatusInternalServerError {
				log.Warnf("%s %s -> %d (%s) req=%s", r.Method, r.URL.Path, status, time.Since(start), middleware.GetReqID(r.Context()))
				return
			}
			log.Debugf("%s %s -> %d (%s) req=%s", r.Method, r.URL.Path, status, time.Since(start), middleware.GetReqID(r.Context()))
		})
	}
}

// withSession кладёт в контекст запроса сессию из Authorization: Bearer или cookie.
// Недействительный токен даёт анонимный контекст: публичные страницы остаются доступны.
func withSession(sessions SessionManager, cookies *TokenCookies, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" && cookies != nil {
				token = cookies.Load(r)
			}

			sc := session.Anonymous()
			if token != "" {
				initialized, err := sessions.Initialize(r.Context(), token)
				if err != nil {
					log.Debugf("session rejected: %v", err)
				} else {
					sc = initialized
				}
			}

			next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), sc)))
		})
	}
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).Authenticated() {
			WriteError(w, e.ErrUnauthenticated)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireCatalogRole пропускает только admin и staff.
func requireCatalogRole(next http.Handler) http.Handler {
	return requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).CanManageCatalog() {
			WriteError(w, e.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}))
}

func bearerToken(r *http.Request) string {
	const prefix = "bearer "

	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}

	return ""
}
