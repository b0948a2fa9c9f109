package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/gorilla/sessions"
)

const cookieTokenKey = "access_token"

// TokenCookies хранит токен доступа в подписанной cookie для браузерных клиентов.
type TokenCookies struct {
	store *sessions.CookieStore
	name  string
}

func NewTokenCookies(cfg *cfg.AuthCfg) *TokenCookies {
	store := sessions.NewCookieStore(cfg.CookieKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}

	return &TokenCookies{store: store, name: cfg.CookieName}
}

// Load возвращает токен из cookie или пустую строку. Повреждённая cookie не считается ошибкой.
func (c *TokenCookies) Load(r *http.Request) string {
	s, err := c.store.Get(r, c.name)
	if err != nil {
		return ""
	}

	token, _ := s.Values[cookieTokenKey].(string)
	return token
}

func (c *TokenCookies) Save(w http.ResponseWriter, r *http.Request, token string) error {
	s, _ := c.store.Get(r, c.name)
	s.Values[cookieTokenKey] = token

	return s.Save(r, w)
}

func (c *TokenCookies) Clear(w http.ResponseWriter, r *http.Request) error {
	s, _ := c.store.Get(r, c.name)
	delete(s.Values, cookieTokenKey)
	s.Options.MaxAge = -1

	return s.Save(r, w)
}
