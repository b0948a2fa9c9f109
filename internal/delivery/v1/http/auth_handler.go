package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/giftshop-backend/internal/identity"
	"github.com/DRSN-tech/giftshop-backend/internal/session"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
)

// Identity — операции сервиса идентификации, которые вызываются напрямую из форм.
type Identity interface {
	SignUp(ctx context.Context, req *identity.SignUpReq) (*identity.SignUpResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	ConfirmEmail(ctx context.Context, token string) (*identity.Session, error)
}

type AuthHandler struct {
	identity Identity
	sessions SessionManager
	cookies  *TokenCookies
	logger   logger.Logger
}

func NewAuthHandler(identity Identity, sessions SessionManager, cookies *TokenCookies, logger logger.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, sessions: sessions, cookies: cookies, logger: logger}
}

// signUp
//
//	@Summary		Регистрация
//	@Description	Если включено подтверждение email, сессия не выдаётся до подтверждения.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		signUpRequest	true	"Данные формы"
//	@Success		201		{object}	signUpResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/auth/sign-up [post]
func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.identity.SignUp(r.Context(), &identity.SignUpReq{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	if res.NeedsEmailConfirmation {
		// Почтового канала нет: токен подтверждения виден только в debug-логе.
		h.logger.Debugf("confirmation token for %s: %s", req.Email, res.ConfirmationToken)
		WriteSuccess(w, http.StatusCreated, signUpResponse{NeedsEmailConfirmation: true})
		return
	}

	sc, err := h.startSession(w, r, res.Session)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := toSessionResponse(sc, true)
	WriteSuccess(w, http.StatusCreated, signUpResponse{Session: &out})
}

// signIn
//
//	@Summary	Вход по email и паролю
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		signInRequest	true	"Учётные данные"
//	@Success	200		{object}	sessionResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse	"Email не подтверждён"
//	@Router		/auth/sign-in [post]
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.identity.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	sc, err := h.startSession(w, r, s)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSessionResponse(sc, true))
}

// confirmEmail
//
//	@Summary	Подтверждение email
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		confirmEmailRequest	true	"Токен из письма"
//	@Success	200		{object}	sessionResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/auth/confirm [post]
func (h *AuthHandler) confirmEmail(w http.ResponseWriter, r *http.Request) {
	var req confirmEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.identity.ConfirmEmail(r.Context(), req.Token)
	if err != nil {
		WriteError(w, err)
		return
	}

	sc, err := h.startSession(w, r, s)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSessionResponse(sc, true))
}

// signOut
//
//	@Summary	Выход
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	sessionResponse
//	@Router		/auth/sign-out [post]
func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	sc, err := h.sessions.Teardown(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		h.logger.Warnf("sign out: %v", err)
		sc = session.Anonymous()
	}

	if err := h.cookies.Clear(w, r); err != nil {
		h.logger.Warnf("clear session cookie: %v", err)
	}

	WriteSuccess(w, http.StatusOK, toSessionResponse(sc, false))
}

// currentSession
//
//	@Summary	Текущая сессия
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	sessionResponse	"authenticated=false для гостя"
//	@Router		/auth/session [get]
func (h *AuthHandler) currentSession(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, toSessionResponse(session.FromContext(r.Context()), false))
}

// refreshSession
//
//	@Summary	Перечитать профиль текущей сессии
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	sessionResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/auth/refresh [post]
func (h *AuthHandler) refreshSession(w http.ResponseWriter, r *http.Request) {
	sc, err := h.sessions.Refresh(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSessionResponse(sc, false))
}

// startSession собирает контекст с профилем и кладёт токен в cookie.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, s *identity.Session) (*session.Context, error) {
	sc, err := h.sessions.Initialize(r.Context(), s.AccessToken)
	if err != nil {
		return nil, err
	}

	if err := h.cookies.Save(w, r, s.AccessToken); err != nil {
		h.logger.Warnf("save session cookie: %v", err)
	}

	return sc, nil
}
