package handlers

import (
	"net/http"

	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/infra/http/middleware"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

type AuthHandler struct {
	Auth     usecase.AuthService
	NewStore middleware.StoreFactory
}

func NewAuthHandler(auth usecase.AuthService, newStore middleware.StoreFactory) *AuthHandler {
	return &AuthHandler{Auth: auth, NewStore: newStore}
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	Session  *entity.Session `json:"session"`
	Redirect string          `json:"redirect"`
}

type MeResponse struct {
	State    string           `json:"state"`
	User     *entity.Identity `json:"user"`
	Client   *entity.Client   `json:"client,omitempty"`
	IsAdmin  bool             `json:"is_admin"`
	Redirect string           `json:"redirect"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	store := h.NewStore()
	store.Bind(r.Context(), session.User)

	writeJSON(w, http.StatusOK, SignInResponse{
		Session:  session,
		Redirect: usecase.LandingPath(store.State(), store.Client()),
	})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if store := storeOf(r); store != nil {
		store.Logout(r.Context(), middleware.TokenFrom(r.Context()))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me devolve o estado da sessão para a SPA decidir a navegação.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	store := storeOf(r)
	writeJSON(w, http.StatusOK, MeResponse{
		State:    store.State().String(),
		User:     store.Identity(),
		Client:   store.Client(),
		IsAdmin:  store.IsAdmin(),
		Redirect: usecase.LandingPath(store.State(), store.Client()),
	})
}
