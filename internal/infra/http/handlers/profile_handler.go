package handlers

import (
	"net/http"

	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

type ProfileHandler struct {
	Profile    *usecase.ProfileService
	WebhookURL func(token string) string
}

func NewProfileHandler(profile *usecase.ProfileService, webhookURL func(token string) string) *ProfileHandler {
	return &ProfileHandler{Profile: profile, WebhookURL: webhookURL}
}

type ProfileResponse struct {
	Client     *entity.Client `json:"client"`
	WebhookURL string         `json:"webhook_url"`
}

type PasswordRequest struct {
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

func (h *ProfileHandler) view(c *entity.Client) ProfileResponse {
	return ProfileResponse{Client: c, WebhookURL: h.WebhookURL(c.WebhookToken)}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	client := storeOf(r).Client()
	if client == nil {
		writeError(w, r, entity.ErrNoTenant)
		return
	}
	writeJSON(w, http.StatusOK, h.view(client))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.ProfileInput
	if !decodeJSON(w, r, &input) {
		return
	}
	client, err := h.Profile.UpdateProfile(r.Context(), storeOf(r), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(client))
}

func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Profile.ChangePassword(r.Context(), storeOf(r), req.Password, req.Confirmation); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
