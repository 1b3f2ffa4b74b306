package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/infra/http/middleware"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "INVALID_JSON", Message: "JSON inválido: " + err.Error()})
		return false
	}
	return true
}

var domainStatus = map[string]int{
	"VALIDATION_ERROR":  http.StatusBadRequest,
	"COLUMN_NOT_FOUND":  http.StatusBadRequest,
	"EMAIL_EXISTS":      http.StatusConflict,
	"INVALID_STATUS":    http.StatusConflict,
	"NO_COLUMNS":        http.StatusConflict,
	"UNKNOWN_WEBHOOK":   http.StatusNotFound,
	"CLIENT_RESTRICTED": http.StatusForbidden,
}

var sentinels = []struct {
	err    error
	code   string
	status int
}{
	{entity.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
	{entity.ErrNoTenant, "NO_TENANT", http.StatusForbidden},
	{entity.ErrForbidden, "FORBIDDEN", http.StatusForbidden},
	{entity.ErrReadOnlyBoard, "READ_ONLY", http.StatusForbidden},
	{entity.ErrNoSession, "NO_SESSION", http.StatusUnauthorized},
	{entity.ErrInvalidCredentials, "INVALID_CREDENTIALS", http.StatusUnauthorized},
	{entity.ErrEmailAlreadyExists, "EMAIL_EXISTS", http.StatusConflict},
	{entity.ErrConflict, "CONFLICT", http.StatusConflict},
	{entity.ErrStatusChanged, "STATUS_CHANGED", http.StatusConflict},
	{entity.ErrInvalidStatus, "INVALID_STATUS", http.StatusBadRequest},
}

// writeError converte os erros de domínio e técnicos em JSON.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status, ok := domainStatus[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, ErrorResponse{Error: de.Code, Message: de.Message})
		return
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			writeJSON(w, s.status, ErrorResponse{Error: s.code, Message: s.err.Error()})
			return
		}
	}

	code := "INTERNAL_ERROR"
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		code = te.Code
		if code == "INTEGRATION_ERROR" {
			middleware.RecordIntegrationError("workflow")
		}
	}
	log.Error().Err(err).Str("path", r.URL.Path).Str("code", code).Msg("❌ erro ao processar requisição")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: code, Message: "erro interno, tente novamente"})
}

// storeOf devolve o Store da requisição. O middleware Session garante que
// ele existe nas rotas autenticadas.
func storeOf(r *http.Request) *usecase.Store {
	return middleware.StoreFrom(r.Context())
}
