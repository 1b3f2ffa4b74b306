package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

type ctxKey int

const (
	storeKey ctxKey = iota
	tokenKey
)

// StoreFactory cria o Store de uma requisição.
type StoreFactory func() *usecase.Store

// Session resolve a identidade do bearer token e guarda o Store no
// contexto. Não bloqueia nada: quem decide o acesso é o Guard.
func Session(newStore StoreFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			store := newStore()

			if err := store.ResolveIdentity(r.Context(), token); err != nil {
				log.Error().Err(err).Msg("❌ erro ao resolver sessão")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"error":   "AUTH_UNAVAILABLE",
					"message": "não foi possível validar a sessão",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithStore(r.Context(), store, token)))
		})
	}
}

// Guard aplica a decisão de navegação: sem sessão responde 401 e cliente
// inativo ou vencido responde 403 com o link do suporte.
func Guard(supportURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := StoreFrom(r.Context())
			if store == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"redirect": usecase.LoginPath})
				return
			}

			switch usecase.Decide(store.State(), store.Client()) {
			case usecase.RedirectLogin:
				writeJSON(w, http.StatusUnauthorized, map[string]string{"redirect": usecase.LoginPath})
				return
			case usecase.RedirectRestricted:
				writeJSON(w, http.StatusForbidden, map[string]string{
					"redirect":    usecase.RestrictedPath,
					"support_url": supportURL,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly bloqueia as rotas administrativas para quem não é admin.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := StoreFrom(r.Context())
		if store == nil || !store.IsAdmin() {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error":   "FORBIDDEN",
				"message": "acesso restrito ao administrador",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func StoreFrom(ctx context.Context) *usecase.Store {
	s, _ := ctx.Value(storeKey).(*usecase.Store)
	return s
}

func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

// WithStore injeta um Store já resolvido no contexto.
func WithStore(ctx context.Context, store *usecase.Store, token string) context.Context {
	ctx = context.WithValue(ctx, storeKey, store)
	return context.WithValue(ctx, tokenKey, token)
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	// EventSource não envia headers
	return r.URL.Query().Get("access_token")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// TenantWrite bloqueia escrita no quadro para admins: o quadro de um
// cliente aberto pelo admin é somente leitura.
func TenantWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if store := StoreFrom(r.Context()); store != nil && store.IsAdmin() {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error":   "READ_ONLY",
				"message": "quadro aberto em modo somente leitura",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
