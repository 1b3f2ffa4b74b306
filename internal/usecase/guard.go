package usecase

import "github.com/xavierca1/conecta-lead/internal/entity"

type Decision string

const (
	Render             Decision = "render"
	RedirectLogin      Decision = "login"
	RedirectRestricted Decision = "restricted"
)

const (
	LoginPath      = "/login"
	RestrictedPath = "/acesso-restrito"
	DashboardPath  = "/dashboard"
)

// Decide decide a navegação para o estado de sessão atual. Admins nunca
// passam pela checagem de status do cliente.
func Decide(state SessionState, client *entity.Client) Decision {
	switch state {
	case StateAdmin:
		return Render
	case StateTenantBound:
		if client != nil && client.Status.Restricted() {
			return RedirectRestricted
		}
		return Render
	case StateTenantUnbound:
		// conta autenticada sem cliente: as telas lidam com ErrNoTenant
		return Render
	}
	return RedirectLogin
}

// LandingPath é a tela de destino logo após o login.
func LandingPath(state SessionState, client *entity.Client) string {
	switch Decide(state, client) {
	case RedirectLogin:
		return LoginPath
	case RedirectRestricted:
		return RestrictedPath
	}
	return DashboardPath
}
