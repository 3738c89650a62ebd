// Package access contiene los mapas fijos rol → páginas del panel.
//
// pageRoles es el permiso de gestión: alimenta el menú lateral, el middleware de la API y
// los casos de uso. routeRoles decide qué rutas puede abrir el guard del cliente; solo se
// diferencia en que el entregador abre entregas (para consultar y confirmar) sin verla en
// el menú ni poder gestionarla.
package access

import "github.com/jhoicas/gestao-entregas/internal/domain/entity"

// Page identifica una pantalla del panel.
type Page string

// Páginas del panel.
const (
	PageDashboard  Page = "dashboard"
	PageProducts   Page = "produtos"
	PageUsers      Page = "usuarios"
	PageDeliveries Page = "entregas"
	PageCompanies  Page = "empresas"
)

// Fallback página a la que se redirige cualquier acceso denegado.
const Fallback = PageDashboard

var pageRoles = map[Page][]entity.Role{
	PageDashboard:  {entity.RoleMaster, entity.RoleAdmin, entity.RoleEntregador},
	PageProducts:   {entity.RoleMaster, entity.RoleAdmin},
	PageUsers:      {entity.RoleMaster, entity.RoleAdmin},
	PageDeliveries: {entity.RoleMaster, entity.RoleAdmin},
	PageCompanies:  {entity.RoleMaster},
}

var routeRoles = map[Page][]entity.Role{
	PageDashboard:  {entity.RoleMaster, entity.RoleAdmin, entity.RoleEntregador},
	PageProducts:   {entity.RoleMaster, entity.RoleAdmin},
	PageUsers:      {entity.RoleMaster, entity.RoleAdmin},
	PageDeliveries: {entity.RoleMaster, entity.RoleAdmin, entity.RoleEntregador},
	PageCompanies:  {entity.RoleMaster},
}

// Pages devuelve las páginas en el orden del menú.
func Pages() []Page {
	return []Page{PageDashboard, PageProducts, PageUsers, PageDeliveries, PageCompanies}
}

// Known informa si la página existe.
func (p Page) Known() bool {
	_, ok := pageRoles[p]
	return ok
}

// Path ruta del cliente para la página.
func (p Page) Path() string {
	if p == PageDashboard {
		return "/"
	}
	return "/" + string(p)
}

// RolesFor devuelve una copia de los roles autorizados para la página.
func RolesFor(p Page) []entity.Role {
	roles := pageRoles[p]
	out := make([]entity.Role, len(roles))
	copy(out, roles)
	return out
}

// Allowed informa si el rol gestiona la página (menú, escrituras en la API). Páginas o
// roles desconocidos se niegan.
func Allowed(role entity.Role, p Page) bool {
	return contains(pageRoles[p], role)
}

// CanOpen informa si el rol puede navegar a la página.
func CanOpen(role entity.Role, p Page) bool {
	return contains(routeRoles[p], role)
}

func contains(roles []entity.Role, role entity.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Decision resultado de evaluar el acceso a una página.
type Decision struct {
	Allowed  bool
	Page     Page // página solicitada
	Redirect Page // destino cuando Allowed es false
}

// Resolve evalúa la navegación a la página y, si se niega, indica la redirección al dashboard.
func Resolve(role entity.Role, p Page) Decision {
	if CanOpen(role, p) {
		return Decision{Allowed: true, Page: p}
	}
	return Decision{Allowed: false, Page: p, Redirect: Fallback}
}

// Reachable devuelve las páginas del menú del rol, en orden.
func Reachable(role entity.Role) []Page {
	var out []Page
	for _, p := range Pages() {
		if Allowed(role, p) {
			out = append(out, p)
		}
	}
	return out
}
