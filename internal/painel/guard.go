package painel

import (
	"strings"

	"github.com/jhoicas/gestao-entregas/internal/domain/access"
)

// MenuItem entrada del menú lateral.
type MenuItem struct {
	Page  access.Page
	Label string
	Path  string
}

var pageLabels = map[access.Page]string{
	access.PageDashboard:  "Dashboard",
	access.PageProducts:   "Produtos",
	access.PageUsers:      "Usuários",
	access.PageDeliveries: "Entregas",
	access.PageCompanies:  "Empresas",
}

// Guard decide el acceso a las páginas según el rol de la sesión.
type Guard struct {
	session *Session
}

// NewGuard construye el guard sobre la sesión.
func NewGuard(session *Session) *Guard {
	return &Guard{session: session}
}

// Resolve evalúa si la sesión puede abrir la página (access.CanOpen, no el menú). Sin
// sesión devuelve el error de la sesión.
func (g *Guard) Resolve(p access.Page) (access.Decision, error) {
	role, err := g.session.Role()
	if err != nil {
		return access.Decision{}, err
	}
	return access.Resolve(role, p), nil
}

// Navigate resuelve una ruta del cliente ("/", "/produtos", ...). Rutas desconocidas
// se tratan como página no permitida y redirigen al dashboard.
func (g *Guard) Navigate(path string) (access.Decision, error) {
	return g.Resolve(PageForPath(path))
}

// Menu entradas visibles para el rol de la sesión, en orden.
func (g *Guard) Menu() ([]MenuItem, error) {
	role, err := g.session.Role()
	if err != nil {
		return nil, err
	}
	pages := access.Reachable(role)
	items := make([]MenuItem, 0, len(pages))
	for _, p := range pages {
		items = append(items, MenuItem{Page: p, Label: pageLabels[p], Path: p.Path()})
	}
	return items, nil
}

// PageForPath traduce una ruta del cliente a la página correspondiente.
func PageForPath(path string) access.Page {
	p := strings.Trim(strings.TrimSpace(path), "/")
	if p == "" || p == "dashboard" {
		return access.PageDashboard
	}
	if i := strings.Index(p, "/"); i >= 0 {
		p = p[:i]
	}
	return access.Page(p)
}
