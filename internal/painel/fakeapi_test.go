package painel_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/painel"
)

const (
	testToken = "token-de-prueba"
	adminID   = "7d4e1c2a-0000-4000-8000-000000000001"
	driverID  = "7d4e1c2a-0000-4000-8000-000000000002"
	prodID    = "7d4e1c2a-0000-4000-8000-000000000010"
	delivA    = "7d4e1c2a-0000-4000-8000-000000000020"
	delivB    = "7d4e1c2a-0000-4000-8000-000000000021"
	delivC    = "7d4e1c2a-0000-4000-8000-000000000022"
)

// fakeAPI backend mínimo en memoria para probar el cliente y las vistas.
type fakeAPI struct {
	mu         sync.Mutex
	users      map[string]dto.UserResponse // por email
	deliveries []dto.DeliveryResponse
	products   []dto.ProductResponse
	lastPut    *dto.UpdateDeliveryRequest
	lastPatch  string
	deleted    []string
	listCalls  int
	// beforeList permite bloquear o fallar un GET /api/entregas concreto (1-based).
	beforeList func(call int) (status int)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users: map[string]dto.UserResponse{
			"admin@alfa.com":  {ID: adminID, Nome: "Admin", Email: "admin@alfa.com", TipoUsuario: "admin"},
			"carlos@alfa.com": {ID: driverID, Nome: "Carlos", Email: "carlos@alfa.com", TipoUsuario: "entregador"},
		},
		deliveries: []dto.DeliveryResponse{
			{ID: delivA, Descricao: "Galão de água", Cliente: "Padaria Central", Quantidade: 2, ProdutoID: prodID,
				Produto: &dto.DeliveryProduct{ID: prodID, Descricao: "Água 20L"}, Status: "pendente"},
			{ID: delivB, Descricao: "Botijão", Cliente: "Mercado Sol", Quantidade: 1, ProdutoID: prodID, Status: "pendente"},
			{ID: delivC, Descricao: "Entrega semanal", Cliente: "Padaria Central", Quantidade: 5, ProdutoID: prodID, Status: "entregue"},
		},
		products: []dto.ProductResponse{
			{ID: prodID, Descricao: "Água 20L"},
			{ID: "p2", Descricao: "Gás P13"},
		},
	}
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("GET /api/entregas", f.authed(f.listDeliveries))
	mux.HandleFunc("PUT /api/entregas/{id}", f.authed(f.putDelivery))
	mux.HandleFunc("PATCH /api/entregas/{id}/status", f.authed(f.patchStatus))
	mux.HandleFunc("DELETE /api/entregas/{id}", f.authed(f.deleteDelivery))
	mux.HandleFunc("GET /api/produtos", f.authed(f.listProducts))
	mux.HandleFunc("DELETE /api/produtos/{id}", f.authed(f.deleteProduct))
	mux.HandleFunc("GET /api/empresas/consulta/{cnpj}", f.authed(f.lookup))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeAPI) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
			return
		}
		h(w, r)
	}
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var in dto.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&in)
	u, ok := f.users[in.Email]
	if !ok || in.Senha != "segredo123" {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{Token: testToken, Usuario: u})
}

func (f *fakeAPI) listDeliveries(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	hook := f.beforeList
	f.mu.Unlock()
	if hook != nil {
		if status := hook(call); status >= 400 {
			writeJSON(w, status, dto.ErrorResponse{Code: "INTERNAL", Message: "falla"})
			return
		}
	}
	f.mu.Lock()
	out := append([]dto.DeliveryResponse(nil), f.deliveries...)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeAPI) putDelivery(w http.ResponseWriter, r *http.Request) {
	var in dto.UpdateDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPut = &in
	for i := range f.deliveries {
		if f.deliveries[i].ID == r.PathValue("id") {
			f.deliveries[i].Status = in.Status
			f.deliveries[i].EntregadorID = in.EntregadorID
			writeJSON(w, http.StatusOK, f.deliveries[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrega no encontrada"})
}

func (f *fakeAPI) patchStatus(w http.ResponseWriter, r *http.Request) {
	var in dto.UpdateStatusRequest
	_ = json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPatch = in.Status
	for i := range f.deliveries {
		if f.deliveries[i].ID == r.PathValue("id") {
			f.deliveries[i].Status = in.Status
			writeJSON(w, http.StatusOK, f.deliveries[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrega no encontrada"})
}

func (f *fakeAPI) deleteDelivery(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	f.deleted = append(f.deleted, id)
	kept := f.deliveries[:0]
	for _, d := range f.deliveries {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	f.deliveries = kept
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeAPI) listProducts(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.products)
}

func (f *fakeAPI) deleteProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	f.deleted = append(f.deleted, id)
	kept := f.products[:0]
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.products = kept
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeAPI) lookup(w http.ResponseWriter, r *http.Request) {
	cnpj := r.PathValue("cnpj")
	if strings.HasPrefix(cnpj, "000") {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Code: "CNPJ_NOT_FOUND", Message: "CNPJ no encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, dto.CompanyLookupResponse{
		CNPJ:        cnpj,
		RazaoSocial: "Distribuidora Alfa",
		Endereco:    "Rua A, 10 - Centro, Recife - PE, CEP: 50000-000",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// loggedIn devuelve sesión y cliente ya autenticados contra el fake.
func loggedIn(t *testing.T, srv *httptest.Server, email string) (*painel.Session, *painel.Client) {
	t.Helper()
	session := painel.NewSession()
	client := painel.NewClient(srv.URL, 0, session)
	_, err := session.Login(t.Context(), client, email, "segredo123")
	require.NoError(t, err)
	return session, client
}
