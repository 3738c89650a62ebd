package painel

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
)

var (
	// ErrSessionLoading la sesión está en medio de un login.
	ErrSessionLoading = errors.New("painel: sesión cargando")
	// ErrNotAuthenticated no hay sesión iniciada.
	ErrNotAuthenticated = errors.New("painel: no autenticado")
)

// Authenticator intercambia credenciales por token + usuario. Lo implementa *Client.
type Authenticator interface {
	Authenticate(ctx context.Context, email, senha string) (*dto.LoginResponse, error)
}

// Session identidad del usuario del painel. Segura para uso concurrente.
type Session struct {
	mu      sync.RWMutex
	token   string
	user    *dto.UserResponse
	loading bool
}

// NewSession devuelve una sesión vacía (no autenticada).
func NewSession() *Session { return &Session{} }

// Login autentica y puebla la sesión. Mientras dura, Loading es true y las lecturas
// devuelven ErrSessionLoading. Un fallo deja la sesión vacía.
func (s *Session) Login(ctx context.Context, auth Authenticator, email, senha string) (*dto.UserResponse, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrSessionLoading
	}
	s.loading = true
	s.token, s.user = "", nil
	s.mu.Unlock()

	out, err := auth.Authenticate(ctx, email, senha)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return nil, err
	}
	user := out.Usuario
	s.token, s.user = out.Token, &user
	cp := user
	return &cp, nil
}

// Logout limpia token y usuario.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = "", nil
}

// Loading informa si hay un login en curso.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Token devuelve el token vigente.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return "", err
	}
	return s.token, nil
}

// User devuelve una copia del usuario autenticado.
func (s *Session) User() (dto.UserResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return dto.UserResponse{}, err
	}
	return *s.user, nil
}

// Role devuelve el rol del usuario autenticado.
func (s *Session) Role() (entity.Role, error) {
	u, err := s.User()
	if err != nil {
		return "", err
	}
	return entity.Role(u.TipoUsuario), nil
}

func (s *Session) check() error {
	if s.loading {
		return ErrSessionLoading
	}
	if s.user == nil || s.token == "" {
		return ErrNotAuthenticated
	}
	return nil
}
