package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/application/usecase"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
	"github.com/jhoicas/gestao-entregas/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// AuthUseCase casos de uso de autenticación: login y sesión actual.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica email/senha, genera JWT y retorna token + usuario.
// Email desconocido y senha incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Senha)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Role.Valid() {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      string(user.Role),
	}, uc.jwtCfg.Issuer, uc.jwtCfg.TTL)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:   token,
		Usuario: *usecase.ToUserResponse(user),
	}, nil
}

// Me devuelve el usuario de la sesión actual.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return usecase.ToUserResponse(user), nil
}
