package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vetorya/clinica-api/internal/application/dto"
	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/authz"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
	"github.com/vetorya/clinica-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login. Es el resolutor
// de identidad del sistema; el núcleo de autorización solo ve conjuntos de roles.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	clinicRepo repository.ClinicRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, clinicRepo repository.ClinicRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, clinicRepo: clinicRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt, normaliza los roles
// (desconocidos y duplicados fuera) y persiste. Sin roles válidos queda assistant.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.ClinicID == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.userRepo.GetByEmailAndClinic(in.Email, in.ClinicID)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	clinic, err := uc.clinicRepo.GetByID(in.ClinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, domain.ErrNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	roles := normalizeRoles(in.Roles)
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		ClinicID:     in.ClinicID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Roles:        roles,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT con el claim de roles y retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	rolesClaim := authz.JoinRoles(authz.ParseRoles(strings.Join(user.Roles, ",")))
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.ClinicID, rolesClaim, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// normalizeRoles filtra a la enumeración válida sin duplicados; vacío -> assistant.
func normalizeRoles(raw []string) []string {
	parsed := authz.ParseRoles(strings.Join(raw, ","))
	if len(parsed) == 0 {
		parsed = []authz.Role{authz.DefaultRole}
	}
	roles := make([]string, 0, len(parsed))
	for _, r := range parsed {
		roles = append(roles, string(r))
	}
	return roles
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		ClinicID:  u.ClinicID,
		Email:     u.Email,
		Name:      u.Name,
		Roles:     u.Roles,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
