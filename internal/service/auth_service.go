package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"brewops/internal/model"
	"brewops/internal/repository"
	"brewops/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

const minPasswordLength = 8

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error
	// SetPassword replaces a password without the old one and ends every session.
	SetPassword(ctx context.Context, email, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	// Seed creates default privileges, roles and the admin account if missing.
	Seed(ctx context.Context, adminEmail, adminPassword string) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo      repository.UserRepository
	roleRepo      repository.RoleRepository
	privilegeRepo repository.PrivilegeRepository
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, privilegeRepo repository.PrivilegeRepository) AuthService {
	return &authService{
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		privilegeRepo: privilegeRepo,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Single session: a new token version invalidates older tokens
	version := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, version); err != nil {
		return nil, errors.New("failed to update session")
	}
	user.TokenVersion = version

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}
	privileges := user.PrivilegeCodes()

	// 5. Generate JWT
	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, roleCode, privileges, version)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: privileges,
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	return s.replacePassword(ctx, user, newPassword)
}

func (s *authService) SetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return ErrUserNotFound
	}
	return s.replacePassword(ctx, user, newPassword)
}

func (s *authService) replacePassword(ctx context.Context, user *model.User, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	return s.userRepo.UpdateTokenVersion(ctx, user.ID, uuid.New().String())
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	// 1. Validate JWT token
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	// 2. Find user by ID from token claims
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 3. Check if user is still active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 4. Strict session check
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

func (s *authService) Seed(ctx context.Context, adminEmail, adminPassword string) error {
	// 1. Privileges first
	if err := s.privilegeRepo.SeedDefaults(ctx); err != nil {
		return err
	}

	// 2. Roles
	if err := s.roleRepo.SeedDefaults(ctx); err != nil {
		return err
	}

	// 3. Role privileges, only for roles that have none yet
	allPrivileges, err := s.privilegeRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	masterRole, err := s.roleRepo.FindByCode(ctx, model.RoleMasterAdmin)
	if err != nil {
		return err
	}
	if len(masterRole.Privileges) == 0 {
		if err := s.roleRepo.ReplacePrivileges(ctx, masterRole, allPrivileges); err != nil {
			return err
		}
		log.Println("MASTER_ADMIN role assigned all privileges")
	}
	salesRole, err := s.roleRepo.FindByCode(ctx, model.RoleSales)
	if err != nil {
		return err
	}
	if len(salesRole.Privileges) == 0 {
		salesPrivileges, err := s.privilegeRepo.FindByCodes(ctx, model.SalesRolePrivileges)
		if err != nil {
			return err
		}
		if err := s.roleRepo.ReplacePrivileges(ctx, salesRole, salesPrivileges); err != nil {
			return err
		}
		log.Println("SALES role assigned order privileges")
	}

	// 4. Admin account
	adminEmail = normalizeEmail(adminEmail)
	if adminEmail == "" {
		return nil
	}
	if _, err := s.userRepo.FindByEmail(ctx, adminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	generated := false
	if adminPassword == "" {
		adminPassword = uuid.New().String()[:12]
		generated = true
	}
	admin := &model.User{
		Email:    adminEmail,
		FullName: "Master Administrator",
		RoleID:   &masterRole.ID,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(adminPassword); err != nil {
		return err
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}
	if generated {
		log.Printf("Admin user created: %s with generated password %s (change it with brewctl reset-password)", adminEmail, adminPassword)
	} else {
		log.Printf("Admin user created: %s (MASTER_ADMIN)", adminEmail)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
