package auth

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/errs"
)

type Service struct {
	managers ManagerRepository
	tokens   TokenIssuer
}

type LoginResult struct {
	Manager     *domain.Manager
	AccessToken string
}

func NewService(managers ManagerRepository, tokens TokenIssuer) *Service {
	return &Service{managers: managers, tokens: tokens}
}

// Login checks the password and issues an access token. Unknown email and
// wrong password fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	mgr, err := s.managers.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(mgr.PasswordHash), []byte(password)); err != nil {
		slog.WarnContext(ctx, "login failed", "manager_id", mgr.ID)
		return nil, ErrInvalidCredentials
	}
	if !mgr.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := s.tokens.GenerateToken(mgr.ID, string(mgr.Role))
	if err != nil {
		return nil, err
	}

	mgr.PasswordHash = ""
	return &LoginResult{Manager: mgr, AccessToken: token}, nil
}

func (s *Service) Me(ctx context.Context, managerID int64) (*domain.Manager, error) {
	if managerID <= 0 {
		return nil, errs.Unauthorized("manager not authenticated")
	}
	mgr, err := s.managers.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	mgr.PasswordHash = ""
	return mgr, nil
}

func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errs.Validation("password", "must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.Wrap(err, "hash password")
	}
	return string(hashed), nil
}
