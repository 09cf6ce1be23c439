package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tamilvalam_backend/internals/configs"
	"tamilvalam_backend/internals/features/users/auth/dto"
	authRepo "tamilvalam_backend/internals/features/users/auth/repository"
	userModel "tamilvalam_backend/internals/features/users/user/model"
)

/* ==========================
   Service
========================== */

type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
	log    *zap.Logger
}

func NewAuthService(db *gorm.DB, tokens *TokenService, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{db: db, tokens: tokens, log: log}
}

func (s *AuthService) Tokens() *TokenService { return s.tokens }

/* ==========================
   LOGIN
========================== */

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := authRepo.FindUserByEmailOrUsername(ctx, s.db, req.Identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Keep timing close to the found-user path.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid identifier or password")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid identifier or password")
	}
	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "Account is deactivated")
	}

	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	s.log.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		User:        dto.NewUserResponse(user),
	}, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

/* ==========================
   ME / LOGOUT
========================== */

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := authRepo.FindUserByID(ctx, s.db, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// Logout blacklists the access token until shortly after it expires.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := authRepo.BlacklistToken(ctx, s.db, accessToken, s.tokens.BlacklistTTL(accessToken)); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (s *AuthService) IsRevoked(ctx context.Context, accessToken string) (bool, error) {
	return authRepo.IsTokenBlacklisted(ctx, s.db, accessToken)
}

func (s *AuthService) UserActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	return authRepo.IsUserActive(ctx, s.db, userID)
}

// CleanupBlacklist drops entries whose token has expired.
func (s *AuthService) CleanupBlacklist(ctx context.Context) (int64, error) {
	return authRepo.CleanupExpiredBlacklist(ctx, s.db, time.Now().UTC())
}

/* ==========================
   SEED
========================== */

// SeedAdmin creates the configured admin when no user holds that email.
// Returns true when a user was created.
func (s *AuthService) SeedAdmin(ctx context.Context, cfg configs.AdminSeedConfig) (bool, error) {
	email := strings.TrimSpace(cfg.Email)
	if email == "" || cfg.Password == "" {
		return false, nil
	}
	if _, err := authRepo.FindUserByEmail(ctx, s.db, email); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	name := strings.TrimSpace(cfg.UserName)
	if name == "" {
		name = "admin"
	}
	user := &userModel.UserModel{
		UserName: name,
		Email:    strings.ToLower(email),
		Password: string(hash),
		Role:     userModel.RoleAdmin,
		IsActive: true,
	}
	if err := authRepo.CreateUser(ctx, s.db, user); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	s.log.Info("admin user seeded", zap.String("email", user.Email))
	return true, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
