package service

import (
	"errors"
	"fmt"
	"time"

	userModel "tamilvalam_backend/internals/features/users/user/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carried by access tokens.
type Claims struct {
	UserID   uuid.UUID
	Role     string
	UserName string
	Expires  time.Time
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenService) Issue(u *userModel.UserModel) (string, time.Time, error) {
	now := t.now().UTC()
	exp := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"id":        u.ID.String(),
		"role":      u.Role,
		"user_name": u.UserName,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies the signature and expiry and extracts the claims.
func (t *TokenService) Parse(raw string) (*Claims, error) {
	parser := jwt.Parser{SkipClaimsValidation: true}
	tok, err := parser.Parse(raw, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	exp, ok := mc["exp"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}
	expires := time.Unix(int64(exp), 0).UTC()
	if !t.now().Before(expires) {
		return nil, ErrTokenExpired
	}

	idStr, _ := mc["id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	role, _ := mc["role"].(string)
	name, _ := mc["user_name"].(string)
	return &Claims{UserID: id, Role: role, UserName: name, Expires: expires}, nil
}

// BlacklistTTL keeps a revoked token listed a minute past its expiry.
func (t *TokenService) BlacklistTTL(raw string) time.Duration {
	claims, err := t.Parse(raw)
	if err != nil {
		return 2 * time.Minute
	}
	return claims.Expires.Sub(t.now()) + time.Minute
}
