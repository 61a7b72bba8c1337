package services

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/utils"
)

const adminTokenTTL = 12 * time.Hour

// AdminClaims is the JWT payload issued to the review console.
type AdminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Login checks the admin credentials and issues a signed token.
	Login(username, password string) (string, error)
	// VerifyToken parses and validates an admin token.
	VerifyToken(token string) (*AdminClaims, error)
}

type authService struct {
	username string
	password string
	secret   []byte
	now      func() time.Time
	log      *logger.Logger
}

func NewAuthService(baseLog *logger.Logger) AuthService {
	return &authService{
		username: utils.GetEnv("ADMIN_USERNAME", "admin", baseLog),
		password: utils.GetEnv("ADMIN_PASSWORD", "", baseLog),
		secret:   []byte(utils.GetEnv("JWT_SECRET", "", baseLog)),
		now:      time.Now,
		log:      baseLog.With("service", "AuthService"),
	}
}

func (s *authService) Login(username, password string) (string, error) {
	if s.password == "" || len(s.secret) == 0 {
		s.log.Error("Admin login attempted without ADMIN_PASSWORD / JWT_SECRET configured")
		return "", pkgerrors.ErrUnauthorized
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		s.log.Warn("Admin login rejected", "username", username)
		return "", pkgerrors.ErrUnauthorized
	}

	now := s.now()
	claims := AdminClaims{
		Username: username,
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "patentdesk",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	s.log.Info("Admin login succeeded", "username", username)
	return token, nil
}

func (s *authService) VerifyToken(token string) (*AdminClaims, error) {
	if token == "" || len(s.secret) == 0 {
		return nil, pkgerrors.ErrUnauthorized
	}
	parsed, err := jwt.ParseWithClaims(token, &AdminClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, pkgerrors.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*AdminClaims)
	if !ok || claims.Role != "admin" {
		return nil, pkgerrors.ErrUnauthorized
	}
	return claims, nil
}
