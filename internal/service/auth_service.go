package service

import (
	"crypto/subtle"

	"github.com/ADCairex/dashboard-app/internal/session"
	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

// AuthService interface. A single admin credential pair is checked
// server-side; successful logins get a server-issued session token with an
// explicit expiry.
type AuthServiceInterface interface {
	Login(username, password string) (*session.Session, error)
	Logout(token string)
	Validate(token string) error
}

type AuthService struct {
	adminUser     string
	adminPassword string
	sessions      *session.Store
	logger        *logger.Logger
}

// NewAuthService creates an AuthService over the given session store
func NewAuthService(adminUser, adminPassword string, sessions *session.Store, logger *logger.Logger) *AuthService {
	return &AuthService{
		adminUser:     adminUser,
		adminPassword: adminPassword,
		sessions:      sessions,
		logger:        logger.WithComponent("auth_service"),
	}
}

// Login checks the credentials and issues a session on success
func (s *AuthService) Login(username, password string) (*session.Session, error) {
	if s.adminPassword == "" {
		s.logger.Warn("Login rejected: no admin password configured")
		return nil, models.ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !userOK || !passOK {
		s.logger.Warn("Login rejected", "username", username)
		return nil, models.ErrInvalidCredentials
	}

	sess := s.sessions.Issue()
	s.logger.Info("Login accepted", "expires_at", sess.ExpiresAt)
	return &sess, nil
}

// Logout revokes the session token
func (s *AuthService) Logout(token string) {
	s.sessions.Revoke(token)
	s.logger.Info("Session revoked")
}

// Validate returns nil while the token is live
func (s *AuthService) Validate(token string) error {
	return s.sessions.Validate(token)
}
