package manager

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Maximus-Ay/GoLocal/internal/models"
	"github.com/Maximus-Ay/GoLocal/internal/storage"
	"github.com/Maximus-Ay/GoLocal/pkg/logger"
)

const sessionConfigKey = "session"

// SessionManager interface defines the contract for session persistence.
// Init rule: restore from the local store or start unauthenticated.
// Teardown rule: clear on logout.
type SessionManager interface {
	Restore() models.SessionContext
	Save(session models.SessionContext) error
	Clear() error
}

// SessionManagerImpl implements the SessionManager interface
type SessionManagerImpl struct {
	db     storage.Database
	logger *logger.Logger
}

// NewSessionManager creates a new session manager
func NewSessionManager(db storage.Database) *SessionManagerImpl {
	return &SessionManagerImpl{
		db:     db,
		logger: logger.NewWithComponent("session"),
	}
}

// Restore loads the persisted session, or returns an unauthenticated one
func (sm *SessionManagerImpl) Restore() models.SessionContext {
	stored, err := sm.db.GetConfig(sessionConfigKey)
	if err != nil {
		return models.SessionContext{}
	}

	var session models.SessionContext
	if err := session.FromJSON(stored); err != nil {
		sm.logger.WarnWithError("Discarding unreadable stored session", err)
		return models.SessionContext{}
	}

	session.Role = sm.resolveRole(session)
	return session
}

// Save persists the session with its role resolved
func (sm *SessionManagerImpl) Save(session models.SessionContext) error {
	session.Role = sm.resolveRole(session)

	data, err := session.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := sm.db.SaveConfig(sessionConfigKey, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the persisted session
func (sm *SessionManagerImpl) Clear() error {
	if err := sm.db.DeleteConfig(sessionConfigKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	sm.logger.Info("Session cleared")
	return nil
}

// resolveRole prefers a server-issued role claim from the session token.
// When the token carries none, the original backend's username convention
// is the only signal left; using it is a trusted-client decision and is
// logged as such.
func (sm *SessionManagerImpl) resolveRole(session models.SessionContext) models.Role {
	if role, ok := roleFromToken(session.Token); ok {
		return role
	}

	if models.LegacyAdminUsername(session.Username) {
		sm.logger.Warn("No role claim in session token; falling back to the legacy admin-username rule")
		return models.RoleAdmin
	}
	return models.RoleUser
}

// roleFromToken reads the "role" claim without verifying the signature. The
// backend owns authorization; the claim only selects which dashboard to show.
func roleFromToken(token string) (models.Role, bool) {
	if token == "" {
		return "", false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", false
	}

	switch models.Role(role) {
	case models.RoleAdmin:
		return models.RoleAdmin, true
	default:
		return models.RoleUser, true
	}
}
