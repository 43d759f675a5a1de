package manager

import (
	"context"
	"sync"

	"github.com/Maximus-Ay/GoLocal/internal/api"
	"github.com/Maximus-Ay/GoLocal/internal/models"
	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
	"github.com/Maximus-Ay/GoLocal/pkg/logger"
)

// QuotaManager interface defines the contract for quota state management
type QuotaManager interface {
	// Refresh fetches the authoritative quota and replaces local state
	// wholesale. On failure the prior state stays untouched and the error
	// is returned; no fallback value is invented.
	Refresh(ctx context.Context, username string) (models.QuotaState, error)

	// State returns the last successfully fetched quota
	State() models.QuotaState

	// AvailableMB returns remaining space from the current state. The
	// answer may be stale or negative between refreshes.
	AvailableMB() float64
}

// QuotaManagerImpl implements the QuotaManager interface
type QuotaManagerImpl struct {
	service api.Service
	logger  *logger.Logger

	mu    sync.RWMutex
	state models.QuotaState
}

// NewQuotaManager creates a new QuotaManager instance
func NewQuotaManager(service api.Service) QuotaManager {
	return &QuotaManagerImpl{
		service: service,
		logger:  logger.NewWithComponent("quota"),
	}
}

// Refresh fetches the authoritative quota from the backend
func (qm *QuotaManagerImpl) Refresh(ctx context.Context, username string) (models.QuotaState, error) {
	state, err := qm.service.GetUserQuota(ctx, username)
	if err != nil {
		qm.logger.WarnWithError("Quota refresh failed, keeping previous state", err)
		return models.QuotaState{}, apperrors.ClassifyError(err)
	}

	qm.mu.Lock()
	qm.state = state
	qm.mu.Unlock()

	qm.logger.DebugWithFields("Quota refreshed", map[string]interface{}{
		"used_mb":  state.UsedMB,
		"total_mb": state.TotalMB,
	})
	return state, nil
}

// State returns the current quota snapshot
func (qm *QuotaManagerImpl) State() models.QuotaState {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	return qm.state
}

// AvailableMB returns the remaining space from the current snapshot
func (qm *QuotaManagerImpl) AvailableMB() float64 {
	return qm.State().AvailableMB()
}
