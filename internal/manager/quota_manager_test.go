package manager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maximus-Ay/GoLocal/internal/models"
	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
)

func TestQuotaManager_RefreshReplacesState(t *testing.T) {
	service := newMockAPIService()
	service.getQuotaFn = func(username string) (models.QuotaState, error) {
		return models.QuotaState{UsedMB: 1200, TotalMB: 2048}, nil
	}

	qm := NewQuotaManager(service)
	state, err := qm.Refresh(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, 1200.0, state.UsedMB)
	assert.Equal(t, 2048.0, state.TotalMB)
	assert.Equal(t, state, qm.State())
	assert.InDelta(t, 848.0, qm.AvailableMB(), 0.0001)
}

func TestQuotaManager_RefreshFailureKeepsPriorState(t *testing.T) {
	service := newMockAPIService()
	service.getQuotaFn = func(username string) (models.QuotaState, error) {
		return models.QuotaState{UsedMB: 500, TotalMB: 2048}, nil
	}

	qm := NewQuotaManager(service)
	_, err := qm.Refresh(context.Background(), "alice")
	require.NoError(t, err)

	service.getQuotaFn = func(username string) (models.QuotaState, error) {
		return models.QuotaState{}, errors.New("connection refused")
	}

	_, err = qm.Refresh(context.Background(), "alice")
	require.Error(t, err)

	// Display state survives the failed refresh
	assert.Equal(t, models.QuotaState{UsedMB: 500, TotalMB: 2048}, qm.State())
}

func TestQuotaManager_RefreshFailureClassifiesError(t *testing.T) {
	service := newMockAPIService()
	service.getQuotaFn = func(username string) (models.QuotaState, error) {
		return models.QuotaState{}, errors.New("connection refused")
	}

	qm := NewQuotaManager(service)
	_, err := qm.Refresh(context.Background(), "alice")
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestQuotaManager_ZeroStateBeforeFirstRefresh(t *testing.T) {
	qm := NewQuotaManager(newMockAPIService())
	assert.Equal(t, models.QuotaState{}, qm.State())
	assert.Equal(t, 0.0, qm.AvailableMB())
}
