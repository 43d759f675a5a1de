package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Maximus-Ay/GoLocal/internal/api"
	"github.com/Maximus-Ay/GoLocal/internal/models"
	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
	"github.com/Maximus-Ay/GoLocal/pkg/logger"
)

// UploadState names each step of the upload sequence
type UploadState string

const (
	StateIdle       UploadState = "idle"
	StateAdmitting  UploadState = "admitting"
	StateOptimistic UploadState = "optimistic"
	StateConfirming UploadState = "confirming"
	StateFailed     UploadState = "failed"
)

// ProgressFunc receives simulated progress updates in percent. The progress
// indicator is a UX affordance only and carries no correctness weight.
type ProgressFunc func(percent int)

// UploadManager interface defines the contract for upload admission and the
// optimistic-then-confirmed upload sequence
type UploadManager interface {
	// Upload runs the full sequence for one file: admission against the
	// current quota, unique-name resolution, optimistic insert, the remote
	// command, and reconciliation. It blocks until the sequence completes;
	// callers run it off the UI thread. Only one upload is admitted at a
	// time; a concurrent attempt fails with an upload-in-progress error.
	Upload(ctx context.Context, username, fileName string, sizeBytes int64, progress ProgressFunc) error

	// State returns the current position in the upload sequence
	State() UploadState
}

// UploadManagerImpl implements the UploadManager interface
type UploadManagerImpl struct {
	service  api.Service
	quota    QuotaManager
	registry FileRegistry
	logger   *logger.Logger

	// progressTick is the interval between simulated progress increments
	progressTick time.Duration

	mu    sync.Mutex
	state UploadState
}

// NewUploadManager creates a new UploadManager instance
func NewUploadManager(service api.Service, quota QuotaManager, registry FileRegistry, progressTick time.Duration) UploadManager {
	if progressTick <= 0 {
		progressTick = 200 * time.Millisecond
	}
	return &UploadManagerImpl{
		service:      service,
		quota:        quota,
		registry:     registry,
		logger:       logger.NewWithComponent("upload"),
		progressTick: progressTick,
		state:        StateIdle,
	}
}

// State returns the current upload state
func (um *UploadManagerImpl) State() UploadState {
	um.mu.Lock()
	defer um.mu.Unlock()
	return um.state
}

func (um *UploadManagerImpl) setState(s UploadState) {
	um.mu.Lock()
	um.state = s
	um.mu.Unlock()
}

// Upload runs the admission and upload sequence for one file
func (um *UploadManagerImpl) Upload(ctx context.Context, username, fileName string, sizeBytes int64, progress ProgressFunc) error {
	if progress == nil {
		progress = func(int) {}
	}

	// Serialize uploads through the idle gate
	um.mu.Lock()
	if um.state != StateIdle {
		um.mu.Unlock()
		return apperrors.NewAppError(apperrors.ErrUploadInProgress, "an upload is already in flight", nil)
	}
	um.state = StateAdmitting
	um.mu.Unlock()

	sizeMB := float64(sizeBytes) / (1024 * 1024)
	availableMB := um.quota.AvailableMB()

	// Admission rule: a file exactly filling the remaining space is allowed
	if sizeMB > availableMB {
		um.setState(StateIdle)
		um.logger.InfoWithFields("Upload rejected by quota admission", map[string]interface{}{
			"file_name":    fileName,
			"file_size_mb": sizeMB,
			"available_mb": availableMB,
		})
		err := apperrors.NewAppError(apperrors.ErrQuotaExceeded,
			fmt.Sprintf("file needs %.2f MB but only %.2f MB is available", sizeMB, availableMB), nil)
		err.WithContext("file_name", fileName)
		err.WithContext("file_size_mb", sizeMB)
		err.WithContext("available_mb", availableMB)
		return err
	}

	resolvedName := ResolveUniqueName(fileName, um.registry.Names())

	um.setState(StateOptimistic)
	record := models.NewOptimisticRecord(username, resolvedName, sizeMB, time.Now())
	um.registry.OptimisticInsert(record)

	um.logger.InfoWithFields("Upload admitted", map[string]interface{}{
		"file_name":     fileName,
		"resolved_name": resolvedName,
		"file_size_mb":  sizeMB,
	})

	stopProgress := um.simulateProgress(ctx, progress)

	uploadErr := um.service.UploadFile(ctx, username, resolvedName, sizeMB)
	stopProgress()

	if uploadErr != nil {
		// Discard the optimistic record by restoring the authoritative view
		if err := um.registry.ConfirmOrRollback(ctx, username); err != nil {
			um.logger.WarnWithError("Rollback reconcile failed after upload error", err)
		}
		um.setState(StateFailed)
		um.logger.ErrorWithError("Upload failed", uploadErr)
		um.setState(StateIdle)
		return apperrors.ClassifyError(uploadErr)
	}

	progress(100)
	um.setState(StateConfirming)

	if err := um.registry.ConfirmOrRollback(ctx, username); err != nil {
		// The upload itself succeeded; the next poll converges the list
		um.logger.WarnWithError("Reconcile after upload failed", err)
	}
	if _, err := um.quota.Refresh(ctx, username); err != nil {
		um.logger.WarnWithError("Quota refresh after upload failed", err)
	}

	um.setState(StateIdle)
	return nil
}

// simulateProgress advances the indicator by fixed increments, capped at 90
// until the remote call returns. The returned func stops the ticker.
func (um *UploadManagerImpl) simulateProgress(ctx context.Context, progress ProgressFunc) func() {
	done := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(um.progressTick)
		defer ticker.Stop()

		percent := 0
		progress(percent)
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if percent >= 90 {
					continue
				}
				percent += 10
				progress(percent)
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}

// QuotaContextOf extracts the quota-exceeded details from an admission
// rejection, if the error is one
func QuotaContextOf(err error) (models.QuotaExceededContext, bool) {
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.ErrQuotaExceeded || appErr.Context == nil {
		return models.QuotaExceededContext{}, false
	}

	name, _ := appErr.Context["file_name"].(string)
	size, _ := appErr.Context["file_size_mb"].(float64)
	available, _ := appErr.Context["available_mb"].(float64)
	return models.QuotaExceededContext{
		FileName:    name,
		FileSizeMB:  size,
		AvailableMB: available,
	}, true
}
