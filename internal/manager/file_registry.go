package manager

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Maximus-Ay/GoLocal/internal/api"
	"github.com/Maximus-Ay/GoLocal/internal/models"
	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
	"github.com/Maximus-Ay/GoLocal/pkg/logger"
)

// FileRegistry interface defines the contract for the local file sequence.
// The backend owns the authoritative sequence; the registry holds either the
// last authoritative snapshot or that snapshot with at most one speculative
// prepend or removal pending confirmation.
type FileRegistry interface {
	// Load fetches the full list, sorts it newest-first and replaces the
	// local sequence wholesale. On failure the sequence is set to empty
	// (load failed means show empty, not silently stale) and the error is
	// returned.
	Load(ctx context.Context, username string) ([]models.FileRecord, error)

	// Files returns a copy of the currently visible sequence
	Files() []models.FileRecord

	// Names returns the set of currently visible display names
	Names() map[string]struct{}

	// Get returns the visible record with the given ID
	Get(id string) (models.FileRecord, bool)

	// OptimisticInsert prepends a placeholder record ahead of confirmation
	OptimisticInsert(record models.FileRecord)

	// ConfirmOrRollback re-fetches the authoritative sequence. Success
	// converges to the server's view, superseding any optimistic record;
	// failure restores the previous authoritative snapshot.
	ConfirmOrRollback(ctx context.Context, username string) error

	// Rename sends a rename to the backend and reconciles on success. On
	// failure nothing is mutated locally.
	Rename(ctx context.Context, username, id, newUniqueName string) error

	// Remove drops the record locally right away, sends the delete, and
	// reconciles regardless of the outcome so a failed delete cannot leave
	// a phantom-removed record.
	Remove(ctx context.Context, username, id string) error
}

// FileRegistryImpl implements the FileRegistry interface
type FileRegistryImpl struct {
	service api.Service
	logger  *logger.Logger

	mu            sync.RWMutex
	files         []models.FileRecord
	authoritative []models.FileRecord // last snapshot confirmed by the backend
}

// NewFileRegistry creates a new FileRegistry instance
func NewFileRegistry(service api.Service) FileRegistry {
	return &FileRegistryImpl{
		service: service,
		logger:  logger.NewWithComponent("registry"),
	}
}

// Load replaces the local sequence with the server's view
func (fr *FileRegistryImpl) Load(ctx context.Context, username string) ([]models.FileRecord, error) {
	list, err := fr.fetchSorted(ctx, username)
	if err != nil {
		fr.mu.Lock()
		fr.files = nil
		fr.authoritative = nil
		fr.mu.Unlock()
		return nil, err
	}

	fr.mu.Lock()
	fr.files = list
	fr.authoritative = list
	fr.mu.Unlock()

	fr.logger.DebugWithFields("File list loaded", map[string]interface{}{
		"count": len(list),
	})
	return copyRecords(list), nil
}

// Files returns a copy of the visible sequence
func (fr *FileRegistryImpl) Files() []models.FileRecord {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	return copyRecords(fr.files)
}

// Names returns the set of visible display names
func (fr *FileRegistryImpl) Names() map[string]struct{} {
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	names := make(map[string]struct{}, len(fr.files))
	for _, f := range fr.files {
		names[f.Name] = struct{}{}
	}
	return names
}

// Get returns the visible record with the given ID
func (fr *FileRegistryImpl) Get(id string) (models.FileRecord, bool) {
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	for _, f := range fr.files {
		if f.ID == id {
			return f, true
		}
	}
	return models.FileRecord{}, false
}

// OptimisticInsert prepends a placeholder record
func (fr *FileRegistryImpl) OptimisticInsert(record models.FileRecord) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.files = append([]models.FileRecord{record}, fr.files...)
}

// ConfirmOrRollback reconciles the sequence against the backend
func (fr *FileRegistryImpl) ConfirmOrRollback(ctx context.Context, username string) error {
	list, err := fr.fetchSorted(ctx, username)

	fr.mu.Lock()
	defer fr.mu.Unlock()

	if err != nil {
		// Roll back to the snapshot that preceded the speculative change
		fr.files = fr.authoritative
		return err
	}

	fr.files = list
	fr.authoritative = list
	return nil
}

// Rename sends a rename to the backend
func (fr *FileRegistryImpl) Rename(ctx context.Context, username, id, newUniqueName string) error {
	if _, ok := fr.Get(id); !ok {
		return apperrors.NewAppError(apperrors.ErrRecordNotFound, "no file with that ID", nil)
	}

	traceID := uuid.New().String()
	fr.logger.InfoWithFields("Renaming file", map[string]interface{}{
		"trace_id": traceID,
		"file_id":  id,
		"new_name": newUniqueName,
	})

	if err := fr.service.RenameFile(ctx, username, id, newUniqueName); err != nil {
		fr.logger.ErrorWithFields("Rename rejected, local state unchanged", map[string]interface{}{
			"trace_id": traceID,
			"file_id":  id,
		})
		return apperrors.ClassifyError(err)
	}

	return fr.ConfirmOrRollback(ctx, username)
}

// Remove deletes a file, optimistically locally and then on the backend
func (fr *FileRegistryImpl) Remove(ctx context.Context, username, id string) error {
	record, ok := fr.Get(id)
	if !ok {
		return apperrors.NewAppError(apperrors.ErrRecordNotFound, "no file with that ID", nil)
	}

	traceID := uuid.New().String()
	fr.logger.InfoWithFields("Deleting file", map[string]interface{}{
		"trace_id":  traceID,
		"file_id":   id,
		"file_name": record.Name,
	})

	// Optimistic removal for immediate feedback; the reconcile below is the
	// source of truth either way
	fr.mu.Lock()
	kept := fr.files[:0:0]
	for _, f := range fr.files {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	fr.files = kept
	fr.mu.Unlock()

	deleteErr := fr.service.DeleteFile(ctx, username, id, record.SizeMBValue())

	if err := fr.ConfirmOrRollback(ctx, username); err != nil {
		fr.logger.ErrorWithFields("Reconcile after delete failed", map[string]interface{}{
			"trace_id": traceID,
			"file_id":  id,
		})
		if deleteErr == nil {
			return err
		}
	}

	if deleteErr != nil {
		return apperrors.ClassifyError(deleteErr)
	}
	return nil
}

func (fr *FileRegistryImpl) fetchSorted(ctx context.Context, username string) ([]models.FileRecord, error) {
	list, err := fr.service.GetUserFiles(ctx, username)
	if err != nil {
		return nil, apperrors.ClassifyError(err)
	}

	// Newest first; stable so equal timestamps keep the server's order
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	return list, nil
}

func copyRecords(in []models.FileRecord) []models.FileRecord {
	out := make([]models.FileRecord, len(in))
	copy(out, in)
	return out
}
