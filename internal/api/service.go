package api

import (
	"context"

	"github.com/Maximus-Ay/GoLocal/internal/models"
)

// Service defines the contract for the GoLocal backend. The backend is the
// system of record for accounts, files, quotas and payment requests; this
// client never caches its responses beyond the managers' working state.
type Service interface {
	// GetUserQuota fetches the authoritative used/total quota in MB
	GetUserQuota(ctx context.Context, username string) (models.QuotaState, error)

	// GetUserFiles fetches the user's full file list
	GetUserFiles(ctx context.Context, username string) ([]models.FileRecord, error)

	// RenameFile renames a file identified by its server-side ID
	RenameFile(ctx context.Context, username, fileID, newFileName string) error

	// DeleteFile deletes a file; the size accompanies the request so the
	// backend can release quota
	DeleteFile(ctx context.Context, username, fileID string, fileSizeMB float64) error

	// RequestStorage submits a plan purchase for admin approval
	RequestStorage(ctx context.Context, username string, plan models.PlanOffer, payment models.PaymentDraft) error

	// UploadFile registers an upload with the backend. No file bytes are
	// transferred; the backend simulates storage from the metadata alone.
	UploadFile(ctx context.Context, username, fileName string, fileSizeMB float64) error
}
