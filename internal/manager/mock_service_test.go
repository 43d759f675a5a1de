package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/Maximus-Ay/GoLocal/internal/models"
)

// mockAPIService implements api.Service for testing. Behavior per call is
// controlled through the function fields; unset fields succeed with zero
// values. Call counts are tracked for assertions.
type mockAPIService struct {
	mu sync.Mutex

	getQuotaFn       func(username string) (models.QuotaState, error)
	getFilesFn       func(username string) ([]models.FileRecord, error)
	renameFn         func(username, fileID, newFileName string) error
	deleteFn         func(username, fileID string, fileSizeMB float64) error
	requestStorageFn func(username string, plan models.PlanOffer, payment models.PaymentDraft) error
	uploadFn         func(username, fileName string, fileSizeMB float64) error

	quotaCalls   int
	filesCalls   int
	renameCalls  int
	deleteCalls  int
	storageCalls int
	uploadCalls  int
}

func newMockAPIService() *mockAPIService {
	return &mockAPIService{}
}

func (m *mockAPIService) GetUserQuota(ctx context.Context, username string) (models.QuotaState, error) {
	m.mu.Lock()
	m.quotaCalls++
	fn := m.getQuotaFn
	m.mu.Unlock()

	if fn != nil {
		return fn(username)
	}
	return models.QuotaState{}, nil
}

func (m *mockAPIService) GetUserFiles(ctx context.Context, username string) ([]models.FileRecord, error) {
	m.mu.Lock()
	m.filesCalls++
	fn := m.getFilesFn
	m.mu.Unlock()

	if fn != nil {
		return fn(username)
	}
	return nil, nil
}

func (m *mockAPIService) RenameFile(ctx context.Context, username, fileID, newFileName string) error {
	m.mu.Lock()
	m.renameCalls++
	fn := m.renameFn
	m.mu.Unlock()

	if fn != nil {
		return fn(username, fileID, newFileName)
	}
	return nil
}

func (m *mockAPIService) DeleteFile(ctx context.Context, username, fileID string, fileSizeMB float64) error {
	m.mu.Lock()
	m.deleteCalls++
	fn := m.deleteFn
	m.mu.Unlock()

	if fn != nil {
		return fn(username, fileID, fileSizeMB)
	}
	return nil
}

func (m *mockAPIService) RequestStorage(ctx context.Context, username string, plan models.PlanOffer, payment models.PaymentDraft) error {
	m.mu.Lock()
	m.storageCalls++
	fn := m.requestStorageFn
	m.mu.Unlock()

	if fn != nil {
		return fn(username, plan, payment)
	}
	return nil
}

func (m *mockAPIService) UploadFile(ctx context.Context, username, fileName string, fileSizeMB float64) error {
	m.mu.Lock()
	m.uploadCalls++
	fn := m.uploadFn
	m.mu.Unlock()

	if fn != nil {
		return fn(username, fileName, fileSizeMB)
	}
	return nil
}

func (m *mockAPIService) callCount(which string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch which {
	case "quota":
		return m.quotaCalls
	case "files":
		return m.filesCalls
	case "rename":
		return m.renameCalls
	case "delete":
		return m.deleteCalls
	case "storage":
		return m.storageCalls
	case "upload":
		return m.uploadCalls
	}
	panic(fmt.Sprintf("unknown call counter %q", which))
}
