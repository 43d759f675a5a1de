package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maximus-Ay/GoLocal/internal/manager"
	"github.com/Maximus-Ay/GoLocal/internal/models"
	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
)

// stubService implements api.Service with adjustable state
type stubService struct {
	mu    sync.Mutex
	quota models.QuotaState
	files []models.FileRecord

	uploadErr error
}

func (s *stubService) setQuota(q models.QuotaState) {
	s.mu.Lock()
	s.quota = q
	s.mu.Unlock()
}

func (s *stubService) GetUserQuota(ctx context.Context, username string) (models.QuotaState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quota, nil
}

func (s *stubService) GetUserFiles(ctx context.Context, username string) ([]models.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files, nil
}

func (s *stubService) RenameFile(ctx context.Context, username, fileID, newFileName string) error {
	return nil
}

func (s *stubService) DeleteFile(ctx context.Context, username, fileID string, fileSizeMB float64) error {
	return nil
}

func (s *stubService) RequestStorage(ctx context.Context, username string, plan models.PlanOffer, payment models.PaymentDraft) error {
	return nil
}

func (s *stubService) UploadFile(ctx context.Context, username, fileName string, fileSizeMB float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadErr
}

// stubSessionStore implements manager.SessionManager
type stubSessionStore struct {
	mu      sync.Mutex
	session models.SessionContext
	cleared bool
}

func (s *stubSessionStore) Restore() models.SessionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *stubSessionStore) Save(session models.SessionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

func (s *stubSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = true
	s.session = models.SessionContext{}
	return nil
}

// stubSettings implements manager.SettingsManager
type stubSettings struct{}

func (s *stubSettings) LoadSettings() (*models.ApplicationSettings, error) {
	return models.DefaultApplicationSettings(), nil
}

func (s *stubSettings) SaveSettings(settings *models.ApplicationSettings) error {
	return settings.Validate()
}

func (s *stubSettings) GetDefaultSettings() *models.ApplicationSettings {
	return models.DefaultApplicationSettings()
}

// mockWindow records every interface call for assertions
type mockWindow struct {
	mu sync.Mutex

	statuses   []string
	quotas     []models.QuotaState
	fileLists  [][]models.FileRecord
	exceeded   []models.QuotaExceededContext
	dismissals int
	enabled    bool
	uploading  bool

	onUploadFile func(fileName string, sizeBytes int64) error
	onRenameFile func(fileID, newName string) error
	onDeleteFile func(fileID string) error
	onRefresh    func() error
	onLogout     func() error
}

func (m *mockWindow) SetStatus(status string) {
	m.mu.Lock()
	m.statuses = append(m.statuses, status)
	m.mu.Unlock()
}

func (m *mockWindow) EnableActions(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
}

func (m *mockWindow) UpdateQuota(state models.QuotaState) {
	m.mu.Lock()
	m.quotas = append(m.quotas, state)
	m.mu.Unlock()
}

func (m *mockWindow) UpdateFiles(files []models.FileRecord) {
	m.mu.Lock()
	m.fileLists = append(m.fileLists, files)
	m.mu.Unlock()
}

func (m *mockWindow) ShowQuotaExceeded(details models.QuotaExceededContext) {
	m.mu.Lock()
	m.exceeded = append(m.exceeded, details)
	m.mu.Unlock()
}

func (m *mockWindow) DismissQuotaExceeded() {
	m.mu.Lock()
	m.dismissals++
	m.mu.Unlock()
}

func (m *mockWindow) UpdateUploadProgress(percent int) {}

func (m *mockWindow) SetUploading(uploading bool) {
	m.mu.Lock()
	m.uploading = uploading
	m.mu.Unlock()
}

func (m *mockWindow) SetOnUploadFile(callback func(fileName string, sizeBytes int64) error) {
	m.onUploadFile = callback
}
func (m *mockWindow) SetOnRenameFile(callback func(fileID, newName string) error) {
	m.onRenameFile = callback
}
func (m *mockWindow) SetOnDeleteFile(callback func(fileID string) error) {
	m.onDeleteFile = callback
}
func (m *mockWindow) SetOnRefresh(callback func() error) {
	m.onRefresh = callback
}
func (m *mockWindow) SetOnOpenPurchase(callback func() []models.PlanOffer)               {}
func (m *mockWindow) SetOnSelectPlan(callback func(offer models.PlanOffer) error)        {}
func (m *mockWindow) SetOnSubmitPayment(callback func(draft models.PaymentDraft) error)  {}
func (m *mockWindow) SetOnCancelPurchase(callback func())                                {}
func (m *mockWindow) SetOnSaveSettings(callback func(*models.ApplicationSettings) error) {}
func (m *mockWindow) SetOnLoadSettings(callback func() (*models.ApplicationSettings, error)) {
}
func (m *mockWindow) SetOnLogout(callback func() error) {
	m.onLogout = callback
}

func (m *mockWindow) lastQuota() (models.QuotaState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.quotas) == 0 {
		return models.QuotaState{}, false
	}
	return m.quotas[len(m.quotas)-1], true
}

func (m *mockWindow) exceededCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exceeded)
}

func (m *mockWindow) dismissalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dismissals
}

func controllerFixture(t *testing.T, service *stubService) (*Controller, *mockWindow, *stubSessionStore) {
	t.Helper()

	window := &mockWindow{}
	sessions := &stubSessionStore{session: models.SessionContext{Username: "alice", Role: models.RoleUser}}

	quota := manager.NewQuotaManager(service)
	registry := manager.NewFileRegistry(service)
	upload := manager.NewUploadManager(service, quota, registry, time.Millisecond)
	purchase := manager.NewPurchaseManager(service)

	controller := NewController(
		sessions.Restore(),
		quota,
		registry,
		upload,
		purchase,
		&stubSettings{},
		sessions,
		window,
		0, // no background polling in tests
	)
	t.Cleanup(controller.Stop)

	return controller, window, sessions
}

func TestController_StartLoadsDashboard(t *testing.T) {
	service := &stubService{
		quota: models.QuotaState{UsedMB: 100, TotalMB: 2048},
		files: []models.FileRecord{
			{ID: "1", Name: "a.txt", SizeMB: "1.00", Timestamp: time.Now()},
		},
	}

	controller, window, _ := controllerFixture(t, service)
	require.NoError(t, controller.Start())

	quota, ok := window.lastQuota()
	require.True(t, ok)
	assert.Equal(t, 100.0, quota.UsedMB)

	window.mu.Lock()
	defer window.mu.Unlock()
	require.NotEmpty(t, window.fileLists)
	assert.Len(t, window.fileLists[len(window.fileLists)-1], 1)
	assert.True(t, window.enabled)
	assert.Contains(t, window.statuses, "Ready")
}

func TestController_UploadRejectionShowsQuotaExceeded(t *testing.T) {
	service := &stubService{quota: models.QuotaState{UsedMB: 2000, TotalMB: 2048}}

	controller, window, _ := controllerFixture(t, service)
	require.NoError(t, controller.Start())

	// 100 MB into 48 MB of space
	require.NoError(t, window.onUploadFile("big.bin", 100*1024*1024))

	require.Eventually(t, func() bool {
		return window.exceededCount() == 1
	}, time.Second, time.Millisecond)

	window.mu.Lock()
	details := window.exceeded[0]
	window.mu.Unlock()
	assert.Equal(t, "big.bin", details.FileName)
	assert.InDelta(t, 100.0, details.FileSizeMB, 0.0001)
	assert.InDelta(t, 48.0, details.AvailableMB, 0.0001)
}

func TestController_QuotaRejectionDismissedAfterSpaceFreed(t *testing.T) {
	service := &stubService{quota: models.QuotaState{UsedMB: 2000, TotalMB: 2048}}

	controller, window, _ := controllerFixture(t, service)
	require.NoError(t, controller.Start())

	require.NoError(t, window.onUploadFile("big.bin", 100*1024*1024))
	require.Eventually(t, func() bool {
		return window.exceededCount() == 1
	}, time.Second, time.Millisecond)

	// An approved plan upgrade makes room; the next refresh notices
	service.setQuota(models.QuotaState{UsedMB: 2000, TotalMB: 4096})
	require.NoError(t, window.onRefresh())

	require.Eventually(t, func() bool {
		return window.dismissalCount() == 1
	}, time.Second, time.Millisecond)
}

func TestController_SuccessfulUploadRefreshesState(t *testing.T) {
	service := &stubService{quota: models.QuotaState{UsedMB: 0, TotalMB: 2048}}

	controller, window, _ := controllerFixture(t, service)
	require.NoError(t, controller.Start())

	require.NoError(t, window.onUploadFile("doc.txt", 1024*1024))

	require.Eventually(t, func() bool {
		window.mu.Lock()
		defer window.mu.Unlock()
		for _, s := range window.statuses {
			if s == "Upload completed successfully" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)

	window.mu.Lock()
	defer window.mu.Unlock()
	assert.False(t, window.uploading)
}

func TestController_RenameRejectsEmptyName(t *testing.T) {
	service := &stubService{quota: models.QuotaState{UsedMB: 0, TotalMB: 2048}}

	controller, window, _ := controllerFixture(t, service)
	require.NoError(t, controller.Start())

	err := window.onRenameFile("1", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestController_LogoutClearsSession(t *testing.T) {
	service := &stubService{quota: models.QuotaState{UsedMB: 0, TotalMB: 2048}}

	controller, window, sessions := controllerFixture(t, service)
	require.NoError(t, controller.Start())

	require.NoError(t, window.onLogout())

	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	assert.True(t, sessions.cleared)
}
