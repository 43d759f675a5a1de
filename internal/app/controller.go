package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Maximus-Ay/GoLocal/internal/manager"
	"github.com/Maximus-Ay/GoLocal/internal/models"
	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
	"github.com/Maximus-Ay/GoLocal/pkg/logger"
)

// MainWindowInterface defines the interface for main window operations
type MainWindowInterface interface {
	SetStatus(status string)
	EnableActions(enabled bool)
	UpdateQuota(state models.QuotaState)
	UpdateFiles(files []models.FileRecord)
	ShowQuotaExceeded(details models.QuotaExceededContext)
	DismissQuotaExceeded()
	UpdateUploadProgress(percent int)
	SetUploading(uploading bool)

	// Callback setters
	SetOnUploadFile(callback func(fileName string, sizeBytes int64) error)
	SetOnRenameFile(callback func(fileID, newName string) error)
	SetOnDeleteFile(callback func(fileID string) error)
	SetOnRefresh(callback func() error)
	SetOnOpenPurchase(callback func() []models.PlanOffer)
	SetOnSelectPlan(callback func(offer models.PlanOffer) error)
	SetOnSubmitPayment(callback func(draft models.PaymentDraft) error)
	SetOnCancelPurchase(callback func())
	SetOnSaveSettings(callback func(settings *models.ApplicationSettings) error)
	SetOnLoadSettings(callback func() (*models.ApplicationSettings, error))
	SetOnLogout(callback func() error)
}

// Controller coordinates between UI and business logic layers
type Controller struct {
	// Business logic managers
	quotaManager    manager.QuotaManager
	fileRegistry    manager.FileRegistry
	uploadManager   manager.UploadManager
	purchaseManager manager.PurchaseManager
	settingsManager manager.SettingsManager
	sessionManager  manager.SessionManager

	// UI components
	mainWindow MainWindowInterface

	// Services
	logger *logger.Logger

	// Signed-in user for the lifetime of the controller
	session models.SessionContext

	// Interval between background quota and file refreshes
	pollInterval time.Duration

	// Pending quota rejection, dismissed automatically once a refresh shows
	// enough space for the rejected file
	rejectionMu sync.Mutex
	rejection   *models.QuotaExceededContext

	// Background context for operations
	ctx    context.Context
	cancel context.CancelFunc
}

// NewController creates a new application controller
func NewController(
	session models.SessionContext,
	quotaManager manager.QuotaManager,
	fileRegistry manager.FileRegistry,
	uploadManager manager.UploadManager,
	purchaseManager manager.PurchaseManager,
	settingsManager manager.SettingsManager,
	sessionManager manager.SessionManager,
	mainWindow MainWindowInterface,
	pollInterval time.Duration,
) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	controller := &Controller{
		session:         session,
		quotaManager:    quotaManager,
		fileRegistry:    fileRegistry,
		uploadManager:   uploadManager,
		purchaseManager: purchaseManager,
		settingsManager: settingsManager,
		sessionManager:  sessionManager,
		mainWindow:      mainWindow,
		logger:          logger.New(),
		pollInterval:    pollInterval,
		ctx:             ctx,
		cancel:          cancel,
	}

	// Connect UI callbacks to controller methods
	controller.setupUICallbacks()

	return controller
}

// Start initializes the controller and starts background refreshes
func (c *Controller) Start() error {
	c.logger.InfoWithFields("Starting dashboard controller", map[string]interface{}{
		"username": c.session.Username,
		"role":     string(c.session.Role),
	})

	c.mainWindow.SetStatus("Loading dashboard...")
	if err := c.refreshDashboard(); err != nil {
		c.logger.ErrorWithError("Initial dashboard load failed", err)
		c.mainWindow.SetStatus("Error loading dashboard: " + userMessage(err))
	} else {
		c.mainWindow.SetStatus("Ready")
	}
	c.mainWindow.EnableActions(true)

	// Start background poller
	go c.startPolling()

	return nil
}

// Stop gracefully shuts down the controller
func (c *Controller) Stop() {
	c.logger.Info("Stopping dashboard controller")
	c.cancel()
}

// setupUICallbacks connects UI callbacks to controller methods
func (c *Controller) setupUICallbacks() {
	c.mainWindow.SetOnUploadFile(c.handleUploadFile)
	c.mainWindow.SetOnRenameFile(c.handleRenameFile)
	c.mainWindow.SetOnDeleteFile(c.handleDeleteFile)
	c.mainWindow.SetOnRefresh(c.handleRefresh)
	c.mainWindow.SetOnOpenPurchase(c.handleOpenPurchase)
	c.mainWindow.SetOnSelectPlan(c.handleSelectPlan)
	c.mainWindow.SetOnSubmitPayment(c.handleSubmitPayment)
	c.mainWindow.SetOnCancelPurchase(c.handleCancelPurchase)
	c.mainWindow.SetOnSaveSettings(c.handleSaveSettings)
	c.mainWindow.SetOnLoadSettings(c.handleLoadSettings)
	c.mainWindow.SetOnLogout(c.handleLogout)
}

// handleUploadFile handles file upload requests from UI
func (c *Controller) handleUploadFile(fileName string, sizeBytes int64) error {
	c.logger.InfoWithFields("Starting file upload", map[string]interface{}{
		"file_name":  fileName,
		"size_bytes": sizeBytes,
	})

	// Update UI to show upload in progress
	c.mainWindow.SetStatus("Uploading file...")
	c.mainWindow.SetUploading(true)

	// Perform upload in background goroutine
	go func() {
		err := c.uploadManager.Upload(c.ctx, c.session.Username, fileName, sizeBytes, func(percent int) {
			if c.ctx.Err() != nil {
				return
			}
			c.mainWindow.UpdateUploadProgress(percent)
		})

		// The window may already be torn down when the upload finishes
		if c.ctx.Err() != nil {
			return
		}

		c.mainWindow.SetUploading(false)

		if err != nil {
			if details, ok := manager.QuotaContextOf(err); ok {
				c.rememberRejection(details)
				c.mainWindow.ShowQuotaExceeded(details)
				c.mainWindow.SetStatus("Not enough storage for this file")
			} else {
				c.logger.ErrorWithError("File upload failed", err)
				c.mainWindow.SetStatus("Upload failed: " + userMessage(err))
			}
			c.pushState()
			return
		}

		c.logger.InfoWithFields("File upload completed", map[string]interface{}{
			"file_name": fileName,
		})
		c.mainWindow.SetStatus("Upload completed successfully")
		c.pushState()
	}()

	return nil
}

// handleRenameFile handles rename requests from UI
func (c *Controller) handleRenameFile(fileID, newName string) error {
	if newName == "" {
		return apperrors.NewValidationError("new_name", "name cannot be empty")
	}

	c.mainWindow.SetStatus("Renaming file...")

	go func() {
		// The chosen name must not collide with any other visible file
		names := c.fileRegistry.Names()
		if current, ok := c.fileRegistry.Get(fileID); ok {
			delete(names, current.Name)
		}
		resolved := manager.ResolveUniqueName(newName, names)

		err := c.fileRegistry.Rename(c.ctx, c.session.Username, fileID, resolved)

		if c.ctx.Err() != nil {
			return
		}

		if err != nil {
			c.logger.ErrorWithError("Rename failed", err)
			c.mainWindow.SetStatus("Rename failed: " + userMessage(err))
		} else {
			c.mainWindow.SetStatus("File renamed")
		}
		c.pushState()
	}()

	return nil
}

// handleDeleteFile handles deletion requests from UI
func (c *Controller) handleDeleteFile(fileID string) error {
	c.logger.InfoWithFields("Starting file deletion", map[string]interface{}{
		"file_id": fileID,
	})

	c.mainWindow.SetStatus("Deleting file...")

	go func() {
		err := c.fileRegistry.Remove(c.ctx, c.session.Username, fileID)

		if c.ctx.Err() != nil {
			return
		}

		if err != nil {
			c.logger.ErrorWithError("File deletion failed", err)
			c.mainWindow.SetStatus("Deletion failed: " + userMessage(err))
		} else {
			c.mainWindow.SetStatus("File deleted")
		}

		// Freed space changes the quota display either way
		if _, err := c.quotaManager.Refresh(c.ctx, c.session.Username); err != nil {
			c.logger.WarnWithError("Quota refresh after delete failed", err)
		}
		if c.ctx.Err() != nil {
			return
		}
		c.pushState()
	}()

	return nil
}

// handleRefresh handles manual refresh requests from UI
func (c *Controller) handleRefresh() error {
	c.mainWindow.SetStatus("Refreshing...")

	go func() {
		err := c.refreshDashboard()

		if c.ctx.Err() != nil {
			return
		}

		if err != nil {
			c.mainWindow.SetStatus("Refresh failed: " + userMessage(err))
		} else {
			c.mainWindow.SetStatus("Ready")
		}
	}()

	return nil
}

// handleOpenPurchase starts the plan purchase flow
func (c *Controller) handleOpenPurchase() []models.PlanOffer {
	c.logger.Info("Opening storage plan selection")
	return c.purchaseManager.Open()
}

// handleSelectPlan records the chosen plan
func (c *Controller) handleSelectPlan(offer models.PlanOffer) error {
	return c.purchaseManager.SelectPlan(offer)
}

// handleSubmitPayment validates and submits the purchase request
func (c *Controller) handleSubmitPayment(draft models.PaymentDraft) error {
	c.purchaseManager.SetDraft(draft)

	if err := c.purchaseManager.Submit(c.ctx, c.session.Username); err != nil {
		if apperrors.IsValidation(err) {
			// Validation failures stay inside the payment form
			return err
		}
		c.logger.ErrorWithError("Purchase submission failed", err)
		c.mainWindow.SetStatus("Purchase request failed: " + userMessage(err))
		return err
	}

	// The quota increase arrives only after an admin approves the request
	c.mainWindow.SetStatus("Storage request submitted for approval")
	return nil
}

// handleCancelPurchase abandons the purchase flow
func (c *Controller) handleCancelPurchase() {
	c.purchaseManager.Cancel()
}

// handleSaveSettings handles settings save requests from UI
func (c *Controller) handleSaveSettings(settings *models.ApplicationSettings) error {
	c.logger.Info("Saving application settings")

	if err := c.settingsManager.SaveSettings(settings); err != nil {
		c.logger.ErrorWithError("Failed to save settings", err)
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// handleLoadSettings handles settings load requests from UI
func (c *Controller) handleLoadSettings() (*models.ApplicationSettings, error) {
	settings, err := c.settingsManager.LoadSettings()
	if err != nil {
		c.logger.ErrorWithError("Failed to load settings", err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// handleLogout clears the persisted session. The caller closes the window.
func (c *Controller) handleLogout() error {
	c.logger.InfoWithFields("Logging out", map[string]interface{}{
		"username": c.session.Username,
	})

	if err := c.sessionManager.Clear(); err != nil {
		c.logger.ErrorWithError("Failed to clear session", err)
		return err
	}
	c.cancel()
	return nil
}

// Session returns the signed-in session
func (c *Controller) Session() models.SessionContext {
	return c.session
}

// refreshDashboard fetches quota and files and pushes both to the UI
func (c *Controller) refreshDashboard() error {
	quotaState, quotaErr := c.quotaManager.Refresh(c.ctx, c.session.Username)
	_, filesErr := c.fileRegistry.Load(c.ctx, c.session.Username)

	if c.ctx.Err() != nil {
		return c.ctx.Err()
	}

	if quotaErr == nil {
		c.maybeDismissRejection(quotaState)
	}
	c.pushState()

	if quotaErr != nil {
		return quotaErr
	}
	return filesErr
}

// pushState sends the current quota and file list to the UI
func (c *Controller) pushState() {
	c.mainWindow.UpdateQuota(c.quotaManager.State())
	c.mainWindow.UpdateFiles(c.fileRegistry.Files())
}

// startPolling refreshes the dashboard periodically so quota changes made
// elsewhere, such as an approved storage request, show up without user action
func (c *Controller) startPolling() {
	if c.pollInterval <= 0 {
		return
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			c.logger.Info("Stopping dashboard poller")
			return
		case <-ticker.C:
			if err := c.refreshDashboard(); err != nil {
				c.logger.WarnWithError("Background refresh failed", err)
			}
		}
	}
}

func (c *Controller) rememberRejection(details models.QuotaExceededContext) {
	c.rejectionMu.Lock()
	c.rejection = &details
	c.rejectionMu.Unlock()
}

// maybeDismissRejection retires the quota-exceeded notice once a refresh shows
// the rejected file would now fit
func (c *Controller) maybeDismissRejection(state models.QuotaState) {
	c.rejectionMu.Lock()
	defer c.rejectionMu.Unlock()

	if c.rejection == nil {
		return
	}
	if state.AvailableMB() >= c.rejection.FileSizeMB {
		c.rejection = nil
		c.mainWindow.DismissQuotaExceeded()
	}
}

// userMessage extracts the display message from a classified error
func userMessage(err error) string {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.GetUserMessage()
	}
	return err.Error()
}
