package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Maximus-Ay/GoLocal/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// DashboardWindow represents the storage dashboard window
type DashboardWindow struct {
	app      fyne.App
	window   fyne.Window
	fileList *widget.List

	// UI components
	statusLabel    *widget.Label
	quotaBar       *widget.ProgressBar
	quotaLabel     *widget.Label
	warningLabel   *widget.Label
	uploadProgress *widget.ProgressBar
	uploadBtn      *widget.Button
	buyStorageBtn  *widget.Button
	refreshBtn     *widget.Button
	settingsBtn    *widget.Button
	logoutBtn      *widget.Button

	// Data
	session models.SessionContext
	files   []models.FileRecord

	// Open quota-exceeded dialog, if any
	quotaDialog dialog.Dialog

	// Callbacks for business logic integration (set by the controller)
	onUploadFile     func(fileName string, sizeBytes int64) error
	onRenameFile     func(fileID, newName string) error
	onDeleteFile     func(fileID string) error
	onRefresh        func() error
	onOpenPurchase   func() []models.PlanOffer
	onSelectPlan     func(offer models.PlanOffer) error
	onSubmitPayment  func(draft models.PaymentDraft) error
	onCancelPurchase func()
	onSaveSettings   func(settings *models.ApplicationSettings) error
	onLoadSettings   func() (*models.ApplicationSettings, error)
	onLogout         func() error
}

// NewDashboardWindow creates the dashboard window for a signed-in user
func NewDashboardWindow(app fyne.App, session models.SessionContext) *DashboardWindow {
	window := app.NewWindow("GoLocal Storage")
	window.Resize(fyne.NewSize(900, 700))
	window.SetIcon(theme.StorageIcon())

	dw := &DashboardWindow{
		app:     app,
		window:  window,
		session: session,
		files:   []models.FileRecord{},
	}

	dw.setupUI()
	return dw
}

// Show displays the dashboard window and runs the event loop
func (dw *DashboardWindow) Show() {
	dw.window.ShowAndRun()
}

// Window exposes the underlying fyne window for dialogs
func (dw *DashboardWindow) Window() fyne.Window {
	return dw.window
}

// SetStatus updates the status label
func (dw *DashboardWindow) SetStatus(status string) {
	dw.statusLabel.SetText(status)
}

// EnableActions enables/disables action buttons
func (dw *DashboardWindow) EnableActions(enabled bool) {
	if enabled {
		dw.uploadBtn.Enable()
		dw.buyStorageBtn.Enable()
		dw.refreshBtn.Enable()
	} else {
		dw.uploadBtn.Disable()
		dw.buyStorageBtn.Disable()
		dw.refreshBtn.Disable()
	}
}

// UpdateQuota updates the storage usage display
func (dw *DashboardWindow) UpdateQuota(state models.QuotaState) {
	dw.quotaBar.SetValue(state.Percentage() / 100)
	dw.quotaLabel.SetText(fmt.Sprintf("%.2f MB of %.2f MB used (%.0f%%)",
		state.UsedMB, state.TotalMB, state.Percentage()))

	switch state.Level() {
	case models.QuotaCritical:
		dw.warningLabel.SetText("Storage almost full. Delete files or buy more storage.")
		dw.warningLabel.Show()
	case models.QuotaWarning:
		dw.warningLabel.SetText("Storage is filling up. Consider buying more storage.")
		dw.warningLabel.Show()
	default:
		dw.warningLabel.Hide()
	}
}

// UpdateFiles updates the file list display
func (dw *DashboardWindow) UpdateFiles(files []models.FileRecord) {
	dw.files = files
	dw.fileList.Refresh()
}

// ShowQuotaExceeded shows the rejection dialog for an upload that did not fit
func (dw *DashboardWindow) ShowQuotaExceeded(details models.QuotaExceededContext) {
	dw.DismissQuotaExceeded()

	message := fmt.Sprintf(
		"'%s' needs %.2f MB but only %.2f MB is available.\n\nFree up space or buy more storage to upload this file.",
		details.FileName, details.FileSizeMB, details.AvailableMB)

	buyBtn := widget.NewButton("Buy More Storage", func() {
		dw.DismissQuotaExceeded()
		dw.showPurchaseDialog()
	})
	buyBtn.Importance = widget.HighImportance

	content := container.NewVBox(
		widget.NewLabel(message),
		buyBtn,
	)

	dw.quotaDialog = dialog.NewCustom("Storage Limit Reached", "Close", content, dw.window)
	dw.quotaDialog.Show()
}

// DismissQuotaExceeded closes the rejection dialog if it is open
func (dw *DashboardWindow) DismissQuotaExceeded() {
	if dw.quotaDialog != nil {
		dw.quotaDialog.Hide()
		dw.quotaDialog = nil
	}
}

// UpdateUploadProgress updates the upload progress bar
func (dw *DashboardWindow) UpdateUploadProgress(percent int) {
	dw.uploadProgress.SetValue(float64(percent) / 100)
}

// SetUploading toggles the upload progress bar and the upload button
func (dw *DashboardWindow) SetUploading(uploading bool) {
	if uploading {
		dw.uploadProgress.SetValue(0)
		dw.uploadProgress.Show()
		dw.uploadBtn.Disable()
	} else {
		dw.uploadProgress.Hide()
		dw.uploadBtn.Enable()
	}
}

// Callback setters

func (dw *DashboardWindow) SetOnUploadFile(callback func(fileName string, sizeBytes int64) error) {
	dw.onUploadFile = callback
}

func (dw *DashboardWindow) SetOnRenameFile(callback func(fileID, newName string) error) {
	dw.onRenameFile = callback
}

func (dw *DashboardWindow) SetOnDeleteFile(callback func(fileID string) error) {
	dw.onDeleteFile = callback
}

func (dw *DashboardWindow) SetOnRefresh(callback func() error) {
	dw.onRefresh = callback
}

func (dw *DashboardWindow) SetOnOpenPurchase(callback func() []models.PlanOffer) {
	dw.onOpenPurchase = callback
}

func (dw *DashboardWindow) SetOnSelectPlan(callback func(offer models.PlanOffer) error) {
	dw.onSelectPlan = callback
}

func (dw *DashboardWindow) SetOnSubmitPayment(callback func(draft models.PaymentDraft) error) {
	dw.onSubmitPayment = callback
}

func (dw *DashboardWindow) SetOnCancelPurchase(callback func()) {
	dw.onCancelPurchase = callback
}

func (dw *DashboardWindow) SetOnSaveSettings(callback func(settings *models.ApplicationSettings) error) {
	dw.onSaveSettings = callback
}

func (dw *DashboardWindow) SetOnLoadSettings(callback func() (*models.ApplicationSettings, error)) {
	dw.onLoadSettings = callback
}

func (dw *DashboardWindow) SetOnLogout(callback func() error) {
	dw.onLogout = callback
}

func (dw *DashboardWindow) setupUI() {
	dw.createComponents()
	dw.window.SetContent(dw.createLayout())
}

func (dw *DashboardWindow) createComponents() {
	dw.statusLabel = widget.NewLabel("Loading...")
	dw.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	dw.quotaBar = widget.NewProgressBar()
	dw.quotaLabel = widget.NewLabel("")

	dw.warningLabel = widget.NewLabel("")
	dw.warningLabel.TextStyle = fyne.TextStyle{Bold: true}
	dw.warningLabel.Hide()

	dw.uploadProgress = widget.NewProgressBar()
	dw.uploadProgress.Hide()

	dw.uploadBtn = widget.NewButton("Upload File", dw.showUploadPicker)
	dw.uploadBtn.Importance = widget.HighImportance
	dw.uploadBtn.Icon = theme.UploadIcon()
	dw.uploadBtn.Disable()

	dw.buyStorageBtn = widget.NewButton("Buy Storage", dw.showPurchaseDialog)
	dw.buyStorageBtn.Icon = theme.ContentAddIcon()
	dw.buyStorageBtn.Disable()

	dw.refreshBtn = widget.NewButton("Refresh", func() {
		if dw.onRefresh != nil {
			dw.onRefresh()
		}
	})
	dw.refreshBtn.Icon = theme.ViewRefreshIcon()
	dw.refreshBtn.Disable()

	dw.settingsBtn = widget.NewButton("Settings", dw.showSettingsDialog)
	dw.settingsBtn.Icon = theme.SettingsIcon()

	dw.logoutBtn = widget.NewButton("Log Out", dw.confirmLogout)
	dw.logoutBtn.Icon = theme.LogoutIcon()

	dw.fileList = widget.NewList(
		func() int { return len(dw.files) },
		func() fyne.CanvasObject { return dw.createFileListItem() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { dw.updateFileListItem(id, obj) },
	)
}

func (dw *DashboardWindow) createLayout() *fyne.Container {
	title := widget.NewLabel(fmt.Sprintf("Welcome, %s", dw.session.Username))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	toolbar := container.NewHBox(
		dw.uploadBtn,
		widget.NewSeparator(),
		dw.buyStorageBtn,
		widget.NewSeparator(),
		dw.refreshBtn,
		widget.NewSeparator(),
		dw.settingsBtn,
		widget.NewSeparator(),
		dw.logoutBtn,
	)

	quotaHeader := widget.NewLabel("Storage")
	quotaHeader.TextStyle = fyne.TextStyle{Bold: true}

	quotaSection := container.NewVBox(
		quotaHeader,
		dw.quotaBar,
		dw.quotaLabel,
		dw.warningLabel,
	)

	filesHeader := widget.NewLabel("Your Files")
	filesHeader.TextStyle = fyne.TextStyle{Bold: true}

	return container.NewBorder(
		// Top
		container.NewVBox(
			title,
			widget.NewSeparator(),
			toolbar,
			widget.NewSeparator(),
			quotaSection,
			widget.NewSeparator(),
			filesHeader,
		),
		// Bottom
		container.NewVBox(dw.uploadProgress, dw.statusLabel),
		// Left, Right
		nil, nil,
		// Center
		dw.fileList,
	)
}

func (dw *DashboardWindow) createFileListItem() fyne.CanvasObject {
	icon := widget.NewIcon(theme.DocumentIcon())

	nameLabel := widget.NewLabel("Filename")
	nameLabel.TextStyle = fyne.TextStyle{Bold: true}

	sizeLabel := widget.NewLabel("Size")
	dateLabel := widget.NewLabel("Uploaded")
	typeLabel := widget.NewLabel("Type")

	renameBtn := widget.NewButton("Rename", nil)
	renameBtn.Icon = theme.DocumentCreateIcon()

	deleteBtn := widget.NewButton("Delete", nil)
	deleteBtn.Icon = theme.DeleteIcon()
	deleteBtn.Importance = widget.DangerImportance

	infoContainer := container.NewVBox(
		nameLabel,
		container.NewHBox(sizeLabel, widget.NewLabel("•"), dateLabel, widget.NewLabel("•"), typeLabel),
	)

	actionContainer := container.NewHBox(
		renameBtn,
		deleteBtn,
	)

	return container.NewBorder(
		nil, nil,
		container.NewHBox(icon, infoContainer),
		actionContainer,
		nil,
	)
}

func (dw *DashboardWindow) updateFileListItem(id widget.ListItemID, obj fyne.CanvasObject) {
	if id >= len(dw.files) {
		return
	}

	file := dw.files[id]
	border := obj.(*fyne.Container)

	leftContainer := border.Objects[0].(*fyne.Container)
	infoContainer := leftContainer.Objects[1].(*fyne.Container)
	actionContainer := border.Objects[1].(*fyne.Container)

	nameLabel := infoContainer.Objects[0].(*widget.Label)
	nameLabel.SetText(file.Name)

	detailContainer := infoContainer.Objects[1].(*fyne.Container)
	sizeLabel := detailContainer.Objects[0].(*widget.Label)
	dateLabel := detailContainer.Objects[2].(*widget.Label)
	typeLabel := detailContainer.Objects[4].(*widget.Label)
	sizeLabel.SetText(file.SizeMB + " MB")
	dateLabel.SetText(models.TimeAgo(file.Timestamp, time.Now()))
	typeLabel.SetText(file.Extension)

	renameBtn := actionContainer.Objects[0].(*widget.Button)
	deleteBtn := actionContainer.Objects[1].(*widget.Button)

	renameBtn.OnTapped = func() { dw.showRenameDialog(file) }
	deleteBtn.OnTapped = func() { dw.confirmDeleteFile(file) }
}

func (dw *DashboardWindow) showUploadPicker() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, dw.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		info, statErr := os.Stat(path)
		if statErr != nil {
			dialog.ShowError(statErr, dw.window)
			return
		}

		if dw.onUploadFile != nil {
			if uploadErr := dw.onUploadFile(filepath.Base(path), info.Size()); uploadErr != nil {
				dialog.ShowError(uploadErr, dw.window)
			}
		}
	}, dw.window)
}

func (dw *DashboardWindow) showRenameDialog(file models.FileRecord) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(file.Name)

	formDialog := dialog.NewForm(
		"Rename File",
		"Rename",
		"Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("New name", nameEntry),
		},
		func(confirmed bool) {
			if !confirmed || dw.onRenameFile == nil {
				return
			}
			if err := dw.onRenameFile(file.ID, nameEntry.Text); err != nil {
				dialog.ShowError(err, dw.window)
			}
		},
		dw.window,
	)
	formDialog.Resize(fyne.NewSize(400, 150))
	formDialog.Show()
}

func (dw *DashboardWindow) confirmDeleteFile(file models.FileRecord) {
	dialog.ShowConfirm(
		"Delete File",
		fmt.Sprintf("Are you sure you want to delete '%s'? This action cannot be undone.", file.Name),
		func(confirmed bool) {
			if confirmed && dw.onDeleteFile != nil {
				if err := dw.onDeleteFile(file.ID); err != nil {
					dialog.ShowError(err, dw.window)
				}
			}
		},
		dw.window,
	)
}

func (dw *DashboardWindow) showPurchaseDialog() {
	if dw.onOpenPurchase == nil {
		return
	}

	purchaseDialog := NewPurchaseDialog(
		dw.window,
		dw.onOpenPurchase(),
		dw.onSelectPlan,
		dw.onSubmitPayment,
		dw.onCancelPurchase,
	)
	purchaseDialog.Show()
}

func (dw *DashboardWindow) showSettingsDialog() {
	settingsDialog := NewSettingsDialog(dw.window, dw.onLoadSettings, dw.onSaveSettings)
	settingsDialog.Show()
}

func (dw *DashboardWindow) confirmLogout() {
	dialog.ShowConfirm(
		"Log Out",
		"Are you sure you want to log out?",
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if dw.onLogout != nil {
				if err := dw.onLogout(); err != nil {
					dialog.ShowError(err, dw.window)
					return
				}
			}
			dw.window.Close()
		},
		dw.window,
	)
}
