package ui

import (
	"fmt"

	"github.com/Maximus-Ay/GoLocal/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	parent   fyne.Window
	dialog   *dialog.CustomDialog
	settings *models.ApplicationSettings

	// Form widgets
	apiBaseURLEntry  *widget.Entry
	uiThemeSelect    *widget.Select
	countryEntry     *widget.Entry
	autoRefreshCheck *widget.Check

	// Callbacks
	onLoadSettings func() (*models.ApplicationSettings, error)
	onSaveSettings func(settings *models.ApplicationSettings) error
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(
	parent fyne.Window,
	onLoad func() (*models.ApplicationSettings, error),
	onSave func(settings *models.ApplicationSettings) error,
) *SettingsDialog {
	sd := &SettingsDialog{
		parent:         parent,
		onLoadSettings: onLoad,
		onSaveSettings: onSave,
	}

	sd.createDialog()
	return sd
}

// Show displays the settings dialog with current values loaded
func (sd *SettingsDialog) Show() {
	if sd.onLoadSettings != nil {
		if settings, err := sd.onLoadSettings(); err == nil {
			sd.settings = settings
		} else {
			sd.settings = models.DefaultApplicationSettings()
			dialog.ShowError(fmt.Errorf("failed to load settings, using defaults: %v", err), sd.parent)
		}
	} else {
		sd.settings = models.DefaultApplicationSettings()
	}

	sd.populateForm()
	sd.dialog.Show()
}

// Hide closes the settings dialog
func (sd *SettingsDialog) Hide() {
	sd.dialog.Hide()
}

func (sd *SettingsDialog) createDialog() {
	sd.createFormWidgets()

	form := widget.NewForm(
		widget.NewFormItem("Server URL", sd.apiBaseURLEntry),
		widget.NewFormItem("Theme", sd.uiThemeSelect),
		widget.NewFormItem("Billing country", sd.countryEntry),
		widget.NewFormItem("", sd.autoRefreshCheck),
	)

	saveBtn := widget.NewButton("Save", sd.saveSettings)
	saveBtn.Importance = widget.HighImportance

	resetBtn := widget.NewButton("Reset to Defaults", func() {
		sd.settings = models.DefaultApplicationSettings()
		sd.populateForm()
	})

	content := container.NewVBox(
		form,
		widget.NewSeparator(),
		container.NewHBox(saveBtn, resetBtn),
	)

	sd.dialog = dialog.NewCustom("Application Settings", "Close", content, sd.parent)
	sd.dialog.Resize(fyne.NewSize(480, 360))
}

func (sd *SettingsDialog) createFormWidgets() {
	sd.apiBaseURLEntry = widget.NewEntry()
	sd.apiBaseURLEntry.SetPlaceHolder("http://localhost:5000")

	sd.uiThemeSelect = widget.NewSelect([]string{"light", "dark", "auto"}, nil)

	sd.countryEntry = widget.NewEntry()
	sd.countryEntry.SetPlaceHolder(models.DefaultCountry)

	sd.autoRefreshCheck = widget.NewCheck("Automatically refresh the dashboard", nil)
}

func (sd *SettingsDialog) populateForm() {
	sd.apiBaseURLEntry.SetText(sd.settings.APIBaseURL)
	sd.uiThemeSelect.SetSelected(sd.settings.UITheme)
	sd.countryEntry.SetText(sd.settings.DefaultCountry)
	sd.autoRefreshCheck.SetChecked(sd.settings.AutoRefresh)
}

func (sd *SettingsDialog) saveSettings() {
	updated := &models.ApplicationSettings{
		APIBaseURL:     sd.apiBaseURLEntry.Text,
		UITheme:        sd.uiThemeSelect.Selected,
		DefaultCountry: sd.countryEntry.Text,
		AutoRefresh:    sd.autoRefreshCheck.Checked,
	}

	if err := updated.Validate(); err != nil {
		dialog.ShowError(err, sd.parent)
		return
	}

	if sd.onSaveSettings != nil {
		if err := sd.onSaveSettings(updated); err != nil {
			dialog.ShowError(err, sd.parent)
			return
		}
	}

	sd.settings = updated
	dialog.ShowInformation("Settings", "Settings saved. Server URL changes take effect after restart.", sd.parent)
	sd.dialog.Hide()
}
