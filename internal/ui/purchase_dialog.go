package ui

import (
	"fmt"

	"github.com/Maximus-Ay/GoLocal/internal/models"
	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// PurchaseDialog walks the user through plan selection and payment entry
type PurchaseDialog struct {
	parent fyne.Window
	plans  []models.PlanOffer

	onSelectPlan    func(offer models.PlanOffer) error
	onSubmitPayment func(draft models.PaymentDraft) error
	onCancel        func()

	current dialog.Dialog
}

// NewPurchaseDialog creates the purchase flow dialog
func NewPurchaseDialog(
	parent fyne.Window,
	plans []models.PlanOffer,
	onSelectPlan func(offer models.PlanOffer) error,
	onSubmitPayment func(draft models.PaymentDraft) error,
	onCancel func(),
) *PurchaseDialog {
	return &PurchaseDialog{
		parent:          parent,
		plans:           plans,
		onSelectPlan:    onSelectPlan,
		onSubmitPayment: onSubmitPayment,
		onCancel:        onCancel,
	}
}

// Show opens the plan selection step
func (pd *PurchaseDialog) Show() {
	pd.showPlanSelection()
}

func (pd *PurchaseDialog) showPlanSelection() {
	var planButtons []fyne.CanvasObject
	for _, plan := range pd.plans {
		offer := plan
		label := fmt.Sprintf("%d GB for %s XAF", offer.StorageGB, formatPrice(offer.PriceXAF))

		btn := widget.NewButton(label, func() {
			pd.selectPlan(offer)
		})
		if offer.Highlighted {
			btn.Importance = widget.HighImportance
		}
		planButtons = append(planButtons, btn)
	}

	intro := widget.NewLabel("Choose a storage plan. Your request is reviewed by an administrator before the storage is added.")
	intro.Wrapping = fyne.TextWrapWord

	content := container.NewVBox(append([]fyne.CanvasObject{intro}, planButtons...)...)

	pd.current = dialog.NewCustom("Buy More Storage", "Cancel", content, pd.parent)
	pd.current.SetOnClosed(func() {
		if pd.onCancel != nil {
			pd.onCancel()
		}
	})
	pd.current.Resize(fyne.NewSize(420, 300))
	pd.current.Show()
}

func (pd *PurchaseDialog) selectPlan(offer models.PlanOffer) {
	if pd.onSelectPlan != nil {
		if err := pd.onSelectPlan(offer); err != nil {
			dialog.ShowError(err, pd.parent)
			return
		}
	}

	// Hand off to the payment step without firing the cancel callback
	closing := pd.current
	pd.current = nil
	if closing != nil {
		closing.SetOnClosed(nil)
		closing.Hide()
	}

	pd.showPaymentForm(offer)
}

func (pd *PurchaseDialog) showPaymentForm(offer models.PlanOffer) {
	cardNumberEntry := widget.NewEntry()
	cardNumberEntry.PlaceHolder = "1234 5678 9012 3456"
	cardNumberEntry.OnChanged = func(value string) {
		formatted := models.FormatCardNumber(value)
		if formatted != value {
			cardNumberEntry.SetText(formatted)
		}
	}

	cardNameEntry := widget.NewEntry()
	cardNameEntry.PlaceHolder = "Name on card"

	expiryEntry := widget.NewEntry()
	expiryEntry.PlaceHolder = "MM/YY"
	expiryEntry.OnChanged = func(value string) {
		normalized := models.NormalizeExpiry(value)
		if normalized != value {
			expiryEntry.SetText(normalized)
		}
	}

	cvvEntry := widget.NewPasswordEntry()
	cvvEntry.PlaceHolder = "123"
	cvvEntry.OnChanged = func(value string) {
		normalized := models.NormalizeCVV(value)
		if normalized != value {
			cvvEntry.SetText(normalized)
		}
	}

	addressEntry := widget.NewEntry()
	cityEntry := widget.NewEntry()
	postalEntry := widget.NewEntry()
	countryEntry := widget.NewEntry()
	countryEntry.SetText(models.DefaultCountry)

	errorLabel := widget.NewLabel("")
	errorLabel.Importance = widget.DangerImportance
	errorLabel.Wrapping = fyne.TextWrapWord
	errorLabel.Hide()

	summary := widget.NewLabel(fmt.Sprintf("Plan: %d GB for %s XAF", offer.StorageGB, formatPrice(offer.PriceXAF)))
	summary.TextStyle = fyne.TextStyle{Bold: true}

	form := widget.NewForm(
		widget.NewFormItem("Card number", cardNumberEntry),
		widget.NewFormItem("Cardholder name", cardNameEntry),
		widget.NewFormItem("Expiry", expiryEntry),
		widget.NewFormItem("CVV", cvvEntry),
		widget.NewFormItem("Billing address", addressEntry),
		widget.NewFormItem("City", cityEntry),
		widget.NewFormItem("Postal code", postalEntry),
		widget.NewFormItem("Country", countryEntry),
	)

	submitBtn := widget.NewButton("Submit Request", nil)
	submitBtn.Importance = widget.HighImportance

	content := container.NewVBox(summary, form, errorLabel, submitBtn)

	pd.current = dialog.NewCustom("Payment Details", "Cancel", content, pd.parent)
	pd.current.SetOnClosed(func() {
		if pd.onCancel != nil {
			pd.onCancel()
		}
	})

	submitBtn.OnTapped = func() {
		draft := models.PaymentDraft{
			CardNumber:     cardNumberEntry.Text,
			CardHolderName: cardNameEntry.Text,
			Expiry:         expiryEntry.Text,
			CVV:            cvvEntry.Text,
			Address:        addressEntry.Text,
			City:           cityEntry.Text,
			PostalCode:     postalEntry.Text,
			Country:        countryEntry.Text,
		}

		if pd.onSubmitPayment == nil {
			return
		}

		if err := pd.onSubmitPayment(draft); err != nil {
			// Validation errors stay inside the form so nothing is re-entered
			if appErr, ok := err.(*apperrors.AppError); ok && apperrors.IsValidation(err) {
				errorLabel.SetText(appErr.GetUserMessage())
				errorLabel.Show()
				return
			}
			errorLabel.SetText("Request failed: " + err.Error())
			errorLabel.Show()
			return
		}

		closing := pd.current
		pd.current = nil
		if closing != nil {
			closing.SetOnClosed(nil)
			closing.Hide()
		}
		dialog.ShowInformation(
			"Request Submitted",
			"Your storage request was submitted and is awaiting approval.",
			pd.parent,
		)
	}

	pd.current.Resize(fyne.NewSize(460, 560))
	pd.current.Show()
}

// formatPrice renders an XAF amount with thousands separators
func formatPrice(amount int) string {
	s := fmt.Sprintf("%d", amount)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digit)
	}
	return string(out)
}
