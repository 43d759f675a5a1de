package models

import (
	"strings"

	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
)

// PlanOffer is a static catalogue entry for purchasable storage
type PlanOffer struct {
	StorageGB   int  `json:"storage_gb"`
	PriceXAF    int  `json:"price_xaf"`
	Highlighted bool `json:"highlighted"`
}

// DefaultPlanCatalogue returns the fixed upgrade plans offered to users
func DefaultPlanCatalogue() []PlanOffer {
	return []PlanOffer{
		{StorageGB: 2, PriceXAF: 20000},
		{StorageGB: 3, PriceXAF: 30000, Highlighted: true},
		{StorageGB: 5, PriceXAF: 50000},
	}
}

// DefaultCountry is pre-selected in the billing form
const DefaultCountry = "Cameroon"

// PaymentDraft is the scratch payment form for one purchase attempt. Card
// data is opaque to this client; formatting is entirely cosmetic and no real
// charge ever happens, the request only queues for admin approval.
type PaymentDraft struct {
	CardNumber     string `json:"cardNumber"`
	CardHolderName string `json:"cardName"`
	Expiry         string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	Address        string `json:"billingAddress"`
	City           string `json:"city"`
	PostalCode     string `json:"postalCode"`
	Country        string `json:"country"`
}

// NewPaymentDraft returns an empty draft with the default country selected
func NewPaymentDraft() PaymentDraft {
	return PaymentDraft{Country: DefaultCountry}
}

// Reset clears all entered values back to the initial draft
func (d *PaymentDraft) Reset() {
	*d = NewPaymentDraft()
}

// NormalizedCardNumber strips every non-digit character
func (d PaymentDraft) NormalizedCardNumber() string {
	return digitsOnly(d.CardNumber)
}

// Validate performs the structural checks required before submission and
// reports the first field that fails. Nothing here contacts the backend.
func (d PaymentDraft) Validate() error {
	if len(d.NormalizedCardNumber()) != 16 {
		return apperrors.NewValidationError("card_number", "Please enter a valid 16-digit card number")
	}
	if strings.TrimSpace(d.CardHolderName) == "" {
		return apperrors.NewValidationError("card_holder_name", "Please enter the cardholder name")
	}
	if len(NormalizeExpiry(d.Expiry)) != 5 {
		return apperrors.NewValidationError("expiry", "Please enter expiry date (MM/YY)")
	}
	if len(d.CVV) != 3 || digitsOnly(d.CVV) != d.CVV {
		return apperrors.NewValidationError("cvv", "Please enter a valid 3-digit CVV")
	}
	if strings.TrimSpace(d.Address) == "" {
		return apperrors.NewValidationError("address", "Please enter billing address")
	}
	return nil
}

// FormatCardNumber renders digits in groups of four for display.
// Non-digits are stripped first; input beyond 16 digits is truncated.
func FormatCardNumber(value string) string {
	digits := digitsOnly(value)
	if len(digits) > 16 {
		digits = digits[:16]
	}

	var groups []string
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		groups = append(groups, digits[i:end])
	}
	return strings.Join(groups, " ")
}

// NormalizeExpiry reduces input to digits and auto-inserts the slash after
// the month, yielding at most the 5-character MM/YY form
func NormalizeExpiry(value string) string {
	digits := digitsOnly(value)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// NormalizeCVV keeps at most three digits of input
func NormalizeCVV(value string) string {
	digits := digitsOnly(value)
	if len(digits) > 3 {
		digits = digits[:3]
	}
	return digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
