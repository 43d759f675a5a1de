package manager

import (
	"context"
	"sync"

	"github.com/Maximus-Ay/GoLocal/internal/api"
	"github.com/Maximus-Ay/GoLocal/internal/models"
	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
	"github.com/Maximus-Ay/GoLocal/pkg/logger"
)

// PurchaseStage names each step of the plan purchase flow
type PurchaseStage string

const (
	StageClosed        PurchaseStage = "closed"
	StagePlanSelection PurchaseStage = "plan_selection"
	StagePaymentEntry  PurchaseStage = "payment_entry"
	StageSubmitting    PurchaseStage = "submitting"
)

// PurchaseManager interface drives the plan purchase flow: plan selection,
// payment entry with structural validation, and submission of a request that
// a separate admin approval step fulfils later. The quota increase is never
// applied locally; a later quota refresh observes it.
type PurchaseManager interface {
	// Open starts the flow and returns the plan catalogue
	Open() []models.PlanOffer

	// SelectPlan stores the chosen offer and moves to payment entry
	SelectPlan(offer models.PlanOffer) error

	// SelectedPlan returns the active target, if any
	SelectedPlan() (models.PlanOffer, bool)

	// Draft returns the current payment draft
	Draft() models.PaymentDraft

	// SetDraft replaces the draft with the form's current values
	SetDraft(draft models.PaymentDraft)

	// Submit validates the draft and sends the purchase request. A
	// validation failure or a rejected request keeps the flow in payment
	// entry with the draft intact, so nothing has to be re-entered.
	Submit(ctx context.Context, username string) error

	// Cancel abandons the flow and discards the draft
	Cancel()

	// Stage returns the current position in the flow
	Stage() PurchaseStage
}

// PurchaseManagerImpl implements the PurchaseManager interface
type PurchaseManagerImpl struct {
	service api.Service
	logger  *logger.Logger

	mu    sync.Mutex
	stage PurchaseStage
	plan  models.PlanOffer
	draft models.PaymentDraft
}

// NewPurchaseManager creates a new PurchaseManager instance
func NewPurchaseManager(service api.Service) PurchaseManager {
	return &PurchaseManagerImpl{
		service: service,
		logger:  logger.NewWithComponent("purchase"),
		stage:   StageClosed,
		draft:   models.NewPaymentDraft(),
	}
}

// Open starts the flow
func (pm *PurchaseManagerImpl) Open() []models.PlanOffer {
	pm.mu.Lock()
	pm.stage = StagePlanSelection
	pm.mu.Unlock()
	return models.DefaultPlanCatalogue()
}

// SelectPlan stores the chosen offer
func (pm *PurchaseManagerImpl) SelectPlan(offer models.PlanOffer) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.stage != StagePlanSelection {
		return apperrors.NewAppError(apperrors.ErrInvalidState, "no plan selection in progress", nil)
	}

	pm.plan = offer
	pm.stage = StagePaymentEntry
	pm.logger.InfoWithFields("Plan selected", map[string]interface{}{
		"storage_gb": offer.StorageGB,
		"price_xaf":  offer.PriceXAF,
	})
	return nil
}

// SelectedPlan returns the active target
func (pm *PurchaseManagerImpl) SelectedPlan() (models.PlanOffer, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.stage == StageClosed || pm.stage == StagePlanSelection {
		return models.PlanOffer{}, false
	}
	return pm.plan, true
}

// Draft returns the current payment draft
func (pm *PurchaseManagerImpl) Draft() models.PaymentDraft {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.draft
}

// SetDraft replaces the draft
func (pm *PurchaseManagerImpl) SetDraft(draft models.PaymentDraft) {
	pm.mu.Lock()
	pm.draft = draft
	pm.mu.Unlock()
}

// Submit validates and sends the purchase request
func (pm *PurchaseManagerImpl) Submit(ctx context.Context, username string) error {
	pm.mu.Lock()
	if pm.stage != StagePaymentEntry {
		pm.mu.Unlock()
		return apperrors.NewAppError(apperrors.ErrInvalidState, "no payment entry in progress", nil)
	}

	draft := pm.draft
	plan := pm.plan

	// Structural validation stays entirely client-side; an invalid draft
	// never produces a request
	if err := draft.Validate(); err != nil {
		pm.mu.Unlock()
		return err
	}

	pm.stage = StageSubmitting
	pm.mu.Unlock()

	err := pm.service.RequestStorage(ctx, username, plan, draft)

	pm.mu.Lock()
	defer pm.mu.Unlock()

	if err != nil {
		// Back to payment entry with the draft preserved
		pm.stage = StagePaymentEntry
		pm.logger.ErrorWithError("Purchase request failed", err)
		return apperrors.ClassifyError(err)
	}

	pm.logger.InfoWithFields("Purchase request submitted for approval", map[string]interface{}{
		"storage_gb": plan.StorageGB,
		"price_xaf":  plan.PriceXAF,
	})
	pm.stage = StageClosed
	pm.plan = models.PlanOffer{}
	pm.draft.Reset()
	return nil
}

// Cancel abandons the flow
func (pm *PurchaseManagerImpl) Cancel() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.stage = StageClosed
	pm.plan = models.PlanOffer{}
	pm.draft.Reset()
}

// Stage returns the current stage
func (pm *PurchaseManagerImpl) Stage() PurchaseStage {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.stage
}
