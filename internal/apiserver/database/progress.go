package database

import (
	"github.com/roam-platform/roam-server/internal/common/cnst"
)

// StepCompleted reports whether the given wizard step has been completed
func (p *BusinessSetupProgress) StepCompleted(step cnst.SetupStep) bool {
	if p == nil {
		return false
	}
	switch step {
	case cnst.StepQuickSetup:
		return p.QuickSetupCompleted
	case cnst.StepServicePricing:
		return p.ServicePricingCompleted
	case cnst.StepBankingPayout:
		return p.BankingPayoutCompleted
	default:
		return false
	}
}

// SetStepCompleted flips the completion flag for the given wizard step
func (p *BusinessSetupProgress) SetStepCompleted(step cnst.SetupStep, completed bool) {
	switch step {
	case cnst.StepQuickSetup:
		p.QuickSetupCompleted = completed
	case cnst.StepServicePricing:
		p.ServicePricingCompleted = completed
	case cnst.StepBankingPayout:
		p.BankingPayoutCompleted = completed
	}
}

// ResumeStep walks the ordered wizard sequence and returns the first step
// whose completion flag is unset; when everything is complete it returns the
// terminal step so re-entry is idempotent. A nil progress resumes at the
// first step.
func (p *BusinessSetupProgress) ResumeStep() cnst.SetupStep {
	for _, step := range cnst.SetupSteps {
		if !p.StepCompleted(step) {
			return step
		}
	}
	return cnst.LastSetupStep()
}
