package cnst

// SetupStep identifies one Phase-2 business-setup wizard step
type SetupStep string

const (
	// StepQuickSetup collects business hours and service area
	StepQuickSetup SetupStep = "quick_setup"
	// StepServicePricing collects the service catalog and prices
	StepServicePricing SetupStep = "service_pricing"
	// StepBankingPayout connects the payout account (terminal step)
	StepBankingPayout SetupStep = "banking_payout"
)

// SetupSteps is the ordered Phase-2 wizard sequence. Both the progress writer
// and the resume-step reader index into this slice; nothing else may hardcode
// the order.
var SetupSteps = []SetupStep{
	StepQuickSetup,
	StepServicePricing,
	StepBankingPayout,
}

// Phase2FirstStepNumber is the current_step value of the first Phase-2 step.
// Steps 1 and 2 belong to the Phase-1 application intake.
const Phase2FirstStepNumber = 3

// StepNumber returns the current_step value for a wizard step, or -1 when the
// step is unknown.
func StepNumber(step SetupStep) int {
	for i, s := range SetupSteps {
		if s == step {
			return Phase2FirstStepNumber + i
		}
	}
	return -1
}

// IsSetupStep reports whether the given name is a known wizard step.
func IsSetupStep(name string) bool {
	return StepNumber(SetupStep(name)) != -1
}

// LastSetupStep returns the terminal wizard step.
func LastSetupStep() SetupStep {
	return SetupSteps[len(SetupSteps)-1]
}
