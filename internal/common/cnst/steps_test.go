package cnst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupStepsOrder(t *testing.T) {
	assert.Equal(t, []SetupStep{StepQuickSetup, StepServicePricing, StepBankingPayout}, SetupSteps)
	assert.Equal(t, StepBankingPayout, LastSetupStep())
}

func TestStepNumber(t *testing.T) {
	assert.Equal(t, 3, StepNumber(StepQuickSetup))
	assert.Equal(t, 4, StepNumber(StepServicePricing))
	assert.Equal(t, 5, StepNumber(StepBankingPayout))
	assert.Equal(t, -1, StepNumber(SetupStep("unknown")))
}

func TestIsSetupStep(t *testing.T) {
	assert.True(t, IsSetupStep("quick_setup"))
	assert.True(t, IsSetupStep("banking_payout"))
	assert.False(t, IsSetupStep("phase_1"))
	assert.False(t, IsSetupStep(""))
}
