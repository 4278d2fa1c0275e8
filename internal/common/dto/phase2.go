package dto

// ValidateTokenRequest carries an approval token presented at Phase-2 entry
type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// StepProgress is one wizard step with its completion flag
type StepProgress struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// ProgressView is the wizard progress for one business
type ProgressView struct {
	Phase1Completed bool           `json:"phase_1_completed"`
	CurrentStep     int            `json:"current_step"`
	Steps           []StepProgress `json:"steps"`
}

// ValidateTokenResponse is returned on a successful Phase-2 entry. The field
// names follow the original gate contract (snake_case).
type ValidateTokenResponse struct {
	Success         bool         `json:"success"`
	BusinessID      string       `json:"business_id"`
	UserID          string       `json:"user_id"`
	ApplicationID   string       `json:"application_id"`
	BusinessName    string       `json:"business_name"`
	Progress        ProgressView `json:"progress"`
	CanAccessPhase2 bool         `json:"can_access_phase2"`
	ResumeStep      string       `json:"resume_step"`
	SessionToken    string       `json:"session_token"`
}

// CompleteStepResponse is returned after a wizard step is marked complete
type CompleteStepResponse struct {
	Success     bool   `json:"success"`
	CurrentStep int    `json:"current_step"`
	ResumeStep  string `json:"resume_step"`
}
