package dto

import "time"

// ApproveRequest is the admin approval request body. BusinessID normally
// comes from the URL and AdminUserID from the session; body values win when
// present so operator tooling can act on behalf of another admin.
type ApproveRequest struct {
	BusinessID    string `json:"businessId"`
	AdminUserID   string `json:"adminUserId"`
	ApprovalNotes string `json:"approvalNotes"`
	// SendEmail defaults to true when absent
	SendEmail *bool `json:"sendEmail"`
}

// EmailStatus reports the outcome of the best-effort approval email
type EmailStatus struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// ApproveResponse is returned once the core approval transition has committed.
// It always carries the token and URL so an operator can relay the link by
// hand when the email fails.
type ApproveResponse struct {
	Success       bool        `json:"success"`
	ApprovalToken string      `json:"approvalToken"`
	ApprovalURL   string      `json:"approvalUrl"`
	ApprovedAt    time.Time   `json:"approvedAt"`
	ApprovedBy    string      `json:"approvedBy"`
	EmailStatus   EmailStatus `json:"emailStatus"`
	Warnings      []string    `json:"warnings,omitempty"`
}

// RejectRequest is the admin rejection request body
type RejectRequest struct {
	AdminUserID string `json:"adminUserId"`
	Reason      string `json:"reason"`
}

// RejectResponse is returned after a rejection
type RejectResponse struct {
	Success bool `json:"success"`
}
