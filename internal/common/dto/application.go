package dto

import "time"

// SubmitApplicationRequest is the Phase-1 provider application intake body
type SubmitApplicationRequest struct {
	BusinessName   string `json:"businessName" binding:"required"`
	ContactEmail   string `json:"contactEmail"`
	OwnerUserID    string `json:"ownerUserId" binding:"required"`
	OwnerEmail     string `json:"ownerEmail"`
	OwnerFirstName string `json:"ownerFirstName"`
}

// SubmitApplicationResponse identifies the created business and application
type SubmitApplicationResponse struct {
	BusinessID    string `json:"businessId"`
	ApplicationID string `json:"applicationId"`
}

// ApplicationView is one row in the admin review queue
type ApplicationView struct {
	ID                 string     `json:"id"`
	BusinessID         string     `json:"businessId"`
	BusinessName       string     `json:"businessName"`
	ApplicationStatus  string     `json:"applicationStatus"`
	ReviewStatus       string     `json:"reviewStatus"`
	ReviewedAt         *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy         string     `json:"reviewedBy,omitempty"`
	ApprovalNotes      string     `json:"approvalNotes,omitempty"`
	SubmittedAt        time.Time  `json:"submittedAt"`
	VerificationStatus string     `json:"verificationStatus"`
}

// ApplicationListResponse is a paginated review queue page
type ApplicationListResponse struct {
	Applications []ApplicationView `json:"applications"`
	Total        int64             `json:"total"`
	Page         int               `json:"page"`
	PageSize     int               `json:"pageSize"`
}
