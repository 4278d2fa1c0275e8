package database

import "time"

// VerificationStatus represents the review state of a business profile
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// ProviderRole represents the role of a person on a business
type ProviderRole string

const (
	RoleOwner      ProviderRole = "owner"
	RoleDispatcher ProviderRole = "dispatcher"
	RoleProvider   ProviderRole = "provider"
)

// UserRole represents the role of a platform user
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleNormal UserRole = "normal"
)

// User represents a platform user: admins who review applications, and the
// identities providers sign in with.
type User struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(50);uniqueIndex"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	Password  string    `json:"-" gorm:"not null"` // Password is not exposed in JSON
	Role      UserRole  `json:"role" gorm:"not null;default:'normal'"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BusinessProfile represents one tenant on the marketplace. Created at
// Phase-1 signup, flipped to approved+active by the approval flow, never
// hard-deleted here.
type BusinessProfile struct {
	ID                 string             `json:"id" gorm:"type:uuid;primaryKey"`
	Name               string             `json:"name" gorm:"type:varchar(255);not null"`
	ContactEmail       string             `json:"contactEmail" gorm:"type:varchar(255)"`
	VerificationStatus VerificationStatus `json:"verificationStatus" gorm:"type:varchar(20);not null;default:'pending';index"`
	IsActive           bool               `json:"isActive" gorm:"not null;default:false"`
	SetupStep          int                `json:"setupStep" gorm:"not null;default:1"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// Provider represents a person with a role on a business. Exactly one owner
// is expected per business; approval tokens are minted against the owner's
// user id.
type Provider struct {
	ID           string       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       string       `json:"userId" gorm:"type:uuid;not null;index"`
	BusinessID   string       `json:"businessId" gorm:"type:uuid;not null;index"`
	ProviderRole ProviderRole `json:"providerRole" gorm:"type:varchar(20);not null"`
	Email        string       `json:"email" gorm:"type:varchar(255)"`
	FirstName    string       `json:"firstName" gorm:"type:varchar(100)"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// ProviderApplication is the historical record of a Phase-1 submission, tied
// at most 1:1 to a business. Businesses created before this record type
// existed have none, so every reader treats it as optional.
type ProviderApplication struct {
	ID                string     `json:"id" gorm:"type:uuid;primaryKey"`
	BusinessID        string     `json:"businessId" gorm:"type:uuid;not null;uniqueIndex"`
	ApplicationStatus string     `json:"applicationStatus" gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewStatus      string     `json:"reviewStatus" gorm:"type:varchar(20);not null;default:'pending'"`
	ReviewedAt        *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy        *string    `json:"reviewedBy,omitempty" gorm:"type:uuid"`
	ApprovalNotes     string     `json:"approvalNotes" gorm:"type:text"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ApprovalRecord is the append-only audit row written when a business with an
// application is approved. It stores the minted token for operator
// visibility; authorization never reads it back.
type ApprovalRecord struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	BusinessID     string    `json:"businessId" gorm:"type:uuid;not null;index"`
	ApplicationID  string    `json:"applicationId" gorm:"type:uuid;not null"`
	ApprovedBy     string    `json:"approvedBy" gorm:"type:uuid;not null"`
	ApprovalToken  string    `json:"approvalToken" gorm:"type:text;not null"`
	TokenExpiresAt time.Time `json:"tokenExpiresAt" gorm:"not null"`
	ApprovalNotes  string    `json:"approvalNotes" gorm:"type:text"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BusinessSetupProgress tracks the Phase-2 wizard for one business
type BusinessSetupProgress struct {
	BusinessID              string     `json:"businessId" gorm:"type:uuid;primaryKey"`
	Phase1Completed         bool       `json:"phase1Completed" gorm:"not null;default:false"`
	Phase1CompletedAt       *time.Time `json:"phase1CompletedAt,omitempty"`
	CurrentStep             int        `json:"currentStep" gorm:"not null;default:1"`
	QuickSetupCompleted     bool       `json:"quickSetupCompleted" gorm:"not null;default:false"`
	ServicePricingCompleted bool       `json:"servicePricingCompleted" gorm:"not null;default:false"`
	BankingPayoutCompleted  bool       `json:"bankingPayoutCompleted" gorm:"not null;default:false"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// TableName keeps the progress table singular
func (BusinessSetupProgress) TableName() string {
	return "business_setup_progress"
}
