package database

import (
	"context"
	"time"
)

// Database defines the datastore operations used by the approval flow.
// Single-row readers return (nil, nil) when the row does not exist; callers
// decide whether absence is an error.
type Database interface {
	// Init migrates the schema and installs database-side routines
	Init(ctx context.Context) error

	// Close closes the database connection
	Close() error

	// CreateUser creates a platform user
	CreateUser(ctx context.Context, user *User) error

	// GetUserByID retrieves a user by id
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByUsername retrieves a user by username
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// UpdateUser updates an existing user
	UpdateUser(ctx context.Context, user *User) error

	// CreateBusiness creates a business profile
	CreateBusiness(ctx context.Context, business *BusinessProfile) error

	// GetBusinessByID retrieves a business profile by id
	GetBusinessByID(ctx context.Context, id string) (*BusinessProfile, error)

	// ApproveAndActivateBusiness is the core transition: it flips
	// verification_status to approved and is_active to true in one atomic
	// datastore operation. It is safe to invoke twice for the same business;
	// a rejected or missing business fails with the datastore's own message.
	ApproveAndActivateBusiness(ctx context.Context, id string) error

	// RejectBusiness marks a pending business rejected
	RejectBusiness(ctx context.Context, id string) error

	// CreateProvider creates a provider record
	CreateProvider(ctx context.Context, provider *Provider) error

	// GetOwnerProvider retrieves the owner provider of a business
	GetOwnerProvider(ctx context.Context, businessID string) (*Provider, error)

	// ListProvidersByBusiness retrieves all providers of a business
	ListProvidersByBusiness(ctx context.Context, businessID string) ([]*Provider, error)

	// CreateApplication creates a provider application
	CreateApplication(ctx context.Context, app *ProviderApplication) error

	// GetApplicationByBusinessID retrieves the application tied to a business
	GetApplicationByBusinessID(ctx context.Context, businessID string) (*ProviderApplication, error)

	// ListApplications retrieves applications filtered by status with
	// pagination, newest first, together with the total count
	ListApplications(ctx context.Context, status string, page, pageSize int) ([]*ProviderApplication, int64, error)

	// UpdateApplicationReview records the review outcome on an application
	UpdateApplicationReview(ctx context.Context, applicationID, status string, reviewedBy string, notes string, reviewedAt time.Time) error

	// CreateApprovalRecord appends an approval audit row
	CreateApprovalRecord(ctx context.Context, record *ApprovalRecord) error

	// GetLatestApprovalRecord retrieves the most recent approval record for a
	// business
	GetLatestApprovalRecord(ctx context.Context, businessID string) (*ApprovalRecord, error)

	// UpsertSetupProgress creates or overwrites the setup progress row keyed
	// by business id
	UpsertSetupProgress(ctx context.Context, progress *BusinessSetupProgress) error

	// GetSetupProgress retrieves the setup progress of a business
	GetSetupProgress(ctx context.Context, businessID string) (*BusinessSetupProgress, error)
}
