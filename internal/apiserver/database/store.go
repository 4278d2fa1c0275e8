package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// store holds the gorm-backed operations shared by every driver. The core
// approve transition is driver-specific and lives on the wrapping types.
type store struct {
	db *gorm.DB
}

func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *store) migrate() error {
	return s.db.AutoMigrate(
		&User{},
		&BusinessProfile{},
		&Provider{},
		&ProviderApplication{},
		&ApprovalRecord{},
		&BusinessSetupProgress{},
	)
}

// CreateUser creates a platform user
func (s *store) CreateUser(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by id
func (s *store) GetUserByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user
func (s *store) UpdateUser(ctx context.Context, user *User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

// CreateBusiness creates a business profile
func (s *store) CreateBusiness(ctx context.Context, business *BusinessProfile) error {
	if business.ID == "" {
		business.ID = uuid.NewString()
	}
	if business.VerificationStatus == "" {
		business.VerificationStatus = VerificationPending
	}
	return s.db.WithContext(ctx).Create(business).Error
}

// GetBusinessByID retrieves a business profile by id
func (s *store) GetBusinessByID(ctx context.Context, id string) (*BusinessProfile, error) {
	var business BusinessProfile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&business).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// approveOptimistic moves a business to approved+active with an optimistic
// status guard: only pending or already-approved rows transition, so a
// concurrent duplicate approval re-asserts the same state and a rejected
// business never silently flips.
func (s *store) approveOptimistic(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&BusinessProfile{}).
		Where("id = ? AND verification_status IN ?", id,
			[]VerificationStatus{VerificationPending, VerificationApproved}).
		Updates(map[string]any{
			"verification_status": VerificationApproved,
			"is_active":           true,
			"updated_at":          time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		business, err := s.GetBusinessByID(ctx, id)
		if err != nil {
			return err
		}
		if business == nil {
			return errors.New("business not found")
		}
		return errors.New("business has been rejected")
	}
	return nil
}

// RejectBusiness marks a pending business rejected
func (s *store) RejectBusiness(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&BusinessProfile{}).
		Where("id = ? AND verification_status = ?", id, VerificationPending).
		Updates(map[string]any{
			"verification_status": VerificationRejected,
			"is_active":           false,
			"updated_at":          time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		business, err := s.GetBusinessByID(ctx, id)
		if err != nil {
			return err
		}
		if business == nil {
			return errors.New("business not found")
		}
		return errors.New("business is not pending review")
	}
	return nil
}

// CreateProvider creates a provider record
func (s *store) CreateProvider(ctx context.Context, provider *Provider) error {
	if provider.ID == "" {
		provider.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(provider).Error
}

// GetOwnerProvider retrieves the owner provider of a business
func (s *store) GetOwnerProvider(ctx context.Context, businessID string) (*Provider, error) {
	var provider Provider
	err := s.db.WithContext(ctx).
		Where("business_id = ? AND provider_role = ?", businessID, RoleOwner).
		First(&provider).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// ListProvidersByBusiness retrieves all providers of a business
func (s *store) ListProvidersByBusiness(ctx context.Context, businessID string) ([]*Provider, error) {
	var providers []*Provider
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at asc").
		Find(&providers).Error
	return providers, err
}

// CreateApplication creates a provider application
func (s *store) CreateApplication(ctx context.Context, app *ProviderApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.ApplicationStatus == "" {
		app.ApplicationStatus = "pending"
	}
	if app.ReviewStatus == "" {
		app.ReviewStatus = "pending"
	}
	return s.db.WithContext(ctx).Create(app).Error
}

// GetApplicationByBusinessID retrieves the application tied to a business
func (s *store) GetApplicationByBusinessID(ctx context.Context, businessID string) (*ProviderApplication, error) {
	var app ProviderApplication
	err := s.db.WithContext(ctx).Where("business_id = ?", businessID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListApplications retrieves applications filtered by status with pagination
func (s *store) ListApplications(ctx context.Context, status string, page, pageSize int) ([]*ProviderApplication, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := s.db.WithContext(ctx).Model(&ProviderApplication{})
	if status != "" {
		query = query.Where("application_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []*ProviderApplication
	err := query.
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&apps).Error
	return apps, total, err
}

// UpdateApplicationReview records the review outcome on an application
func (s *store) UpdateApplicationReview(ctx context.Context, applicationID, status string, reviewedBy string, notes string, reviewedAt time.Time) error {
	return s.db.WithContext(ctx).Model(&ProviderApplication{}).
		Where("id = ?", applicationID).
		Updates(map[string]any{
			"application_status": status,
			"review_status":      status,
			"reviewed_at":        reviewedAt,
			"reviewed_by":        reviewedBy,
			"approval_notes":     notes,
			"updated_at":         time.Now(),
		}).Error
}

// CreateApprovalRecord appends an approval audit row
func (s *store) CreateApprovalRecord(ctx context.Context, record *ApprovalRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(record).Error
}

// GetLatestApprovalRecord retrieves the most recent approval record for a
// business
func (s *store) GetLatestApprovalRecord(ctx context.Context, businessID string) (*ApprovalRecord, error) {
	var record ApprovalRecord
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at desc").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpsertSetupProgress creates or overwrites the progress row for a business
func (s *store) UpsertSetupProgress(ctx context.Context, progress *BusinessSetupProgress) error {
	progress.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "business_id"}},
			UpdateAll: true,
		}).
		Create(progress).Error
}

// GetSetupProgress retrieves the setup progress of a business
func (s *store) GetSetupProgress(ctx context.Context, businessID string) (*BusinessSetupProgress, error) {
	var progress BusinessSetupProgress
	err := s.db.WithContext(ctx).Where("business_id = ?", businessID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
