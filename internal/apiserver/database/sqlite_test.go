package database

import (
	"context"
	"testing"
	"time"

	"github.com/roam-platform/roam-server/internal/common/cnst"
	"github.com/roam-platform/roam-server/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) Database {
	t.Helper()
	db, err := NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Init(context.Background()))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedBusiness(t *testing.T, db Database, status VerificationStatus) *BusinessProfile {
	t.Helper()
	business := &BusinessProfile{
		Name:               "Crestview Plumbing",
		ContactEmail:       "office@crestview.example",
		VerificationStatus: status,
	}
	require.NoError(t, db.CreateBusiness(context.Background(), business))
	return business
}

func TestUserRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := &User{Username: "admin", Email: "admin@roam.example", Password: "hash", Role: RoleAdmin, IsActive: true}
	require.NoError(t, db.CreateUser(ctx, user))
	require.NotEmpty(t, user.ID)

	byID, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "admin", byID.Username)

	byName, err := db.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)

	missing, err := db.GetUserByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestApproveTransitions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("pending business approves and activates", func(t *testing.T) {
		business := seedBusiness(t, db, VerificationPending)
		require.NoError(t, db.ApproveAndActivateBusiness(ctx, business.ID))

		got, err := db.GetBusinessByID(ctx, business.ID)
		require.NoError(t, err)
		assert.Equal(t, VerificationApproved, got.VerificationStatus)
		assert.True(t, got.IsActive)
	})

	t.Run("second approval is a no-op, not an error", func(t *testing.T) {
		business := seedBusiness(t, db, VerificationPending)
		require.NoError(t, db.ApproveAndActivateBusiness(ctx, business.ID))
		require.NoError(t, db.ApproveAndActivateBusiness(ctx, business.ID))

		got, err := db.GetBusinessByID(ctx, business.ID)
		require.NoError(t, err)
		assert.Equal(t, VerificationApproved, got.VerificationStatus)
	})

	t.Run("rejected business cannot be approved", func(t *testing.T) {
		business := seedBusiness(t, db, VerificationRejected)
		err := db.ApproveAndActivateBusiness(ctx, business.ID)
		require.Error(t, err)
		assert.Equal(t, "business has been rejected", err.Error())

		got, err := db.GetBusinessByID(ctx, business.ID)
		require.NoError(t, err)
		assert.Equal(t, VerificationRejected, got.VerificationStatus)
		assert.False(t, got.IsActive)
	})

	t.Run("missing business fails", func(t *testing.T) {
		err := db.ApproveAndActivateBusiness(ctx, "11111111-1111-1111-1111-111111111111")
		require.Error(t, err)
		assert.Equal(t, "business not found", err.Error())
	})
}

func TestRejectBusiness(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	business := seedBusiness(t, db, VerificationPending)
	require.NoError(t, db.RejectBusiness(ctx, business.ID))

	got, err := db.GetBusinessByID(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, VerificationRejected, got.VerificationStatus)

	// Already-rejected business is no longer pending
	err = db.RejectBusiness(ctx, business.ID)
	require.Error(t, err)
	assert.Equal(t, "business is not pending review", err.Error())
}

func TestOwnerProviderLookup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	business := seedBusiness(t, db, VerificationPending)

	owner, err := db.GetOwnerProvider(ctx, business.ID)
	require.NoError(t, err)
	assert.Nil(t, owner)

	require.NoError(t, db.CreateProvider(ctx, &Provider{
		UserID: "owner-user", BusinessID: business.ID,
		ProviderRole: RoleDispatcher, Email: "dispatch@crestview.example",
	}))
	require.NoError(t, db.CreateProvider(ctx, &Provider{
		UserID: "owner-user", BusinessID: business.ID,
		ProviderRole: RoleOwner, Email: "owner@crestview.example", FirstName: "Dana",
	}))

	owner, err = db.GetOwnerProvider(ctx, business.ID)
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, RoleOwner, owner.ProviderRole)
	assert.Equal(t, "owner@crestview.example", owner.Email)

	providers, err := db.ListProvidersByBusiness(ctx, business.ID)
	require.NoError(t, err)
	assert.Len(t, providers, 2)
}

func TestApplicationReview(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	business := seedBusiness(t, db, VerificationPending)

	// Optional: absent application reads as nil, not an error
	app, err := db.GetApplicationByBusinessID(ctx, business.ID)
	require.NoError(t, err)
	assert.Nil(t, app)

	require.NoError(t, db.CreateApplication(ctx, &ProviderApplication{BusinessID: business.ID}))

	app, err = db.GetApplicationByBusinessID(ctx, business.ID)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "pending", app.ApplicationStatus)

	reviewedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.UpdateApplicationReview(ctx, app.ID, "approved", "admin-1", "looks good", reviewedAt))

	app, err = db.GetApplicationByBusinessID(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", app.ApplicationStatus)
	assert.Equal(t, "approved", app.ReviewStatus)
	require.NotNil(t, app.ReviewedBy)
	assert.Equal(t, "admin-1", *app.ReviewedBy)
	assert.Equal(t, "looks good", app.ApprovalNotes)
}

func TestListApplicationsPagination(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		business := seedBusiness(t, db, VerificationPending)
		require.NoError(t, db.CreateApplication(ctx, &ProviderApplication{BusinessID: business.ID}))
	}

	apps, total, err := db.ListApplications(ctx, "pending", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, apps, 2)

	apps, total, err = db.ListApplications(ctx, "approved", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, apps)
}

func TestApprovalRecordLatest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	business := seedBusiness(t, db, VerificationPending)

	record, err := db.GetLatestApprovalRecord(ctx, business.ID)
	require.NoError(t, err)
	assert.Nil(t, record)

	first := &ApprovalRecord{
		BusinessID: business.ID, ApplicationID: "app-1", ApprovedBy: "admin-1",
		ApprovalToken: "tok-old", TokenExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.CreateApprovalRecord(ctx, first))
	second := &ApprovalRecord{
		BusinessID: business.ID, ApplicationID: "app-1", ApprovedBy: "admin-1",
		ApprovalToken: "tok-new", TokenExpiresAt: time.Now().Add(2 * time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.CreateApprovalRecord(ctx, second))

	record, err = db.GetLatestApprovalRecord(ctx, business.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "tok-new", record.ApprovalToken)
}

func TestSetupProgressUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	business := seedBusiness(t, db, VerificationPending)

	progress, err := db.GetSetupProgress(ctx, business.ID)
	require.NoError(t, err)
	assert.Nil(t, progress)

	now := time.Now()
	require.NoError(t, db.UpsertSetupProgress(ctx, &BusinessSetupProgress{
		BusinessID:        business.ID,
		Phase1Completed:   true,
		Phase1CompletedAt: &now,
		CurrentStep:       cnst.Phase2FirstStepNumber,
	}))

	// Overwrite with the same key
	require.NoError(t, db.UpsertSetupProgress(ctx, &BusinessSetupProgress{
		BusinessID:          business.ID,
		Phase1Completed:     true,
		Phase1CompletedAt:   &now,
		CurrentStep:         cnst.StepNumber(cnst.StepServicePricing),
		QuickSetupCompleted: true,
	}))

	progress, err = db.GetSetupProgress(ctx, business.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.True(t, progress.Phase1Completed)
	assert.True(t, progress.QuickSetupCompleted)
	assert.Equal(t, 4, progress.CurrentStep)
	assert.Equal(t, cnst.StepServicePricing, progress.ResumeStep())
}

func TestResumeStepWalk(t *testing.T) {
	var nilProgress *BusinessSetupProgress
	assert.Equal(t, cnst.StepQuickSetup, nilProgress.ResumeStep())

	p := &BusinessSetupProgress{QuickSetupCompleted: true}
	assert.Equal(t, cnst.StepServicePricing, p.ResumeStep())

	p.ServicePricingCompleted = true
	assert.Equal(t, cnst.StepBankingPayout, p.ResumeStep())

	p.BankingPayoutCompleted = true
	assert.Equal(t, cnst.StepBankingPayout, p.ResumeStep())
}
