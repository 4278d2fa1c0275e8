package approval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roam-platform/roam-server/internal/apiserver/database"
	"github.com/roam-platform/roam-server/internal/approval/token"
	"github.com/roam-platform/roam-server/internal/common/cnst"
	"github.com/roam-platform/roam-server/internal/common/dto"
	"github.com/roam-platform/roam-server/internal/common/errorx"
	"github.com/roam-platform/roam-server/internal/mailer"
	"github.com/roam-platform/roam-server/pkg/metrics"
)

// Service orchestrates business approval. The core status transition is the
// only hard step; everything after it is best effort and surfaces as warnings
// on the response instead of failing the request.
type Service struct {
	db      database.Database
	codec   *token.Codec
	sender  mailer.Sender
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates the approval orchestrator
func NewService(db database.Database, codec *token.Codec, sender mailer.Sender, m *metrics.Metrics, logger *zap.Logger) *Service {
	if sender == nil {
		sender = mailer.Noop{}
	}
	return &Service{
		db:      db,
		codec:   codec,
		sender:  sender,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Approve runs the approval workflow for a business. Preconditions and the
// status transition fail the request; the follow-up steps (application review
// bookkeeping, token minting, audit record, setup progress, email) degrade to
// warnings so a committed approval is never reported as a failure.
func (s *Service) Approve(ctx context.Context, req *dto.ApproveRequest) (*dto.ApproveResponse, error) {
	admin, err := s.db.GetUserByID(ctx, req.AdminUserID)
	if err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to load admin user", err)
	}
	if admin == nil || !admin.IsActive || admin.Role != database.RoleAdmin {
		s.metrics.ApprovalDone("permission_denied")
		return nil, errorx.New(errorx.KindPermissionDenied, "Invalid admin user")
	}

	business, err := s.db.GetBusinessByID(ctx, req.BusinessID)
	if err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to load business", err)
	}
	if business == nil {
		s.metrics.ApprovalDone("not_found")
		return nil, errorx.New(errorx.KindNotFound, "Business not found")
	}

	owner, err := s.db.GetOwnerProvider(ctx, business.ID)
	if err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to load owner provider", err)
	}
	if owner == nil {
		s.metrics.ApprovalDone("precondition_failed")
		return nil, errorx.New(errorx.KindPreconditionFailed, "Missing owner provider")
	}

	// Core transition. The datastore message comes back verbatim so a caller
	// can tell "business has been rejected" apart from infrastructure faults.
	if err := s.db.ApproveAndActivateBusiness(ctx, business.ID); err != nil {
		s.metrics.ApprovalDone("transaction_failed")
		return nil, errorx.Wrap(errorx.KindTransactionFailed, "", err)
	}
	s.metrics.ApprovalDone("approved")

	approvedAt := s.now().UTC()
	resp := &dto.ApproveResponse{
		Success:    true,
		ApprovedAt: approvedAt,
		ApprovedBy: admin.ID,
	}
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		resp.Warnings = append(resp.Warnings, msg)
		s.logger.Warn("approval follow-up step degraded",
			zap.String("business_id", business.ID),
			zap.String("warning", msg))
	}

	application, err := s.db.GetApplicationByBusinessID(ctx, business.ID)
	if err != nil {
		warn("failed to load application: %v", err)
		application = nil
	}
	if application != nil {
		if err := s.db.UpdateApplicationReview(ctx, application.ID, "approved", admin.ID, req.ApprovalNotes, approvedAt); err != nil {
			warn("failed to record application review: %v", err)
		}
	}

	tok, entryURL, expiresAt, minted, err := s.mintOrReuseToken(ctx, business, owner, application)
	if err != nil {
		warn("failed to mint approval token: %v", err)
	} else {
		resp.ApprovalToken = tok
		resp.ApprovalURL = entryURL
	}

	if minted && tok != "" && application != nil {
		record := &database.ApprovalRecord{
			BusinessID:     business.ID,
			ApplicationID:  application.ID,
			ApprovedBy:     admin.ID,
			ApprovalToken:  tok,
			TokenExpiresAt: expiresAt,
			ApprovalNotes:  req.ApprovalNotes,
		}
		if err := s.db.CreateApprovalRecord(ctx, record); err != nil {
			warn("failed to write approval record: %v", err)
		}
	}

	// Read-modify-write: a re-approval must only assert phase-1 completion,
	// never zero completed wizard steps or regress the current-step pointer.
	progress, err := s.db.GetSetupProgress(ctx, business.ID)
	if err != nil {
		warn("failed to load setup progress: %v", err)
	} else {
		if progress == nil {
			progress = &database.BusinessSetupProgress{
				BusinessID:  business.ID,
				CurrentStep: cnst.Phase2FirstStepNumber,
			}
		}
		if !progress.Phase1Completed {
			progress.Phase1Completed = true
			progress.Phase1CompletedAt = &approvedAt
		}
		if progress.CurrentStep < cnst.Phase2FirstStepNumber {
			progress.CurrentStep = cnst.Phase2FirstStepNumber
		}
		if err := s.db.UpsertSetupProgress(ctx, progress); err != nil {
			warn("failed to initialize setup progress: %v", err)
		}
	}

	if req.SendEmail == nil || *req.SendEmail {
		if tok == "" {
			resp.EmailStatus = dto.EmailStatus{Sent: false, Error: "no approval token available"}
			s.metrics.EmailDone("skipped")
		} else {
			resp.EmailStatus = s.sendApprovalEmail(ctx, business, owner, entryURL, expiresAt)
		}
	} else {
		s.metrics.EmailDone("skipped")
	}

	return resp, nil
}

// mintOrReuseToken returns the unexpired token from the latest approval record
// when one exists, so re-approving a business does not invalidate a link that
// was already emailed. Otherwise it mints a fresh token. A business without an
// application gets a token carrying the business id in the application slot.
func (s *Service) mintOrReuseToken(ctx context.Context, business *database.BusinessProfile, owner *database.Provider, application *database.ProviderApplication) (tok, entryURL string, expiresAt time.Time, minted bool, err error) {
	record, err := s.db.GetLatestApprovalRecord(ctx, business.ID)
	if err != nil {
		s.logger.Warn("failed to load latest approval record",
			zap.String("business_id", business.ID),
			zap.Error(err))
	} else if record != nil && record.TokenExpiresAt.After(s.now()) {
		return record.ApprovalToken, s.codec.EntryURL(record.ApprovalToken), record.TokenExpiresAt, false, nil
	}

	applicationID := business.ID
	if application != nil {
		applicationID = application.ID
	}

	tok, entryURL, payload, err := s.codec.Issue(business.ID, owner.UserID, applicationID)
	if err != nil {
		return "", "", time.Time{}, false, err
	}
	return tok, entryURL, payload.ExpiresAt, true, nil
}

// sendApprovalEmail resolves the recipient and delivers the approval email. A
// panicking or failing mail path must never take down a committed approval, so
// the outcome is reported on the response instead of as an error.
func (s *Service) sendApprovalEmail(ctx context.Context, business *database.BusinessProfile, owner *database.Provider, entryURL string, expiresAt time.Time) (status dto.EmailStatus) {
	defer func() {
		if r := recover(); r != nil {
			status = dto.EmailStatus{Sent: false, Error: fmt.Sprintf("email sender panicked: %v", r)}
			s.metrics.EmailDone("failed")
			s.logger.Error("email sender panicked",
				zap.String("business_id", business.ID),
				zap.Any("panic", r))
		}
	}()

	recipient := owner.Email
	if recipient == "" {
		recipient = business.ContactEmail
	}
	if recipient == "" {
		if user, err := s.db.GetUserByID(ctx, owner.UserID); err == nil && user != nil {
			recipient = user.Email
		}
	}
	if recipient == "" {
		s.metrics.EmailDone("skipped")
		return dto.EmailStatus{Sent: false, Error: "No email address found"}
	}

	msg := mailer.NewApprovalMessage(recipient, business.Name, entryURL, expiresAt)
	if err := s.sender.Send(ctx, msg); err != nil {
		s.metrics.EmailDone("failed")
		return dto.EmailStatus{Sent: false, Error: err.Error()}
	}
	s.metrics.EmailDone("sent")
	return dto.EmailStatus{Sent: true}
}

// Reject marks a pending business rejected and records the review outcome on
// its application when one exists.
func (s *Service) Reject(ctx context.Context, businessID string, req *dto.RejectRequest) (*dto.RejectResponse, error) {
	admin, err := s.db.GetUserByID(ctx, req.AdminUserID)
	if err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to load admin user", err)
	}
	if admin == nil || !admin.IsActive || admin.Role != database.RoleAdmin {
		return nil, errorx.New(errorx.KindPermissionDenied, "Invalid admin user")
	}

	business, err := s.db.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to load business", err)
	}
	if business == nil {
		return nil, errorx.New(errorx.KindNotFound, "Business not found")
	}

	if err := s.db.RejectBusiness(ctx, businessID); err != nil {
		s.metrics.ApprovalDone("precondition_failed")
		return nil, errorx.Wrap(errorx.KindPreconditionFailed, "", err)
	}
	s.metrics.ApprovalDone("rejected")

	if application, err := s.db.GetApplicationByBusinessID(ctx, businessID); err == nil && application != nil {
		if err := s.db.UpdateApplicationReview(ctx, application.ID, "rejected", admin.ID, req.Reason, s.now().UTC()); err != nil {
			s.logger.Warn("failed to record rejection on application",
				zap.String("business_id", businessID),
				zap.Error(err))
		}
	}

	return &dto.RejectResponse{Success: true}, nil
}
