package approval

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/roam-platform/roam-server/internal/apiserver/database"
	"github.com/roam-platform/roam-server/internal/approval/ledger"
	"github.com/roam-platform/roam-server/internal/approval/token"
	"github.com/roam-platform/roam-server/internal/auth/jwt"
	"github.com/roam-platform/roam-server/internal/common/cnst"
	"github.com/roam-platform/roam-server/internal/common/dto"
	"github.com/roam-platform/roam-server/internal/common/errorx"
	"github.com/roam-platform/roam-server/pkg/metrics"
)

// Gate guards Phase-2 entry. A presented approval token must verify
// cryptographically, its business must still be approved and active, and only
// then does the gate mint a short-lived wizard session.
type Gate struct {
	db              database.Database
	codec           *token.Codec
	ledger          ledger.Store
	jwt             *jwt.Service
	sessionDuration time.Duration
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

// NewGate creates a Phase-2 gate. A nil ledger disables single-use
// enforcement, which is the default: links stay usable until expiry.
func NewGate(db database.Database, codec *token.Codec, consumed ledger.Store, jwtSvc *jwt.Service, sessionDuration time.Duration, m *metrics.Metrics, logger *zap.Logger) *Gate {
	return &Gate{
		db:              db,
		codec:           codec,
		ledger:          consumed,
		jwt:             jwtSvc,
		sessionDuration: sessionDuration,
		metrics:         m,
		logger:          logger,
	}
}

// Enter validates an approval token and opens a wizard session. Signature and
// expiry come from the token alone; business standing always comes from the
// datastore, so a revoked or deactivated business is turned away even with an
// authentic unexpired token.
func (g *Gate) Enter(ctx context.Context, tok string) (*dto.ValidateTokenResponse, error) {
	payload, err := g.codec.Verify(tok)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpired):
			g.metrics.EntryDone("expired")
			return nil, errorx.New(errorx.KindExpired, "Approval link has expired")
		case errors.Is(err, token.ErrBadSignature):
			g.metrics.EntryDone("bad_signature")
			return nil, errorx.New(errorx.KindBadSignature, "Invalid approval token")
		default:
			g.metrics.EntryDone("malformed")
			return nil, errorx.New(errorx.KindMalformed, "Malformed approval token")
		}
	}

	business, err := g.db.GetBusinessByID(ctx, payload.BusinessID)
	if err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to load business", err)
	}
	if business == nil {
		g.metrics.EntryDone("not_found")
		return nil, errorx.New(errorx.KindNotFound, "Business not found")
	}
	if business.VerificationStatus != database.VerificationApproved || !business.IsActive {
		g.metrics.EntryDone("precondition_failed")
		return nil, errorx.New(errorx.KindPreconditionFailed, "Business is not approved")
	}

	progress, err := g.db.GetSetupProgress(ctx, business.ID)
	if err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to load setup progress", err)
	}

	session, err := g.jwt.GenerateWizardToken(payload.BusinessID, payload.UserID, payload.ApplicationID, g.sessionDuration)
	if err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to create wizard session", err)
	}

	// Consumed last, once a session is guaranteed: an internal failure above
	// must not burn the link before the invitee ever gets in.
	if g.ledger != nil {
		if err := g.ledger.Consume(ctx, tok, payload.ExpiresAt); err != nil {
			if errors.Is(err, ledger.ErrTokenConsumed) {
				g.metrics.EntryDone("consumed")
				return nil, errorx.New(errorx.KindUnauthorized, "Approval link has already been used")
			}
			return nil, errorx.Wrap(errorx.KindInternal, "failed to consume approval token", err)
		}
	}

	g.metrics.EntryDone("ok")
	g.logger.Info("phase2 entry granted",
		zap.String("business_id", payload.BusinessID),
		zap.String("user_id", payload.UserID))

	return &dto.ValidateTokenResponse{
		Success:         true,
		BusinessID:      payload.BusinessID,
		UserID:          payload.UserID,
		ApplicationID:   payload.ApplicationID,
		BusinessName:    business.Name,
		Progress:        progressView(progress),
		CanAccessPhase2: true,
		ResumeStep:      string(progress.ResumeStep()),
		SessionToken:    session,
	}, nil
}

// CompleteStep marks a wizard step done for the session's business and moves
// the current-step pointer to the next incomplete step.
func (g *Gate) CompleteStep(ctx context.Context, claims *jwt.Claims, step string) (*dto.CompleteStepResponse, error) {
	setupStep := cnst.SetupStep(step)
	if !cnst.IsSetupStep(step) {
		return nil, errorx.Newf(errorx.KindValidation, "unknown setup step: %s", step)
	}

	progress, err := g.db.GetSetupProgress(ctx, claims.BusinessID)
	if err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to load setup progress", err)
	}
	if progress == nil {
		// Approval normally seeds this row; reconstruct it if that step degraded
		now := time.Now().UTC()
		progress = &database.BusinessSetupProgress{
			BusinessID:        claims.BusinessID,
			Phase1Completed:   true,
			Phase1CompletedAt: &now,
		}
	}

	progress.SetStepCompleted(setupStep, true)
	progress.CurrentStep = cnst.StepNumber(progress.ResumeStep())
	if err := g.db.UpsertSetupProgress(ctx, progress); err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to save setup progress", err)
	}

	g.metrics.WizardStepDone(step)

	return &dto.CompleteStepResponse{
		Success:     true,
		CurrentStep: progress.CurrentStep,
		ResumeStep:  string(progress.ResumeStep()),
	}, nil
}

// Progress returns the wizard progress for the session's business
func (g *Gate) Progress(ctx context.Context, businessID string) (*dto.ProgressView, error) {
	progress, err := g.db.GetSetupProgress(ctx, businessID)
	if err != nil {
		return nil, errorx.Wrap(errorx.KindInternal, "failed to load setup progress", err)
	}
	view := progressView(progress)
	return &view, nil
}

func progressView(p *database.BusinessSetupProgress) dto.ProgressView {
	steps := make([]dto.StepProgress, 0, len(cnst.SetupSteps))
	for _, step := range cnst.SetupSteps {
		steps = append(steps, dto.StepProgress{
			Name:      string(step),
			Completed: p.StepCompleted(step),
		})
	}

	view := dto.ProgressView{
		CurrentStep: cnst.Phase2FirstStepNumber,
		Steps:       steps,
	}
	if p != nil {
		view.Phase1Completed = p.Phase1Completed
		if p.CurrentStep > 0 {
			view.CurrentStep = p.CurrentStep
		}
	}
	return view
}
