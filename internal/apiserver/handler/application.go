package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roam-platform/roam-server/internal/apiserver/database"
	"github.com/roam-platform/roam-server/internal/common/dto"
)

// ApplicationHandler serves Phase-1 application intake and the admin review
// queue.
type ApplicationHandler struct {
	db database.Database
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(db database.Database) *ApplicationHandler {
	return &ApplicationHandler{db: db}
}

// Submit handles a Phase-1 provider application. It creates the business in
// pending state, the owner provider and the application record.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	business := &database.BusinessProfile{
		Name:               req.BusinessName,
		ContactEmail:       req.ContactEmail,
		VerificationStatus: database.VerificationPending,
	}
	if err := h.db.CreateBusiness(ctx, business); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create business"})
		return
	}

	owner := &database.Provider{
		UserID:       req.OwnerUserID,
		BusinessID:   business.ID,
		ProviderRole: database.RoleOwner,
		Email:        req.OwnerEmail,
		FirstName:    req.OwnerFirstName,
	}
	if err := h.db.CreateProvider(ctx, owner); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create owner provider"})
		return
	}

	application := &database.ProviderApplication{BusinessID: business.ID}
	if err := h.db.CreateApplication(ctx, application); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create application"})
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitApplicationResponse{
		BusinessID:    business.ID,
		ApplicationID: application.ID,
	})
}

// List handles the admin review queue, newest first
func (h *ApplicationHandler) List(c *gin.Context) {
	status := c.DefaultQuery("status", "pending")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	ctx := c.Request.Context()
	applications, total, err := h.db.ListApplications(ctx, status, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}

	views := make([]dto.ApplicationView, 0, len(applications))
	for _, app := range applications {
		view := dto.ApplicationView{
			ID:                app.ID,
			BusinessID:        app.BusinessID,
			ApplicationStatus: app.ApplicationStatus,
			ReviewStatus:      app.ReviewStatus,
			ReviewedAt:        app.ReviewedAt,
			ApprovalNotes:     app.ApprovalNotes,
			SubmittedAt:       app.CreatedAt,
		}
		if app.ReviewedBy != nil {
			view.ReviewedBy = *app.ReviewedBy
		}
		if business, err := h.db.GetBusinessByID(ctx, app.BusinessID); err == nil && business != nil {
			view.BusinessName = business.Name
			view.VerificationStatus = string(business.VerificationStatus)
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, dto.ApplicationListResponse{
		Applications: views,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	})
}

// GetBusiness handles the admin business detail view
func (h *ApplicationHandler) GetBusiness(c *gin.Context) {
	ctx := c.Request.Context()
	business, err := h.db.GetBusinessByID(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load business"})
		return
	}
	if business == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	providers, err := h.db.ListProvidersByBusiness(ctx, business.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load providers"})
		return
	}

	body := gin.H{
		"business":  business,
		"providers": providers,
	}
	if application, err := h.db.GetApplicationByBusinessID(ctx, business.ID); err == nil && application != nil {
		body["application"] = application
	}
	if progress, err := h.db.GetSetupProgress(ctx, business.ID); err == nil && progress != nil {
		body["setupProgress"] = progress
	}

	c.JSON(http.StatusOK, body)
}
