package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roam-platform/roam-server/internal/apiserver/middleware"
	"github.com/roam-platform/roam-server/internal/approval"
	"github.com/roam-platform/roam-server/internal/common/dto"
)

// ApprovalHandler serves the admin approve and reject endpoints
type ApprovalHandler struct {
	svc *approval.Service
}

// NewApprovalHandler creates a new approval handler
func NewApprovalHandler(svc *approval.Service) *ApprovalHandler {
	return &ApprovalHandler{svc: svc}
}

// Approve handles business approval. The business id comes from the URL and
// the acting admin defaults to the session user; both may be overridden in
// the body.
func (h *ApprovalHandler) Approve(c *gin.Context) {
	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if id := c.Param("id"); id != "" {
		req.BusinessID = id
	}
	if req.AdminUserID == "" {
		if claims, ok := middleware.GetClaims(c); ok {
			req.AdminUserID = claims.UserID
		}
	}
	if req.BusinessID == "" || req.AdminUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "businessId and adminUserId are required"})
		return
	}

	resp, err := h.svc.Approve(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reject handles business rejection
func (h *ApprovalHandler) Reject(c *gin.Context) {
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AdminUserID == "" {
		if claims, ok := middleware.GetClaims(c); ok {
			req.AdminUserID = claims.UserID
		}
	}
	businessID := c.Param("id")
	if businessID == "" || req.AdminUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "businessId and adminUserId are required"})
		return
	}

	resp, err := h.svc.Reject(c.Request.Context(), businessID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
