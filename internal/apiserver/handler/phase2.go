package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roam-platform/roam-server/internal/apiserver/middleware"
	"github.com/roam-platform/roam-server/internal/approval"
	"github.com/roam-platform/roam-server/internal/common/dto"
)

// Phase2Handler serves the Phase-2 entry gate and the setup wizard
type Phase2Handler struct {
	gate *approval.Gate
}

// NewPhase2Handler creates a new Phase-2 handler
func NewPhase2Handler(gate *approval.Gate) *Phase2Handler {
	return &Phase2Handler{gate: gate}
}

// ValidateToken handles Phase-2 entry. This is the only unauthenticated
// wizard endpoint; the approval token in the body is the credential.
func (h *Phase2Handler) ValidateToken(c *gin.Context) {
	var req dto.ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	resp, err := h.gate.Enter(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteStep marks one wizard step complete for the session's business
func (h *Phase2Handler) CompleteStep(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	resp, err := h.gate.CompleteStep(c.Request.Context(), claims, c.Param("step"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Progress returns the wizard progress for the session's business
func (h *Phase2Handler) Progress(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	view, err := h.gate.Progress(c.Request.Context(), claims.BusinessID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
