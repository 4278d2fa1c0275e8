package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/roam-platform/roam-server/internal/common/errorx"
)

// respondError writes a structured error response. The status code comes from
// the error kind; unknown errors surface as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	apiErr := errorx.AsAPIError(err)
	body := gin.H{"error": apiErr.Message}
	if len(apiErr.Details) > 0 {
		body["details"] = apiErr.Details
	}
	c.JSON(apiErr.HTTPStatus(), body)
}
