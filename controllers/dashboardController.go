package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (c *Controller) GetVendorDashboard(ctx *gin.Context) {
	_, user, ok := currentUser(ctx)
	if !ok {
		return
	}
	board, err := c.Dashboard.ForVendor(ctx.Request.Context(), user)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, board)
}

func (c *Controller) GetAdminDashboard(ctx *gin.Context) {
	stats, err := c.Dashboard.Admin(ctx.Request.Context())
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"stats": stats})
}
