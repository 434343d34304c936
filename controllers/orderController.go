package controllers

import (
	"net/http"

	"github.com/Kariqs/goneer-api/services"
	"github.com/gin-gonic/gin"
)

type checkoutData struct {
	DeliveryAddress string `json:"deliveryAddress" binding:"required"`
}

// GetCheckout shows the cart awaiting checkout, or the confirmation of the
// orders just placed.
func (c *Controller) GetCheckout(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	review, err := c.Checkout.Review(sess)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, review)
}

func (c *Controller) PlaceOrder(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	var data checkoutData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithBindingError(ctx, err)
		return
	}

	orders, err := c.Checkout.PlaceOrder(ctx.Request.Context(), sess, data.DeliveryAddress)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"orders":  orders,
	})
}

// GetOrders lists the signed-in user's own orders, newest first.
func (c *Controller) GetOrders(ctx *gin.Context) {
	_, user, ok := currentUser(ctx)
	if !ok {
		return
	}

	orders, err := c.Orders.ForUser(ctx.Request.Context(), user.ID)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	page, metadata := paginate(ctx, orders)
	ctx.JSON(http.StatusOK, gin.H{"orders": page, "metadata": metadata})
}

// GetVendorOrders lists the orders placed with the vendor's shop.
func (c *Controller) GetVendorOrders(ctx *gin.Context) {
	_, user, ok := currentUser(ctx)
	if !ok {
		return
	}

	orders, err := c.Orders.ForVendor(ctx.Request.Context(), user)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	page, metadata := paginate(ctx, orders)
	ctx.JSON(http.StatusOK, gin.H{"orders": page, "metadata": metadata})
}

// UpdateOrderStatus applies a vendor action such as accept or dispatch.
func (c *Controller) UpdateOrderStatus(ctx *gin.Context) {
	_, user, ok := currentUser(ctx)
	if !ok {
		return
	}

	action, err := services.ParseAction(ctx.Param("action"))
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	order, err := c.Orders.Transition(ctx.Request.Context(), user, ctx.Param("orderId"), action)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}

// GetAllOrders is the admin listing of every order.
func (c *Controller) GetAllOrders(ctx *gin.Context) {
	orders, err := c.Orders.All(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	page, metadata := paginate(ctx, orders)
	ctx.JSON(http.StatusOK, gin.H{"orders": page, "metadata": metadata})
}
