package controllers

import (
	"net/http"

	"github.com/Kariqs/goneer-api/cart"
	"github.com/gin-gonic/gin"
)

type cartItemData struct {
	ProductID string `json:"productId" binding:"required"`
}

type cartQuantityData struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func cartPayload(basket *cart.Cart) gin.H {
	return gin.H{
		"items": basket.Lines(),
		"total": basket.Total(),
		"count": basket.Count(),
	}
}

func (c *Controller) GetCart(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, cartPayload(sess.Cart()))
}

func (c *Controller) AddCartItem(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	var item cartItemData
	if err := ctx.ShouldBindJSON(&item); err != nil {
		respondWithBindingError(ctx, err)
		return
	}

	product, err := c.Catalog.Product(ctx.Request.Context(), item.ProductID)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	sess.Cart().AddItem(product)
	sess.ClearConfirmation()
	ctx.JSON(http.StatusOK, cartPayload(sess.Cart()))
}

// UpdateCartItem sets a line's quantity. Quantities below one remove the line.
func (c *Controller) UpdateCartItem(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	var data cartQuantityData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithBindingError(ctx, err)
		return
	}

	sess.Cart().SetQuantity(ctx.Param("productId"), *data.Quantity)
	ctx.JSON(http.StatusOK, cartPayload(sess.Cart()))
}

func (c *Controller) RemoveCartItem(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	sess.Cart().RemoveItem(ctx.Param("productId"))
	ctx.JSON(http.StatusOK, cartPayload(sess.Cart()))
}

func (c *Controller) ClearCart(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	sess.Cart().Clear()
	ctx.JSON(http.StatusOK, cartPayload(sess.Cart()))
}
