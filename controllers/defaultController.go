package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const welcome = `Welcome to Go-Neer API. Order water jars and bottles from shops near you.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create an account and sign in
- POST "/auth/login" - Sign in
- POST "/auth/logout" - Sign out
- GET "/auth/me" - Current session

SHOPS
- GET "/vendors" - List shops
- GET "/vendors/:id" - Shop with its products
- GET "/postal/:code" - City for a postal code

CART
- GET "/cart" - Current cart
- POST "/cart/items" - Add a product
- PUT "/cart/items/:productId" - Set quantity
- DELETE "/cart/items/:productId" - Remove a product
- DELETE "/cart" - Empty the cart

ORDERS
- GET "/checkout" - Review cart or last confirmation
- POST "/checkout" - Place orders
- GET "/orders" - Your orders

VENDOR
- GET "/vendor/dashboard" - Shop, products and orders
- POST "/vendor/products" - Add a product
- POST "/vendor/products/:id/image" - Upload a product image
- DELETE "/vendor/products/:id" - Take a product off sale
- GET "/vendor/orders" - Orders placed with your shop
- POST "/vendor/orders/:orderId/:action" - accept, reject, dispatch or deliver

ADMIN
- GET "/admin/dashboard" - Marketplace stats
- GET "/admin/orders" - All orders`

// GetHome is the landing view: the welcome text and the shop listing.
func (c *Controller) GetHome(ctx *gin.Context) {
	vendors, err := c.Catalog.ListVendors(ctx.Request.Context())
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": welcome,
		"vendors": vendors,
	})
}

func (c *Controller) LookupPostalCode(ctx *gin.Context) {
	if c.Cities == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Postal lookup is not configured")
		return
	}
	city, err := c.Cities.LookupCity(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": ctx.Param("code"), "city": city})
}

func NotFound(ctx *gin.Context) {
	sendErrorResponse(ctx, http.StatusNotFound, "Page not found")
}
