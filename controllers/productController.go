package controllers

import (
	"net/http"

	"github.com/Kariqs/goneer-api/models"
	"github.com/gin-gonic/gin"
)

const maxImageSize = 5 << 20

func (c *Controller) GetVendors(ctx *gin.Context) {
	vendors, err := c.Catalog.ListVendors(ctx.Request.Context())
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

func (c *Controller) GetVendor(ctx *gin.Context) {
	vendor, products, err := c.Catalog.Vendor(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"vendor": vendor, "products": products})
}

func (c *Controller) CreateProduct(ctx *gin.Context) {
	_, user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var productData models.ProductData
	if err := ctx.ShouldBindJSON(&productData); err != nil {
		respondWithBindingError(ctx, err)
		return
	}

	product, err := c.Catalog.AddProduct(ctx.Request.Context(), user, productData)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

// UploadProductImage takes a multipart "image" file and makes it the
// product's picture.
func (c *Controller) UploadProductImage(ctx *gin.Context) {
	_, user, ok := currentUser(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No image uploaded", err)
		return
	}
	if fileHeader.Size > maxImageSize {
		respondWithError(ctx, http.StatusBadRequest, "Image is larger than 5MB", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	product, err := c.Catalog.AttachImage(ctx.Request.Context(), user, ctx.Param("id"), fileHeader.Filename, contentType, file)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Product image uploaded successfully",
		"product": product,
	})
}

func (c *Controller) DeleteProduct(ctx *gin.Context) {
	_, user, ok := currentUser(ctx)
	if !ok {
		return
	}
	product, err := c.Catalog.WithdrawProduct(ctx.Request.Context(), user, ctx.Param("id"))
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Product removed from sale",
		"product": product,
	})
}
