package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

// CatalogHandler serves the public product surface. Listings only ever
// show published products; drafts are an admin concern.
type CatalogHandler struct {
	catalog  *usecase.Catalog
	settings *usecase.Settings
}

func NewCatalogHandler(catalog *usecase.Catalog, settings *usecase.Settings) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, settings: settings}
}

// GET /v1/products
// Query params: category, price_min, price_max, featured, sort, limit
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	f := usecase.ProductFilter{
		CategoryID:    c.Query("category"),
		SortBy:        c.Query("sort"),
		FeaturedOnly:  c.Query("featured") == "true",
		PublishedOnly: true,
	}
	if v, err := strconv.ParseInt(c.Query("price_min"), 10, 64); err == nil {
		f.PriceMin = v
	}
	if v, err := strconv.ParseInt(c.Query("price_max"), 10, 64); err == nil {
		f.PriceMax = v
	}
	if v, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && v > 0 {
		f.Limit = v
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GET /v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.catalog.GetProduct(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	if !p.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	cats, err := h.catalog.ListCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// GET /v1/store
// Public storefront metadata: store name, currency, delivery menu,
// accepted payment methods.
func (h *CatalogHandler) GetStoreInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Current())
}
