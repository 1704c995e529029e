package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/storefront"
	"github.com/jafarshop/storefront/internal/variant"
)

// ProductResponse is a product with its selectable options
type ProductResponse struct {
	*domain.Product
	Options variant.Options `json:"options"`
}

// ResolveRequest is a property choice on the product page
type ResolveRequest struct {
	variant.Selection
	Quantity int `json:"quantity"`
}

// ResolveResponse is the variety the choice points at, as a cart line
type ResolveResponse struct {
	Variety domain.Variety  `json:"variety"`
	Item    domain.CartItem `json:"item"`
	InStock bool            `json:"in_stock"`
}

// HandleListCategories handles GET /v1/categories
func HandleListCategories(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.Backend.Categories(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

// HandleListProducts handles GET /v1/products
func HandleListProducts(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}

		products, err := svc.Backend.Products(c.Request.Context(), storefront.ProductQuery{
			Page:     page,
			Category: c.Query("category"),
			Search:   c.Query("search"),
			Sort:     c.Query("sort"),
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// HandleGetProduct handles GET /v1/products/:slug
func HandleGetProduct(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.Backend.Product(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, ProductResponse{
			Product: product,
			Options: variant.ListOptions(product.Varieties),
		})
	}
}

// HandleResolveVariety handles POST /v1/products/:slug/resolve
func HandleResolveVariety(svc *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResolveRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.Quantity < 1 {
			req.Quantity = 1
		}

		product, err := svc.Backend.Product(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		v, err := variant.Resolve(product.Varieties, req.Selection)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, ResolveResponse{
			Variety: v,
			Item:    variant.CartItem(*product, v, req.Quantity),
			InStock: variant.CheckStock(v, req.Quantity) == nil,
		})
	}
}
