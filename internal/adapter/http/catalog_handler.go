package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/logging"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

// CatalogHandler serves the storefront's read side: the menu, categories,
// and the add-ons available for one product.
type CatalogHandler struct {
	catalog  usecase.CatalogRepo
	settings usecase.SettingsRepo
}

func NewCatalogHandler(catalog usecase.CatalogRepo, settings usecase.SettingsRepo) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, settings: settings}
}

type productResp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url,omitempty"`
}

func toProductResp(p domain.Product) productResp {
	return productResp{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Price:       domain.FormatBRL(p.PriceCents),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
	}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		logging.From(c).Error("list products", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog_unavailable"})
		return
	}
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResp(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.catalog.ListCategories(ctx)
	if err != nil {
		logging.From(c).Error("list categories", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog_unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (h *CatalogHandler) ProductAddOns(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	addOns, err := h.catalog.ProductAddOns(ctx, c.Param("id"))
	if err != nil {
		logging.From(c).Error("product add-ons", "product_id", c.Param("id"), "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog_unavailable"})
		return
	}
	if addOns == nil {
		addOns = []domain.AddOn{}
	}
	c.JSON(http.StatusOK, gin.H{"add_ons": addOns})
}

// Storefront branding: company title, slogan, logo.
func (h *CatalogHandler) Branding(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	values, err := h.settings.GetMany(ctx, []string{"company_title", "company_slogan", "logo_url", "favicon_url"})
	if err != nil {
		logging.From(c).Error("branding settings", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "settings_unavailable"})
		return
	}
	title := values["company_title"]
	if title == "" {
		title = "Delivery App"
	}
	slogan := values["company_slogan"]
	if slogan == "" {
		slogan = "O melhor da cidade"
	}
	c.JSON(http.StatusOK, gin.H{
		"company_title":  title,
		"company_slogan": slogan,
		"logo_url":       values["logo_url"],
		"favicon_url":    values["favicon_url"],
	})
}

func reqCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 3*time.Second)
}

func notFoundOr500(c *gin.Context, err error, logMsg string) {
	if errors.Is(err, usecase.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	logging.From(c).Error(logMsg, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
}
