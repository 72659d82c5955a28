package http

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/logging"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

const maxUploadBytes = 5 << 20 // 5MB

// AdminCatalogHandler is the back-office side of the menu: product,
// category and add-on CRUD plus image uploads.
type AdminCatalogHandler struct {
	catalog usecase.CatalogRepo
	blobs   usecase.BlobStore
}

func NewAdminCatalogHandler(catalog usecase.CatalogRepo, blobs usecase.BlobStore) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalog: catalog, blobs: blobs}
}

type productReq struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"price_cents" binding:"required,gt=0"`
	Category    string   `json:"category" binding:"required"`
	ImageURL    string   `json:"image_url"`
	AddOnIDs    []string `json:"add_on_ids"`
}

func (h *AdminCatalogHandler) CreateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := h.catalog.CreateProduct(ctx, p); err != nil {
		logging.From(c).Error("create product", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	if len(req.AddOnIDs) > 0 {
		if err := h.catalog.SetProductAddOns(ctx, p.ID, req.AddOnIDs); err != nil {
			logging.From(c).Error("set product add-ons", "product_id", p.ID, "err", err)
		}
	}
	c.JSON(http.StatusCreated, toProductResp(*p))
}

func (h *AdminCatalogHandler) UpdateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p := &domain.Product{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := h.catalog.UpdateProduct(ctx, p); err != nil {
		notFoundOr500(c, err, "update product")
		return
	}
	if err := h.catalog.SetProductAddOns(ctx, p.ID, req.AddOnIDs); err != nil {
		logging.From(c).Error("set product add-ons", "product_id", p.ID, "err", err)
	}
	c.JSON(http.StatusOK, toProductResp(*p))
}

func (h *AdminCatalogHandler) DeleteProduct(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.catalog.DeleteProduct(ctx, c.Param("id")); err != nil {
		notFoundOr500(c, err, "delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage stores a product image and returns its public URL; the
// client sends it back in image_url on the next save.
func (h *AdminCatalogHandler) UploadImage(c *gin.Context) {
	url, err := h.saveUpload(c, "products")
	if err != nil {
		logging.From(c).Error("image upload", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload_failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h *AdminCatalogHandler) saveUpload(c *gin.Context, dir string) (string, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("form file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxUploadBytes {
		return "", fmt.Errorf("file exceeds %d bytes", maxUploadBytes)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".ico", ".svg":
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}

	path := dir + "/" + uuid.NewString() + ext
	if err := h.blobs.Upload(c.Request.Context(), path, data, true); err != nil {
		return "", err
	}
	return h.blobs.PublicURL(path), nil
}

type categoryReq struct {
	Name string `json:"name" binding:"required"`
}

func (h *AdminCatalogHandler) CreateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cat := &domain.Category{ID: uuid.NewString(), Name: req.Name}
	if err := h.catalog.CreateCategory(ctx, cat); err != nil {
		logging.From(c).Error("create category", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *AdminCatalogHandler) DeleteCategory(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.catalog.DeleteCategory(ctx, c.Param("id")); err != nil {
		notFoundOr500(c, err, "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

type addOnReq struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"min=0"`
}

func (h *AdminCatalogHandler) ListAddOns(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	addOns, err := h.catalog.ListAddOns(ctx)
	if err != nil {
		logging.From(c).Error("list add-ons", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	if addOns == nil {
		addOns = []domain.AddOn{}
	}
	c.JSON(http.StatusOK, gin.H{"add_ons": addOns})
}

func (h *AdminCatalogHandler) CreateAddOn(c *gin.Context) {
	var req addOnReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	a := &domain.AddOn{ID: uuid.NewString(), Name: req.Name, PriceCents: req.PriceCents}
	if err := h.catalog.CreateAddOn(ctx, a); err != nil {
		logging.From(c).Error("create add-on", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AdminCatalogHandler) DeleteAddOn(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.catalog.DeleteAddOn(ctx, c.Param("id")); err != nil {
		notFoundOr500(c, err, "delete add-on")
		return
	}
	c.Status(http.StatusNoContent)
}
