package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/megatonytrader/express-entregas-zap/internal/logging"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

// Keys the admin console is allowed to touch. Anything else in the
// settings table is owned by the backend.
var editableSettings = map[string]bool{
	"company_title":          true,
	"company_slogan":         true,
	"whatsapp_number":        true,
	"whatsapp_notifications": true,
	"logo_url":               true,
	"favicon_url":            true,
}

type AdminSettingsHandler struct {
	settings usecase.SettingsRepo
	uploads  *AdminCatalogHandler
}

func NewAdminSettingsHandler(settings usecase.SettingsRepo, uploads *AdminCatalogHandler) *AdminSettingsHandler {
	return &AdminSettingsHandler{settings: settings, uploads: uploads}
}

func (h *AdminSettingsHandler) Get(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	keys := make([]string, 0, len(editableSettings))
	for k := range editableSettings {
		keys = append(keys, k)
	}
	values, err := h.settings.GetMany(ctx, keys)
	if err != nil {
		logging.From(c).Error("load settings", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": values})
}

func (h *AdminSettingsHandler) Put(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	for k := range req {
		if !editableSettings[k] {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown_setting", "key": k})
			return
		}
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	for k, v := range req {
		if err := h.settings.Set(ctx, k, v); err != nil {
			logging.From(c).Error("save setting", "key", k, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// UploadBranding stores a logo or favicon and records its URL under the
// matching setting key, so the storefront picks it up on next load.
func (h *AdminSettingsHandler) UploadBranding(c *gin.Context) {
	kind := c.Param("kind")
	if kind != "logo" && kind != "favicon" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	url, err := h.uploads.saveUpload(c, "branding")
	if err != nil {
		logging.From(c).Error("branding upload", "kind", kind, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload_failed"})
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.settings.Set(ctx, kind+"_url", url); err != nil {
		logging.From(c).Error("save branding url", "kind", kind, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
