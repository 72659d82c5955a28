package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/megatonytrader/express-entregas-zap/internal/adapter/http/middleware"
	"github.com/megatonytrader/express-entregas-zap/internal/logging"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	AdminCat *AdminCatalogHandler
	Settings *AdminSettingsHandler
}

func NewRouter(h Handlers, authz *middleware.Authz, mediaRoot string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// uploaded product images and branding assets
	r.Static("/media", mediaRoot)

	r.POST("/v1/login", h.Auth.Login)

	v1 := r.Group("/v1")
	{
		v1.GET("/products", h.Catalog.ListProducts)
		v1.GET("/products/:id/add-ons", h.Catalog.ProductAddOns)
		v1.GET("/categories", h.Catalog.ListCategories)
		v1.GET("/branding", h.Catalog.Branding)

		v1.GET("/cart", h.Cart.Get)
		v1.POST("/cart/items", h.Cart.AddItem)
		v1.PATCH("/cart/items/:id", h.Cart.UpdateQuantity)
		v1.DELETE("/cart/items/:id", h.Cart.RemoveItem)
		v1.DELETE("/cart", h.Cart.Clear)

		v1.POST("/checkout", h.Checkout.Submit)
		v1.GET("/orders/mine", h.Orders.ListMine)
	}

	admin := r.Group("/v1/admin", authz.RequireAdmin())
	{
		admin.GET("/orders", h.Orders.ListAll)
		admin.POST("/orders/ack", h.Orders.Acknowledge)
		admin.PATCH("/orders/:id/status", h.Orders.UpdateStatus)
		admin.GET("/orders/:id/receipt", h.Orders.Receipt)

		admin.POST("/products", h.AdminCat.CreateProduct)
		admin.PUT("/products/:id", h.AdminCat.UpdateProduct)
		admin.DELETE("/products/:id", h.AdminCat.DeleteProduct)
		admin.POST("/products/image", h.AdminCat.UploadImage)

		admin.POST("/categories", h.AdminCat.CreateCategory)
		admin.DELETE("/categories/:id", h.AdminCat.DeleteCategory)

		admin.GET("/add-ons", h.AdminCat.ListAddOns)
		admin.POST("/add-ons", h.AdminCat.CreateAddOn)
		admin.DELETE("/add-ons/:id", h.AdminCat.DeleteAddOn)

		admin.GET("/settings", h.Settings.Get)
		admin.PUT("/settings", h.Settings.Put)
		admin.POST("/branding/:kind", h.Settings.UploadBranding)

		admin.PUT("/account/password", h.Auth.ChangePassword)
	}

	return r
}
