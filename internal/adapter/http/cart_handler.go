package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/megatonytrader/express-entregas-zap/internal/cart"
	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/logging"
)

const sessionCookie = "entregas_session"

// CartHandler exposes one cart per storefront session. The session ID rides
// in a cookie; each request rebuilds the engine from the durable mirror, so
// no cart state lives in the process between requests.
type CartHandler struct {
	store cart.Store
}

func NewCartHandler(store cart.Store) *CartHandler {
	return &CartHandler{store: store}
}

func (h *CartHandler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(sessionCookie, id, 7*24*3600, "/", "", false, true)
	return id
}

func (h *CartHandler) engine(c *gin.Context) *cart.Engine {
	return cart.NewEngine(c.Request.Context(), h.sessionID(c), h.store, logging.From(c))
}

type cartResp struct {
	Lines      []cart.Line `json:"lines"`
	ItemCount  int         `json:"item_count"`
	Total      string      `json:"total"`
	TotalCents int64       `json:"total_cents"`
	Message    string      `json:"message,omitempty"`
}

func feedbackMessage(fb cart.Feedback, productName string) string {
	switch fb {
	case cart.FeedbackItemAdded:
		return productName + " foi adicionado ao carrinho"
	case cart.FeedbackQuantityUpdated:
		return productName + " teve sua quantidade aumentada no carrinho"
	case cart.FeedbackItemRemoved:
		return "O produto foi removido do carrinho"
	case cart.FeedbackCleared:
		return "Todos os itens foram removidos do carrinho"
	}
	return ""
}

func respond(c *gin.Context, e *cart.Engine, fb cart.Feedback, productName string) {
	lines := e.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	c.JSON(http.StatusOK, cartResp{
		Lines:      lines,
		ItemCount:  e.ItemCount(),
		Total:      domain.FormatBRL(e.TotalCents()),
		TotalCents: e.TotalCents(),
		Message:    feedbackMessage(fb, productName),
	})
}

func (h *CartHandler) Get(c *gin.Context) {
	respond(c, h.engine(c), cart.FeedbackNone, "")
}

type addItemReq struct {
	ProductID      string         `json:"product_id" binding:"required"`
	ProductName    string         `json:"product_name" binding:"required"`
	UnitPriceCents int64          `json:"unit_price_cents" binding:"min=0"`
	ProductImage   string         `json:"product_image"`
	Quantity       int            `json:"quantity"`
	AddOns         []domain.AddOn `json:"add_ons"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	e := h.engine(c)
	fb := e.AddItem(c.Request.Context(), cart.Line{
		ProductID:      req.ProductID,
		ProductName:    req.ProductName,
		UnitPriceCents: req.UnitPriceCents,
		ProductImage:   req.ProductImage,
		Quantity:       req.Quantity,
		AddOns:         req.AddOns,
	})
	respond(c, e, fb, req.ProductName)
}

type updateQtyReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateQtyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	e := h.engine(c)
	fb := e.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	respond(c, e, fb, "")
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	e := h.engine(c)
	fb := e.RemoveItem(c.Request.Context(), c.Param("id"))
	respond(c, e, fb, "")
}

func (h *CartHandler) Clear(c *gin.Context) {
	e := h.engine(c)
	fb := e.Clear(c.Request.Context())
	respond(c, e, fb, "")
}
