package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/megatonytrader/express-entregas-zap/internal/cart"
	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/logging"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

type CheckoutHandler struct {
	checkout *usecase.Checkout
	store    cart.Store
	sessions *CartHandler
}

func NewCheckoutHandler(checkout *usecase.Checkout, store cart.Store, sessions *CartHandler) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, store: store, sessions: sessions}
}

type checkoutReq struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Street       string `json:"street" binding:"required"`
	Number       string `json:"number" binding:"required"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood" binding:"required"`
	Payment      string `json:"payment" binding:"required,oneof=money card"`
}

type checkoutResp struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	TotalCents  int64  `json:"total_cents"`
	WhatsAppURL string `json:"whatsapp_url"`
}

// Submit turns the session's cart into an order. The cart is cleared only
// after the order is committed; on failure the cart is untouched so the
// customer can retry.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sessionID := h.sessions.sessionID(c)
	engine := cart.NewEngine(ctx, sessionID, h.store, logging.From(c))

	userID, _ := c.Value("user_id").(string)
	if userID == "" {
		userID = sessionID
	}
	out, err := h.checkout.Execute(ctx, usecase.CheckoutInput{
		UserID:         userID,
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"),
		CustomerName:   req.Name,
		CustomerPhone:  req.Phone,
		Street:         req.Street,
		Number:         req.Number,
		Complement:     req.Complement,
		Neighborhood:   req.Neighborhood,
		Payment:        req.Payment,
		Lines:          engine.Lines(),
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, usecase.ErrEmptyCart):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, usecase.ErrMerchantMissing):
			status = http.StatusConflict
		case errors.Is(err, usecase.ErrDuplicate):
			status = http.StatusConflict
		}
		logging.From(c).Error("checkout failed", "err", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	engine.Clear(ctx)

	c.JSON(http.StatusCreated, checkoutResp{
		OrderID:     out.OrderID,
		Status:      out.Status,
		Total:       domain.FormatBRL(out.TotalCents),
		TotalCents:  out.TotalCents,
		WhatsAppURL: out.WhatsAppURL,
	})
}
