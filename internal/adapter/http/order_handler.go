package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/logging"
	"github.com/megatonytrader/express-entregas-zap/internal/notify"
	"github.com/megatonytrader/express-entregas-zap/internal/realtime"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

// OrderHandler serves the two live order views (admin board, customer
// list) and the admin's status actions. Reads come from the realtime
// boards; writes go through the update-status use case.
type OrderHandler struct {
	admin    *realtime.AdminSync
	customer *realtime.CustomerSync
	update   *usecase.UpdateStatus
	settings usecase.SettingsRepo
	sessions *CartHandler
}

func NewOrderHandler(admin *realtime.AdminSync, customer *realtime.CustomerSync,
	update *usecase.UpdateStatus, settings usecase.SettingsRepo, sessions *CartHandler) *OrderHandler {
	return &OrderHandler{admin: admin, customer: customer, update: update, settings: settings, sessions: sessions}
}

type orderItemResp struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type orderResp struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	Total           string          `json:"total"`
	TotalCents      int64           `json:"total_cents"`
	Status          string          `json:"status"`
	StatusLabel     string          `json:"status_label"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []orderItemResp `json:"items"`
}

func toOrderResp(o domain.Order, includeCustomer bool) orderResp {
	items := make([]orderItemResp, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResp{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   domain.FormatBRL(it.UnitPriceCents),
			Subtotal:    domain.FormatBRL(it.SubtotalCents()),
		})
	}
	resp := orderResp{
		ID:              o.ID,
		Total:           domain.FormatBRL(o.TotalCents),
		TotalCents:      o.TotalCents,
		Status:          string(o.Status),
		StatusLabel:     o.Status.Label(),
		RejectionReason: o.RejectionReason,
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
	if includeCustomer {
		resp.CustomerName = o.CustomerName
		resp.CustomerPhone = o.CustomerPhone
		resp.DeliveryAddress = o.DeliveryAddress
		resp.PaymentMethod = o.PaymentMethod
	}
	return resp
}

// ListMine is the calling session's order list, newest first.
func (h *OrderHandler) ListMine(c *gin.Context) {
	sessionID := h.sessions.sessionID(c)
	orders := h.customer.Board.Orders()
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		if o.UserID != sessionID {
			continue
		}
		out = append(out, toOrderResp(o, false))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

// ListAll is the admin board, newest first, with the unread counter.
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders := h.admin.Board.Orders()
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o, true))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out, "unread": h.admin.Unread()})
}

// Acknowledge clears the new-orders badge and silences the alert loop.
func (h *OrderHandler) Acknowledge(c *gin.Context) {
	h.admin.Acknowledge()
	c.JSON(http.StatusOK, gin.H{"unread": 0})
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.update.Execute(ctx, usecase.UpdateStatusInput{
		OrderID: c.Param("id"),
		To:      domain.Status(req.Status),
		Reason:  req.Reason,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrReasonRequired):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, usecase.ErrTransitionLost):
			status = http.StatusConflict
		case errors.Is(err, usecase.ErrNotFound):
			status = http.StatusNotFound
		}
		logging.From(c).Warn("status update refused", "order_id", c.Param("id"), "err", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":        toOrderResp(out.Order, true),
		"whatsapp_url": out.WhatsAppURL,
	})
}

// Receipt renders a plain-text receipt for thermal printing.
func (h *OrderHandler) Receipt(c *gin.Context) {
	order, ok := h.admin.Board.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	title, err := h.settings.Get(ctx, "company_title")
	if err != nil || title == "" {
		title = "Delivery App"
	}
	c.String(http.StatusOK, notify.Receipt(title, order))
}
