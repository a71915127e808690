package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"pakcuisine/internal/logger"
	"pakcuisine/internal/monitoring"
	"pakcuisine/internal/order"
	"pakcuisine/internal/receipt"
	"pakcuisine/internal/session"
	"pakcuisine/internal/store"
)

const requestIDKey = "request_id"

// BillingAPI exposes an order session to till front ends over HTTP
type BillingAPI struct {
	Router  *gin.Engine
	Hub     *Hub
	mu      sync.Mutex
	session *session.OrderSession
	monitor *monitoring.Monitor
	log     *logger.Logger
}

// ItemRequest names a dish and a quantity
type ItemRequest struct {
	Category string `json:"category" binding:"required"`
	Item     string `json:"item" binding:"required"`
	Quantity int    `json:"quantity"`
}

// ReceiptRequest carries the bill adjustments chosen at the till
type ReceiptRequest struct {
	Discount     int     `json:"discount"`
	Tip          float64 `json:"tip"`
	CustomerName string  `json:"customer_name"`
}

// SaveRequest carries a rendered bill to archive
type SaveRequest struct {
	Bill         string `json:"bill" binding:"required"`
	CustomerName string `json:"customer_name"`
}

// LineView is an order line as shown to clients
type LineView struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// OrderView is the state of the order being assembled
type OrderView struct {
	OrderNumber int        `json:"order_number"`
	Lines       []LineView `json:"lines"`
	Summary     string     `json:"summary"`
	Subtotal    float64    `json:"subtotal"`
}

// Update is pushed to WebSocket clients whenever the order changes
type Update struct {
	Type  string    `json:"type"`
	Order OrderView `json:"order"`
}

// NewBillingAPI creates a new billing API instance
func NewBillingAPI(s *session.OrderSession, monitor *monitoring.Monitor, log *logger.Logger) *BillingAPI {
	if log == nil {
		log = logger.Nop()
	}
	if monitor == nil {
		monitor = monitoring.NewMonitor()
	}

	router := gin.New()
	router.Use(gin.Recovery())

	api := &BillingAPI{
		Router:  router,
		Hub:     NewHub(log),
		session: s,
		monitor: monitor,
		log:     log,
	}

	router.Use(api.requestLogger())
	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (a *BillingAPI) setupRoutes() {
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Billing API is running"})
	})
	a.Router.GET("/ws", a.Stream)

	v1 := a.Router.Group("/api/v1")
	{
		v1.GET("/menu", a.GetMenu)

		v1.GET("/order", a.GetOrder)
		v1.POST("/order/items", a.AddItem)
		v1.DELETE("/order/items", a.RemoveItem)
		v1.POST("/order/clear", a.ClearOrder)
		v1.POST("/order/new", a.NewOrder)
		v1.GET("/order/breakdown", a.GetBreakdown)
		v1.POST("/order/receipt", a.GenerateReceipt)
		v1.POST("/order/save", a.SaveOrder)

		v1.GET("/history", a.GetHistory)
		v1.GET("/metrics", a.GetMetrics)
	}
}

func (a *BillingAPI) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = logger.GenerateRequestID()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		a.log.Debug("http_request", id, "Handled request", map[string]any{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// orderView must be called with a.mu held
func (a *BillingAPI) orderView() OrderView {
	snap := a.session.Snapshot()
	lines := make([]LineView, 0, snap.Len())
	for _, ln := range snap.Lines() {
		lines = append(lines, LineView{Category: ln.Key.Category, Item: ln.Key.Item, Quantity: ln.Quantity})
	}

	view := OrderView{
		OrderNumber: a.session.OrderNumber(),
		Lines:       lines,
		Summary:     order.Summary(snap),
	}
	if b, err := a.session.Breakdown(0, 0); err == nil {
		view.Subtotal = b.Subtotal
	}
	return view
}

// changed must be called with a.mu held
func (a *BillingAPI) changed(c *gin.Context) {
	view := a.orderView()
	a.Hub.Broadcast(Update{Type: "order", Order: view})
	c.JSON(http.StatusOK, view)
}

// Menu handlers

func (a *BillingAPI) GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, a.session.Menu())
}

// Order handlers

func (a *BillingAPI) GetOrder(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c.JSON(http.StatusOK, a.orderView())
}

func (a *BillingAPI) AddItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.AddItem(req.Category, req.Item, req.Quantity)
	a.changed(c)
}

func (a *BillingAPI) RemoveItem(c *gin.Context) {
	category, item := c.Query("category"), c.Query("item")
	if category == "" || item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category and item are required"})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.RemoveItem(category, item)
	a.changed(c)
}

func (a *BillingAPI) ClearOrder(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.Clear()
	a.changed(c)
}

func (a *BillingAPI) NewOrder(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.session.NewOrder(); err != nil {
		a.log.Error("new_order_failed", requestID(c), "Failed to start new order", err, nil)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	a.changed(c)
}

func (a *BillingAPI) GetBreakdown(c *gin.Context) {
	discount, err := strconv.Atoi(c.DefaultQuery("discount", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discount must be an integer percentage"})
		return
	}
	tip, err := strconv.ParseFloat(c.DefaultQuery("tip", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tip must be a number"})
		return
	}
	if err := validateAdjustments(discount, tip); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	b, err := a.session.Breakdown(discount, tip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (a *BillingAPI) GenerateReceipt(c *gin.Context) {
	var req ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateAdjustments(req.Discount, req.Tip); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	text, err := a.session.GenerateReceipt(req.Discount, req.Tip, req.CustomerName)
	switch {
	case errors.Is(err, receipt.ErrEmptyOrder):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": text})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_number": a.session.OrderNumber(),
		"receipt":      text,
	})
}

func (a *BillingAPI) SaveOrder(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.session.SaveOrder(req.Bill, req.CustomerName)
	switch {
	case errors.Is(err, session.ErrNoBill):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, store.ErrPersistenceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order saved successfully",
		"order_number": a.session.OrderNumber(),
	})
}

// History and monitoring handlers

func (a *BillingAPI) GetHistory(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries, err := a.session.History()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (a *BillingAPI) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, a.monitor.GetMetrics())
}

// Stream upgrades to a WebSocket that receives the order after every change
func (a *BillingAPI) Stream(c *gin.Context) {
	a.mu.Lock()
	initial := Update{Type: "order", Order: a.orderView()}
	a.mu.Unlock()

	a.Hub.serve(c, initial)
}

// validateAdjustments is the input sanitisation the pricing engine leaves
// to its callers.
func validateAdjustments(discount int, tip float64) error {
	if discount < 0 || discount > 100 {
		return errors.New("discount must be between 0 and 100")
	}
	if math.IsNaN(tip) || math.IsInf(tip, 0) {
		return errors.New("tip must be a finite number")
	}
	if tip < 0 {
		return errors.New("tip must not be negative")
	}
	return nil
}
