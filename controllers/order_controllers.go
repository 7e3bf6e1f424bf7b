package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SolomonOP/smart-waiter-system-sub000/lifecycle"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

type OrderController struct {
	Coordinator *lifecycle.Coordinator
}

func NewOrderController(coordinator *lifecycle.Coordinator) *OrderController {
	return &OrderController{Coordinator: coordinator}
}

type orderItemReq struct {
	MenuID   uint   `json:"menu_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Notes    string `json:"notes"`
}

func toNewItems(in []orderItemReq) []lifecycle.NewItem {
	items := make([]lifecycle.NewItem, 0, len(in))
	for _, item := range in {
		items = append(items, lifecycle.NewItem{
			MenuID:   item.MenuID,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		})
	}
	return items
}

// CreateOrder -> guest places an order for their table
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		TableNumber string         `json:"table_number" binding:"required"`
		CustomerID  *uint          `json:"customer_id"`
		Discount    float64        `json:"discount"`
		Items       []orderItemReq `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Coordinator.CreateOrder(c.Request.Context(), lifecycle.CreateOrderInput{
		TableNumber: body.TableNumber,
		CustomerID:  body.CustomerID,
		Discount:    body.Discount,
		Items:       toNewItems(body.Items),
	})
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %s created for table %s (total %s)",
		order.OrderNumber, order.TableNumber, utils.FormatAmount(order.TotalAmount))
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> list orders, optionally filtered by ?status=
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	orders, err := oc.Coordinator.ListOrders(c.Request.Context(), status)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail of one order with items and service requests
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Coordinator.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOrderHistory -> audit trail of status changes for one order
func (oc *OrderController) GetOrderHistory(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	history, err := oc.Coordinator.StatusHistory(c.Request.Context(), id)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status history", history)
}

// GetKitchenQueue -> orders a chef can pick up or is cooking
func (oc *OrderController) GetKitchenQueue(c *gin.Context) {
	queue, err := oc.Coordinator.KitchenQueue(c.Request.Context())
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen queue", queue)
}

// ConfirmOrder -> front of house acknowledges a pending order
func (oc *OrderController) ConfirmOrder(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Coordinator.Confirm(c.Request.Context(), id)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.InfoLogger.Printf("Order %s confirmed", order.OrderNumber)
	utils.RespondJSON(c, http.StatusOK, "Order confirmed", order)
}

// AcceptOrder -> chef claims the order and starts cooking
func (oc *OrderController) AcceptOrder(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	staff, ok := requireStaff(c)
	if !ok {
		return
	}
	order, err := oc.Coordinator.Accept(c.Request.Context(), id, staff)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.InfoLogger.Printf("Order %s accepted by chef %d", order.OrderNumber, staff)
	utils.RespondJSON(c, http.StatusOK, "Order accepted", order)
}

// MarkOrderReady -> the claiming chef finishes preparation
func (oc *OrderController) MarkOrderReady(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	staff, ok := requireStaff(c)
	if !ok {
		return
	}
	order, err := oc.Coordinator.MarkReady(c.Request.Context(), id, staff)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.InfoLogger.Printf("Order %s ready for pickup", order.OrderNumber)
	utils.RespondJSON(c, http.StatusOK, "Order ready", order)
}

// CompleteOrder -> waiter served the food, order closes
func (oc *OrderController) CompleteOrder(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Coordinator.Complete(c.Request.Context(), id)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.InfoLogger.Printf("Order %s completed", order.OrderNumber)
	utils.RespondJSON(c, http.StatusOK, "Order completed", order)
}

// CancelOrder -> guest or staff abandons an order before cooking
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Coordinator.Cancel(c.Request.Context(), id, optionalStaff(c))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.InfoLogger.Printf("Order %s cancelled", order.OrderNumber)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// RejectOrder -> kitchen turns down a pending order
func (oc *OrderController) RejectOrder(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	staff, ok := requireStaff(c)
	if !ok {
		return
	}
	order, err := oc.Coordinator.Reject(c.Request.Context(), id, staff)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.InfoLogger.Printf("Order %s rejected", order.OrderNumber)
	utils.RespondJSON(c, http.StatusOK, "Order rejected", order)
}

// AddOrderItems -> guest extends the ticket before cooking starts
func (oc *OrderController) AddOrderItems(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		Items []orderItemReq `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := oc.Coordinator.AddItems(c.Request.Context(), id, toNewItems(body.Items))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.InfoLogger.Printf("Order %s now has %d items (total %s)",
		order.OrderNumber, len(order.Items), utils.FormatAmount(order.TotalAmount))
	utils.RespondJSON(c, http.StatusOK, "Items added", order)
}

// PayOrder -> record the bill as settled
func (oc *OrderController) PayOrder(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		Method string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := oc.Coordinator.RecordPayment(c.Request.Context(), id, body.Method)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.InfoLogger.Printf("Order %s paid via %s", order.OrderNumber, order.PaymentMethod)
	utils.RespondJSON(c, http.StatusOK, "Payment recorded", order)
}

// SubmitFeedback -> guest rates a completed order
func (oc *OrderController) SubmitFeedback(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		Rating   int    `json:"rating" binding:"required"`
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := oc.Coordinator.SubmitFeedback(c.Request.Context(), id, body.Rating, body.Feedback)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Feedback recorded", order)
}
