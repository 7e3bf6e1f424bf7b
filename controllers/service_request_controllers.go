package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SolomonOP/smart-waiter-system-sub000/lifecycle"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

type ServiceRequestController struct {
	Coordinator *lifecycle.Coordinator
}

func NewServiceRequestController(coordinator *lifecycle.Coordinator) *ServiceRequestController {
	return &ServiceRequestController{Coordinator: coordinator}
}

// CreateServiceRequest -> guest asks for help at their table
func (sc *ServiceRequestController) CreateServiceRequest(c *gin.Context) {
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		Kind string `json:"kind" binding:"required"`
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	request, err := sc.Coordinator.RequestService(c.Request.Context(), orderID,
		models.ServiceRequestKind(body.Kind), body.Note)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %s requested %s", request.TableNumber, request.Kind)
	utils.RespondJSON(c, http.StatusCreated, "Service request created", request)
}

// GetPendingRequests -> the waiter board, oldest first
func (sc *ServiceRequestController) GetPendingRequests(c *gin.Context) {
	pending, err := sc.Coordinator.PendingRequests(c.Request.Context())
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending service requests", pending)
}

// AcceptServiceRequest -> waiter claims the request
func (sc *ServiceRequestController) AcceptServiceRequest(c *gin.Context) {
	id, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	staff, ok := requireStaff(c)
	if !ok {
		return
	}
	request, err := sc.Coordinator.AcceptRequest(c.Request.Context(), id, staff)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.InfoLogger.Printf("Service request %d taken by staff %d", request.ID, staff)
	utils.RespondJSON(c, http.StatusOK, "Service request accepted", request)
}

// CompleteServiceRequest -> the claiming waiter resolves it
func (sc *ServiceRequestController) CompleteServiceRequest(c *gin.Context) {
	id, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	staff, ok := requireStaff(c)
	if !ok {
		return
	}
	request, err := sc.Coordinator.CompleteRequest(c.Request.Context(), id, staff)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service request completed", request)
}

// CancelServiceRequest -> guest withdraws a request nobody claimed yet
func (sc *ServiceRequestController) CancelServiceRequest(c *gin.Context) {
	id, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	request, err := sc.Coordinator.CancelRequest(c.Request.Context(), id)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service request cancelled", request)
}
