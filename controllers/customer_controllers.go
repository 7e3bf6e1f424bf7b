package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// ScanTable -> guest scans the table QR code; returns the active
// session or opens a fresh one. Sessions identify the party for their
// orders; they never change the table status.
func (cc *CustomerController) ScanTable(c *gin.Context) {
	number := c.Param("table_number")

	var table models.Table
	if err := cc.DB.Where("table_number = ?", number).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !table.Active {
		utils.RespondError(c, http.StatusConflict, errors.New("table is out of service"))
		return
	}

	var customer models.Customer
	err := cc.DB.Where("table_number = ? AND status = ?", number, models.SessionActive).
		First(&customer).Error
	if err == nil {
		utils.RespondJSON(c, http.StatusOK, "Active session", customer)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	key := uuid.NewString()
	customer = models.Customer{
		TableNumber: number,
		SessionKey:  &key,
		Status:      models.SessionActive,
	}
	if err := cc.DB.Create(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Session %d opened at table %s", customer.ID, number)
	utils.RespondJSON(c, http.StatusCreated, "Session opened", customer)
}

// GetActiveSession -> the current session at a table, if any
func (cc *CustomerController) GetActiveSession(c *gin.Context) {
	number := c.Param("table_number")

	var customer models.Customer
	err := cc.DB.Where("table_number = ? AND status = ?", number, models.SessionActive).
		First(&customer).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("no active session at this table"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active session", customer)
}

// CloseSession -> party left; the session ends but table occupancy
// stays with the orders
func (cc *CustomerController) CloseSession(c *gin.Context) {
	id, ok := pathID(c, "customer_id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := cc.DB.First(&customer, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if customer.Status != models.SessionClosed {
		if err := cc.DB.Model(&customer).Update("status", models.SessionClosed).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.InfoLogger.Printf("Session %d closed at table %s", customer.ID, customer.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Session closed", customer)
}

// GetAllCustomers -> staff view of sessions, optionally ?status=active
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	query := cc.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}
