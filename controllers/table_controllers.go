package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/lifecycle"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

type TableController struct {
	DB          *gorm.DB
	Coordinator *lifecycle.Coordinator
}

func NewTableController(db *gorm.DB, coordinator *lifecycle.Coordinator) *TableController {
	return &TableController{DB: db, Coordinator: coordinator}
}

// CreateTable -> provision a new table on the floor
func (tc *TableController) CreateTable(c *gin.Context) {
	var body struct {
		TableNumber string `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		TableNumber: body.TableNumber,
		Status:      models.TableAvailable,
		Active:      true,
	}
	if body.Capacity > 0 {
		table.Capacity = body.Capacity
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	utils.InfoLogger.Printf("Table %s provisioned (capacity %d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// GetAllTables -> the floor board, optionally filtered by ?status=
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Where("active = ?", true).Order("table_number ASC")
	if status := c.Query("status"); status != "" {
		if !models.TableStatus(status).Valid() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown table status "+status))
			return
		}
		query = query.Where("status = ?", status)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByNumber -> one table plus the orders currently holding it
func (tc *TableController) GetTableByNumber(c *gin.Context) {
	number := c.Param("table_number")

	var table models.Table
	if err := tc.DB.Where("table_number = ?", number).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var active []models.Order
	if err := tc.DB.Preload("Items").
		Where("table_number = ? AND status IN ?", number, models.ActiveOrderStatuses()).
		Order("created_at ASC").
		Find(&active).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table detail", gin.H{
		"table":         table,
		"active_orders": active,
	})
}

// UpdateTableStatus -> manual floor change (reserve, maintenance,
// cleaning, back to available)
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	number := c.Param("table_number")
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Coordinator.SetTableStatus(c.Request.Context(), number, models.TableStatus(body.Status))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %s status changed to %s", table.TableNumber, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// RetireTable -> take a table off the floor; history stays intact
func (tc *TableController) RetireTable(c *gin.Context) {
	number := c.Param("table_number")

	var table models.Table
	if err := tc.DB.Where("table_number = ?", number).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if table.Status == models.TableOccupied {
		utils.RespondError(c, http.StatusConflict, errors.New("table still has orders in progress"))
		return
	}

	if err := tc.DB.Model(&table).Update("active", false).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %s retired", table.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Table retired", table)
}

// GetFloorStats -> occupancy counts for the dashboard header
func (tc *TableController) GetFloorStats(c *gin.Context) {
	stats := make(map[string]int64, 5)
	var total int64
	for _, status := range []models.TableStatus{
		models.TableAvailable, models.TableOccupied, models.TableReserved,
		models.TableMaintenance, models.TableCleaning,
	} {
		var count int64
		if err := tc.DB.Model(&models.Table{}).
			Where("active = ? AND status = ?", true, status).
			Count(&count).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		stats[string(status)] = count
		total += count
	}
	stats["total"] = total

	utils.RespondJSON(c, http.StatusOK, "Floor stats", stats)
}
