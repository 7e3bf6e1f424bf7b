package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/lifecycle"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	coordinator := lifecycle.NewCoordinator(db, nil, nil)
	tableCtrl := NewTableController(db, coordinator)
	orderCtrl := NewOrderController(coordinator)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.POST("/tables", tableCtrl.CreateTable)
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/:table_number", tableCtrl.GetTableByNumber)
	r.PATCH("/tables/:table_number/status", tableCtrl.UpdateTableStatus)
	r.DELETE("/tables/:table_number", tableCtrl.RetireTable)
	r.GET("/floor/stats", tableCtrl.GetFloorStats)
	return r
}

func TestCreateAndListTables(t *testing.T) {
	utils.InitLogger()
	db := setupControllerDB(t, "ctrl_tables_list")
	r := setupTableRouter(db)

	w := doJSON(t, r, "POST", "/tables", gin.H{"table_number": "T1", "capacity": 4}, 0)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", "/tables", gin.H{"table_number": "T2"}, 0)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Same number twice violates the unique index.
	w = doJSON(t, r, "POST", "/tables", gin.H{"table_number": "T1"}, 0)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, "GET", "/tables", nil, 0)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, data, 2)

	w = doJSON(t, r, "GET", "/tables?status=occupied", nil, 0)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeBody(t, w)["data"])

	w = doJSON(t, r, "GET", "/tables?status=bogus", nil, 0)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTableStatusEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupControllerDB(t, "ctrl_tables_status")
	menu, _ := seedFloor(t, db)
	r := setupTableRouter(db)

	w := doJSON(t, r, "PATCH", "/tables/T1/status", gin.H{"status": "reserved"}, 0)
	assert.Equal(t, http.StatusOK, w.Code)

	// Occupied is owned by order placement.
	w = doJSON(t, r, "PATCH", "/tables/T1/status", gin.H{"status": "occupied"}, 0)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "PATCH", "/tables/T1/status", gin.H{"status": "available"}, 0)
	require.Equal(t, http.StatusOK, w.Code)

	// An active order blocks manual changes with a conflict.
	w = doJSON(t, r, "POST", "/orders", gin.H{
		"table_number": "T1",
		"items":        []gin.H{{"menu_id": menu.ID, "quantity": 1}},
	}, 0)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "PATCH", "/tables/T1/status", gin.H{"status": "cleaning"}, 0)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, "PATCH", "/tables/T9/status", gin.H{"status": "reserved"}, 0)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTableDetailAndStats(t *testing.T) {
	utils.InitLogger()
	db := setupControllerDB(t, "ctrl_tables_detail")
	menu, _ := seedFloor(t, db)
	require.NoError(t, db.Create(&models.Table{TableNumber: "T2", Status: models.TableAvailable, Active: true}).Error)
	r := setupTableRouter(db)

	w := doJSON(t, r, "POST", "/orders", gin.H{
		"table_number": "T1",
		"items":        []gin.H{{"menu_id": menu.ID, "quantity": 2}},
	}, 0)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "GET", "/tables/T1", nil, 0)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	active := data["active_orders"].([]interface{})
	require.Len(t, active, 1)
	order := active[0].(map[string]interface{})
	assert.Equal(t, "pending", order["status"])
	items := order["items"].([]interface{})
	assert.Len(t, items, 1)

	w = doJSON(t, r, "GET", "/floor/stats", nil, 0)
	assert.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["occupied"])
	assert.Equal(t, float64(1), stats["available"])
	assert.Equal(t, float64(2), stats["total"])
}

func TestRetireTableEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupControllerDB(t, "ctrl_tables_retire")
	menu, _ := seedFloor(t, db)
	r := setupTableRouter(db)

	// A table holding live orders cannot be retired.
	w := doJSON(t, r, "POST", "/orders", gin.H{
		"table_number": "T1",
		"items":        []gin.H{{"menu_id": menu.ID, "quantity": 1}},
	}, 0)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeBody(t, w)["data"].(map[string]interface{})["id"].(float64))

	w = doJSON(t, r, "DELETE", "/tables/T1", nil, 0)
	assert.Equal(t, http.StatusConflict, w.Code)

	coordinator := lifecycle.NewCoordinator(db, nil, nil)
	_, err := coordinator.Cancel(context.Background(), orderID, nil)
	require.NoError(t, err)

	w = doJSON(t, r, "DELETE", "/tables/T1", nil, 0)
	assert.Equal(t, http.StatusOK, w.Code)

	// Retired tables disappear from the board and refuse new orders.
	w = doJSON(t, r, "GET", "/tables", nil, 0)
	assert.Nil(t, decodeBody(t, w)["data"])

	w = doJSON(t, r, "POST", "/orders", gin.H{
		"table_number": "T1",
		"items":        []gin.H{{"menu_id": menu.ID, "quantity": 1}},
	}, 0)
	assert.Equal(t, http.StatusConflict, w.Code)
}
