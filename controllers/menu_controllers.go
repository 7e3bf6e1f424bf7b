package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenus -> the catalog; guests see only what is orderable
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	query := mc.DB.Order("name ASC")
	if c.Query("available") == "true" {
		query = query.Where("available = ?", true)
	}

	var menus []models.Menu
	if err := query.Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, ok := pathID(c, "menu_id")
	if !ok {
		return
	}
	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// CreateMenu
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var body struct {
		Name        string  `json:"name" binding:"required"`
		Price       float64 `json:"price" binding:"required"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu := models.Menu{
		Name:        body.Name,
		Price:       body.Price,
		Description: body.Description,
		Available:   true,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu %s added at %s", menu.Name, utils.FormatAmount(menu.Price))
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenu -> change name, price, description or availability.
// Existing order lines keep their snapshotted values.
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, ok := pathID(c, "menu_id")
	if !ok {
		return
	}
	var body struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
		Available   *bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	set := map[string]interface{}{}
	if body.Name != nil {
		set["name"] = *body.Name
	}
	if body.Price != nil {
		set["price"] = *body.Price
	}
	if body.Description != nil {
		set["description"] = *body.Description
	}
	if body.Available != nil {
		set["available"] = *body.Available
	}
	if len(set) > 0 {
		if err := mc.DB.Model(&menu).Updates(set).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu -> remove a catalog entry; placed orders are unaffected
// because they carry their own copies of name and price
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, ok := pathID(c, "menu_id")
	if !ok {
		return
	}
	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err := mc.DB.Delete(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.InfoLogger.Printf("Menu %s removed", menu.Name)
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"id": menu.ID})
}
