package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetAllNotifications -> newest first; ?role= filters to one staff
// group, ?unread=true shows only what is still open
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	query := nc.DB.Order("created_at DESC").Limit(200)
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ? OR role = ''", role)
	}
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifs []models.Notification
	if err := query.Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of notifications", notifs)
}

// CreateNotification -> manual announcement to a staff group; most
// rows arrive through the event pipeline instead
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	var body struct {
		Role    string `json:"role"`
		Title   string `json:"title"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notif := models.Notification{
		Role:    body.Role,
		Message: body.Message,
	}
	if body.Title != "" {
		notif.Title = &body.Title
	}
	if err := nc.DB.Create(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Notification created: %s", notif.Message)
	utils.RespondJSON(c, http.StatusCreated, "Notification created", notif)
}

// MarkNotificationRead
func (nc *NotificationController) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c, "notif_id")
	if !ok {
		return
	}

	var notif models.Notification
	if err := nc.DB.First(&notif, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !notif.Read {
		if err := nc.DB.Model(&notif).Update("is_read", true).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Notification read", notif)
}

// MarkAllNotificationsRead -> clear the badge for one staff group
func (nc *NotificationController) MarkAllNotificationsRead(c *gin.Context) {
	query := nc.DB.Model(&models.Notification{}).Where("is_read = ?", false)
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ? OR role = ''", role)
	}
	res := query.Update("is_read", true)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications read", gin.H{"updated": res.RowsAffected})
}
