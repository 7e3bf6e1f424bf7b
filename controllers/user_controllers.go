package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

func validRole(role string) bool {
	switch role {
	case models.RoleChef, models.RoleWaiter, models.RoleCleaner, models.RoleManager:
		return true
	}
	return false
}

// CreateUser -> add a staff member to the directory
func (uc *UserController) CreateUser(c *gin.Context) {
	var body struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !validRole(body.Role) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown role "+body.Role))
		return
	}

	user := models.User{
		Name:   body.Name,
		Email:  body.Email,
		Role:   body.Role,
		Active: true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	utils.InfoLogger.Printf("Staff %s joined as %s", user.Name, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User created", user)
}

// GetAllUsers -> the staff directory, optionally filtered by ?role=
func (uc *UserController) GetAllUsers(c *gin.Context) {
	query := uc.DB.Where("active = ?", true).Order("name ASC")
	if role := c.Query("role"); role != "" {
		if !validRole(role) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown role "+role))
			return
		}
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

// GetUserByID
func (uc *UserController) GetUserByID(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User detail", user)
}

// UpdateUser -> change name, role or active flag. Orders keep the name
// snapshotted when they were claimed.
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var body struct {
		Name   *string `json:"name"`
		Role   *string `json:"role"`
		Active *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Role != nil && !validRole(*body.Role) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown role "+*body.Role))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	set := map[string]interface{}{}
	if body.Name != nil {
		set["name"] = *body.Name
	}
	if body.Role != nil {
		set["role"] = *body.Role
	}
	if body.Active != nil {
		set["active"] = *body.Active
	}
	if len(set) > 0 {
		if err := uc.DB.Model(&user).Updates(set).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}
