package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/access"
	"github.com/retrievaltrack/retrievaltrack/internal/journal"
	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"github.com/retrievaltrack/retrievaltrack/internal/security"
	"gorm.io/gorm"
)

// UserHandler exposes user administration endpoints.
type UserHandler struct {
	db      *gorm.DB
	journal *journal.Journal
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB, j *journal.Journal) *UserHandler {
	return &UserHandler{db: db, journal: j}
}

// List returns all accounts.
func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if errFind := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&users).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// updateUserRequest defines the mutable account fields.
type updateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Phone    *string `json:"phone"`
	Color    *string `json:"color"`
	Active   *bool   `json:"active"`
	Password *string `json:"password"`
}

// Update mutates an account.
func (h *UserHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var body updateUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	if body.Name != nil {
		user.Name = strings.TrimSpace(*body.Name)
	}
	if body.Role != nil {
		role := strings.TrimSpace(*body.Role)
		if len(access.PagesForRole(role)) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}
		user.Role = role
	}
	if body.Phone != nil {
		user.Phone = strings.TrimSpace(*body.Phone)
	}
	if body.Color != nil {
		user.Color = strings.TrimSpace(*body.Color)
	}
	if body.Active != nil {
		user.Active = *body.Active
	}
	if body.Password != nil && strings.TrimSpace(*body.Password) != "" {
		hash, errHash := security.HashPassword(strings.TrimSpace(*body.Password))
		if errHash != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
			return
		}
		user.Password = hash
	}

	if errSave := h.db.WithContext(c.Request.Context()).Save(&user).Error; errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.journal.LogAudit(c.Request.Context(), "User Updated", user.Username, actorName(c))
	c.JSON(http.StatusOK, userJSON(user))
}

// Delete removes an account. Hard delete; there is no tombstone.
func (h *UserHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.User{}, id).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.journal.LogAudit(c.Request.Context(), "User Deleted", user.Username, actorName(c))
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
