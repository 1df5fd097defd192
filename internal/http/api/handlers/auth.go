package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/access"
	"github.com/retrievaltrack/retrievaltrack/internal/config"
	"github.com/retrievaltrack/retrievaltrack/internal/journal"
	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"github.com/retrievaltrack/retrievaltrack/internal/security"
	"gorm.io/gorm"
)

// AuthHandler handles login and registration.
type AuthHandler struct {
	db      *gorm.DB
	journal *journal.Journal
	jwtCfg  config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, j *journal.Journal, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{db: db, journal: j, jwtCfg: jwtCfg}
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a user and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	username := strings.TrimSpace(body.Username)
	password := strings.TrimSpace(body.Password)
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing username or password"})
		return
	}

	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if !user.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "user inactive"})
		return
	}
	if !security.CheckPassword(user.Password, password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, errToken := security.GenerateToken(h.jwtCfg.Secret, user.ID, user.Username, user.Name, user.Role, user.Color, h.jwtCfg.Expiry())
	if errToken != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}
	h.journal.LogAudit(c.Request.Context(), "Login", user.Username+" signed in", user.Name)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userJSON(user),
		"pages": access.PagesForRole(user.Role),
	})
}

// registerRequest defines the request body for registration.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Color    string `json:"color"`
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	username := strings.TrimSpace(body.Username)
	password := strings.TrimSpace(body.Password)
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing username or password"})
		return
	}
	role := strings.TrimSpace(body.Role)
	if len(access.PagesForRole(role)) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	var exists models.User
	if errCheck := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&exists).Error; errCheck == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	} else if !errors.Is(errCheck, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}

	user := models.User{
		Username: username,
		Password: hash,
		Name:     strings.TrimSpace(body.Name),
		Role:     role,
		Phone:    strings.TrimSpace(body.Phone),
		Color:    strings.TrimSpace(body.Color),
		Active:   true,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&user).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create user failed"})
		return
	}
	h.journal.LogAudit(c.Request.Context(), "User Registered", username+" ("+role+")", actorName(c))
	c.JSON(http.StatusCreated, userJSON(user))
}

// Me returns the current session snapshot and its permitted pages.
func (h *AuthHandler) Me(c *gin.Context) {
	session := SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       session.UserID,
		"username": session.Username,
		"name":     session.Name,
		"role":     session.Role,
		"color":    session.Color,
		"pages":    access.PagesForRole(session.Role),
	})
}
