package controllers

import (
	"os"
	"strings"
	"time"

	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the signup body.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// Register creates a user account and returns a bearer token.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "email and password are required", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	db := config.DB
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.Conflict(c, "An account with this email already exists", nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to create account", err)
		return
	}

	user := models.User{
		Email:    email,
		Password: string(hashed),
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	if err := db.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user %s: %v", email, err)
		utils.InternalServerError(c, "Failed to create account", err)
		return
	}

	token, err := generateToken(user)
	if err != nil {
		utils.LogError("Failed to issue token for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to issue token", err)
		return
	}

	utils.LogInfo("User %d registered", user.ID)
	utils.Created(c, "Account created successfully", gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
		},
	})
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and returns a bearer token.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "email and password are required", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	db := config.DB
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if user.IsBlocked {
		utils.Forbidden(c, "Account is blocked")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if err := db.Model(&user).Update("last_login_at", time.Now()).Error; err != nil {
		utils.LogError("Failed to record login for user ID: %d: %v", user.ID, err)
	}

	token, err := generateToken(user)
	if err != nil {
		utils.LogError("Failed to issue token for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to issue token", err)
		return
	}

	utils.LogInfo("User %d logged in", user.ID)
	utils.Success(c, "Logged in successfully", gin.H{
		"token": token,
		"user": gin.H{
			"id":                  user.ID,
			"email":               user.Email,
			"full_name":           user.FullName,
			"subscription_plan":   user.SubscriptionPlan,
			"subscription_status": user.SubscriptionStatus,
		},
	})
}

func generateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
