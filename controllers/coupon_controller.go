package controllers

import (
	"strings"
	"time"

	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
)

// CreateCouponRequest is the admin coupon creation body.
type CreateCouponRequest struct {
	Code           string     `json:"code" binding:"required"`
	PercentOff     int        `json:"percent_off" binding:"required"`
	Description    string     `json:"description"`
	IsActive       *bool      `json:"is_active"`
	MaxUsesTotal   int        `json:"max_uses_total"`
	MaxUsesPerUser int        `json:"max_uses_per_user"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// CreateCoupon creates a percent-off coupon. Codes are stored uppercase.
func CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "code and percent_off are required", err.Error())
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if len(code) < 3 || len(code) > 50 {
		utils.BadRequest(c, "code must be between 3 and 50 characters", nil)
		return
	}
	if req.PercentOff < 1 || req.PercentOff > 100 {
		utils.BadRequest(c, "percent_off must be between 1 and 100", nil)
		return
	}

	db := config.DB
	var existing models.Coupon
	if err := db.Where("code = ?", code).First(&existing).Error; err == nil {
		utils.Conflict(c, "Coupon already exists", nil)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	maxUsesPerUser := req.MaxUsesPerUser
	if maxUsesPerUser <= 0 {
		maxUsesPerUser = 1
	}

	coupon := models.Coupon{
		Code:           code,
		PercentOff:     req.PercentOff,
		Description:    req.Description,
		IsActive:       isActive,
		MaxUsesTotal:   req.MaxUsesTotal,
		MaxUsesPerUser: maxUsesPerUser,
		ExpiresAt:      req.ExpiresAt,
	}
	if err := db.Create(&coupon).Error; err != nil {
		utils.LogError("Failed to create coupon %s: %v", code, err)
		utils.InternalServerError(c, "Failed to create coupon", err)
		return
	}

	utils.LogInfo("Coupon %s created", code)
	utils.Created(c, "Coupon created successfully", gin.H{"coupon": coupon})
}

// ListCoupons returns all coupons, newest first.
func ListCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := config.DB.Order("created_at DESC").Find(&coupons).Error; err != nil {
		utils.LogError("Failed to load coupons: %v", err)
		utils.InternalServerError(c, "Failed to load coupons", err)
		return
	}
	utils.Success(c, "Coupons retrieved successfully", gin.H{"coupons": coupons})
}

// UpdateCouponRequest carries partial coupon updates.
type UpdateCouponRequest struct {
	Code           *string    `json:"code"`
	PercentOff     *int       `json:"percent_off"`
	Description    *string    `json:"description"`
	IsActive       *bool      `json:"is_active"`
	MaxUsesTotal   *int       `json:"max_uses_total"`
	MaxUsesPerUser *int       `json:"max_uses_per_user"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// UpdateCoupon applies partial updates to a coupon.
func UpdateCoupon(c *gin.Context) {
	var req UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	db := config.DB
	var coupon models.Coupon
	if err := db.First(&coupon, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Code != nil {
		updates["code"] = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.PercentOff != nil {
		if *req.PercentOff < 1 || *req.PercentOff > 100 {
			utils.BadRequest(c, "percent_off must be between 1 and 100", nil)
			return
		}
		updates["percent_off"] = *req.PercentOff
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.MaxUsesTotal != nil {
		updates["max_uses_total"] = *req.MaxUsesTotal
	}
	if req.MaxUsesPerUser != nil {
		updates["max_uses_per_user"] = *req.MaxUsesPerUser
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
	}

	if len(updates) > 0 {
		if err := db.Model(&coupon).Updates(updates).Error; err != nil {
			utils.LogError("Failed to update coupon %d: %v", coupon.ID, err)
			utils.InternalServerError(c, "Failed to update coupon", err)
			return
		}
	}

	utils.Success(c, "Coupon updated successfully", gin.H{"coupon": coupon})
}

// DeleteCoupon deactivates a coupon. Redemption history is kept.
func DeleteCoupon(c *gin.Context) {
	db := config.DB
	var coupon models.Coupon
	if err := db.First(&coupon, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}

	coupon.IsActive = false
	if err := db.Save(&coupon).Error; err != nil {
		utils.LogError("Failed to deactivate coupon %d: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to deactivate coupon", err)
		return
	}

	utils.LogInfo("Coupon %s deactivated", coupon.Code)
	utils.Success(c, "Coupon deactivated", gin.H{"coupon": coupon})
}
