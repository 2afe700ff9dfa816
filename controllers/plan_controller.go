package controllers

import (
	"strings"
	"time"

	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
)

// PlanCache caches plan listings for read-mostly endpoints. Admin writes
// clear it. Swappable in tests to control time.
var PlanCache = utils.NewPlanCache(5*time.Minute, nil)

// ListPlans returns active plans for the public pricing page.
func ListPlans(c *gin.Context) {
	if plans, ok := PlanCache.Get("public"); ok {
		utils.Success(c, "Plans retrieved successfully", gin.H{"plans": plans})
		return
	}

	var plans []models.SubscriptionPlan
	if err := config.DB.Where("is_active = ?", true).
		Order("sort_order ASC").Find(&plans).Error; err != nil {
		utils.LogError("Failed to load plans: %v", err)
		utils.InternalServerError(c, "Failed to load plans", err)
		return
	}

	PlanCache.Set("public", plans)
	utils.Success(c, "Plans retrieved successfully", gin.H{"plans": plans})
}

// ListAllPlans returns every plan including inactive ones. Admin only.
func ListAllPlans(c *gin.Context) {
	if plans, ok := PlanCache.Get("all"); ok {
		utils.Success(c, "Plans retrieved successfully", gin.H{"plans": plans})
		return
	}

	var plans []models.SubscriptionPlan
	if err := config.DB.Order("sort_order ASC").Find(&plans).Error; err != nil {
		utils.LogError("Failed to load plans: %v", err)
		utils.InternalServerError(c, "Failed to load plans", err)
		return
	}

	PlanCache.Set("all", plans)
	utils.Success(c, "Plans retrieved successfully", gin.H{"plans": plans})
}

// CreatePlanRequest is the admin plan creation body. Price is in paise.
type CreatePlanRequest struct {
	PlanName      string `json:"plan_name" binding:"required"`
	DisplayName   string `json:"display_name" binding:"required"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	DurationValue int    `json:"duration_value"`
	DurationUnit  string `json:"duration_unit"`
	IsLifetime    bool   `json:"is_lifetime"`
	IsPopular     bool   `json:"is_popular"`
	IsActive      *bool  `json:"is_active"`
	SortOrder     int    `json:"sort_order"`
}

// CreatePlan creates a subscription plan and invalidates the plan cache.
func CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "plan_name and display_name are required", err.Error())
		return
	}

	planName := strings.ToLower(strings.TrimSpace(req.PlanName))
	db := config.DB
	var existing models.SubscriptionPlan
	if err := db.Where("plan_name = ?", planName).First(&existing).Error; err == nil {
		utils.Conflict(c, "Plan already exists", nil)
		return
	}

	durationValue := req.DurationValue
	if durationValue <= 0 {
		durationValue = 1
	}
	durationUnit := strings.ToLower(req.DurationUnit)
	if durationUnit == "" {
		durationUnit = "months"
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	plan := models.SubscriptionPlan{
		PlanName:      planName,
		DisplayName:   req.DisplayName,
		Description:   req.Description,
		Price:         req.Price,
		DurationValue: durationValue,
		DurationUnit:  durationUnit,
		IsLifetime:    req.IsLifetime,
		IsPopular:     req.IsPopular,
		IsActive:      isActive,
		SortOrder:     req.SortOrder,
	}
	if err := db.Create(&plan).Error; err != nil {
		utils.LogError("Failed to create plan %s: %v", planName, err)
		utils.InternalServerError(c, "Failed to create plan", err)
		return
	}

	PlanCache.Clear()
	utils.LogInfo("Plan %s created", planName)
	utils.Created(c, "Plan created successfully", gin.H{"plan": plan})
}

// UpdatePlanRequest carries partial plan updates. Existing subscriptions are
// not retroactively changed by price or duration edits.
type UpdatePlanRequest struct {
	DisplayName   *string `json:"display_name"`
	Description   *string `json:"description"`
	Price         *int64  `json:"price"`
	DurationValue *int    `json:"duration_value"`
	DurationUnit  *string `json:"duration_unit"`
	IsLifetime    *bool   `json:"is_lifetime"`
	IsPopular     *bool   `json:"is_popular"`
	IsActive      *bool   `json:"is_active"`
	SortOrder     *int    `json:"sort_order"`
}

// UpdatePlan applies partial updates to a plan and invalidates the cache.
func UpdatePlan(c *gin.Context) {
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	db := config.DB
	var plan models.SubscriptionPlan
	if err := db.First(&plan, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Plan not found")
		return
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.DurationValue != nil {
		updates["duration_value"] = *req.DurationValue
	}
	if req.DurationUnit != nil {
		updates["duration_unit"] = strings.ToLower(*req.DurationUnit)
	}
	if req.IsLifetime != nil {
		updates["is_lifetime"] = *req.IsLifetime
	}
	if req.IsPopular != nil {
		updates["is_popular"] = *req.IsPopular
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) > 0 {
		if err := db.Model(&plan).Updates(updates).Error; err != nil {
			utils.LogError("Failed to update plan %d: %v", plan.ID, err)
			utils.InternalServerError(c, "Failed to update plan", err)
			return
		}
	}

	PlanCache.Clear()
	utils.Success(c, "Plan updated successfully", gin.H{"plan": plan})
}

// DeletePlan deactivates a plan so it can no longer be purchased. Existing
// subscriptions keep running.
func DeletePlan(c *gin.Context) {
	db := config.DB
	var plan models.SubscriptionPlan
	if err := db.First(&plan, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Plan not found")
		return
	}

	plan.IsActive = false
	if err := db.Save(&plan).Error; err != nil {
		utils.LogError("Failed to deactivate plan %d: %v", plan.ID, err)
		utils.InternalServerError(c, "Failed to deactivate plan", err)
		return
	}

	PlanCache.Clear()
	utils.LogInfo("Plan %s deactivated", plan.PlanName)
	utils.Success(c, "Plan deactivated", gin.H{"plan": plan})
}
