package routes

import (
	"github.com/Abhinav-710/LearnOrbit/controllers"
	"github.com/Abhinav-710/LearnOrbit/middleware"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	// Razorpay signs the raw body; this route stays outside auth and must
	// never be wrapped by anything that consumes the body first.
	router.POST("/webhooks/razorpay", controllers.HandleRazorpayWebhook)

	api := router.Group("/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}

		// Public pricing page.
		api.GET("/plans", controllers.ListPlans)

		user := api.Group("")
		user.Use(middleware.AuthMiddleware())
		{
			user.POST("/coupons/validate", controllers.ValidateCoupon)

			user.POST("/payments/order", controllers.CreatePaymentOrder)
			user.POST("/payments/verify", controllers.VerifyPayment)
			user.GET("/payments", controllers.ListPayments)
			user.POST("/payments/:id/cancel", controllers.CancelPayment)

			user.GET("/subscriptions", controllers.ListSubscriptions)
			user.PUT("/subscriptions/:id", controllers.UpdateSubscription)
			user.DELETE("/subscriptions/:id", controllers.DeleteSubscription)

			user.GET("/notifications", controllers.ListNotifications)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.GET("/plans", controllers.ListAllPlans)
			admin.POST("/plans", controllers.CreatePlan)
			admin.PUT("/plans/:id", controllers.UpdatePlan)
			admin.DELETE("/plans/:id", controllers.DeletePlan)

			admin.GET("/coupons", controllers.ListCoupons)
			admin.POST("/coupons", controllers.CreateCoupon)
			admin.PUT("/coupons/:id", controllers.UpdateCoupon)
			admin.DELETE("/coupons/:id", controllers.DeleteCoupon)

			admin.GET("/payments", controllers.ListAllPayments)
			admin.POST("/subscriptions", controllers.CreateSubscription)
		}
	}

	return router
}
