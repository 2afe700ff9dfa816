package config

import (
	"fmt"

	"github.com/Abhinav-710/LearnOrbit/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection and migrates the schema. The
// unique index on coupon_redemptions (coupon_code, user_id) comes from the
// model tags and is what makes coupon reservation an insert-if-absent.
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	err = DB.AutoMigrate(
		&models.User{},
		&models.SubscriptionPlan{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.Payment{},
		&models.Subscription{},
		&models.Notification{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}
}
