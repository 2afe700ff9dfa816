package testutils

import (
	"io"
	"log"
	"testing"

	"github.com/Abhinav-710/LearnOrbit/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB swaps the global GORM handle for one backed by sqlmock and
// returns the mock plus a cleanup that restores the original handle.
func SetupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock connection: %s", err)
	}

	silentLogger := logger.New(
		log.New(io.Discard, "", log.LstdFlags),
		logger.Config{LogLevel: logger.Silent},
	)

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: silentLogger})
	if err != nil {
		t.Fatalf("failed to open gorm connection: %s", err)
	}

	originalDB := config.DB
	config.DB = gormDB

	cleanup := func() {
		config.DB = originalDB
		sqlDB.Close()
	}

	return gormDB, mock, cleanup
}

// SetupTestRouter returns a bare router without middleware.
func SetupTestRouter() *gin.Engine {
	return gin.New()
}

// InitTestMain puts gin into test mode. Call from TestMain.
func InitTestMain() {
	gin.SetMode(gin.TestMode)
}
