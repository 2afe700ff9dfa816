package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/Abhinav-710/LearnOrbit/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestValidateCouponForUser_UnknownCode(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons" WHERE (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)

	coupon, appErr := validateCouponForUser(db, "nosuchcode", 3)
	assert.Nil(t, coupon)
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Invalid coupon code", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateCouponForUser_Expired(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expired := time.Now().Add(-24 * time.Hour)
	mock.ExpectQuery(`SELECT (.+) FROM "coupons" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "percent_off", "is_active", "max_uses_total", "uses_total", "expires_at"}).
			AddRow(5, "WELCOME20", 20, true, 0, 0, expired))

	coupon, appErr := validateCouponForUser(db, "WELCOME20", 3)
	assert.Nil(t, coupon)
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Coupon expired", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateCouponForUser_UsageCapReached(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "percent_off", "is_active", "max_uses_total", "uses_total"}).
			AddRow(5, "WELCOME20", 20, true, 100, 100))

	coupon, appErr := validateCouponForUser(db, "WELCOME20", 3)
	assert.Nil(t, coupon)
	assert.NotNil(t, appErr)
	assert.Equal(t, "Coupon usage limit reached", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateCouponForUser_AlreadyUsedByUser(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "percent_off", "is_active", "max_uses_total", "uses_total"}).
			AddRow(5, "WELCOME20", 20, true, 100, 10))
	mock.ExpectQuery(`SELECT (.+) FROM "coupon_redemptions" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "coupon_code", "user_id"}).
			AddRow(9, "WELCOME20", 3))

	coupon, appErr := validateCouponForUser(db, "WELCOME20", 3)
	assert.Nil(t, coupon)
	assert.NotNil(t, appErr)
	assert.Equal(t, "Coupon already used", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateCouponForUser_Valid(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "percent_off", "is_active", "max_uses_total", "uses_total"}).
			AddRow(5, "WELCOME20", 20, true, 100, 10))
	mock.ExpectQuery(`SELECT (.+) FROM "coupon_redemptions" WHERE (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Codes are normalized to uppercase before lookup.
	coupon, appErr := validateCouponForUser(db, "welcome20", 3)
	assert.Nil(t, appErr)
	assert.NotNil(t, coupon)
	assert.Equal(t, "WELCOME20", coupon.Code)
	assert.Equal(t, 20, coupon.PercentOff)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateCouponForUser_OutOfRangePercent(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "percent_off", "is_active", "max_uses_total", "uses_total"}).
			AddRow(5, "BROKEN", 0, true, 0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM "coupon_redemptions" WHERE (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)

	coupon, appErr := validateCouponForUser(db, "BROKEN", 3)
	assert.Nil(t, coupon)
	assert.NotNil(t, appErr)
	assert.Equal(t, "Coupon is not valid", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}
