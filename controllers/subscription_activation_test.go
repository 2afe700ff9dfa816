package controllers

import (
	"errors"
	"testing"

	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestApplyPostPaymentUpdates_NilPayment(t *testing.T) {
	subscription, err := ApplyPostPaymentUpdates(nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, subscription)
}

func TestApplyPostPaymentUpdates_AlreadyActivatedIsNoOp(t *testing.T) {
	// The flag gate must return before any database work; a nil handle would
	// panic if it did not.
	payment := &models.Payment{
		Model:                 gorm.Model{ID: 7},
		UserID:                3,
		Plan:                  "premium",
		Status:                models.PaymentStatusPaid,
		SubscriptionActivated: true,
	}

	subscription, err := ApplyPostPaymentUpdates(nil, payment)
	assert.NoError(t, err)
	assert.Nil(t, subscription)
	assert.True(t, payment.SubscriptionActivated)
}

func TestApplyPostPaymentUpdates_ActivatesOnce(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_plans" WHERE plan_name = \$1 (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "price", "duration_value", "duration_unit", "is_lifetime"}).
			AddRow(1, "premium", 19900, 1, "months", false))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "subscriptions" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(`UPDATE "users" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "payments" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment := &models.Payment{
		Model:     gorm.Model{ID: 7},
		UserID:    3,
		UserEmail: "user@example.com",
		Plan:      "premium",
		Status:    models.PaymentStatusPaid,
	}

	subscription, err := ApplyPostPaymentUpdates(db, payment)
	assert.NoError(t, err)
	assert.NotNil(t, subscription)
	assert.Equal(t, uint(3), subscription.UserID)
	assert.Equal(t, "premium", subscription.Plan)
	assert.Equal(t, models.SubscriptionStatusActive, subscription.Status)
	assert.NotNil(t, subscription.EndDate)
	assert.True(t, payment.SubscriptionActivated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPostPaymentUpdates_LifetimePlanHasNoEndDate(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_plans" WHERE plan_name = \$1 (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "price", "duration_value", "duration_unit", "is_lifetime"}).
			AddRow(2, "lifetime", 499900, 0, "", true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "subscriptions" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))
	mock.ExpectExec(`UPDATE "users" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "payments" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment := &models.Payment{
		Model:  gorm.Model{ID: 8},
		UserID: 3,
		Plan:   "lifetime",
		Status: models.PaymentStatusPaid,
	}

	subscription, err := ApplyPostPaymentUpdates(db, payment)
	assert.NoError(t, err)
	assert.NotNil(t, subscription)
	assert.Nil(t, subscription.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPostPaymentUpdates_RollbackRestoresFlags(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_plans" WHERE plan_name = \$1 (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "price", "duration_value", "duration_unit", "is_lifetime"}).
			AddRow(1, "premium", 19900, 1, "months", false))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "subscriptions" (.+) RETURNING "id"`).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	payment := &models.Payment{
		Model:  gorm.Model{ID: 7},
		UserID: 3,
		Plan:   "premium",
		Status: models.PaymentStatusPaid,
	}

	subscription, err := ApplyPostPaymentUpdates(db, payment)
	assert.Error(t, err)
	assert.Nil(t, subscription)
	// A failed activation must stay retryable.
	assert.False(t, payment.SubscriptionActivated)
	assert.False(t, payment.CouponRedeemed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPostPaymentUpdates_ConfirmsCouponRedemption(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_plans" WHERE plan_name = \$1 (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "price", "duration_value", "duration_unit", "is_lifetime"}).
			AddRow(1, "premium", 19900, 1, "months", false))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "subscriptions" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(44))
	mock.ExpectExec(`UPDATE "users" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "coupons" WHERE code = \$1 (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "percent_off", "is_active", "uses_total"}).
			AddRow(5, "WELCOME20", 20, true, 10))
	mock.ExpectQuery(`INSERT INTO "coupon_redemptions" (.+) ON CONFLICT DO NOTHING (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec(`UPDATE "coupons" SET "uses_total"=uses_total \+ \$1 (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "payments" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment := &models.Payment{
		Model:      gorm.Model{ID: 7},
		UserID:     3,
		Plan:       "premium",
		Status:     models.PaymentStatusPaid,
		CouponCode: "WELCOME20",
	}

	subscription, err := ApplyPostPaymentUpdates(db, payment)
	assert.NoError(t, err)
	assert.NotNil(t, subscription)
	assert.True(t, payment.CouponRedeemed)
	assert.True(t, payment.SubscriptionActivated)
	assert.NoError(t, mock.ExpectationsWereMet())
}
