package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func validateRouter(user models.User) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.POST("/coupons/validate", func(c *gin.Context) {
		c.Set("user", user)
		ValidateCoupon(c)
	})
	return r
}

func postValidate(r http.Handler, payload map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, "/coupons/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestValidateCoupon_UnknownCodeIsNotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons" WHERE (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)

	user := models.User{Model: gorm.Model{ID: 3}}
	resp := postValidate(validateRouter(user), map[string]string{"code": "NOSUCH"})

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateCoupon_RejectionIsBadRequest(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "percent_off", "is_active", "max_uses_total", "uses_total"}).
			AddRow(5, "WELCOME20", 20, true, 10, 10))

	user := models.User{Model: gorm.Model{ID: 3}}
	resp := postValidate(validateRouter(user), map[string]string{"code": "WELCOME20"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Coupon usage limit reached", respBody["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateCoupon_WithPlanPricing(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "percent_off", "is_active", "max_uses_total", "uses_total"}).
			AddRow(5, "WELCOME20", 20, true, 0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM "coupon_redemptions" WHERE (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT (.+) FROM "subscription_plans" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "price", "is_active"}).
			AddRow(1, "premium", 19900, true))

	user := models.User{Model: gorm.Model{ID: 3}}
	resp := postValidate(validateRouter(user), map[string]string{"code": "WELCOME20", "plan": "Premium"})

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	data := respBody["data"].(map[string]interface{})
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, float64(19900), data["base_amount"])
	assert.Equal(t, float64(3980), data["discount_amount"])
	assert.Equal(t, float64(15920), data["final_amount"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
