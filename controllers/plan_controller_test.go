package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abhinav-710/LearnOrbit/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPlans_CachesSecondRead(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	PlanCache.Clear()
	t.Cleanup(PlanCache.Clear)

	// Only one database read is expected across two requests.
	mock.ExpectQuery(`SELECT (.+) FROM "subscription_plans" WHERE is_active = \$1(.+)ORDER BY sort_order`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "price", "is_active", "sort_order"}).
			AddRow(1, "basic", 9900, true, 1).
			AddRow(2, "premium", 19900, true, 2))

	r := testutils.SetupTestRouter()
	r.GET("/plans", ListPlans)

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/plans", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)

		var respBody map[string]interface{}
		json.Unmarshal(resp.Body.Bytes(), &respBody)
		data, ok := respBody["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Len(t, data["plans"], 2)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePlan_DeactivatesAndClearsCache(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	PlanCache.Clear()
	t.Cleanup(PlanCache.Clear)

	PlanCache.Set("public", nil)

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_plans" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "price", "is_active"}).
			AddRow(1, "basic", 9900, true))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscription_plans" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.DELETE("/admin/plans/:id", DeletePlan)

	req, _ := http.NewRequest(http.MethodDelete, "/admin/plans/1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	_, cached := PlanCache.Get("public")
	assert.False(t, cached)
	assert.NoError(t, mock.ExpectationsWereMet())
}
