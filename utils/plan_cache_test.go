package utils

import (
	"testing"
	"time"

	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/stretchr/testify/assert"
)

func TestPlanCache(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := NewPlanCache(5*time.Minute, clock)

	plans := []models.SubscriptionPlan{{PlanName: "basic", Price: 9900}}

	t.Run("miss on empty cache", func(t *testing.T) {
		_, ok := cache.Get("public")
		assert.False(t, ok)
	})

	t.Run("hit within ttl", func(t *testing.T) {
		cache.Set("public", plans)
		got, ok := cache.Get("public")
		assert.True(t, ok)
		assert.Equal(t, plans, got)
	})

	t.Run("miss after ttl expiry", func(t *testing.T) {
		cache.Set("public", plans)
		now = now.Add(5*time.Minute + time.Second)
		_, ok := cache.Get("public")
		assert.False(t, ok)
	})

	t.Run("clear drops all keys", func(t *testing.T) {
		cache.Set("public", plans)
		cache.Set("all", plans)
		cache.Clear()
		_, ok := cache.Get("public")
		assert.False(t, ok)
		_, ok = cache.Get("all")
		assert.False(t, ok)
	})
}
