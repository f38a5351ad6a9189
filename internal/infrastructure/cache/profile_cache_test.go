package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ops-hub/internal/domain"
)

func TestProfileCache_SetAndGet(t *testing.T) {
	c := NewProfileCache(5 * time.Minute)

	c.Set("id-1", domain.Profile{
		Email:       "test@example.com",
		Role:        domain.RoleDriver,
		DisplayName: "test",
	})

	got, found := c.Get("id-1")
	assert.True(t, found)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, domain.RoleDriver, got.Role)
}

func TestProfileCache_NotFound(t *testing.T) {
	c := NewProfileCache(5 * time.Minute)

	got, found := c.Get("nonexistent")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestProfileCache_Expiration(t *testing.T) {
	c := NewProfileCache(100 * time.Millisecond)

	c.Set("id-exp", domain.Profile{Email: "e@example.com"})

	// Before expiry
	got, found := c.Get("id-exp")
	assert.True(t, found)
	assert.Equal(t, "e@example.com", got.Email)

	// After expiry
	time.Sleep(150 * time.Millisecond)
	got, found = c.Get("id-exp")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestProfileCache_Invalidate(t *testing.T) {
	c := NewProfileCache(5 * time.Minute)

	c.Set("id-1", domain.Profile{Email: "e@example.com"})
	c.Invalidate("id-1")

	_, found := c.Get("id-1")
	assert.False(t, found)
}
