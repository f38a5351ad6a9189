package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-hub/internal/domain"
)

func TestFixedIdentityProvider_Start_NeverSignedOut(t *testing.T) {
	p := NewFixedIdentityProvider()

	var got *domain.Identity
	stop, err := p.Start(context.Background(), func(identity *domain.Identity) {
		got = identity
	})
	require.NoError(t, err)
	defer stop()

	require.NotNil(t, got, "fixed mode must seed an identity immediately")
	assert.Equal(t, "dev-identity", got.ID)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Nil(t, got.CompanyID, "fixed identity has unrestricted scope")
}

func TestFixedIdentityProvider_SignIn_NeverFails(t *testing.T) {
	p := NewFixedIdentityProvider()

	identity, err := p.SignIn(context.Background(), "anyone@example.com", "any-password")
	require.NoError(t, err)

	// Only the email is overwritten; everything else stays fixed.
	assert.Equal(t, "anyone@example.com", identity.Email)
	assert.Equal(t, "dev-identity", identity.ID)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
}

func TestFixedIdentityProvider_SignOut_ResetsToFixed(t *testing.T) {
	p := NewFixedIdentityProvider()

	_, err := p.SignIn(context.Background(), "someone@example.com", "pw")
	require.NoError(t, err)

	identity, err := p.SignOut(context.Background())
	require.NoError(t, err)

	require.NotNil(t, identity, "sign-out must not clear the identity in fixed mode")
	assert.Equal(t, "dev@ops.local", identity.Email)
}
