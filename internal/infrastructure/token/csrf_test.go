package token

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"ops-hub/internal/domain"
)

const csrfSecret = "this-is-a-valid-csrf-secret-that-is-at-least-32-chars"

func TestHMACCSRFGenerator_Generate(t *testing.T) {
	gen := NewHMACCSRFGenerator(csrfSecret)

	token, err := gen.Generate("identity-123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestHMACCSRFGenerator_Deterministic(t *testing.T) {
	gen := NewHMACCSRFGenerator(csrfSecret)

	token1, _ := gen.Generate("identity-123")
	token2, _ := gen.Generate("identity-123")
	assert.Equal(t, token1, token2)
}

func TestHMACCSRFGenerator_DifferentIdentities(t *testing.T) {
	gen := NewHMACCSRFGenerator(csrfSecret)

	token1, _ := gen.Generate("identity-1")
	token2, _ := gen.Generate("identity-2")
	assert.NotEqual(t, token1, token2)
}

func TestHMACCSRFGenerator_EmptySecret(t *testing.T) {
	gen := NewHMACCSRFGenerator("")

	token, err := gen.Generate("identity-123")
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, domain.ErrCSRFSecretMissing))
}

func TestHMACCSRFGenerator_Verify(t *testing.T) {
	gen := NewHMACCSRFGenerator(csrfSecret)

	token, err := gen.Generate("identity-1")
	assert.NoError(t, err)

	assert.True(t, gen.Verify("identity-1", token))
	assert.False(t, gen.Verify("identity-2", token))
	assert.False(t, gen.Verify("identity-1", "forged"))
}

func TestHMACCSRFGenerator_Verify_EmptySecret(t *testing.T) {
	gen := NewHMACCSRFGenerator("")

	assert.False(t, gen.Verify("identity-1", "anything"))
}
