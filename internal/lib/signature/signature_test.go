package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"customer":{"email":"a@b.com"}}}`)

	sig := Sign(secret, body)
	require.Len(t, sig, 128) // hex от SHA-512

	assert.True(t, Verify(secret, body, sig))
}

func TestVerify_RejectsMutatedBody(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"customer":{"email":"a@b.com"}}}`)
	sig := Sign(secret, body)

	// Любое изменение одного байта тела должно ломать подпись
	for i := range body {
		mutated := make([]byte, len(body))
		copy(mutated, body)
		mutated[i] ^= 0x01
		assert.False(t, Verify(secret, mutated, sig), "mutation at byte %d accepted", i)
	}
}

func TestVerify_RejectsForgedSignature(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)

	tests := []struct {
		name      string
		signature string
	}{
		{name: "empty signature", signature: ""},
		{name: "garbage signature", signature: "deadbeef"},
		{name: "wrong secret", signature: Sign("another_secret", body)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify("sk_test_secret", body, tt.signature))
		})
	}
}
