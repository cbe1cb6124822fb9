package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyHub(t *testing.T) {
	secret := "app-secret"
	body := []byte(`{"object":"whatsapp_business_account","entry":[]}`)
	valid := SignHub(body, secret)
	hexDigest := strings.TrimPrefix(valid, "sha256=")

	tests := []struct {
		name    string
		body    []byte
		header  string
		secret  string
		wantErr error
	}{
		{"valid lowercase", body, valid, secret, nil},
		{"valid uppercase hex", body, "sha256=" + strings.ToUpper(hexDigest), secret, nil},
		{"missing header", body, "", secret, ErrMissingSignature},
		{"no separator", body, hexDigest, secret, ErrMalformedSignature},
		{"two separators", body, "sha256=" + hexDigest + "=", secret, ErrMalformedSignature},
		{"wrong algorithm", body, "sha1=" + hexDigest, secret, ErrMalformedSignature},
		{"empty digest", body, "sha256=", secret, ErrMalformedSignature},
		{"not hex", body, "sha256=zz" + hexDigest[2:], secret, ErrMalformedSignature},
		{"short digest", body, "sha256=abcd", secret, ErrMalformedSignature},
		{"tampered body", []byte(`{"object":"page"}`), valid, secret, ErrSignatureMismatch},
		{"wrong secret", body, valid, "other-secret", ErrSignatureMismatch},
		{"empty secret", body, valid, "", ErrSignatureMismatch},
		{"zero digest", body, "sha256=" + strings.Repeat("0", 64), secret, ErrSignatureMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyHub(tt.body, tt.header, tt.secret)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerifyHub_RawBytesMatter(t *testing.T) {
	secret := "app-secret"
	raw := []byte("{\"object\": \"whatsapp_business_account\",  \"entry\": []}")
	header := SignHub(raw, secret)

	// same JSON document, different bytes
	compact := []byte(`{"object":"whatsapp_business_account","entry":[]}`)

	require.NoError(t, VerifyHub(raw, header, secret))
	assert.ErrorIs(t, VerifyHub(compact, header, secret), ErrSignatureMismatch)
}

func TestParseHub(t *testing.T) {
	sig, err := ParseHub(SignHub([]byte("payload"), "k"))
	require.NoError(t, err)
	assert.Equal(t, "sha256", sig.Algorithm)
	assert.Len(t, sig.Digest, 32)
}

func TestSignHub_Deterministic(t *testing.T) {
	a := SignHub([]byte("payload"), "k")
	assert.Equal(t, a, SignHub([]byte("payload"), "k"))
	assert.NotEqual(t, a, SignHub([]byte("payload2"), "k"))
	assert.True(t, strings.HasPrefix(a, "sha256="))
	assert.Len(t, a, len("sha256=")+64)
}

func TestReason(t *testing.T) {
	assert.Equal(t, "missing", Reason(ErrMissingSignature))
	assert.Equal(t, "malformed", Reason(ErrMalformedSignature))
	assert.Equal(t, "mismatch", Reason(ErrSignatureMismatch))
	assert.Equal(t, "unknown", Reason(assert.AnError))
}
