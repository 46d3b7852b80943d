package crypto

import (
	"bytes"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKey = []byte("0123456789abcdef0123456789abcdef")
	testIV  = []byte("abcdef9876543210")
)

func TestSign_MatchesConcatenatedSHA1(t *testing.T) {
	want := sha1.Sum([]byte("id1" + "nonce-1" + "1734739200000" + "/v1/ping" + `{"k":"v"}` + "secret")) //nolint:gosec

	got := Sign("id1", "nonce-1", 1734739200000, "/v1/ping", `{"k":"v"}`, "secret")

	assert.Equal(t, hex.EncodeToString(want[:]), got)
	assert.Len(t, got, 40)
	assert.Equal(t, bytes.ToLower([]byte(got)), []byte(got))
}

func TestSign_Deterministic(t *testing.T) {
	a := Sign("id1", "n", 42, "/u", "", "s")
	b := Sign("id1", "n", 42, "/u", "", "s")
	assert.Equal(t, a, b)
}

func TestSign_EveryFieldChangesSignature(t *testing.T) {
	base := Sign("id1", "nonce", 1000, "/v1/ping", "body", "secret")

	variants := map[string]string{
		"app_id":    Sign("id2", "nonce", 1000, "/v1/ping", "body", "secret"),
		"nonce":     Sign("id1", "nonce2", 1000, "/v1/ping", "body", "secret"),
		"timestamp": Sign("id1", "nonce", 1001, "/v1/ping", "body", "secret"),
		"uri":       Sign("id1", "nonce", 1000, "/v1/pong", "body", "secret"),
		"body":      Sign("id1", "nonce", 1000, "/v1/ping", "body2", "secret"),
		"secret":    Sign("id1", "nonce", 1000, "/v1/ping", "body", "secret2"),
	}
	for field, sig := range variants {
		t.Run(field, func(t *testing.T) {
			assert.NotEqual(t, base, sig)
		})
	}
}

func TestNewCBCCipher_Sizes(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		iv      []byte
		wantErr error
	}{
		{"valid", testKey, testIV, nil},
		{"short key", testKey[:16], testIV, ErrInvalidKeySize},
		{"long key", append(bytes.Clone(testKey), 'x'), testIV, ErrInvalidKeySize},
		{"empty key", nil, testIV, ErrInvalidKeySize},
		{"short iv", testKey, testIV[:8], ErrInvalidIVSize},
		{"long iv", testKey, append(bytes.Clone(testIV), 'x'), ErrInvalidIVSize},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewCBCCipher(tc.key, tc.iv)
			if tc.wantErr == nil {
				require.NoError(t, err)
				assert.NotNil(t, c)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, c)
		})
	}
}

func TestCBCCipher_RoundTrip(t *testing.T) {
	c, err := NewCBCCipher(testKey, testIV)
	require.NoError(t, err)

	for _, pt := range []string{"", "pong", "exactly16bytes!!", `{"champion":"Ahri","skins":["K/DA"]}`, "中文内容"} {
		ct := c.Encrypt([]byte(pt))
		assert.Zero(t, len(ct)%IVSize)

		got, err := c.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, pt, string(got))
	}
}

func TestCBCCipher_DecryptRejectsBadLength(t *testing.T) {
	c, err := NewCBCCipher(testKey, testIV)
	require.NoError(t, err)

	_, err = c.Decrypt(nil)
	require.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = c.Decrypt(make([]byte, 17))
	require.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestCBCCipher_DecryptRejectsCorruptedPadding(t *testing.T) {
	c, err := NewCBCCipher(testKey, testIV)
	require.NoError(t, err)

	// Two blocks: flipping the last byte of the first block flips the last pad byte.
	ct := c.Encrypt([]byte("twenty bytes of text"))
	require.Len(t, ct, 32)
	ct[15] ^= 0xff

	_, err = c.Decrypt(ct)
	require.ErrorIs(t, err, ErrInvalidPadding)
}

func TestPKCS7(t *testing.T) {
	padded := PKCS7Pad([]byte("abc"), 16)
	require.Len(t, padded, 16)
	assert.Equal(t, bytes.Repeat([]byte{13}, 13), padded[3:])

	full := PKCS7Pad(make([]byte, 16), 16)
	require.Len(t, full, 32)
	assert.Equal(t, byte(16), full[31])

	out, err := PKCS7Unpad(padded, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)

	bad := bytes.Clone(padded)
	bad[10] = 1
	_, err = PKCS7Unpad(bad, 16)
	require.ErrorIs(t, err, ErrInvalidPadding)

	zero := bytes.Clone(padded)
	zero[15] = 0
	_, err = PKCS7Unpad(zero, 16)
	require.ErrorIs(t, err, ErrInvalidPadding)
}
