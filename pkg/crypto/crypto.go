package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1" //nolint:gosec // the server verifies SHA-1 signatures
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// IVSize is the CBC initialization vector length in bytes.
	IVSize = aes.BlockSize
)

var (
	ErrInvalidKeySize    = errors.New("invalid key size")
	ErrInvalidIVSize     = errors.New("invalid iv size")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrInvalidPadding    = errors.New("invalid pkcs7 padding")
)

// Sign computes the request signature: the lowercase hex SHA-1 digest of
// appID, nonce, timestampMs, uri, body and appSecret concatenated in that order
// with no separators. The server rebuilds the same string, so field order is part
// of the protocol.
func Sign(appID, nonce string, timestampMs int64, uri, body, appSecret string) string {
	var sb strings.Builder
	sb.Grow(len(appID) + len(nonce) + 20 + len(uri) + len(body) + len(appSecret))
	sb.WriteString(appID)
	sb.WriteString(nonce)
	sb.WriteString(strconv.FormatInt(timestampMs, 10))
	sb.WriteString(uri)
	sb.WriteString(body)
	sb.WriteString(appSecret)

	digest := sha1.Sum([]byte(sb.String())) //nolint:gosec
	return hex.EncodeToString(digest[:])
}

// CBCCipher is an AES-256-CBC context with PKCS7 padding bound to a fixed key and IV.
// It holds no per-call state and may be shared between goroutines.
type CBCCipher struct {
	block cipher.Block
	iv    []byte
}

// NewCBCCipher checks that key is 32 bytes and iv is 16 bytes and builds the context.
func NewCBCCipher(key, iv []byte) (*CBCCipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: aes key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: cbc iv must be %d bytes, got %d", ErrInvalidIVSize, IVSize, len(iv))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &CBCCipher{
		block: block,
		iv:    bytes.Clone(iv),
	}, nil
}

// Decrypt reverses Encrypt. The ciphertext must be a non-empty multiple of the block size.
func (c *CBCCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: length %d is not a positive multiple of %d", ErrInvalidCiphertext, len(ciphertext), aes.BlockSize)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, ciphertext)
	return PKCS7Unpad(out, aes.BlockSize)
}

// Encrypt pads plaintext with PKCS7 and encrypts it. It is the server side of Decrypt.
func (c *CBCCipher) Encrypt(plaintext []byte) []byte {
	padded := PKCS7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return out
}

// PKCS7Pad always appends between 1 and blockSize bytes.
func PKCS7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

// PKCS7Unpad strips and checks the padding added by PKCS7Pad.
func PKCS7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidPadding, len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: pad byte %d", ErrInvalidPadding, n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: inconsistent pad bytes", ErrInvalidPadding)
		}
	}
	return data[:len(data)-n], nil
}
