package apiclient

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata per type.
var validate = validator.New()

// Config is the immutable client configuration. AppSecret is both the signing secret
// and the AES-256 key, so it must be exactly 32 bytes; IV must be 16 bytes.
//
// AppID, BaseURL and Content are sent and concatenated as given. An empty value is
// accepted; a bad URL surfaces as a transport error on the first call.
type Config struct {
	AppID     string
	AppSecret string `validate:"required"`
	IV        string `validate:"required"`
	// BaseURL is scheme and host, e.g. "https://server.example.com".
	BaseURL string
	// Content is the path prefix placed between BaseURL and each call's uri.
	Content string
}

// Validate checks that the key material is present. Byte lengths are checked when the
// cipher is built.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// URL joins BaseURL, Content and uri by plain concatenation. No escaping is applied.
func (c Config) URL(uri string) string {
	return c.BaseURL + c.Content + uri
}
