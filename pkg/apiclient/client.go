// Package apiclient implements the HO API client: SHA-1 signed requests and
// AES-256-CBC encrypted responses.
package apiclient

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
	_ "time/tzdata" // Asia/Shanghai must resolve on hosts without zoneinfo
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zelasier/ho-api-go-sdk/pkg/crypto"
	"github.com/zelasier/ho-api-go-sdk/pkg/types"
	"go.uber.org/zap"
)

const (
	// requestTimeout bounds the whole call; connectTimeout bounds the dial.
	requestTimeout = 100 * time.Second
	connectTimeout = 100 * time.Second

	serverTimeZone = "Asia/Shanghai"

	maxErrorBodyPreview = 512
)

var (
	errInvalidUTF8 = errors.New("decrypted data is not valid UTF-8")
	errMissingData = errors.New(`response envelope has no "data" string`)
)

// responseEnvelope tells an absent or null data field apart from an empty string.
type responseEnvelope struct {
	Data *string `json:"data"`
}

// Client signs requests with the shared secret and decrypts the server's responses.
// All fields are read-only after New, so one Client may serve concurrent calls.
type Client struct {
	config     Config
	cipher     *crypto.CBCCipher
	location   *time.Location
	httpClient *http.Client
	logger     *zap.Logger
	clock      Clock
	newNonce   func() string
}

// New validates cfg and builds the cipher. Any failure is a KindInvalidConfig *Error.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, newError(KindInvalidConfig, "validate config", err)
	}

	c, err := crypto.NewCBCCipher([]byte(cfg.AppSecret), []byte(cfg.IV))
	if err != nil {
		return nil, newError(KindInvalidConfig, "init cipher", err)
	}

	loc, err := time.LoadLocation(serverTimeZone)
	if err != nil {
		return nil, newError(KindInvalidConfig, "load server time zone", err)
	}

	client := &Client{
		config:   cfg,
		cipher:   c,
		location: loc,
		logger:   zap.NewNop(),
		clock:    RealClock{},
		newNonce: uuid.NewString,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Config returns a copy of the configuration the client was built with.
func (c *Client) Config() Config {
	return c.config
}

// Sign returns the signature the server expects for the given request fields.
func (c *Client) Sign(nonce string, timestampMs int64, uri, body string) string {
	return crypto.Sign(c.config.AppID, nonce, timestampMs, uri, body, c.config.AppSecret)
}

// timestamp is epoch milliseconds taken from a Shanghai-zoned time, which is what the
// server compares against.
func (c *Client) timestamp() int64 {
	return c.clock.Now().In(c.location).UnixMilli()
}

// marshalJSON encodes v without HTML escaping, so "<", ">" and "&" reach the server
// (and the signature) as written. encoding/json still writes U+2028 and U+2029 as
// \u2028 and \u2029 and replaces invalid UTF-8 with U+FFFD.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// canonicalBody encodes body once. The same string is signed and sent.
func canonicalBody(body any) (string, error) {
	if body == nil {
		return "", nil
	}
	b, err := marshalJSON(body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func requestPayload(body any, canonical string) ([]byte, error) {
	if body == nil {
		return []byte(types.EmptyBody), nil
	}
	return marshalJSON(types.Envelope{Data: canonical})
}

func newDialer() *net.Dialer {
	return &net.Dialer{Timeout: connectTimeout}
}

// transport returns the injected client, or a client owned by a single call. An owned
// client does not keep connections alive; the caller closes it when the call ends.
func (c *Client) transport() (hc *http.Client, owned bool) {
	if c.httpClient != nil {
		return c.httpClient, false
	}
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         newDialer().DialContext,
			TLSHandshakeTimeout: connectTimeout,
			DisableKeepAlives:   true,
		},
	}, true
}

// Send signs and issues one request, then decrypts the response envelope and returns
// the plaintext. A nil body sends "{}" and signs an empty body string; any other body is
// JSON-encoded and sent as {"data": "<encoded body>"}. Nothing is retried.
func (c *Client) Send(ctx context.Context, method, uri string, body any) (string, error) {
	nonce := c.newNonce()
	now := c.timestamp()

	bodyStr, err := canonicalBody(body)
	if err != nil {
		return "", newError(KindSerialization, "encode request body", err)
	}
	signature := c.Sign(nonce, now, uri, bodyStr)

	payload, err := requestPayload(body, bodyStr)
	if err != nil {
		return "", newError(KindSerialization, "encode request envelope", err)
	}

	url := c.config.URL(uri)
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return "", newError(KindTransport, "create request", err)
	}
	req.Header.Set("User-Agent", types.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(types.HeaderAppID, c.config.AppID)
	req.Header.Set(types.HeaderNonce, nonce)
	req.Header.Set(types.HeaderTimestamp, strconv.FormatInt(now, 10))
	req.Header.Set(types.HeaderSignature, signature)

	c.logger.Sugar().Debugw("Sending request", "method", method, "url", url, "nonce", nonce, "timestamp", now)

	hc, owned := c.transport()
	if owned {
		defer hc.CloseIdleConnections()
	}

	resp, err := hc.Do(req)
	if err != nil {
		return "", newError(KindTransport, "send request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindTransport, "read response", err)
	}

	c.logger.Sugar().Debugw("Received response", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode != http.StatusOK {
		return "", newError(KindTransport, "check status", &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       preview(respBody),
		})
	}

	return c.openEnvelope(respBody)
}

// openEnvelope parses the envelope, hex-decodes and decrypts data, and checks UTF-8.
func (c *Client) openEnvelope(respBody []byte) (string, error) {
	var envelope responseEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", newError(KindSerialization, "decode response envelope", err)
	}
	if envelope.Data == nil {
		return "", newError(KindSerialization, "decode response envelope", errMissingData)
	}

	ciphertext, err := hex.DecodeString(*envelope.Data)
	if err != nil {
		return "", newError(KindDecode, "hex-decode response data", err)
	}

	plaintext, err := c.cipher.Decrypt(ciphertext)
	if err != nil {
		return "", newError(KindDecryption, "decrypt response data", err)
	}

	if !utf8.Valid(plaintext) {
		return "", newError(KindEncoding, "validate plaintext", errInvalidUTF8)
	}
	return string(plaintext), nil
}

// Get is Send with method GET.
func (c *Client) Get(ctx context.Context, uri string, body any) (string, error) {
	return c.Send(ctx, http.MethodGet, uri, body)
}

// Post is Send with method POST.
func (c *Client) Post(ctx context.Context, uri string, body any) (string, error) {
	return c.Send(ctx, http.MethodPost, uri, body)
}

// Put is Send with method PUT.
func (c *Client) Put(ctx context.Context, uri string, body any) (string, error) {
	return c.Send(ctx, http.MethodPut, uri, body)
}

// Delete is Send with method DELETE.
func (c *Client) Delete(ctx context.Context, uri string, body any) (string, error) {
	return c.Send(ctx, http.MethodDelete, uri, body)
}

func preview(b []byte) string {
	if len(b) > maxErrorBodyPreview {
		return string(b[:maxErrorBodyPreview]) + "..."
	}
	return string(b)
}
