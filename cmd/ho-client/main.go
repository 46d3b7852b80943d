package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	hocli "github.com/zelasier/ho-api-go-sdk/internal/cli"
	"github.com/zelasier/ho-api-go-sdk/pkg/apiclient"
	"github.com/zelasier/ho-api-go-sdk/pkg/crypto"
	"github.com/zelasier/ho-api-go-sdk/pkg/types"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:      "ho-client",
		Usage:     "Call a signed, encrypted HO API endpoint",
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			hocli.AppIDFlag,
			hocli.AppSecretFlag,
			hocli.IVFlag,
			hocli.BaseURLFlag,
			hocli.ContentFlag,
			hocli.LogLevelFlag,
			hocli.LogFileFlag,
		},
		Commands: []*cli.Command{
			{
				Name:  "send",
				Usage: "Send a signed request and print the decrypted response",
				Flags: []cli.Flag{
					hocli.MethodFlag,
					hocli.URIFlag,
					hocli.BodyFlag,
					hocli.OutputFileFlag,
				},
				Action: runSend,
			},
			{
				Name:  "sign",
				Usage: "Print the HO-SIGNATURE for fixed request fields",
				Flags: []cli.Flag{
					hocli.NonceFlag,
					hocli.TimestampFlag,
					hocli.URIFlag,
					hocli.BodyFlag,
				},
				Action: runSign,
			},
			{
				Name:  "encrypt",
				Usage: "Print the response envelope a server would return for a plaintext",
				Flags: []cli.Flag{
					hocli.PlaintextFlag,
				},
				Action: runEncrypt,
			},
		},
	}
}

func runSend(c *cli.Context) error {
	cfg := hocli.NewConfigFromCLI(c)

	logger, err := hocli.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := apiclient.New(cfg.ClientConfig(), apiclient.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	var body any
	if raw := c.String(hocli.BodyFlag.Name); raw != "" {
		if !json.Valid([]byte(raw)) {
			return fmt.Errorf("--body is not valid JSON")
		}
		body = json.RawMessage(raw)
	}

	method := c.String(hocli.MethodFlag.Name)
	uri := c.String(hocli.URIFlag.Name)
	logger.Sugar().Infow("Sending request", "method", method, "uri", uri)

	result, err := client.Send(c.Context, method, uri, body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if out := c.String(hocli.OutputFileFlag.Name); out != "" {
		if err := os.WriteFile(out, []byte(result), 0600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Sugar().Infow("Response written to file", "file", out, "bytes", len(result))
		return nil
	}

	fmt.Fprintln(c.App.Writer, prettyIfJSON(result))
	return nil
}

func runSign(c *cli.Context) error {
	cfg := hocli.NewConfigFromCLI(c)
	if cfg.AppID == "" {
		return fmt.Errorf("--app-id is required")
	}

	body := c.String(hocli.BodyFlag.Name)
	if body != "" {
		compact, err := compactJSON(body)
		if err != nil {
			return fmt.Errorf("--body is not valid JSON: %w", err)
		}
		body = compact
	}

	sig := crypto.Sign(cfg.AppID, c.String(hocli.NonceFlag.Name), c.Int64(hocli.TimestampFlag.Name),
		c.String(hocli.URIFlag.Name), body, cfg.AppSecret)
	fmt.Fprintln(c.App.Writer, sig)
	return nil
}

func runEncrypt(c *cli.Context) error {
	cfg := hocli.NewConfigFromCLI(c)

	cbc, err := crypto.NewCBCCipher([]byte(cfg.AppSecret), []byte(cfg.IV))
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}

	ciphertext := cbc.Encrypt([]byte(c.String(hocli.PlaintextFlag.Name)))
	out, err := json.Marshal(types.Envelope{Data: hex.EncodeToString(ciphertext)})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

func compactJSON(s string) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func prettyIfJSON(s string) string {
	var buf bytes.Buffer
	if json.Indent(&buf, []byte(s), "", "  ") != nil {
		return s
	}
	return buf.String()
}
