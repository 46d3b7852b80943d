package cli

import "github.com/urfave/cli/v2"

var (
	AppIDFlag = &cli.StringFlag{
		Name:    "app-id",
		Usage:   "Application ID sent as HO-APP-ID",
		EnvVars: []string{"HO_APP_ID"},
	}

	AppSecretFlag = &cli.StringFlag{
		Name:     "app-secret",
		Usage:    "Application secret (32 bytes); signs requests and decrypts responses",
		Required: true,
		EnvVars:  []string{"HO_APP_SECRET"},
	}

	IVFlag = &cli.StringFlag{
		Name:     "iv",
		Usage:    "AES-CBC initialization vector (16 bytes)",
		Required: true,
		EnvVars:  []string{"HO_IV"},
	}

	BaseURLFlag = &cli.StringFlag{
		Name:    "base-url",
		Usage:   "Server scheme and host (e.g. https://server.example.com)",
		EnvVars: []string{"HO_BASE_URL"},
	}

	ContentFlag = &cli.StringFlag{
		Name:    "content",
		Usage:   "API path prefix placed before every URI (e.g. /server/common/api)",
		EnvVars: []string{"HO_CONTENT"},
	}

	LogLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		Usage:   "Log level (debug, info, warn, error)",
		EnvVars: []string{"LOG_LEVEL"},
	}

	LogFileFlag = &cli.StringFlag{
		Name:    "log-file",
		Usage:   "Also write logs to this file, rotated at 10 MB",
		EnvVars: []string{"HO_LOG_FILE"},
	}

	MethodFlag = &cli.StringFlag{
		Name:  "method",
		Value: "GET",
		Usage: "HTTP method",
	}

	URIFlag = &cli.StringFlag{
		Name:     "uri",
		Usage:    "Request URI appended after --content (e.g. /v1/ping)",
		Required: true,
	}

	BodyFlag = &cli.StringFlag{
		Name:  "body",
		Usage: "JSON request body; omitted means no body",
	}

	OutputFileFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "Write the decrypted response to this file instead of stdout",
	}

	NonceFlag = &cli.StringFlag{
		Name:     "nonce",
		Usage:    "Nonce to sign",
		Required: true,
	}

	TimestampFlag = &cli.Int64Flag{
		Name:     "timestamp",
		Usage:    "Timestamp in epoch milliseconds to sign",
		Required: true,
	}

	PlaintextFlag = &cli.StringFlag{
		Name:     "plaintext",
		Usage:    "Text to encrypt into a response envelope",
		Required: true,
	}
)
