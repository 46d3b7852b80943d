package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/zelasier/ho-api-go-sdk/pkg/apiclient"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

type Config struct {
	AppID     string
	AppSecret string
	IV        string
	BaseURL   string
	Content   string
	LogLevel  string
	LogFile   string
}

func NewConfigFromCLI(c *cli.Context) *Config {
	return &Config{
		AppID:     c.String(AppIDFlag.Name),
		AppSecret: c.String(AppSecretFlag.Name),
		IV:        c.String(IVFlag.Name),
		BaseURL:   c.String(BaseURLFlag.Name),
		Content:   c.String(ContentFlag.Name),
		LogLevel:  c.String(LogLevelFlag.Name),
		LogFile:   c.String(LogFileFlag.Name),
	}
}

// ClientConfig converts the CLI settings to the library configuration.
func (c *Config) ClientConfig() apiclient.Config {
	return apiclient.Config{
		AppID:     c.AppID,
		AppSecret: c.AppSecret,
		IV:        c.IV,
		BaseURL:   c.BaseURL,
		Content:   c.Content,
	}
}

func GetLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger writes to stderr, keeping stdout for command output. Debug level uses the
// development console encoder; other levels log JSON. With logFile set, the same
// entries also go to a rotating file.
func NewLogger(level, logFile string) (*zap.Logger, error) {
	lvl := GetLogLevel(level)

	var encoder zapcore.Encoder
	var opts []zap.Option
	if lvl == zapcore.DebugLevel {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		opts = append(opts, zap.Development(), zap.AddCaller())
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl),
	}

	if logFile != "" {
		if info, err := os.Stat(logFile); err == nil && info.IsDir() {
			return nil, fmt.Errorf("log file %s is a directory", logFile)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
			Compress:   true,
		}
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(fileWriter), lvl))
	}

	return zap.New(zapcore.NewTee(cores...), opts...), nil
}
