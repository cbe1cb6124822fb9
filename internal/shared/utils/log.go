package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger. Production gets JSON
// lines, every other environment the console writer.
func InitLogger(env, level string) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if strings.EqualFold(env, "production") {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "wa-order-relay").Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

func LogInfo(msg string, fields map[string]interface{}) {
	event := log.Info()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

func LogError(msg string, err error, fields map[string]interface{}) {
	event := log.Error().Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

func LogWarn(msg string, fields map[string]interface{}) {
	event := log.Warn()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// StripeLogger adapts zerolog to stripe-go's LeveledLoggerInterface.
type StripeLogger struct {
	Logger zerolog.Logger
}

func (l StripeLogger) Debugf(format string, v ...interface{}) {
	l.Logger.Debug().Str("component", "stripe").Msg(fmt.Sprintf(format, v...))
}

func (l StripeLogger) Infof(format string, v ...interface{}) {
	l.Logger.Info().Str("component", "stripe").Msg(fmt.Sprintf(format, v...))
}

func (l StripeLogger) Warnf(format string, v ...interface{}) {
	l.Logger.Warn().Str("component", "stripe").Msg(fmt.Sprintf(format, v...))
}

func (l StripeLogger) Errorf(format string, v ...interface{}) {
	l.Logger.Error().Str("component", "stripe").Msg(fmt.Sprintf(format, v...))
}
