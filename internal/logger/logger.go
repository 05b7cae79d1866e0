package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log はグローバルロガー。InitLogger が呼ばれるまでは何も出力しない
var Log = zap.NewNop()

// InitLogger は環境に応じてロガーを初期化する (env: "production" | "development")
func InitLogger(env string, debug bool) error {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if !debug {
			config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
	}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := config.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Named はコンポーネント名付きの子ロガーを返す
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes any buffered log entries
func Sync() error {
	return Log.Sync()
}
