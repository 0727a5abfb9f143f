package logger

import (
	"go.uber.org/zap"
)

// Log is replaced by Init. The no-op default keeps packages usable before
// Init runs, e.g. in tests.
var Log = zap.NewNop()

func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

func Sync() {
	_ = Log.Sync()
}
