// Package logging builds the zap logger shared by every phihelper component.
package logging

import (
	"go.uber.org/zap"
)

// Logger is the process-wide logger, replaced by each successful Setup.
var Logger = zap.NewNop()

// Setup builds the process logger. Debug selects zap's development config,
// otherwise the production (JSON, info level) config is used. Logs always go
// to stderr so that stdout carries only command results.
func Setup(debug bool, appName, appVersion string) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.DisableStacktrace = true
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		Logger = zap.NewExample()
		return Logger, err
	}

	Logger = logger
	zap.ReplaceGlobals(Logger)
	return Logger, nil
}
