package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"phihelper/cmd"
	"phihelper/pkg/apperr"
	"phihelper/pkg/logging"
	"phihelper/pkg/version"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	logger, err := logging.Setup(false, "phihelper", version.Get().Version)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := cmd.Execute(logger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		msg := "phihelper execution failed"
		if apperr.IsFatal(err) {
			msg = "phihelper configuration error"
		}
		syncLogger(logging.Logger)
		logging.Logger.Fatal(msg, zap.Error(err))
	}
	syncLogger(logging.Logger)
}

// syncLogger flushes the logger. Syncing a terminal or pipe returns EINVAL on
// some platforms, which is ignored.
func syncLogger(logger *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if syncErr := logger.Sync(); syncErr != nil {
		lowerErr := strings.ToLower(syncErr.Error())
		if !strings.Contains(lowerErr, "invalid argument") && !strings.Contains(lowerErr, "inappropriate ioctl") {
			log.Printf("Logger sync failed: %v", syncErr)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
