package config

import (
	"context"
	"fmt"
	"time"
)

// Public methods
func LogInfo(ctx context.Context, msg string) {
	writeToLog(ctx, "INFO", msg)
}

func LogError(ctx context.Context, msg string) {
	writeToLog(ctx, "ERROR", msg)
}

func LogDebug(ctx context.Context, msg string) {
	if GetContextDebug(ctx) {
		writeToLog(ctx, "DEBUG", msg)
	}
}

// Private methods
func writeToLog(ctx context.Context, severity string, msg string) {

	fmt.Printf("%s (logattrs) %s +%s [%s] %s\n",
		time.Now().UTC().Format("2006/01/02 15:04:05"),
		severity,
		sinceCreated(ctx),
		GetContextCorrelationId(ctx),
		msg)
}

func sinceCreated(ctx context.Context) string {

	createdTime := time.Unix(GetContextTimeCreated(ctx), 0)
	t := time.Since(createdTime).Seconds()

	return fmt.Sprintf("%.1fs", t)
}
