package cli

import (
	"time"

	"github.com/spf13/cobra"
)

type runFunc func(cmd *cobra.Command, args []string) error

// instrument wraps a command body so that each run records its outcome and
// latency.
func (a *app) instrument(name string, run runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		err := run(cmd, args)
		duration := time.Since(start)

		a.metrics.CommandsTotal.WithLabelValues(name, status(err)).Inc()
		a.metrics.CommandDuration.WithLabelValues(name).Observe(duration.Seconds())

		if a.logger != nil {
			a.logger.Debug("command finished",
				"command", name,
				"args", len(args),
				"duration", duration,
				"error", err,
			)
		}
		return err
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
