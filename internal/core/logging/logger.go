// Package logging derives per-component loggers from the global zerolog
// root. Each moving part of the pipeline (scheduler, runner, aggregator,
// dispatcher, tui, profiler) gets its own tagged logger so one repository
// operation can be followed across component lines in the log file.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns a child of the global logger tagged with the
// component name under the "cmp" key.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
