// Command microsim runs a cache-hierarchy and branch-predictor
// simulation over an instruction trace and prints the resulting
// cycle/hit-ratio/accuracy report.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("microsim failed")
		os.Exit(1)
	}
}
