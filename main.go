package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"boxcars/bot"
	"boxcars/experiments"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	profiles := bot.DefaultProfiles()

	fmt.Printf("Running exhibition between %d profiles...\n", len(profiles))
	if err := experiments.RunExhibition("exhibition", 3, profiles); err != nil {
		log.Fatal().Msgf("exhibition failed: %v", err)
	}
	fmt.Printf("Finished exhibition.\n")
}
