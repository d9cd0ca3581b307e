// Command stubserver runs the in-memory development backend so the client
// can be exercised without the real EloMind API.
package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/elomind/elomind-client/internal/stubserver"
	"github.com/elomind/elomind-client/pkg/logger"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	secret := flag.String("secret", "", "JWT signing secret (default: fixed dev value)")
	flag.Parse()

	_ = godotenv.Load()

	log := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: true,
	})

	srv := stubserver.New(stubserver.Options{
		Secret:  *secret,
		Metrics: true,
		Logger:  log,
	})

	log.Info().
		Str("therapist", stubserver.SeedTherapistEmail).
		Str("client", stubserver.SeedClientEmail).
		Msg("seed accounts available")

	if err := srv.Start(*addr); err != nil {
		log.Fatal().Err(err).Msg("stub backend stopped")
	}
}
