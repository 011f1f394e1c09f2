package main

import (
	"net/http"
	"os"

	"github.com/nexus-hq/nexus-attendance/internal/devserver"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
)

func main() {
	log := logger.New("devserver")

	addr := os.Getenv("NEXUS_DEVSERVER_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	signKey := os.Getenv("NEXUS_DEVSERVER_SIGN_KEY")
	if signKey == "" {
		signKey = "devserver-local-sign-key"
	}

	srv := devserver.New(signKey, log)

	log.Info().Str("addr", addr).Msg("devserver listening")
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Fatal().Err(err).Msg("devserver stopped")
	}
}
