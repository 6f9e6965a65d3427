// Command tokengen prints a signed access token for local testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"cyclerent-ledger/internal/config"
	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/security"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	identity := flag.String("identity", "", "Caller identity, usually a wallet address")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	id, err := domain.NormalizeIdentity(*identity)
	if err != nil {
		log.Fatalf("Invalid identity: %v", err)
	}

	tm := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	token, err := tm.GenerateAccessToken(id)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
