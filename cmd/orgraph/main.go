package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/prepify/orgraph/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment as-is")
	}
	if err := cli.Execute(); err != nil {
		log.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
