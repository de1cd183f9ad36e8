package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"swap-bot/cmd"
)

func main() {
	// .env is optional, the environment may already carry the settings
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
