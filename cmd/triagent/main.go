package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/symptomlab/triagent/internal/cli"
)

func main() {
	// Load .env if present; real environment variables take precedence
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
