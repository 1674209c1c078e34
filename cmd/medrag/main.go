package main

import (
	"github.com/joho/godotenv"

	"medrag/internal/cli"
)

func main() {
	// Provider API keys commonly live in a .env file next to the binary.
	_ = godotenv.Load()

	cli.Execute()
}
