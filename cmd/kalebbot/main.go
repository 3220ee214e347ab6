package main

import (
	"github.com/joho/godotenv"

	"kalebbot/internal/cli"
)

func main() {
	// Missing .env is fine; the defaults and real environment apply.
	_ = godotenv.Load()

	cli.Execute()
}
