package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/amityadav/policyfeed/internal/cli"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cli.Execute()
}
