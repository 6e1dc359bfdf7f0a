package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/mindful-journal/backend/internal/cli"
)

func main() {
	// JOURNAL_DB_PATH may come from the same .env the server uses
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
