// Command kb is the PageLens knowledge base CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/pagelens/kb-cli/internal/adapters/driving/cli"
)

// version is injected at build time:
//
//	go build -ldflags "-X main.version=1.2.3" ./cmd/kb
var version = "dev"

func main() {
	// Optional .env for API keys and directory overrides
	_ = godotenv.Load()

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
