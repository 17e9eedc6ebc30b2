package main

import (
	"os"
)

// @title Journal Engine API
// @version 1.0
// @description Double-entry journal posting engine: drafts, posting, reversal, ledger and recurring entries.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
