package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/valais-ski/fis-inscriptions-api/cmd/app"
)

// @title           FIS Inscriptions API
// @version         1.0
// @description     A REST API for managing FIS competition registrations.
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
