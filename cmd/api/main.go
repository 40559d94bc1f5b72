package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/redmonkez12/go-todo-api/docs" // Swagger docs (generated)
)

// @title           Todo API
// @version         1.0
// @description     Todo list CRUD with user registration, sign-in and bearer tokens.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	rootCmd := &cobra.Command{
		Use:          "api",
		Short:        "Todo API server",
		Long:         "REST API for a shared todo list with user registration and token auth.",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}

	rootCmd.AddCommand(serveCmd, newMigrateCmd(), newUsersCmd())

	// no subcommand starts the server
	rootCmd.RunE = serveCmd.RunE

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
