package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/go-todo-api/internal/config"
	"github.com/redmonkez12/go-todo-api/internal/database"
	"github.com/redmonkez12/go-todo-api/internal/user"
)

func newUsersCmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Administer user accounts",
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every user account (test and admin use)",
		RunE:  runUsersPurge,
	}
	purgeCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	usersCmd.AddCommand(purgeCmd)
	return usersCmd
}

func runUsersPurge(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	out := cmd.OutOrStdout()

	if !yes {
		fmt.Fprint(out, "This deletes ALL user accounts. Continue? [y/N] ")
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("users purge needs DB_DRIVER=%s, got %s", config.DriverPostgres, cfg.Database.Driver)
	}

	db, err := database.Open(cmd.Context(), cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := user.NewRepository(db).DeleteAll(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d users.\n", n)
	return nil
}
