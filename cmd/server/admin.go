package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/database"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.DatabaseDSN, log)
			if err != nil {
				return err
			}
			return database.Migrate(db, log)
		},
	}
}

// tokenCmd signs a bearer token with the configured secret, standing in for
// the identity provider during development.
func tokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := models.Role(role)
			if !r.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			token, err := auth.GenerateToken(cfg.JWTSecret, auth.Session{UserID: userID, Role: r, Name: name}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "dev-user", "Subject (user id)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "Role: admin, warehouse, transport or engineer")
	cmd.Flags().StringVar(&name, "name", "Developer", "Display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	return cmd
}
