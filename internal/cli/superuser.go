package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"inno-quiz-service/internal/app"
	"inno-quiz-service/internal/config"
)

// NewCreateSuperuserCmd registers an administrator account.
func NewCreateSuperuserCmd(configPath *string) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured; superusers of the in-memory store vanish on exit")
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			st, err := openStores(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.close()

			users := app.NewUserService(st.users, newPasswordHasher(cfg), newTokenIssuer(cfg))
			user, err := users.CreateSuperuser(ctx, username, email, password)
			if err != nil {
				color.Red("create superuser: %v", err)
				return err
			}
			color.Green("superuser %s created with id %d", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "superuser username")
	cmd.Flags().StringVar(&email, "email", "", "superuser email")
	cmd.Flags().StringVar(&password, "password", "", "superuser password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
