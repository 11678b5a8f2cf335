package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
)

func main() {
	root := &cobra.Command{Use: "helpdeskctl", Short: "Helpdesk operator tooling", SilenceUsage: true}
	root.AddCommand(migrateCommand())
	root.AddCommand(createAdminCommand())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPostgres(cmd.Context(), func(ctx context.Context, pg *persistence.Postgres, logger *zap.Logger) error {
				return persistence.RunMigrations(ctx, pg.PoolHandle(), logger)
			})
		},
	}
}

func createAdminCommand() *cobra.Command {
	var input service.SignUpInput
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an ADMIN account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPostgres(cmd.Context(), func(ctx context.Context, pg *persistence.Postgres, logger *zap.Logger) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				authorizer, err := auth.NewAuthorizer()
				if err != nil {
					return err
				}
				accounts := service.NewAuthService(service.AuthDependencies{
					UserRepo:   repository.NewUserRepository(pg.PoolHandle()),
					Authorizer: authorizer,
					BcryptCost: cfg.Auth.BcryptCost,
					Logger:     logger,
				})
				account, err := accounts.BootstrapAdmin(ctx, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", account.Email, account.ID)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&input.Email, "email", "", "admin email")
	flags.StringVar(&input.Password, "password", "", "admin password")
	flags.StringVar(&input.FullName, "name", "", "full name")
	flags.StringVar(&input.Username, "username", "", "username")
	for _, name := range []string{"email", "password", "name", "username"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func withPostgres(ctx context.Context, fn func(context.Context, *persistence.Postgres, *zap.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()
	if pg.PoolHandle() == nil {
		return errors.New("POSTGRES_DSN is required")
	}
	return fn(ctx, pg, logger)
}
