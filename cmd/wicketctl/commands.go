package main

import (
	"fmt"
	"time"

	"github.com/dimitrije/wicket-api/internal/notify"
	"github.com/dimitrije/wicket-api/internal/rollover"
	"github.com/dimitrije/wicket-api/internal/services"
	"github.com/spf13/cobra"
)

func rolloverCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Clone every ground's week into the following week",
		Long: `Runs the weekly rollover once. The source week is the week containing
--at (default: now) in the schedule timezone. Grounds whose next week already
exists are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			now := time.Now()
			if at != "" {
				now, err = time.ParseInLocation(time.DateOnly, at, cfg.ScheduleTimezone)
				if err != nil {
					return fmt.Errorf("--at must be a date in YYYY-MM-DD form: %w", err)
				}
			}

			var alerter rollover.Alerter
			if slack := notify.NewSlackAlerter(cfg.Slack.Token, cfg.Slack.OpsChannelID); slack.IsConfigured() {
				alerter = slack
			}

			job := rollover.New(
				services.NewGroundService(db),
				services.NewScheduleService(db, cfg.ScheduleTimezone, nil),
				alerter,
				nil,
				cfg.ScheduleTimezone,
			)

			report, err := job.RunOnce(ctx, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rolled %s into %s: %d cloned, %d skipped, %d failed (%s)\n",
				report.SourceWeek.Format(time.DateOnly), report.TargetWeek.Format(time.DateOnly),
				report.Cloned, report.Skipped, report.Failed(), report.Duration.Round(time.Millisecond))
			for _, f := range report.Failures {
				fmt.Fprintf(out, "  %s (%s): %v\n", f.Name, f.GroundID, f.Err)
			}
			if report.Failed() > 0 {
				return fmt.Errorf("%d grounds failed to roll over", report.Failed())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Any date in the source week (YYYY-MM-DD)")
	return cmd
}

func promoteAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Grant a user the super admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := services.NewUserService(db).PromoteToSuperAdmin(ctx, args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully promoted %s to super admin\n", args[0])
			return nil
		},
	}
}

func issueTokenCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "issue-token <email>",
		Short: "Create the user if needed and print a fresh token pair",
		Long: `Issues an access and refresh token for the user with the given email,
registering the user first when there is none. The refresh token is stored so
it can be rotated through POST /api/v1/auth/refresh.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := services.NewUserService(db).FindOrCreateByEmail(ctx, args[0], name)
			if err != nil {
				return err
			}

			jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
			pair, err := jwtService.GenerateTokenPair(user)
			if err != nil {
				return err
			}

			expiresAt := time.Now().Add(jwtService.RefreshExpiry())
			if err := services.NewTokenService(db).StoreRefreshToken(ctx, user.ID, services.HashToken(pair.RefreshToken), expiresAt); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user_id:       %s\n", user.ID)
			fmt.Fprintf(out, "access_token:  %s\n", pair.AccessToken)
			fmt.Fprintf(out, "refresh_token: %s\n", pair.RefreshToken)
			fmt.Fprintf(out, "expires_in:    %d\n", pair.ExpiresIn)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for a newly created user")
	return cmd
}
