package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ashureev/profnet/internal/config"
	"github.com/ashureev/profnet/internal/domain"
	"github.com/ashureev/profnet/internal/session"
	"github.com/ashureev/profnet/internal/store"
	"github.com/spf13/cobra"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect the durable user directory",
	}
	cmd.AddCommand(usersListCmd(), usersSeedCmd())
	return cmd
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every registered account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessions(cmd.Context(), func(ctx context.Context, s *session.Service) error {
				users, err := s.Directory(ctx)
				if err != nil {
					return err
				}
				printUsers(cmd.OutOrStdout(), users)
				return nil
			})
		},
	}
}

func usersSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Restore the session and seed the demo account if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessions(cmd.Context(), func(ctx context.Context, s *session.Service) error {
				if err := s.Bootstrap(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Directory ready; demo account is %s\n", session.DemoEmail)
				return nil
			})
		},
	}
}

func withSessions(ctx context.Context, fn func(context.Context, *session.Service) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	kv, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer kv.Close()

	s := session.New(kv)
	defer s.Close()
	return fn(ctx, s)
}

func printUsers(out io.Writer, users []domain.Identity) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tHEADLINE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.FullName(), u.Headline)
	}
	_ = tw.Flush()
}
