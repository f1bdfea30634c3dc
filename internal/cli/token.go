package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclekit/internal/api"
	"github.com/terraincognita07/cyclekit/internal/security"
)

var errAuthDisabled = errors.New("CYCLEKIT_AUTH_SECRET is not set; tokens cannot be signed")

func newTokenCommand(state *rootState) *cobra.Command {
	var customerID string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token scoped to one customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !state.cfg.AuthEnabled() {
				return errAuthDisabled
			}
			customerID = strings.TrimSpace(customerID)
			if customerID == "" {
				return errors.New("--customer is required")
			}
			token, err := api.IssueToken([]byte(state.cfg.Auth.Secret), customerID, ttl, time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&customerID, "customer", "", "customer id written to the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return cmd
}

func newSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Generate a random value for CYCLEKIT_AUTH_SECRET",
		Args:  cobra.NoArgs,
		// Generating a secret must work before any config exists.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := security.NewSecretKey()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
			return err
		},
	}
}
