package cli

import (
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclekit/internal/i18n"
	"github.com/terraincognita07/cyclekit/internal/scheduler"
	"github.com/terraincognita07/cyclekit/internal/services"
)

func newRemindersCommand(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Preview or dispatch reminders",
	}
	cmd.AddCommand(newRemindersPreviewCommand(state), newRemindersDispatchCommand(state))
	return cmd
}

func newRemindersPreviewCommand(state *rootState) *cobra.Command {
	flags := &cycleFlags{}
	var rawNow string
	var language string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the reminders a cycle would produce, without storing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			location := state.cfg.Location()
			now, err := parseNow(rawNow, location)
			if err != nil {
				return err
			}

			manager, err := i18n.NewEmbeddedManager(state.cfg.Language)
			if err != nil {
				return err
			}
			messages := manager.ReminderMessages(manager.NormalizeLanguage(language))

			service := services.NewCycleService(nil, nil, services.WithLocation(location))
			preview, err := service.PreviewCycle(flags.periodDays, flags.cycleLength, now, messages)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), preview)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&rawNow, "now", "", "reference time (RFC 3339 or YYYY-MM-DD HH:MM); defaults to the current time")
	cmd.Flags().StringVar(&language, "lang", "", "reminder language (en or ru); defaults to the configured language")
	return cmd
}

func newRemindersDispatchCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch",
		Short: "Run one sweep over due reminders and mark delivered ones as sent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(state.cfg, state.logger)
			if err != nil {
				return err
			}
			defer rt.Close()

			sweeper := scheduler.New(rt.dispatcher(state.cfg, state.logger), state.cfg.Location(), state.logger)
			report, err := sweeper.RunOnce(cmd.Context())
			if writeErr := writeJSON(cmd.OutOrStdout(), report); writeErr != nil {
				return writeErr
			}
			return err
		},
	}
}
