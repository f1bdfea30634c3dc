package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclekit/internal/models"
	"github.com/terraincognita07/cyclekit/internal/services"
)

type cycleFlags struct {
	periodDays  []string
	cycleLength int
}

func (flags *cycleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&flags.periodDays, "period-day", nil, "period day as YYYY-MM-DD (repeatable or comma separated)")
	cmd.Flags().IntVar(&flags.cycleLength, "cycle-length", models.DefaultCycleLength, "cycle length in days")
}

func newEventsCommand(state *rootState) *cobra.Command {
	flags := &cycleFlags{}
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the computed cycle timeline for the given period days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.cycleLength != 0 && !services.IsValidCycleLength(flags.cycleLength) {
				return fmt.Errorf("%w: %d", services.ErrCycleLengthOutOfRange, flags.cycleLength)
			}
			days, err := services.NormalizePeriodDays(flags.periodDays, state.cfg.Location())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), services.ComputeCycleEvents(days, flags.cycleLength))
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("period-day")
	return cmd
}

// parseNow accepts RFC 3339 or "YYYY-MM-DD HH:MM" in location. Empty means
// the current time.
func parseNow(raw string, location *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().In(location), nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.In(location), nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, raw, location); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --now %q: expected RFC 3339 or YYYY-MM-DD HH:MM", raw)
}
