package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/shalat/internal/http/api/shalat/packets"
	"github.com/Nixie-Tech-LLC/shalat/internal/model"
	"github.com/Nixie-Tech-LLC/shalat/internal/prayer"
)

func newTodayCmd(deps *Deps, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's prayer schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, deps, opts)
		},
	}
}

func runToday(cmd *cobra.Command, deps *Deps, opts *options) error {
	st, err := loadStatus(cmd, deps, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		data, err := json.MarshalIndent(packets.NewPrayerStatusResponse(st.city, st.schedule, st.cursor, st.now), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	printToday(out, st)
	return nil
}

func printToday(out io.Writer, st *status) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Jadwal Shalat %s\n", st.city.Name)
	if d := st.schedule.Date; d.Readable != "" {
		fmt.Fprintf(out, "  %s\n", d.Readable)
	}
	if h := st.schedule.Date.Hijri.Format(); h != "" {
		fmt.Fprintf(out, "  %s\n", h)
	}
	fmt.Fprintln(out)

	for _, p := range model.Prayers {
		line := fmt.Sprintf("  %-8s %s", p.LocalName(), st.schedule.At(p))
		switch {
		case p == st.cursor.Next && !st.cursor.NextIsTomorrow:
			line += fmt.Sprintf("  <- %s lagi", prayer.FormatRemainingLocal(st.cursor.Remaining))
		case p == st.cursor.Current && !st.cursor.CurrentIsYesterday:
			line += "  (sekarang)"
		}
		fmt.Fprintln(out, line)
	}

	if st.cursor.NextIsTomorrow {
		fmt.Fprintf(out, "\n  %s besok %s, %s lagi\n",
			st.cursor.Next.LocalName(), st.cursor.NextTime, prayer.FormatRemainingLocal(st.cursor.Remaining))
	}
	fmt.Fprintln(out)
}
