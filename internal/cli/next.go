package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/shalat/internal/http/api/shalat/packets"
)

func newNextCmd(deps *Deps, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNext(cmd, deps, opts)
		},
	}
}

func runNext(cmd *cobra.Command, deps *Deps, opts *options) error {
	st, err := loadStatus(cmd, deps, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		data, err := json.MarshalIndent(packets.NewCursorResponse(st.cursor), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	when := ""
	if st.cursor.NextIsTomorrow {
		when = " besok"
	}
	fmt.Fprintf(out, "%s %s%s (%s)\n",
		st.cursor.Next.LocalName(), st.cursor.NextTime, when, st.cursor.RemainingLabel)
	return nil
}
