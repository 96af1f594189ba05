package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tatianab/stronghold/internal/persistence"
)

func newSavesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saves",
		Short: "List saved games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			metas, err := a.store.List()
			if err != nil {
				return err
			}
			writeSaves(cmd.OutOrStdout(), metas)
			return nil
		},
	}
}

func writeSaves(w io.Writer, metas []persistence.Meta) {
	if len(metas) == 0 {
		fmt.Fprintln(w, "No saved games.")
		return
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Save", "Kingdom", "Turn", "State", "Saved"}),
	)
	for _, m := range metas {
		state := "ongoing"
		if m.Over {
			state = "fallen"
		}
		table.Append([]string{m.Name, m.Kingdom, strconv.Itoa(m.Turn), state, humanize.Time(m.SavedAt)})
	}
	table.Render()
}
