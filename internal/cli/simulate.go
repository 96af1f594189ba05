package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tatianab/stronghold/internal/chronicle"
	"github.com/tatianab/stronghold/internal/engine"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Let the court run the kingdom for a number of turns",
		Long: `Simulate plays a headless game: every kingdom, yours included, is run by
the rival logic. The final standings and the chronicle are printed as tables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			turns, _ := cmd.Flags().GetInt("turns")
			save, _ := cmd.Flags().GetString("save")
			eng := a.engine(cmd.Context())
			s, err := engine.NewSession(engine.Options{KingdomName: a.cfg.KingdomName, MapSize: a.cfg.MapSize}, eng.Rand())
			if err != nil {
				return err
			}
			if err := simulate(cmd.Context(), cmd.OutOrStdout(), eng, s, turns, a.chronicle); err != nil {
				return err
			}
			if save != "" {
				if err := a.store.Save(save, s); err != nil {
					return err
				}
				a.log.Info("simulation saved", zap.String("save", save))
			}
			return nil
		},
	}
	cmd.Flags().Int("turns", 20, "number of turns to play")
	cmd.Flags().String("save", "", "save the finished game under this name")
	return cmd
}

// simulate plays turns headless turns and prints the standings. counts may
// be nil.
func simulate(ctx context.Context, w io.Writer, eng *engine.Engine, s *engine.Session, turns int, counts *chronicle.Store) error {
	title := color.New(color.FgCyan, color.Bold)
	turnColor := color.New(color.FgYellow)

	title.Fprintf(w, "Simulating %d turns for %s\n\n", turns, s.Human().Name)
	for i := 0; i < turns && !s.Over; i++ {
		if _, err := eng.AutoPlay(ctx, s); err != nil {
			return err
		}
		out, err := eng.ProcessTurn(ctx, s, "end")
		if err != nil {
			return fmt.Errorf("turn %d: %w", s.Turn, err)
		}
		turnColor.Fprintln(w, out)
		fmt.Fprintln(w)
	}
	if s.Over {
		color.New(color.FgRed, color.Bold).Fprintf(w, "%s fell on turn %d.\n\n", s.Human().Name, s.Turn)
	}

	title.Fprintln(w, "Standings")
	writeStandings(w, s)

	if counts == nil {
		return nil
	}
	byKind, err := counts.Counts(ctx, s.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	title.Fprintln(w, "Chronicle")
	writeCounts(w, byKind)
	return nil
}

func writeStandings(w io.Writer, s *engine.Session) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Kingdom", "Population", "Happiness", "Gold", "Food", "Attack", "Defense", "Buildings", "Territory"}),
	)
	for _, k := range s.Kingdoms {
		table.Append([]string{
			k.Name,
			humanize.Comma(int64(k.Population)),
			strconv.Itoa(k.Happiness),
			humanize.Comma(int64(k.Resources.Gold)),
			humanize.Comma(int64(k.Resources.Food)),
			strconv.Itoa(k.Military.AttackPower()),
			strconv.Itoa(k.Military.DefensePower()),
			strconv.Itoa(len(k.Buildings)),
			strconv.Itoa(s.Grid.ControlledCells(k.Name, 50)),
		})
	}
	table.Render()
}

func writeCounts(w io.Writer, byKind map[string]int) {
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	table := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Kind", "Events"}))
	for _, k := range kinds {
		table.Append([]string{k, strconv.Itoa(byKind[k])})
	}
	table.Render()
}
