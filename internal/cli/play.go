package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tatianab/stronghold/internal/tui"
)

func addPlayFlags(f *pflag.FlagSet) {
	f.Bool("load", false, "resume the named save instead of founding a new kingdom")
	f.String("save", tui.DefaultSave, "save slot for autosaves")
}

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an interactive game",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
	addPlayFlags(cmd.Flags())
	return cmd
}

func runPlay(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	load, _ := cmd.Flags().GetBool("load")
	save, _ := cmd.Flags().GetString("save")
	a.log.Info("game starting", zap.String("save", save), zap.Bool("load", load), zap.Bool("narration", a.cfg.HasGemini()))

	return tui.Run(a.engine(cmd.Context()), a.store, a.log, tui.Options{
		SaveName:    save,
		Load:        load,
		DefaultName: a.cfg.KingdomName,
		MapSize:     a.cfg.MapSize,
	})
}
