package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibe-dj/internal/config"
	"vibe-dj/internal/output"
	"vibe-dj/internal/storage"
)

var Version = "1.0.0"

// commandNames are the subcommands handled by the cobra tree. Anything else
// falls through to the theme-resolving entry point.
var commandNames = map[string]bool{
	"history": true,
	"version": true,
	"help":    true,
}

// ShouldHandle reports whether the first positional argument names a
// subcommand rather than a free-text theme.
func ShouldHandle(args []string) bool {
	for _, arg := range args {
		if len(arg) > 0 && arg[0] == '-' {
			continue
		}
		return commandNames[arg]
	}
	return false
}

func ExecuteArgs(args []string) error {
	root := newRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func newRootCommand() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "vibedj",
		Short:         "Theme-driven music queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				enableDebugLogging()
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	root.AddCommand(newHistoryCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
			return nil
		},
	}
}

func newHistoryCommand() *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently resolved themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.OpenHistory(config.Dir())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}

			out := output.New(output.Options{JSON: asJSON})
			if asJSON {
				return out.EmitJSON(map[string]any{"entries": entries})
			}
			if len(entries) == 0 {
				out.Print("No history yet.")
				return nil
			}
			for _, entry := range entries {
				out.Print(out.Bold(entry.Theme) + out.Gray(fmt.Sprintf("  (%d songs, %s)",
					len(entry.Songs), entry.ResolvedAt.Local().Format("2006-01-02 15:04"))))
				for _, song := range entry.Songs {
					out.Print("  - " + song.Title + " by " + song.Artist)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of entries to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output machine-readable JSON")
	return cmd
}
