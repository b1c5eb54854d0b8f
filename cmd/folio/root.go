package main

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/app"
)

// version is set at build time via ldflags.
var version = ""

func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// NewRootCmd creates the folio command.
func NewRootCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "folio [page.md]",
		Short: "View a portfolio page in the terminal",
		Long: `folio renders a markdown portfolio page in the terminal with section
navigation, scroll-spy highlighting, dialogs and copy-to-clipboard links.

The page is reloaded whenever the file changes on disk.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.PagePath = args[0]
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "override config path (optional)")
	flags.StringVar(&opts.LogPath, "log", "", "write logs to this file (optional)")
	flags.DurationVar(&opts.PollEvery, "poll", 0, "document reload interval (optional, defaults to 2s)")
	flags.BoolVar(&opts.Debug, "debug", false, "log at debug level")

	return cmd
}
