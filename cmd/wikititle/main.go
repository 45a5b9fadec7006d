// Command wikititle normalizes wiki page titles against site profiles.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	profileDir string
	verbose    bool
	colorMode  string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "wikititle [subcommand]",
		Short: "Normalize wiki page titles",
		Long: `wikititle turns raw page titles into the canonical form a MediaWiki site
stores them under, using a site profile (a saved siteinfo API response) from
the profile directory. Profiles are named <site>.json, e.g.
profiles/en.wikipedia.org.json.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, flags)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "configuration file (JSON, or YAML with a .yaml/.yml extension)")
	pf.StringVar(&flags.profileDir, "profiles", "", "directory holding <site>.json profiles (overrides config)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "print details about rejected titles and reloads")
	pf.StringVar(&flags.colorMode, "color", "", "color output: auto, always or never")

	rootCmd.AddCommand(newNormalizeCmd(a))
	rootCmd.AddCommand(newBatchCmd(a))
	rootCmd.AddCommand(newClassCmd(a))
	rootCmd.AddCommand(newSitesCmd(a))
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if err != errInvalidTitles {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
