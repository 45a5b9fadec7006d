package main

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"wikititle/internal/batch"
	"wikititle/internal/namespace"
	"wikititle/internal/registry"
)

// defaultNamespace returns the --namespace flag if given, else the
// configured default.
func (a *app) defaultNamespace(cmd *cobra.Command, flagValue int) namespace.ID {
	if cmd.Flags().Changed("namespace") {
		return namespace.ID(flagValue)
	}
	return namespace.ID(a.cfg.DefaultNamespace)
}

func newNormalizeCmd(a *app) *cobra.Command {
	var ns int
	var withFragment bool

	cmd := &cobra.Command{
		Use:   "normalize <site> <title>...",
		Short: "Print the canonical prefixed key of each title.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			siteID := args[0]
			if _, _, err := a.profile(ctx, siteID); err != nil {
				return err
			}

			runner := batch.NewRunner(a.registry, a.normalizer).WithDefaultNamespace(a.defaultNamespace(cmd, ns))
			summary, err := runner.Titles(ctx, siteID, args[1:], func(res batch.Result) {
				if res.OK() {
					a.out.Title(res.Title, withFragment)
					return
				}
				a.out.Error("%v", res.Err)
			})
			if err != nil {
				return err
			}
			if summary.HasErrors() {
				return errInvalidTitles
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&ns, "namespace", "n", 0, "namespace id for titles without a prefix")
	cmd.Flags().BoolVar(&withFragment, "fragment", false, "print the #fragment after the key")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var ns int
	var watch bool

	cmd := &cobra.Command{
		Use:   "batch <site> [file|-]",
		Short: "Normalize one title per line and summarize the results.",
		Long: `Normalize one title per line read from a file, or from standard input when
the file is "-" or omitted. Each line prints the input, a tab, and either the
canonical key or the error kind. With --watch the site profile is reloaded
whenever its file changes.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			siteID := args[0]
			if _, _, err := a.profile(ctx, siteID); err != nil {
				return err
			}

			if watch || (!cmd.Flags().Changed("watch") && a.cfg.Watch.Enabled) {
				w := registry.NewWatcher(a.registry, &registry.WatchConfig{
					Debounce:       a.cfg.Watch.Debounce(),
					IgnorePatterns: registry.DefaultIgnorePatterns(),
				})
				w.OnReload = func(id string) { a.out.Verbose("profile %s changed, reloading", id) }
				w.OnError = func(err error) { a.out.Warn("watching profiles: %v", err) }
				if err := w.Start(); err != nil {
					return err
				}
				defer func() {
					s := w.Stop()
					a.out.Verbose("watched for %s: %d reloads, %d ignored events", s.Duration.Round(time.Millisecond), s.Reloads, s.Ignored)
				}()
			}

			runner := batch.NewRunner(a.registry, a.normalizer).WithDefaultNamespace(a.defaultNamespace(cmd, ns))

			var summary *batch.Summary
			var err error
			if len(args) < 2 || args[1] == "-" {
				summary, err = runner.Run(ctx, siteID, cmd.InOrStdin(), a.out.Result)
			} else {
				summary, err = a.batchFile(cmd, runner, siteID, args[1])
			}
			if summary != nil {
				a.out.Summary(summary)
			}
			if err != nil {
				return err
			}
			if summary.HasErrors() {
				return errInvalidTitles
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&ns, "namespace", "n", 0, "namespace id for titles without a prefix")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the profile when its file changes")
	return cmd
}

// batchFile reads a whole file first so progress can show a total.
func (a *app) batchFile(cmd *cobra.Command, runner *batch.Runner, siteID, path string) (*batch.Summary, error) {
	titles, err := readLines(path)
	if err != nil {
		return nil, err
	}

	a.out.StartProgress(len(titles))
	defer a.out.EndProgress()
	n := 0
	return runner.Titles(cmd.Context(), siteID, titles, func(res batch.Result) {
		n++
		a.out.Result(res)
		a.out.UpdateProgress(n, "")
	})
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening titles")
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return lines, nil
}

func newClassCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "class [site]",
		Short: "Print the legal title character class of a site.",
		Long: `Print the code-point character class derived from the site's legal title
characters. Without a site the configured defaultSite is used. With --verbose
the raw byte class and the full rejection pattern are printed as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var siteID string
			if len(args) > 0 {
				siteID = args[0]
			}
			siteID, p, err := a.profile(cmd.Context(), siteID)
			if err != nil {
				return err
			}

			a.out.Info("%s", a.compiler.Class(p.LegalTitleChars))
			a.out.Verbose("site:    %s", siteID)
			a.out.Verbose("bytes:   %s", p.LegalTitleChars)
			re, err := a.compiler.InvalidTitle(p.LegalTitleChars)
			if err != nil {
				return err
			}
			a.out.Verbose("pattern: %s", re)
			return nil
		},
	}
}

func newSitesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the sites with a profile.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := a.registry.Sites()
			if err != nil {
				return err
			}
			for _, id := range sites {
				marker := ""
				if id == a.cfg.DefaultSite {
					marker = " (default)"
				}
				a.out.Info("%s%s", id, marker)
			}
			return nil
		},
	}
}
