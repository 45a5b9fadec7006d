package main

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"wikititle/internal/config"
	"wikititle/internal/legalchars"
	"wikititle/internal/output"
	"wikititle/internal/registry"
	"wikititle/internal/site"
	"wikititle/internal/title"
)

// errInvalidTitles makes the process exit non-zero after every title was
// reported.
var errInvalidTitles = errors.New("some titles are invalid")

// app holds what every subcommand needs once flags and configuration are
// resolved.
type app struct {
	stdout, stderr io.Writer

	cfg        *config.Configuration
	out        *output.Output
	registry   *registry.Registry
	compiler   *legalchars.Compiler
	normalizer *title.Normalizer
}

func (a *app) setup(cmd *cobra.Command, flags *globalFlags) error {
	var err error
	if flags.configPath != "" {
		a.cfg, err = config.Load(flags.configPath)
	} else {
		a.cfg = config.Default()
	}
	if err != nil {
		return err
	}

	if flags.verbose {
		a.cfg.Verbose = true
	}
	if flags.colorMode != "" {
		a.cfg.Color = flags.colorMode
	}
	mode, err := output.ParseColorMode(a.cfg.Color)
	if err != nil {
		return err
	}

	outCfg := output.DefaultConfig()
	outCfg.Writer = a.stdout
	outCfg.ErrWriter = a.stderr
	outCfg.Verbose = a.cfg.Verbose
	outCfg.Color = mode
	a.out = output.New(outCfg)

	profileDir := a.cfg.ProfileDirectoryFrom(flags.configPath)
	if flags.profileDir != "" {
		profileDir = flags.profileDir
	}
	result := config.ValidateEnvironment(a.cfg, profileDir)
	for _, w := range result.Warnings {
		a.out.Warn("%s: %s", w.Field, w.Message)
	}
	if !result.Valid {
		var msgs []string
		for _, e := range result.Errors {
			msgs = append(msgs, e.Field+": "+e.Message)
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	a.registry = registry.New(profileDir)
	a.compiler = legalchars.NewCompiler()
	a.normalizer = title.NewNormalizer(title.WithCompiler(a.compiler))
	a.out.Verbose("using profiles from %s", profileDir)
	return nil
}

// profile loads a site profile, falling back to the configured default
// site when siteID is empty.
func (a *app) profile(ctx context.Context, siteID string) (string, *site.Profile, error) {
	if siteID == "" {
		siteID = a.cfg.DefaultSite
	}
	if siteID == "" {
		return "", nil, errors.New("no site given and no defaultSite configured")
	}
	p, err := a.registry.Get(ctx, siteID)
	return siteID, p, err
}
