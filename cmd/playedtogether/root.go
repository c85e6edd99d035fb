package main

import (
	"fmt"
	"os"
	"strings"

	"played-together/internal/config"
	"played-together/internal/constants"
	"played-together/internal/domain"
	fxmodules "played-together/internal/fx"
	"played-together/internal/output"
	"played-together/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type rootOptions struct {
	region        domain.Region
	defaultRegion domain.Region
	number        int
	verbose       bool
	silent        bool
	json          bool
	concurrency   int
	strict        bool
	self          domain.RiotID
	apiKey        string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	supported := strings.Join(domain.SupportedRegions(), ", ")

	cmd := &cobra.Command{
		Use:   constants.AppName + " [flags] [PLAYER1#TAG] [PLAYER2#TAG]",
		Short: "Check if two Riot IDs played together",
		Long: "playedtogether checks whether two League of Legends players recently played in the same match.\n\n" +
			"PLAYER1 is the Riot ID whose match history is checked, PLAYER2 is searched for in it.\n" +
			"With a single Riot ID the stored 'self' Riot ID is used as PLAYER1.",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.Var(&opts.region, "region", "region to query, overrides --default-region (supported: "+supported+")")
	f.Var(&opts.defaultRegion, "default-region", "region used when --region is not given, EUROPE routing when neither is set")
	f.IntVarP(&opts.number, "number", "n", constants.DefaultMatchCount, fmt.Sprintf("number of most recent games of PLAYER1 to check (1-%d)", constants.MaxMatchCount))
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "show full details for every match played together")
	f.BoolVarP(&opts.silent, "silent", "s", false, "print the summary and the match links only")
	f.BoolVar(&opts.json, "json", false, "print the report as JSON")
	f.IntVar(&opts.concurrency, "concurrency", constants.DefaultConcurrency, fmt.Sprintf("match details fetched in parallel (1-%d)", constants.MaxConcurrency))
	f.BoolVar(&opts.strict, "strict", false, "fail when a shared match is missing participant data instead of skipping it")
	f.Var(&opts.self, "self", "store RIOT_ID as your 'self' Riot ID for later calls")
	f.StringVar(&opts.apiKey, "api-key", "", "store a Riot API key locally")
	cmd.MarkFlagsMutuallyExclusive("verbose", "silent")

	cmd.AddCommand(newServeCmd())
	return cmd
}

func runRoot(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := config.NewSettingsStore(cfg)
	if err != nil {
		return err
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if cmd.Flags().Changed("self") {
		self := opts.self
		settings.Self = &self
		if err := store.Save(settings); err != nil {
			return err
		}
		fmt.Fprintf(out, "Stored '%s' as your self Riot ID.\n", self)
		return nil
	}
	if cmd.Flags().Changed("api-key") {
		settings.APIKey = opts.apiKey
		if err := store.Save(settings); err != nil {
			return err
		}
		fmt.Fprintln(out, "Stored API key locally.")
		return nil
	}

	var player1, player2 domain.RiotID
	switch len(args) {
	case 0:
		return cmd.Help()
	case 1:
		if settings.Self == nil {
			return service.ErrMissingSelf
		}
		player1 = *settings.Self
		if player2, err = domain.ParseRiotID(args[0]); err != nil {
			return err
		}
	default:
		if player1, err = domain.ParseRiotID(args[0]); err != nil {
			return err
		}
		if player2, err = domain.ParseRiotID(args[1]); err != nil {
			return err
		}
	}

	if opts.number < 1 || opts.number > constants.MaxMatchCount {
		return fmt.Errorf("--number must be between 1 and %d, got %d", constants.MaxMatchCount, opts.number)
	}
	if opts.concurrency < 1 || opts.concurrency > constants.MaxConcurrency {
		return fmt.Errorf("--concurrency must be between 1 and %d, got %d", constants.MaxConcurrency, opts.concurrency)
	}

	if err := cfg.ResolveAPIKey(settings); err != nil {
		return err
	}
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		switch {
		case opts.verbose:
			cfg.LogLevel = "debug"
		case opts.silent:
			cfg.LogLevel = "error"
		}
	}

	var engine *service.Engine
	app := fx.New(
		fx.Supply(cfg),
		fxmodules.Module,
		fx.Populate(&engine),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("build app: %w", err)
	}

	report, err := engine.Run(cmd.Context(), service.Query{
		Player1:            player1,
		Player2:            player2,
		Region:             opts.region.Or(opts.defaultRegion),
		Count:              opts.number,
		Concurrency:        opts.concurrency,
		StrictParticipants: opts.strict,
	})
	if err != nil {
		return err
	}

	return output.NewRenderer(out, opts.mode()).Render(report)
}

func (o *rootOptions) mode() output.Mode {
	switch {
	case o.json:
		return output.ModeJSON
	case o.verbose:
		return output.ModeVerbose
	case o.silent:
		return output.ModeSilent
	default:
		return output.ModeDefault
	}
}
