package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aucontraire/chronovista-sub003/config"
	"github.com/aucontraire/chronovista-sub003/runner"
	"github.com/aucontraire/chronovista-sub003/wayback"
)

var (
	cfgPath string
	verbose bool
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	root := &cobra.Command{
		Use:   "chronovista",
		Short: "Recover YouTube video and channel metadata from web-archive snapshots",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	recoverCmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover metadata for removed videos or channels",
	}
	recoverCmd.AddCommand(recoverVideoCmd(), recoverChannelCmd(), recoverBatchCmd())

	root.AddCommand(recoverCmd, snapshotsCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// buildPipeline wires the shared rate limiter, the CDX client, the page
// parser, and the batch runner from configuration.
func buildPipeline() (*runner.Runner, *wayback.CDXClient, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	limiter, err := wayback.NewTokenBucket(cfg.RatePerSecond, cfg.Burst)
	if err != nil {
		return nil, nil, err
	}

	fetcher, err := wayback.NewHTTPFetcher(limiter,
		wayback.WithUserAgent(cfg.UserAgent),
		wayback.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, nil, err
	}

	parser, err := wayback.NewPageParser(fetcher)
	if err != nil {
		return nil, nil, err
	}

	cdx, err := wayback.NewCDXClient(limiter,
		wayback.WithMaxSnapshots(cfg.MaxSnapshots),
		wayback.WithCDXUserAgent(cfg.UserAgent),
	)
	if err != nil {
		return nil, nil, err
	}

	run, err := runner.New(cdx, parser, runner.WithConcurrency(cfg.Concurrency))
	if err != nil {
		return nil, nil, err
	}
	return run, cdx, nil
}

func recoverVideoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "video <video-id> [video-id...]",
		Short: "Recover metadata for one or more videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, _, err := buildPipeline()
			if err != nil {
				return err
			}

			report, err := run.RecoverVideos(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
}

func recoverChannelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channel <channel-id>",
		Short: "Recover metadata for a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, _, err := buildPipeline()
			if err != nil {
				return err
			}

			data, err := run.RecoverChannel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !data.HasData() {
				log.Warn().Str("channel_id", args[0]).Msg("No snapshot yielded channel metadata")
			}
			return printJSON(data)
		},
	}
}

func recoverBatchCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Recover metadata for every video in a seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := runner.LoadSeedList(seedPath)
			if err != nil {
				return err
			}

			run, _, err := buildPipeline()
			if err != nil {
				return err
			}

			if len(seeds.VideoIDs) > 0 {
				report, err := run.RecoverVideos(cmd.Context(), seeds.VideoIDs)
				if err != nil {
					return err
				}
				if err := printJSON(report); err != nil {
					return err
				}
			}

			for _, channelID := range seeds.ChannelIDs {
				data, err := run.RecoverChannel(cmd.Context(), channelID)
				if err != nil {
					log.Warn().Err(err).Str("channel_id", channelID).Msg("Channel recovery failed")
					continue
				}
				if err := printJSON(data); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seedPath, "seeds", "", "Path to YAML seed file")
	_ = cmd.MarkFlagRequired("seeds")
	return cmd
}

func snapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots <video-id>",
		Short: "List archived captures of a video's watch page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cdx, err := buildPipeline()
			if err != nil {
				return err
			}

			snapshots, err := cdx.VideoSnapshots(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, s := range snapshots {
				fmt.Printf("%s\t%s\n", s.Timestamp, s.WaybackURL)
			}
			return nil
		},
	}
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
