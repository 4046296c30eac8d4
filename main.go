package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/kokiebisu/sonus/config"
	"github.com/kokiebisu/sonus/constant"
	"github.com/kokiebisu/sonus/log"
	"github.com/kokiebisu/sonus/progress"
	"github.com/kokiebisu/sonus/youtube"
	"github.com/kokiebisu/sonus/youtube/types"
)

func main() {
	logger := log.NewDefault()

	//nolint:exhaustruct
	app := &cli.Command{
		Name:    "sonus",
		Version: constant.Version,
		Metadata: map[string]any{
			"compiled_at": constant.CompileTime,
		},
		Suggest:                    true,
		Usage:                      "YouTube music and video downloader",
		EnableShellCompletion:      true,
		ShellCompletionCommandName: "shell-completion",
		AllowExtFlags:              false,
		Flags: []cli.Flag{
			//nolint:exhaustruct
			&cli.StringFlag{
				Name:     "config",
				Usage:    "Config file path",
				Required: false,
			},
		},
		Commands: []*cli.Command{
			//nolint:exhaustruct
			{
				Name:      "get",
				Usage:     "Download a song, playlist, artist releases or channel videos",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					//nolint:exhaustruct
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Output mode: music or video",
						Value:   string(types.ModeMusic),
					},
					//nolint:exhaustruct
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory, overrides downloader.output_dir",
					},
					//nolint:exhaustruct
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent playlists when downloading releases, overrides downloader.workers",
					},
				},
				Action: get,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); nil != err {
		if errors.Is(err, context.Canceled) {
			logger.Trace().Msg("Application was canceled")
			os.Exit(1)
		}

		var exitCode exitCodeError
		if errors.As(err, &exitCode) {
			os.Exit(int(exitCode))
		}

		logger.Error().Err(err).Msg("Application exited with error")
		os.Exit(10)
	}
}

type exitCodeError int

func (e exitCodeError) Error() string {
	return "error with exit code: " + strconv.Itoa(int(e))
}

func get(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.NewDefault()

	if cmd.Args().Len() != 1 {
		logger.Error().Int("args", cmd.Args().Len()).Msg("Exactly one URL argument is required")
		return exitCodeError(2)
	}

	mode := types.Mode(cmd.String("mode"))
	if !mode.Valid() {
		logger.Error().Str("mode", string(mode)).Msg("Mode must be 'music' or 'video'")
		return exitCodeError(2)
	}

	if err := godotenv.Load(); nil != err {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env file: %v", err)
		}
		logger.Debug().Msg(".env file was not found")
	} else {
		logger.Debug().Msg(".env file was loaded")
	}

	conf, err := config.Load(cmd.String("config"))
	if nil != err {
		return fmt.Errorf("load config: %v", err)
	}

	overrides := config.Overrides{
		OutputDir: cmd.String("output"),
		Workers:   int(cmd.Int("workers")),
	}
	if err := conf.Apply(overrides); nil != err {
		return fmt.Errorf("apply command line overrides: %v", err)
	}

	logger = log.FromConfig(conf.Log).With().Str("run_id", uuid.NewString()).Logger()

	logger.Debug().Dict("config", conf.ToDict()).Msg("Config loaded")

	link := youtube.ParseLink(cmd.Args().First())
	logger = logger.With().Str("url", link.URL).Str("link_kind", link.Kind.String()).Logger()

	counter := progress.NewCounter(progress.ForOutput(logger, "Downloading"))
	client := youtube.NewClient(conf, counter)

	res, err := client.DownloadLink(ctx, logger, link, mode)
	if nil != err {
		if errors.Is(err, youtube.ErrRootNotFound) {
			logger.Error().Err(err).Msg("Nothing could be extracted from the given URL")
			return exitCodeError(3)
		}

		return fmt.Errorf("download link: %w", err)
	}

	if res.OutputPath == "" {
		logger.Warn().Msg("Nothing was acquired")
	}

	logger.Info().
		Str("output_path", res.OutputPath).
		Int("items", counter.Total()).
		Msg("Download finished")

	if err := json.NewEncoder(os.Stdout).Encode(res); nil != err {
		return fmt.Errorf("write result: %v", err)
	}

	return nil
}
