/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mikeb26/pdxsched/internal/httpcache"
	"github.com/mikeb26/pdxsched/notify"
	"github.com/mikeb26/pdxsched/s3cache"
	"github.com/mikeb26/pdxsched/schedule"
	"github.com/spf13/cobra"
)

type scrapeOpts struct {
	baseURL   string
	workers   int
	timeout   time.Duration
	outputDir string
	noNotify  bool
}

func newScrapeCmd(a *app) *cobra.Command {
	opts := &scrapeOpts{}
	cmd := &cobra.Command{
		Use:   "scrape <season> [year]",
		Short: "Download a season's schedules and write the games file",
		Long: fmt.Sprintf(`Download every division schedule for a season and write
pi_games-<season>-<year>.txt. Seasons: %v. Year defaults to the current year.`,
			strings.Join(schedule.SeasonNames, ", ")),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := parseSeasonArgs(args, time.Now())
			if err != nil {
				return err
			}
			return runScrape(cmd, a, opts, season)
		},
	}

	cmd.Flags().StringVar(&opts.baseURL, "base-url", "",
		"schedule base url (default from PDXSCHED_BASE_URL)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0,
		"concurrent fetches (default from PDXSCHED_WORKERS)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0,
		"per schedule fetch timeout (default from PDXSCHED_FETCH_TIMEOUT)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "",
		"directory for the games file (default from PDXSCHED_OUTPUT_DIR)")
	cmd.Flags().BoolVar(&opts.noNotify, "no-notify", false,
		"skip the discord summary")

	return cmd
}

// parseSeasonArgs validates <season> [year] before anything touches the
// network.
func parseSeasonArgs(args []string, now time.Time) (schedule.Season, error) {
	year := now.Year()
	if len(args) > 1 {
		y, err := strconv.Atoi(args[1])
		if err != nil || y < 2000 || y > 9999 {
			return schedule.Season{}, fmt.Errorf("invalid year %q", args[1])
		}
		year = y
	}

	return schedule.NewSeason(args[0], year)
}

func (o *scrapeOpts) apply(cmd *cobra.Command, a *app) {
	if cmd.Flags().Changed("base-url") {
		a.cfg.BaseURL = o.baseURL
	}
	if cmd.Flags().Changed("workers") && o.workers > 0 {
		a.cfg.Workers = o.workers
	}
	if cmd.Flags().Changed("timeout") && o.timeout > 0 {
		a.cfg.FetchTimeout = o.timeout
	}
	if cmd.Flags().Changed("output-dir") {
		a.cfg.OutputDir = o.outputDir
	}
	if o.noNotify {
		a.cfg.DiscordWebhook = ""
	}
}

func runScrape(cmd *cobra.Command, a *app, opts *scrapeOpts,
	season schedule.Season) error {

	ctx := cmd.Context()
	opts.apply(cmd, a)
	cfg, log := a.cfg, a.log.With().Str("season", season.Label()).Logger()

	client := httpcache.NewCachedHttpClient(ctx, httpcache.Options{
		Bucket:  cfg.CacheBucket,
		MaxAge:  cfg.CacheTTL,
		Timeout: cfg.FetchTimeout,
	}, log)

	badLines := schedule.NewBadLineFile(cfg.BadLinesPath)
	sink := schedule.NewGameSink()
	fetcher := schedule.NewFetcher(client, cfg.BaseURL, sink,
		schedule.WithWorkers(cfg.Workers),
		schedule.WithTimeout(cfg.FetchTimeout),
		schedule.WithLogger(log),
		schedule.WithNormalizer(schedule.NewNormalizer(schedule.Latin1Recovery,
			badLines, log)),
	)

	log.Info().Int("workers", cfg.Workers).Str("base_url", cfg.BaseURL).
		Msg("starting harvest")
	stats, err := fetcher.Run(ctx, season)
	if err != nil {
		return fmt.Errorf("harvest of %v interrupted: %w", season.Label(), err)
	}

	path, n, err := sink.FlushToFile(cfg.OutputDir, season.GamesFileName())
	if err != nil {
		return err
	}
	log.Info().Str("file", path).Int("records", n).Msg(stats.String())
	if c := badLines.Count(); c > 0 {
		log.Warn().Int("lines", c).Str("file", cfg.BadLinesPath).
			Msg("undecodable lines saved")
	}

	location := path
	if cfg.ArchiveBucket != "" {
		loc, err := archive(cmd, a, path)
		if err != nil {
			log.Error().Err(err).Msg("unable to archive games file")
		} else {
			location = loc
		}
	}
	if cfg.DiscordWebhook != "" {
		d, err := notify.NewDiscord(cfg.DiscordWebhook, log)
		if err == nil {
			err = d.Notify(ctx, season, stats, location)
		}
		if err != nil {
			log.Error().Err(err).Msg("unable to post summary")
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%v\n", path)

	return nil
}

func archive(cmd *cobra.Command, a *app, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read %v: %w", path, err)
	}
	store := s3cache.New(cmd.Context(), a.cfg.ArchiveBucket, false, a.log)
	if err := store.Init(); err != nil {
		return "", err
	}
	loc, err := store.Archive(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		return "", err
	}
	a.log.Info().Str("location", loc).Msg("archived games file")

	return loc, nil
}
