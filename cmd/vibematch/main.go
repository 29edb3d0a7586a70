// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/poiesic/vibematch"
	"github.com/poiesic/vibematch/config"
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/corpus"
	"github.com/poiesic/vibematch/eval"
	"github.com/poiesic/vibematch/reembed"
	"github.com/poiesic/vibematch/search"
	"github.com/poiesic/vibematch/vocab"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func venuesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "venues",
		Aliases: []string{"v"},
		Usage:   "Path to the venue curation CSV (defaults to paths.venues)",
	}
}

func strategyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "strategy",
		Aliases: []string{"s"},
		Usage:   "Text strategy: keywords, expanded, ai_desc or hybrid (defaults to text_strategy)",
	}
}

func corpusFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "corpus",
		Aliases: []string{"o"},
		Usage:   "Path to the corpus JSON file (defaults to paths.corpus)",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vibematch",
		Usage: "Match venues to moods with tag and venue embeddings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   "vibematch.yaml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file with provider credentials",
				Value: ".env",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "tags",
				Usage:  "List the tag vocabulary",
				Action: tagsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Only list tags of this category",
					},
				},
			},
			{
				Name:   "embed",
				Usage:  "Embed tags and venues and write the corpus; interrupted runs resume",
				Action: embedCommand,
				Flags: []cli.Flag{
					venuesFlag(),
					corpusFlag(),
					strategyFlag(),
					&cli.BoolFlag{
						Name:  "fresh",
						Usage: "Discard stored vectors and checkpoints before embedding",
					},
					&cli.BoolFlag{
						Name:  "refresh-cache",
						Usage: "Ignore cached embeddings and overwrite them with fresh ones",
					},
					&cli.BoolFlag{
						Name:  "no-dedup",
						Usage: "Skip merging venues with the same normalized name",
					},
				},
			},
			{
				Name:      "match",
				Usage:     "Rank corpus venues for a set of tags",
				ArgsUsage: "TAG [TAG...]",
				Action:    matchCommand,
				Flags: []cli.Flag{
					corpusFlag(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"k"},
						Usage:   "Number of venues to show",
						Value:   10,
					},
				},
			},
			{
				Name:   "evaluate",
				Usage:  "Compare text strategies against ground-truth cases",
				Action: evaluateCommand,
				Flags: []cli.Flag{
					venuesFlag(),
					&cli.StringFlag{
						Name:     "cases",
						Usage:    "Path to the YAML evaluation cases",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "k",
						Usage: "Precision cut-off",
						Value: eval.DefaultK,
					},
				},
			},
			{
				Name:   "dedup",
				Usage:  "Report duplicate and near-duplicate venues in the curation CSV",
				Action: dedupCommand,
				Flags: []cli.Flag{
					venuesFlag(),
					&cli.Float64Flag{
						Name:  "name-threshold",
						Usage: "Jaro-Winkler similarity that flags two names for review",
						Value: corpus.DefaultDedupPolicy().NameThreshold,
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Write the merged venues to this CSV",
					},
				},
			},
			{
				Name:   "describe",
				Usage:  "Write AI vibe descriptions for venues that lack one",
				Action: describeCommand,
				Flags: []cli.Flag{
					venuesFlag(),
					&cli.StringFlag{
						Name:  "out",
						Usage: "Write the described venues to this CSV (defaults to the input)",
					},
				},
			},
			{
				Name:   "draft-tags",
				Usage:  "Ask the describer for new tag descriptions and write them as a vocabulary file",
				Action: draftTagsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Usage:    "Path of the YAML vocabulary to write",
						Required: true,
					},
				},
			},
			{
				Name:   "purge-cache",
				Usage:  "Drop every cached embedding from the state store",
				Action: purgeCacheCommand,
			},
		},
	}
}

func setup(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}
	return config.LoadEnv(c.String("env-file"))
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("venues") {
		cfg.Paths.Venues = c.String("venues")
	}
	if c.IsSet("corpus") {
		cfg.Paths.Corpus = c.String("corpus")
	}
	if c.IsSet("strategy") {
		cfg.TextStrategy = c.String("strategy")
	}
	return cfg, cfg.Validate()
}

func openEngine(cfg *config.AppConfig, opts ...vibematch.EngineOption) (*vibematch.Engine, error) {
	opts = append(opts, vibematch.WithProgress(os.Stderr), vibematch.WithLogger(slog.Default()))
	return vibematch.NewEngineFromConfig(cfg, opts...)
}

// interruptible returns a context cancelled on SIGINT or SIGTERM so
// embedding jobs can checkpoint before exiting.
func interruptible(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func loadVenues(path string) ([]*core.Venue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open venues: %w", err)
	}
	defer f.Close()
	venues, err := corpus.LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(venues) == 0 {
		return nil, fmt.Errorf("%s: no venues", path)
	}
	return venues, nil
}

func writeVenues(path string, venues []*core.Venue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := corpus.WriteCSV(f, venues); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func tagsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	v := vocab.Default()
	if cfg.Paths.Vocabulary != "" {
		if v, err = vocab.LoadFile(cfg.Paths.Vocabulary); err != nil {
			return err
		}
	}
	return printTags(c.App.Writer, v, c.String("category"))
}

func printTags(w io.Writer, v *vocab.Vocabulary, category string) error {
	current := ""
	for _, e := range v.Entries() {
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		if e.Category != current {
			current = e.Category
			fmt.Fprintf(w, "\n%s\n", current)
		}
		fmt.Fprintf(w, "  %-16s %s\n", e.Label, e.Description)
	}
	return nil
}

func embedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	venues, err := loadVenues(cfg.Paths.Venues)
	if err != nil {
		return err
	}
	if !c.Bool("no-dedup") {
		var decisions []corpus.Decision
		venues, decisions = corpus.Deduplicate(venues, corpus.DefaultDedupPolicy())
		logDecisions(decisions)
	}

	var opts []vibematch.EngineOption
	if c.Bool("refresh-cache") {
		opts = append(opts, vibematch.WithCacheRefresh())
	}
	if counter, err := reembed.NewTokenCounter(cfg.AI.EmbeddingModel); err != nil {
		slog.Debug("tiktoken unavailable, estimating tokens from word counts", "err", err)
	} else {
		opts = append(opts, vibematch.WithTokenCounter(counter))
	}
	engine, err := openEngine(cfg, opts...)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := interruptible(c)
	defer stop()

	if c.Bool("fresh") {
		if err := engine.Reset(ctx, cfg.TextStrategy); err != nil {
			return err
		}
	}

	built, report, err := engine.BuildCorpus(ctx, venues, cfg.TextStrategy)
	if errors.Is(err, context.Canceled) {
		slog.Warn("embedding interrupted; rerun to resume")
		return err
	}
	if err != nil {
		return err
	}
	for _, ex := range report.Exclusions {
		slog.Warn("venue excluded", "venue", ex.Name, "reason", ex.Reason)
	}

	if err := corpus.Save(built, cfg.Paths.Corpus); err != nil {
		return err
	}
	hits, misses := engine.CacheStats()
	fmt.Fprintf(c.App.Writer, "Wrote %s: %d venues, %d tags, %s strategy (%d excluded, cache %d/%d)\n",
		cfg.Paths.Corpus, built.Len(), len(built.Tags()), built.Meta().TextStrategy,
		len(report.Exclusions), hits, hits+misses)
	return nil
}

func matchCommand(c *cli.Context) error {
	labels := search.ParseLabels(strings.Join(c.Args().Slice(), " "))
	if len(labels) == 0 {
		return fmt.Errorf("at least one tag is required: %w", core.ErrEmptyQuery)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	loaded, err := corpus.Load(cfg.Paths.Corpus)
	if err != nil {
		return err
	}
	searcher, err := search.NewSearcher(search.WithCorpus(loaded))
	if err != nil {
		return err
	}

	results, err := searcher.Match(c.Context, labels, c.Int("limit"))
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(c.App.Writer, "%3d. %-36s %5.1f%%  (raw %.3f)\n", r.Rank, r.Venue.Name, r.Display*100, r.Raw)
	}
	return nil
}

func evaluateCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cases, err := eval.LoadCases(c.String("cases"))
	if err != nil {
		return err
	}
	venues, err := loadVenues(cfg.Paths.Venues)
	if err != nil {
		return err
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := interruptible(c)
	defer stop()

	report, err := engine.Evaluate(ctx, venues, cases, c.Int("k"))
	if err != nil {
		return err
	}
	return report.Render(c.App.Writer)
}

func dedupCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	venues, err := loadVenues(cfg.Paths.Venues)
	if err != nil {
		return err
	}

	policy := corpus.DefaultDedupPolicy()
	policy.NameThreshold = c.Float64("name-threshold")
	kept, decisions := corpus.Deduplicate(venues, policy)

	for _, d := range decisions {
		fmt.Fprintf(c.App.Writer, "%-6s %-20s %.3f  %q / %q\n", d.Action, d.Reason, d.Similarity, d.Kept, d.Other)
	}
	fmt.Fprintf(c.App.Writer, "%d venues, %d after merging, %d decisions\n", len(venues), len(kept), len(decisions))

	if out := c.String("out"); out != "" {
		return writeVenues(out, kept)
	}
	return nil
}

func describeCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	venues, err := loadVenues(cfg.Paths.Venues)
	if err != nil {
		return err
	}

	engine, err := openEngine(cfg, vibematch.WithoutCache())
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := interruptible(c)
	defer stop()

	summary, err := engine.Describe(ctx, venues)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = cfg.Paths.Venues
	}
	if werr := writeVenues(out, venues); werr != nil {
		return werr
	}
	fmt.Fprintf(c.App.Writer, "Described %d venues (%d already had one, %d failed) -> %s\n",
		summary.Described, summary.Skipped, len(summary.Failed), out)
	return err
}

func draftTagsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(cfg, vibematch.WithoutCache())
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := interruptible(c)
	defer stop()

	drafted, summary, err := engine.DraftVocabulary(ctx)
	if err != nil {
		return err
	}
	out := c.String("out")
	if err := drafted.SaveFile(out); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Drafted %d tag descriptions (%d failed) -> %s\n",
		summary.Described, len(summary.Failed), out)
	return nil
}

func purgeCacheCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	purged, err := engine.PurgeCache(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Purged %d cached embeddings from %s\n", purged, cfg.Paths.Data)
	return nil
}

func logDecisions(decisions []corpus.Decision) {
	for _, d := range decisions {
		switch d.Action {
		case corpus.ActionMerge:
			slog.Info("merged duplicate venue", "kept", d.Kept, "dropped", d.Other, "reason", d.Reason)
		default:
			slog.Warn("possible duplicate venue", "a", d.Kept, "b", d.Other, "reason", d.Reason, "similarity", d.Similarity)
		}
	}
}
