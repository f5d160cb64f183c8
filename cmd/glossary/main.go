package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/glossary"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/notify"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/walker"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/redis"
)

const usageExample = "Example:\tglossary --input_data_path ExampleInput --glossary_path glossary.txt --load_glossary 0 --recursive 1"

type options struct {
	configPath   string
	inputPath    string
	glossaryPath string
	loadGlossary int
	recursive    int
	backend      string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return apperrors.ExitOK
		}
		fmt.Fprintf(stderr, "%v\n", err)
		return apperrors.ExitConfig
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return apperrors.ExitConfig
	}
	applyFlags(cfg, opts, set)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return apperrors.ExitConfig
	}

	logger.SetupWriter(stdout, cfg.Logging.Level, cfg.Logging.Format)
	ctx = logger.WithRunID(ctx, uuid.NewString())
	log := logger.FromContext(ctx)

	if err := extract(ctx, cfg, opts.inputPath); err != nil {
		log.Error("glossary run failed", "error", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}

func parseFlags(args []string, stderr io.Writer) (options, map[string]bool, error) {
	var opts options
	fs := flag.NewFlagSet("glossary", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Basic Glossary Extractor")
		fs.PrintDefaults()
		fmt.Fprintln(stderr, ">>>  "+usageExample)
	}
	fs.StringVar(&opts.configPath, "config", "", "path to an optional YAML config file")
	fs.StringVar(&opts.inputPath, "input_data_path", "", "a path to a directory or a file that contains words to extract")
	fs.StringVar(&opts.glossaryPath, "glossary_path", "", "a path to the glossary that will contain the words")
	fs.IntVar(&opts.loadGlossary, "load_glossary", 0, "1 to merge into the existing glossary, 0 to overwrite it")
	fs.IntVar(&opts.recursive, "recursive", 0, "1 to scan input_data_path directories recursively")
	fs.StringVar(&opts.backend, "backend", "", "glossary backend: file, redis or postgres")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if opts.inputPath == "" {
		return opts, nil, apperrors.New(apperrors.ErrInvalidConfig, apperrors.ExitConfig, "--input_data_path is required")
	}
	if opts.glossaryPath == "" {
		return opts, nil, apperrors.New(apperrors.ErrInvalidConfig, apperrors.ExitConfig, "--glossary_path is required")
	}
	if opts.loadGlossary != 0 && opts.loadGlossary != 1 {
		return opts, nil, apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.ExitConfig, "--load_glossary must be 0 or 1, got %d", opts.loadGlossary)
	}
	if opts.recursive != 0 && opts.recursive != 1 {
		return opts, nil, apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.ExitConfig, "--recursive must be 0 or 1, got %d", opts.recursive)
	}
	return opts, set, nil
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(cfg *config.Config, opts options, set map[string]bool) {
	cfg.Glossary.Path = opts.glossaryPath
	if set["load_glossary"] {
		cfg.Glossary.Load = opts.loadGlossary == 1
	}
	if set["recursive"] {
		cfg.Walker.Recursive = opts.recursive == 1
	}
	if set["backend"] {
		cfg.Glossary.Backend = opts.backend
	}
}

func extract(ctx context.Context, cfg *config.Config, inputPath string) error {
	log := logger.FromContext(ctx)
	log.Info("starting glossary run",
		"input", inputPath,
		"glossary", cfg.Glossary.Path,
		"backend", cfg.Glossary.Backend,
		"load", cfg.Glossary.Load,
		"recursive", cfg.Walker.Recursive,
		"extensions", cfg.Walker.Extensions,
	)

	m := metrics.New()
	if cfg.Metrics.Enabled {
		defer func() {
			if err := m.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
				log.Warn("writing metrics textfile failed", "path", cfg.Metrics.TextfilePath, "error", err)
			}
		}()
	}

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	tok, err := tokenizer.New(cfg.Tokenizer.NormalizeForm)
	if err != nil {
		return apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.ExitConfig, "%v", err)
	}

	store, err := glossary.New(ctx, backend, cfg.Glossary.Load, glossary.WithMetrics(m))
	if err != nil {
		return err
	}

	w := walker.New(store, tok, walker.Options{
		Extensions: cfg.Walker.Extensions,
		Recursive:  cfg.Walker.Recursive,
	}, m)
	if err := w.Walk(ctx, inputPath); err != nil {
		if apperrors.IsFatal(err) {
			return err
		}
		log.Warn("input skipped, dumping glossary anyway", "error", err)
	}
	log.Info("input processed", "stats", w.Stats().String(), "glossary_size", store.Len())

	if err := store.Dump(ctx); err != nil {
		return err
	}

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.GlossaryDumped)
		defer producer.Close()
		notifier := notify.New(producer, cfg.Glossary.Backend)
		if err := notifier.GlossaryDumped(ctx, store.Location(), store.Len()); err != nil {
			log.Warn("continuing without dump notification", "error", err)
		}
	}

	log.Info("glossary run complete", "glossary_size", store.Len())
	return nil
}

// openBackend builds the configured glossary backend and a func releasing
// any client it opened.
func openBackend(ctx context.Context, cfg *config.Config) (glossary.Backend, func(), error) {
	noop := func() {}
	switch cfg.Glossary.Backend {
	case config.BackendFile:
		return glossary.NewFileBackend(cfg.Glossary.Path, cfg.Glossary.LockTimeout), noop, nil
	case config.BackendRedis:
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, apperrors.Newf(apperrors.ErrBackend, apperrors.ExitFatal, "%v", err)
		}
		closer := func() {
			if err := client.Close(); err != nil {
				slog.Warn("closing redis client", "error", err)
			}
		}
		return glossary.NewRedisBackend(client, cfg.Redis.KeyPrefix, cfg.Glossary.Path), closer, nil
	case config.BackendPostgres:
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			return nil, nil, apperrors.Newf(apperrors.ErrBackend, apperrors.ExitFatal, "%v", err)
		}
		closer := func() {
			if err := client.Close(); err != nil {
				slog.Warn("closing postgres client", "error", err)
			}
		}
		backend, err := glossary.NewPostgresBackend(ctx, client, cfg.Glossary.Path)
		if err != nil {
			closer()
			return nil, nil, err
		}
		return backend, closer, nil
	default:
		return nil, nil, apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.ExitConfig, "unknown backend %q", cfg.Glossary.Backend)
	}
}
