package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"dot5/internal/api"
	"dot5/internal/candidate"
	"dot5/internal/checker"
	"dot5/internal/config"
	"dot5/internal/loader"
	"dot5/internal/logging"
	"dot5/internal/model"
	"dot5/internal/probe"
	"dot5/internal/report"
	"dot5/internal/scrape"
)

// setup loads the config and builds the logger shared by every command.
func setup(path string, verbose int) (*config.Config, *logrus.Logger, error) {
	cfg, created, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Log.Level
	if verbose > 0 {
		level = logging.Verbosity(verbose)
	}
	logger, err := logging.New(level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	if created {
		logger.Infof("config %s not found, wrote defaults", path)
	}
	return cfg, logger, nil
}

func newChecker(cfg *config.Config, logger *logrus.Logger) *checker.Checker {
	var rng *rand.Rand
	if cfg.Check.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Check.Seed, cfg.Check.Seed))
	}
	exec := probe.NewExecutor(probe.Options{
		UserAgent:       cfg.Check.UserAgent,
		RandomUserAgent: cfg.Check.RandomUserAgent,
		Fingerprint:     cfg.Check.TLSFingerprint,
		Logger:          logger,
	})
	return checker.New(checker.Config{
		Executor:      exec,
		Sources:       checker.NewSourcePicker(cfg.Check.FakeSources, rng),
		Scheme:        cfg.Check.ProxyScheme,
		RatePerSecond: cfg.Check.RatePerSecond,
		Logger:        logger,
		Defaults: checker.Options{
			TargetURLs: cfg.Check.TargetURLs,
			Timeout:    cfg.Check.Timeout(),
			MaxWorkers: cfg.Check.MaxWorkers,
			TryPorts:   cfg.Check.TryPorts,
		},
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var (
		cfgPath  = fs.String("config", config.DefaultPath, "config file")
		in       = fs.String("in", "", "input file, one proxy per line (- for stdin)")
		source   = fs.String("source", "", "public proxy list URL to check instead of -in")
		targets  = fs.String("targets", "", "comma separated target URLs (overrides config)")
		timeout  = fs.Float64("timeout", 0, "per request timeout in seconds (0 = config)")
		workers  = fs.Int("workers", 0, "parallel candidates (0 = config)")
		ports    = fs.String("ports", "", "comma separated default ports (overrides config)")
		csvPath  = fs.String("csv", "", "also write results to this CSV file")
		asJSON   = fs.Bool("json", false, "print results as JSON instead of a table")
		onlyReal = fs.Bool("real", false, "only print real proxies")
		verbose  = fs.Int("v", 0, "verbosity: 1 debug, 2 trace")
	)
	fs.Parse(args)

	cfg, logger, err := setup(*cfgPath, *verbose)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	var lines []string
	switch {
	case *source != "":
		s := &scrape.Scraper{UserAgent: cfg.Check.UserAgent, Logger: logger}
		if lines, err = s.Scrape(ctx, *source); err != nil {
			return err
		}
	case *in != "":
		if lines, err = loader.ReadLines(*in); err != nil {
			return err
		}
	default:
		return errors.New("check: one of -in or -source is required")
	}

	opts := checker.Options{
		Timeout:    time.Duration(*timeout * float64(time.Second)),
		MaxWorkers: *workers,
	}
	if *targets != "" {
		opts.TargetURLs = splitList(*targets)
	}
	if *ports != "" {
		if opts.TryPorts, err = parsePorts(*ports); err != nil {
			return err
		}
	}

	c := newChecker(cfg, logger)
	opts = c.Resolve(opts)

	total := len(candidate.NormalizeScheme(lines, opts.TryPorts, cfg.Check.ProxyScheme))
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("probing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	opts.Progress = func(model.Report) { bar.Add(1) }

	printBanner()
	reports := c.CheckBulk(ctx, lines, opts)
	bar.Finish()

	if *csvPath != "" {
		if err := writeCSVFile(*csvPath, reports); err != nil {
			return err
		}
		logger.Infof("results written to %s", *csvPath)
	}
	if *onlyReal {
		reports = filterReal(reports)
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	printReports(reports)
	return nil
}

func cmdScrape(args []string) error {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	var (
		cfgPath = fs.String("config", config.DefaultPath, "config file")
		source  = fs.String("source", "", "public proxy list URL")
		limit   = fs.Int("limit", 0, "maximum addresses to print (0 = all)")
		verbose = fs.Int("v", 0, "verbosity: 1 debug, 2 trace")
	)
	fs.Parse(args)
	if *source == "" {
		return errors.New("scrape: -source is required")
	}

	cfg, logger, err := setup(*cfgPath, *verbose)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	s := &scrape.Scraper{UserAgent: cfg.Check.UserAgent, Limit: *limit, Logger: logger}
	lines, err := s.Scrape(ctx, *source)
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		cfgPath = fs.String("config", config.DefaultPath, "config file")
		listen  = fs.String("listen", "", "HTTP listen address (overrides config)")
		verbose = fs.Int("v", 0, "verbosity: 1 debug, 2 trace")
	)
	fs.Parse(args)

	cfg, logger, err := setup(*cfgPath, *verbose)
	if err != nil {
		return err
	}
	addr := cfg.Server.Listen
	if *listen != "" {
		addr = *listen
	}

	srv := api.NewServer(newChecker(cfg, logger), api.ServerOptions{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout(),
		Logger:          logger,
	})
	printBanner()
	srv.Start()

	ctx, cancel := signalContext()
	defer cancel()
	<-ctx.Done()
	logger.Info("dot5: shutting down")

	if err := srv.Stop(context.Background()); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("dot5: stopped")
	return nil
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath, "config file to write")
	force := fs.Bool("force", false, "overwrite an existing file")
	fs.Parse(args)

	if _, err := os.Stat(*cfgPath); err == nil && !*force {
		return fmt.Errorf("init: %s already exists (use -force)", *cfgPath)
	}
	if err := config.WriteDefault(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("%s wrote %s\n", green("✓"), *cfgPath)
	return nil
}

func writeCSVFile(path string, reports []model.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := report.WriteCSV(f, reports); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printReports(reports []model.Report) {
	alive := 0
	for _, r := range reports {
		status := red("FAKE")
		if r.Real() {
			status = green("REAL")
			alive++
		}
		code := "-"
		if r.HTTPStatus != nil {
			code = strconv.Itoa(*r.HTTPStatus)
		}
		detail := r.NormalizedProxy
		if r.ElapsedMs > 0 {
			detail += fmt.Sprintf(" • %dms", r.ElapsedMs)
		}
		if r.Error != "" {
			detail += " • err: " + truncate(r.Error, 120)
		}
		if r.FakeSourceURL != "" {
			detail += dim(" • seen on " + r.FakeSourceURL)
		}
		fmt.Printf("%-28s %s %4s  %s\n", r.Input, status, code, detail)
	}
	fmt.Printf("\n%s Total: %d • %s %d • %s %d\n",
		bold("▶"), len(reports), green("Real:"), alive, yellow("Fake:"), len(reports)-alive)
}

func filterReal(reports []model.Report) []model.Report {
	out := reports[:0:0]
	for _, r := range reports {
		if r.Real() {
			out = append(out, r)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parsePorts(s string) ([]int, error) {
	ports := []int{}
	for _, part := range splitList(s) {
		p, err := strconv.Atoi(part)
		if err != nil || p < 1 || p > 65535 {
			return nil, fmt.Errorf("invalid port %q", part)
		}
		ports = append(ports, p)
	}
	return ports, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
