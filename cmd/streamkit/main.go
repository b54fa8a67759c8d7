// Command streamkit builds and runs push-based numeric pipelines described as
// descriptor arrays, from the command line or over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/flow"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/server"
	"github.com/kbukum/streamkit/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(&app{out: os.Stdout, in: os.Stdin}).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "streamkit:", err)
		os.Exit(exitCode(err))
	}
}

// app carries the loaded configuration from Before into the actions.
type app struct {
	cfg *AppConfig
	log *logger.Logger
	out io.Writer
	in  *os.File
}

func newApp(a *app) *cli.App {
	return &cli.App{
		Name:    "streamkit",
		Usage:   "build and run push-based numeric pipelines",
		Version: version.Get().Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"STREAMKIT_CONFIG"}},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "console or json"},
		},
		Before: a.before,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run a pipeline read from --file or stdin",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "descriptor document; - or empty reads stdin"},
					&cli.StringFlag{Name: "format", Usage: "json, yaml or auto"},
					&cli.BoolFlag{Name: "trace", Usage: "log every prime and push at debug level"},
					&cli.IntFlag{Name: "capture", Usage: "number of terminal values to include in the report"},
				},
				Action: a.run,
			},
			{
				Name:   "serve",
				Usage:  "serve the pipeline API over HTTP",
				Flags:  []cli.Flag{&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port"}},
				Action: a.serve,
			},
			{
				Name:   "ops",
				Usage:  "list registered operations and mappers",
				Action: a.ops,
			},
			{
				Name:  "version",
				Usage: "print build information",
				Action: func(*cli.Context) error {
					_, err := fmt.Fprintln(a.out, version.Get().String())
					return err
				},
			},
		},
	}
}

func (a *app) before(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Logging.Level = strings.ToLower(lvl)
	}
	if format := c.String("log-format"); format != "" {
		cfg.Logging.Format = strings.ToLower(format)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(&cfg.Logging)
	logger.RegisterDefaults()
	a.cfg = cfg
	a.log = logger.Get(logger.ComponentCLI)
	return nil
}

func (a *app) run(c *cli.Context) error {
	pc := a.cfg.Pipeline
	if c.IsSet("format") {
		pc.Format = c.String("format")
	}
	if c.IsSet("trace") {
		pc.Trace = c.Bool("trace")
	}
	if c.IsSet("capture") {
		pc.Capture = c.Int("capture")
	}
	if err := pc.Validate(); err != nil {
		return err
	}
	format, err := flow.ParseFormat(pc.Format)
	if err != nil {
		return err
	}

	descs, err := readDescriptors(c.String("file"), format, a.in)
	if err != nil {
		return err
	}

	tel, err := startTelemetry(c.Context, a.cfg)
	if err != nil {
		return err
	}
	defer tel.shutdown(context.Background())

	runner := flow.NewRunner(flow.RunOptions{
		Logger:  logger.Get(logger.ComponentFlow),
		Trace:   pc.Trace,
		Metrics: tel.metrics,
		Capture: pc.Capture,
	})
	report, runErr := runner.Run(c.Context, descs)
	if report != nil {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	}
	return runErr
}

func (a *app) serve(c *cli.Context) error {
	cfg := a.cfg.Server
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	tel, err := startTelemetry(c.Context, a.cfg)
	if err != nil {
		return err
	}
	defer tel.shutdown(context.Background())

	runner := flow.NewRunner(flow.RunOptions{
		Logger:  logger.Get(logger.ComponentFlow),
		Trace:   a.cfg.Pipeline.Trace,
		Metrics: tel.metrics,
	})
	srv := server.New(cfg, runner, logger.Get(logger.ComponentServer), server.WithService(a.cfg.Name, version.Get().Short()))
	if err := srv.Start(c.Context); err != nil {
		return err
	}

	<-c.Context.Done()
	return srv.Stop(context.Background())
}

func (a *app) ops(*cli.Context) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OPERATION\tROLE\tPARAMS")
	for _, op := range flow.Operations() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", op.Name, op.Role, strings.Join(op.Params, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.out, "\nmappers: %s\n", strings.Join(flow.Mappers(), ", "))
	return err
}

// exitCode maps build and input errors to 2, a canceled run to 130 and
// anything else to 1.
func exitCode(err error) int {
	switch {
	case errors.IsInputError(err):
		return 2
	case errors.HasCode(err, errors.ErrCodeCanceled):
		return 130
	}
	return 1
}
