package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"pkt.systems/docqa"
	"pkt.systems/docqa/client"
	"pkt.systems/docqa/internal/config"
	"pkt.systems/docqa/internal/console"
	"pkt.systems/version"
)

func init() {
	version.SetDefaultModule("pkt.systems/docqa")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	a := newApp(os.Stdout, os.Stderr)
	if err := a.root().ExecuteContext(ctx); err != nil {
		a.status.Statusf(console.Error, "Error: %v", err)
		stop()
		os.Exit(1)
	}
}

// app carries the state shared by all commands.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgPath string
	log     *slog.Logger
	out     io.Writer
	errOut  io.Writer
	status  *console.Printer
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		v:      config.New(),
		out:    out,
		errOut: errOut,
		status: console.New(errOut),
		log:    slog.New(slog.DiscardHandler),
	}
}

func (a *app) root() *cobra.Command {
	root := &cobra.Command{
		Use:   "docqa",
		Short: "Ask questions about uploaded documents",
		Long: `docqa uploads documents to a question-answering service, asks questions
against them and renders the answers to HTML, live while they stream.

Examples:
  docqa upload -c acme handbook.pdf
  docqa query -c acme --stream -o answer.html "What is the notice period?"
  docqa collection -c acme
  docqa render --simulate notes.md`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "Config file (default $XDG_CONFIG_HOME/docqa/config.yaml)")
	flags.String("api-base-url", config.DefaultAPIBaseURL, "API base URL")
	flags.StringP("company-id", "c", "", "Company ID the documents belong to")
	flags.StringP("theme", "t", config.DefaultTheme, "Theme name")
	flags.Int("indent-unit", config.DefaultIndentUnit, "List indentation in pixels per leading space")
	flags.Duration("timeout", 0, "Timeout for upload, query and collection calls (0 disables)")
	flags.BoolP("verbose", "v", false, "Log debug details to stderr")

	root.AddCommand(
		a.uploadCmd(),
		a.queryCmd(),
		a.collectionCmd(),
		a.renderCmd(),
		a.themesCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) client() (*client.Client, error) {
	return client.New(a.cfg.APIBaseURL,
		client.WithLogger(a.log.With("component", "client")),
		client.WithTimeout(a.cfg.Timeout),
	)
}

func (a *app) renderer() (*docqa.Renderer, error) {
	theme, ok := docqa.ThemeByName(a.cfg.Theme)
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (see docqa themes)", a.cfg.Theme)
	}
	return docqa.NewRenderer(docqa.WithTheme(theme), docqa.WithIndentUnit(a.cfg.IndentUnit)), nil
}

// sink returns where rendered markup goes: a page rewritten on every update
// when output is set, otherwise stdout, which receives the final content
// once flush is called.
func (a *app) sink(output string, wrap func(string) string) (docqa.Sink, func() error) {
	if output != "" {
		fs := docqa.NewFileSink(normalizePath(output))
		fs.Wrap = wrap
		return fs, func() error { return nil }
	}
	ws := docqa.NewWriterSink(a.out)
	if wrap == nil {
		return ws, ws.Flush
	}
	return docqa.SinkFunc(func(markup string) error {
		return ws.SetContent(wrap(markup))
	}), ws.Flush
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
