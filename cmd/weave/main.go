package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/livefir/weave"
	"github.com/livefir/weave/internal/config"
)

// version can be overridden at build time with -ldflags
var version = "dev"

var cli struct {
	Source      string `arg:"" type:"existingdir" help:"Directory of pages to expand."`
	Components  string `arg:"" type:"existingdir" help:"Directory of component definitions, one .html file per component."`
	Destination string `arg:"" type:"path" help:"Output directory; created if absent, non-hidden entries are cleared."`

	Config    string `short:"c" type:"existingfile" optional:"" help:"Path to a weave.yaml config file."`
	Minify    *bool  `help:"Minify serialized HTML output (overrides config)."`
	Strict    bool   `help:"Exit non-zero if any warnings were reported."`
	MaxPasses int    `placeholder:"N" help:"Fixed-point iteration ceiling per document."`

	Version kong.VersionFlag `help:"Print version and exit."`
}

var (
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// styledReporter prints warnings to stdout as they occur. Warnings are
// advisory; the build keeps going.
type styledReporter struct {
	count int
}

func (r *styledReporter) Warn(w weave.Warning) {
	r.count++
	fmt.Println(warnStyle.Render("warning:"), w.String())
}

func main() {
	kong.Parse(&cli,
		kong.Name("weave"),
		kong.Description("Expand custom component tags in HTML pages into plain, self-contained markup."),
		kong.Vars{"version": buildVersion()},
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fatal(err)
	}

	lib, err := weave.LoadLibrary(cli.Components)
	if err != nil {
		fatal(err)
	}

	reporter := &styledReporter{}
	gen := weave.NewGenerator(lib, reporter)
	if len(cfg.Extensions) > 0 {
		gen.Extensions = cfg.Extensions
	}
	if cfg.Minify != nil {
		gen.Minify = *cfg.Minify
	}
	gen.MaxPasses = cfg.MaxPasses
	if cli.Minify != nil {
		gen.Minify = *cli.Minify
	}
	if cli.MaxPasses > 0 {
		gen.MaxPasses = cli.MaxPasses
	}

	if err := gen.Run(cli.Source, cli.Destination); err != nil {
		fatal(err)
	}

	if (cfg.Strict || cli.Strict) && reporter.count > 0 {
		fatal(fmt.Errorf("%d warning(s) reported in strict mode", reporter.count))
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
	os.Exit(1)
}

func buildVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}
