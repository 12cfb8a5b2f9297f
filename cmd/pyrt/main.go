package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"pyrt/internal/console"
	"pyrt/internal/exc"
	"pyrt/internal/journal"
	pyrtlog "pyrt/internal/log"
	"pyrt/internal/trycatch"
	"pyrt/internal/util"
	"pyrt/internal/value"
)

var (
	// Version is set at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configPath    string
	mode          string
	journalDriver string
	journalDSN    string
	list          int
	interactive   bool
	noColor       bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configPath, "config", "", "Configuration file (.toml or .yaml)")
	// runtime config
	flag.StringVar(&mode, "mode", "process", "Isolation of protected regions: process or goroutine")
	flag.BoolVar(&interactive, "i", false, "Read region names from the console, one per line")
	flag.BoolVar(&noColor, "no-color", false, "Disable coloured output")
	// journal config
	flag.StringVar(&journalDriver, "journal-driver", "", "Journal database driver: sqlite3, mysql or postgres")
	flag.StringVar(&journalDSN, "journal-dsn", "", "Journal data source name")
	flag.IntVar(&list, "list", 0, "Print the N most recent journal entries and exit")
	// log config
	flag.StringVar(&logLevel, "log-level", "none", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	// a protected region re-executes this binary; run it and exit before anything else
	trycatch.RunIfChild()

	flag.Parse()
	os.Exit(run())
}

func run() int {
	if version {
		printVersion()
		return 0
	}
	if help {
		printHelp()
		return 0
	}

	config, err := configure()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	closeLog := pyrtlog.Configure(config.LogLevel, config.LogFile)
	defer closeLog()

	if !config.Color {
		color.NoColor = true
	}

	isolation, err := trycatch.ParseMode(config.Mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	runner := trycatch.NewRunner(isolation)
	trycatch.Default = runner

	var j *journal.Journal
	if config.Journal.Driver != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		j, err = journal.Open(ctx, config.Journal.Driver, config.Journal.DSN)
		cancel()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer j.Close()
		runner.OnCatch = j.Hook(isolation.String())
	}

	if list > 0 {
		if j == nil {
			fmt.Fprintln(os.Stderr, "-list needs a journal: set -journal-driver")
			return 1
		}
		return printJournal(j, list)
	}

	names := flag.Args()
	if interactive {
		names, err = readNames()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if len(names) == 0 {
		names = trycatch.Regions()
	}

	slog.Debug("running regions", "count", len(names), "mode", isolation.String())
	passed, caught := 0, 0
	for _, name := range names {
		ctx := exc.NewContext()
		if err := runner.Run(ctx, name); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if ctx.Triggered {
			caught++
			fmt.Printf("%s %s: %s (status %d)\n", color.RedString("CAUGHT"), name, ctx.Text(), ctx.StatusCode)
			continue
		}
		passed++
		fmt.Printf("%s %s\n", color.GreenString("PASSED"), name)
	}
	fmt.Printf("%d passed, %d caught\n", passed, caught)
	return 0
}

// configure loads the configuration file, then applies the flags that were set on
// the command line.
func configure() (util.Configuration, error) {
	config := util.DefaultConfiguration()
	if configPath != "" {
		var err error
		if config, err = util.LoadConfiguration(configPath); err != nil {
			return config, err
		}
	}
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "mode":
			config.Mode = mode
		case "no-color":
			config.Color = !noColor
		case "journal-driver":
			config.Journal.Driver = journalDriver
		case "journal-dsn":
			config.Journal.DSN = journalDSN
		}
	})
	return config, nil
}

func readNames() ([]string, error) {
	r := console.NewLineReader(os.Stdin, os.Stdout)
	defer r.Close()
	var names []string
	for {
		line, err := console.Input(r, value.NewString("region> "))
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(line.Str())
		if name == "" {
			return names, nil
		}
		names = append(names, name)
	}
}

func printJournal(j *journal.Journal, n int) int {
	entries, err := j.Recent(context.Background(), n)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, e := range entries {
		fmt.Printf("%5d %s %-16s %-9s status=%d %s\n",
			e.ID, e.CaughtAt.Format(time.RFC3339), e.Region, e.Mode, e.Status, color.YellowString(e.Message))
	}
	return 0
}

func printVersion() {
	fmt.Printf("pyrt version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: pyrt [options] [region...]

Options:
  -config <path>          Load settings from a .toml or .yaml file.
  -mode <mode>            Isolation of protected regions: process or goroutine. Default is 'process'.
  -i                      Read region names from the console until an empty line.
  -no-color               Disable coloured output.
  -journal-driver <name>  Record caught regions with sqlite3, mysql or postgres.
  -journal-dsn <dsn>      Data source name of the journal database.
  -list <n>               Print the n most recent journal entries and exit.
  -help                   Display this help information and exit.
  -version                Display version information and exit.
  -log-level <level>      Set the log level: trace, debug, info, warn, error, none. Default is 'none'.
  -log-file <path>        Specify a log file to write logs. Default is stderr.

Details:
Runs the named protected regions, or every built-in region when none is given,
and reports whether each one passed or was caught.

Examples:
  pyrt                                         Run every region in child processes
  pyrt -mode goroutine divide-by-zero range    Run two regions on goroutines
  pyrt -journal-driver sqlite3 -journal-dsn pyrt.db -list 20

Regions:
  %s

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, strings.Join(trycatch.Regions(), ", "), Version, BuildDate, Commit)
}
