// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/pflag"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdSearch
	CmdData
	CmdConfig
	CmdModels
	CmdVersion
	CmdHelp
)

var commandNames = map[string]Command{
	"tui":     CmdTUI,
	"chat":    CmdChat,
	"ask":     CmdAsk,
	"search":  CmdSearch,
	"data":    CmdData,
	"config":  CmdConfig,
	"models":  CmdModels,
	"version": CmdVersion,
	"help":    CmdHelp,
}

// String returns the command name.
func (c Command) String() string {
	for name, cmd := range commandNames {
		if cmd == c {
			return name
		}
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Args holds parsed CLI arguments.
type Args struct {
	Command Command

	// Global flags
	ConfigPath string
	Model      string
	Table      string
	Backend    string
	Debug      bool
	NoHistory  bool
	Window     int // 0 means unset
	Quiet      bool
	JSON       bool

	// Command-specific
	Raw     bool     // search: print JSON
	Limit   int      // search: result count, 0 means config
	Replace bool     // data import: drop the table first
	Product []string // data show: keep only these products
	Mean    string   // data show: column to average, with --by
	By      string   // data show: group column for the average
	Format  string   // chat export format
	Output  string   // chat export directory

	// Positional arguments after the command name
	Rest []string
}

// Query joins the positional arguments into one question.
func (a Args) Query() string {
	return strings.TrimSpace(strings.Join(a.Rest, " "))
}

var usageText = heredoc.Doc(`
	groundchat - chat with an LLM grounded in your reviews and shipping data

	Usage:
	  groundchat [flags]                    Start the full-screen chat (default)
	  groundchat chat [flags]               Line-oriented chat with slash commands
	  groundchat ask "question"             Answer one question and exit
	  groundchat search "query" [--raw]     Query the retrieval service
	  groundchat data import FILE.csv       Load a CSV into the context table
	  groundchat data show                  Print the context table
	  groundchat data show --by REGION      Average sentiment per region
	  groundchat config show|path|init      Inspect or create the config file
	  groundchat config get KEY             Print one setting
	  groundchat config set KEY VALUE       Change one setting
	  groundchat models                     List the allow-listed models
	  groundchat version                    Print version information

	Flags:
	      --config PATH     Config file (default: ~/.groundchat/config.toml)
	  -m, --model ID        Model for this run
	      --table NAME      Context table
	      --backend NAME    warehouse, ollama, cloud, anthropic, gemini or auto
	      --debug           Show the generated prompt
	      --no-history      Send questions without chat history
	      --window N        History window (1-25)
	  -q, --quiet           Minimal output
	      --json            JSON output (ask, models, data show, config show)
	      --raw             Raw JSON output (search)
	  -n, --limit N         Search result count
	      --replace         Replace the table on data import
	      --product NAME    Keep only these products in data show (repeatable)
	      --by COLUMN       Group data show by COLUMN (PRODUCT, STATUS, REGION)
	      --mean COLUMN     Column averaged per group (default SENTIMENT_SCORE)
	      --format FMT      Export format for /export: md or json
	  -o, --output DIR      Export directory for /export
	  -h, --help            Show this help
	  -v, --version         Show version

	Chat commands:
	  /clear  /debug  /history  /window N  /model [id]
	  /settings  /messages  /export [md|json]  /help  /quit
`)

// Usage returns the help text.
func Usage() string {
	return usageText
}

// Parse parses argv (without the program name).
func Parse(argv []string) (Args, error) {
	var args Args
	var help, version bool

	fs := pflag.NewFlagSet("groundchat", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVar(&args.ConfigPath, "config", "", "config file")
	fs.StringVarP(&args.Model, "model", "m", "", "model ID")
	fs.StringVar(&args.Table, "table", "", "context table")
	fs.StringVar(&args.Backend, "backend", "", "completion backend")
	fs.BoolVar(&args.Debug, "debug", false, "show the generated prompt")
	fs.BoolVar(&args.NoHistory, "no-history", false, "disable chat history")
	fs.IntVar(&args.Window, "window", 0, "history window")
	fs.BoolVarP(&args.Quiet, "quiet", "q", false, "minimal output")
	fs.BoolVar(&args.JSON, "json", false, "JSON output")
	fs.BoolVar(&args.Raw, "raw", false, "raw search JSON")
	fs.IntVarP(&args.Limit, "limit", "n", 0, "search result count")
	fs.BoolVar(&args.Replace, "replace", false, "replace table on import")
	fs.StringSliceVar(&args.Product, "product", nil, "products to show")
	fs.StringVar(&args.Mean, "mean", "", "column to average")
	fs.StringVar(&args.By, "by", "", "group column")
	fs.StringVar(&args.Format, "format", "md", "export format")
	fs.StringVarP(&args.Output, "output", "o", "", "export directory")
	fs.BoolVarP(&help, "help", "h", false, "show help")
	fs.BoolVarP(&version, "version", "v", false, "show version")

	if err := fs.Parse(argv); err != nil {
		return Args{}, &UsageError{Message: err.Error()}
	}

	rest := fs.Args()
	if len(rest) > 0 {
		cmd, ok := commandNames[rest[0]]
		if !ok {
			return Args{}, usageErrorf("unknown command %q", rest[0])
		}
		args.Command = cmd
		rest = rest[1:]
	}
	args.Rest = rest

	if fs.Changed("window") && args.Window < 1 {
		return Args{}, usageErrorf("--window must be at least 1")
	}
	if args.Limit < 0 {
		return Args{}, usageErrorf("--limit must not be negative")
	}
	if args.Mean != "" && args.By == "" {
		return Args{}, usageErrorf("--mean requires --by")
	}
	switch {
	case help:
		args.Command = CmdHelp
	case version:
		args.Command = CmdVersion
	}
	return args, nil
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Main runs the CLI and returns the process exit code.
func Main(argv []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args, err := Parse(argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		fmt.Fprintln(os.Stderr, "Run 'groundchat --help' for usage.")
		return ExitCode(err)
	}

	if err := Run(ctx, args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return ExitCode(err)
	}
	return ExitSuccess
}

// Run executes a parsed command.
func Run(ctx context.Context, args Args, in io.Reader, out io.Writer) error {
	switch args.Command {
	case CmdHelp:
		fmt.Fprint(out, Usage())
		return nil
	case CmdVersion:
		return runVersion(args, out)
	case CmdModels:
		return runModels(args, out)
	case CmdConfig:
		return runConfig(args, out)
	case CmdSearch:
		return runSearch(ctx, args, out)
	}

	app, err := NewApp(ctx, args)
	if err != nil {
		return err
	}
	defer app.Close()

	switch args.Command {
	case CmdChat:
		return runChat(ctx, app, args, out)
	case CmdAsk:
		return runAsk(ctx, app, args, out)
	case CmdData:
		return runData(ctx, app, args, in, out)
	default:
		return runTUI(ctx, app)
	}
}
