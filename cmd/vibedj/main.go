package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"vibe-dj/internal/ai"
	"vibe-dj/internal/cli"
	"vibe-dj/internal/config"
	"vibe-dj/internal/output"
	"vibe-dj/internal/player"
	"vibe-dj/internal/resolver"
	"vibe-dj/internal/setup"
	"vibe-dj/internal/storage"
	"vibe-dj/internal/ui"
	"vibe-dj/internal/youtube"
)

const (
	exitSuccess     = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
	version         = "1.0.0"
)

type cliOptions struct {
	Strategy string
	Columns  int
	DryRun   bool
	Setup    bool
	Theme    string
	JSON     bool
	Plain    bool
	Quiet    bool
	Verbose  bool
	NoColor  bool
	NoInput  bool
	Help     bool
	Version  bool
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		fmt.Fprintln(os.Stderr, "Interrupted (Ctrl-C)")
		os.Exit(exitInterrupted)
	}()

	if cli.ShouldHandle(os.Args[1:]) {
		if err := cli.ExecuteArgs(os.Args[1:]); err != nil {
			var ue usageError
			if errors.As(err, &ue) {
				fmt.Fprintln(os.Stderr, ue.msg)
				os.Exit(exitUsage)
			}
			fmt.Fprintln(os.Stderr, "Error:", err.Error())
			os.Exit(exitFailure)
		}
		os.Exit(exitSuccess)
	}

	if err := run(context.Background()); err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(os.Stderr, ue.msg)
			os.Exit(exitUsage)
		}
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(exitFailure)
	}
	os.Exit(exitSuccess)
}

func run(ctx context.Context) error {
	cfg := config.Load()
	opts, err := parseArgs(cfg)
	if err != nil {
		return err
	}
	if opts.Help {
		printUsage(cfg)
		return nil
	}
	if opts.Version {
		fmt.Fprintln(os.Stdout, version)
		return nil
	}
	if opts.Verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	out := output.New(output.Options{
		JSON:    opts.JSON,
		Plain:   opts.Plain,
		Quiet:   opts.Quiet,
		NoColor: opts.NoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb",
	})

	if opts.Setup {
		if err := setup.Run(out); err != nil {
			return err
		}
		if opts.JSON {
			_ = out.EmitJSON(map[string]any{"status": "ok", "action": "setup"})
		}
		return nil
	}

	theme := opts.Theme
	if theme == "" && !opts.NoInput && !term.IsTerminal(int(os.Stdin.Fd())) {
		theme = readThemeFromStdin()
	}
	if theme == "" {
		return usageError{msg: strings.Join([]string{
			"Missing theme.",
			"Examples:",
			"  vibedj \"rainy day lofi\"",
			"  echo \"night driving synthwave\" | vibedj",
			"Run with --help for usage.",
		}, "\n")}
	}

	keys := ai.APIKeys{
		OpenAI:    cfg.OpenAIAPIKey,
		Anthropic: cfg.AnthropicAPIKey,
		Google:    cfg.GoogleAPIKey,
	}

	songResolver, err := buildResolver(opts.Strategy, keys, cfg, out)
	if err != nil {
		return err
	}
	service := resolver.NewService(songResolver, slog.Default())

	out.Info(out.Gray(fmt.Sprintf("Resolving theme with the %s strategy...", opts.Strategy)))
	resp, rerr := service.Resolve(ctx, resolver.Request{Theme: theme})
	if rerr != nil {
		if rerr.Status == resolver.StatusMissingInput {
			return usageError{msg: rerr.Message}
		}
		return rerr
	}
	if len(resp.Songs) == 0 {
		return fmt.Errorf("no songs resolved for theme %q", theme)
	}

	recordHistory(theme, resp.Songs)

	if opts.JSON {
		return out.EmitJSON(resp)
	}
	if opts.DryRun {
		out.Print(out.Bold("Resolved queue for: ") + theme)
		for _, song := range resp.Songs {
			out.Print("  - " + song.Title + " " + out.Gray("by "+song.Artist))
		}
		out.Print(out.Gray("Playlist: " + resp.PlaylistURL))
		return nil
	}

	if err := setup.Check(); err != nil {
		setup.PrintInstructions(out)
		return err
	}

	manager, err := player.NewManager(slog.Default())
	if err != nil {
		return err
	}
	app := ui.New(service, manager, theme, opts.Columns, cfg.QueueFloor, slog.Default())
	return app.Run(ctx, resp.Songs)
}

func buildResolver(strategy string, keys ai.APIKeys, cfg config.Config, out *output.Output) (resolver.SongResolver, error) {
	switch config.Strategy(strategy) {
	case config.StrategyDirect:
		if keys.OpenAI == "" {
			out.Error("The direct strategy needs an OpenAI key.")
			out.Error("Set OPENAI_API_KEY, or use --strategy staged.")
			return nil, fmt.Errorf("missing api keys")
		}
		return resolver.Direct{Keys: keys}, nil
	case config.StrategyStaged:
		if cfg.YouTubeAPIKey == "" {
			out.Error("The staged strategy needs a YouTube Data API key.")
			out.Error("Set YOUTUBE_API_KEY.")
			return nil, fmt.Errorf("missing api keys")
		}
		if keys.Empty() {
			out.Error("No AI provider keys configured.")
			out.Error("Set at least one of: OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY")
			return nil, fmt.Errorf("missing api keys")
		}
		return resolver.Staged{
			Keys:    keys,
			YouTube: youtube.NewClient(cfg.YouTubeAPIURL, cfg.YouTubeAPIKey),
			Log:     slog.Default(),
		}, nil
	default:
		return nil, usageError{msg: "strategy must be one of: direct, staged"}
	}
}

// recordHistory is best-effort; a broken history database never blocks playback.
func recordHistory(theme string, songs []ai.Song) {
	store, err := storage.OpenHistory(config.Dir())
	if err != nil {
		slog.Debug("could not open history store", "error", err)
		return
	}
	defer store.Close()
	if err := store.Add(storage.Entry{Theme: theme, Songs: songs}); err != nil {
		slog.Debug("could not record history entry", "error", err)
	}
}

func parseArgs(cfg config.Config) (cliOptions, error) {
	opts := cliOptions{
		Strategy: string(cfg.DefaultStrategy),
		Columns:  cfg.DefaultColumns,
	}

	fs := pflag.NewFlagSet("vibedj", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.SortFlags = false

	fs.BoolVarP(&opts.Help, "help", "h", false, "display help")
	fs.BoolVar(&opts.Version, "version", false, "output the version number")
	fs.StringVarP(&opts.Strategy, "strategy", "s", opts.Strategy, "Resolution strategy: direct, staged")
	fs.IntVarP(&opts.Columns, "columns", "c", opts.Columns, "Grid columns (1-8)")
	fs.BoolVarP(&opts.DryRun, "dry-run", "d", false, "Resolve and print the queue without playing")
	fs.BoolVar(&opts.JSON, "json", false, "Output machine-readable JSON and exit")
	fs.BoolVar(&opts.Plain, "plain", false, "Disable decorative formatting")
	fs.BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress non-essential output")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose diagnostics")
	fs.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&opts.NoInput, "no-input", false, "Disable stdin reads/prompts")
	fs.BoolVar(&opts.Setup, "setup", false, "Verify mpv and configured API keys")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return cliOptions{}, usageError{msg: err.Error() + "\n(run with --help for usage)"}
	}

	switch strings.ToLower(opts.Strategy) {
	case "direct", "staged":
		opts.Strategy = strings.ToLower(opts.Strategy)
	default:
		return cliOptions{}, usageError{msg: "strategy must be one of: direct, staged"}
	}
	if opts.Columns < 1 || opts.Columns > 8 {
		return cliOptions{}, usageError{msg: "columns must be between 1 and 8"}
	}

	args := fs.Args()
	opts.Theme = strings.TrimSpace(strings.Join(args, " "))
	return opts, nil
}

func printUsage(cfg config.Config) {
	fmt.Fprintln(os.Stdout, "Usage: vibedj [options] [theme]")
	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintln(os.Stdout, "AI-powered music queue: describe a vibe, get a playable grid of songs")
	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintln(os.Stdout, "Arguments:")
	fmt.Fprintln(os.Stdout, "  theme                      Natural language description of the vibe")
	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintln(os.Stdout, "Options:")
	fmt.Fprintln(os.Stdout, "  -h, --help                 display help")
	fmt.Fprintln(os.Stdout, "      --version              output the version number")
	fmt.Fprintf(os.Stdout, "  -s, --strategy <strategy>  Resolution strategy: direct, staged (default: %q)\n", cfg.DefaultStrategy)
	fmt.Fprintf(os.Stdout, "  -c, --columns <number>     Grid columns (1-8) (default: %d)\n", cfg.DefaultColumns)
	fmt.Fprintln(os.Stdout, "  -d, --dry-run              Resolve and print the queue without playing")
	fmt.Fprintln(os.Stdout, "      --json                 Output machine-readable JSON and exit")
	fmt.Fprintln(os.Stdout, "      --plain                Disable decorative formatting")
	fmt.Fprintln(os.Stdout, "  -q, --quiet                Suppress non-essential output")
	fmt.Fprintln(os.Stdout, "  -v, --verbose              Enable verbose diagnostics")
	fmt.Fprintln(os.Stdout, "      --no-color             Disable colored output")
	fmt.Fprintln(os.Stdout, "      --no-input             Disable stdin reads/prompts")
	fmt.Fprintln(os.Stdout, "      --setup                Verify mpv and configured API keys")
	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintln(os.Stdout, "Commands:")
	fmt.Fprintln(os.Stdout, "  history                    Show recently resolved themes")
	fmt.Fprintln(os.Stdout, "  version                    Print the version")
	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintln(os.Stdout, "In the grid: w/a/s/d or arrows move, space plays/pauses, q quits.")
}

func readThemeFromStdin() string {
	scanner := bufio.NewScanner(os.Stdin)
	lines := []string{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
