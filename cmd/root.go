package cmd

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"github.com/zhubert/scrollback/internal/app"
	"github.com/zhubert/scrollback/internal/chat"
	"github.com/zhubert/scrollback/internal/config"
	"github.com/zhubert/scrollback/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	version, commit, date string

	// Overrides applied only when the flag is set
	themeName  string
	pages      int
	pageSize   int
	latency    time.Duration
	replyDelay time.Duration
	failRate   float64
	seed       uint64
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "scrollback",
	Short: "Terminal chat transcript that keeps your place",
	Long: `Scrollback is a terminal chat transcript. It loads history a page at a
time as you scroll up, keeps the newest message pinned while you write, and
holds your reading position steady as messages arrive, the composer grows or
the terminal is resized.

It runs against a built-in demo conversation whose size, latency and failure
rate can be tuned with flags or ~/.scrollback/config.json.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")

	bindDemoFlags(rootCmd)
}

// bindDemoFlags defines the theme and demo conversation flags on cmd.
func bindDemoFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&themeName, "theme", "", "Color theme")
	f.IntVar(&pages, "pages", 0, "Pages of demo history")
	f.IntVar(&pageSize, "page-size", 0, "Messages per page")
	f.DurationVar(&latency, "latency", 0, "Delay before every load or send completes")
	f.DurationVar(&replyDelay, "reply-delay", 0, "Delay before the demo reply arrives")
	f.Float64Var(&failRate, "fail-rate", 0, "Probability in [0,1] that a load or send fails")
	f.Uint64Var(&seed, "seed", 0, "Seed for the generated conversation")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("scrollback %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("scrollback %s\n", version)
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.SetTheme(themeName)
	}

	d := cfg.GetDemo()
	if flags.Changed("pages") {
		d.Pages = pages
	}
	if flags.Changed("page-size") {
		d.PageSize = pageSize
	}
	if flags.Changed("latency") {
		d.LatencyMS = int(latency.Milliseconds())
	}
	if flags.Changed("reply-delay") {
		d.ReplyDelayMS = int(replyDelay.Milliseconds())
	}
	if flags.Changed("fail-rate") {
		d.FailRate = failRate
	}
	if flags.Changed("seed") {
		d.Seed = seed
	}
	cfg.SetDemo(d)

	return cfg.Validate()
}

// demoOptions converts the configured demo conversation into controller
// options.
func demoOptions(d config.Demo) chat.DemoOptions {
	return chat.DemoOptions{
		Pages:      d.Pages,
		PageSize:   d.PageSize,
		Latency:    d.Latency(),
		ReplyDelay: d.ReplyDelay(),
		FailRate:   d.FailRate,
		Seed:       d.Seed,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	// Ensure logger is closed on exit
	defer logger.Close()

	// Create and run the app
	ctl := chat.NewDemo(demoOptions(cfg.GetDemo()))
	m := app.New(cfg, ctl, version)
	defer m.Close()
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
