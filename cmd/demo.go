package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"github.com/zhubert/scrollback/internal/demo"
	"github.com/zhubert/scrollback/internal/demo/scenarios"
)

var (
	demoOutput     string
	demoWidth      int
	demoHeight     int
	demoCaptureAll bool
	demoPlain      bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate demo recordings of scrollback",
	Long: `Generate demo recordings of scrollback for documentation and presentations.

Available subcommands:
  list      - List available demo scenarios
  run       - Run a scenario and output to stdout (for testing)
  generate  - Generate a VHS tape file for rendering
  cast      - Generate an asciinema cast file

Wherever a scenario name is accepted, a path to a YAML scenario file works
too.`,
}

var demoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available demo scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available demo scenarios:")
		fmt.Println()
		for _, s := range scenarios.All() {
			fmt.Printf("  %-15s %s\n", s.Name, s.Description)
		}
	},
}

var demoRunCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a scenario and output to stdout (for testing)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDemoRun,
}

var demoGenerateCmd = &cobra.Command{
	Use:   "generate <scenario>",
	Short: "Generate a VHS tape file for rendering",
	Args:  cobra.ExactArgs(1),
	RunE:  runDemoGenerate,
}

var demoCastCmd = &cobra.Command{
	Use:   "cast <scenario>",
	Short: "Generate an asciinema cast file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDemoCast,
}

func init() {
	// Add flags to subcommands that need them
	for _, cmd := range []*cobra.Command{demoRunCmd, demoGenerateCmd, demoCastCmd} {
		cmd.Flags().StringVarP(&demoOutput, "output", "o", "", "Output file")
		cmd.Flags().IntVarP(&demoWidth, "width", "w", 0, "Terminal width (default: the scenario's)")
		cmd.Flags().IntVarP(&demoHeight, "height", "H", 0, "Terminal height (default: the scenario's)")
		cmd.Flags().BoolVar(&demoCaptureAll, "capture-all", false, "Capture frame after every step (for debugging)")
	}

	demoRunCmd.Flags().BoolVar(&demoPlain, "plain", false, "Strip colors from printed frames")

	demoCmd.AddCommand(demoListCmd)
	demoCmd.AddCommand(demoRunCmd)
	demoCmd.AddCommand(demoGenerateCmd)
	demoCmd.AddCommand(demoCastCmd)
	rootCmd.AddCommand(demoCmd)
}

func getScenario(name string) (*demo.Scenario, error) {
	found := scenarios.Get(name)
	if found == nil && isScenarioFile(name) {
		var err error
		if found, err = demo.LoadScenarioFile(name); err != nil {
			return nil, err
		}
	}
	if found == nil {
		return nil, fmt.Errorf("unknown scenario %q\nRun 'scrollback demo list' to see available scenarios", name)
	}

	// Work on a copy so overrides don't leak into the registry
	scenario := *found

	// Override dimensions if specified
	if demoWidth > 0 {
		scenario.Width = demoWidth
	}
	if demoHeight > 0 {
		scenario.Height = demoHeight
	}

	return &scenario, nil
}

func isScenarioFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func executeScenario(scenario *demo.Scenario) ([]demo.Frame, error) {
	execCfg := demo.DefaultExecutorConfig()
	execCfg.CaptureEveryStep = demoCaptureAll

	executor := demo.NewExecutor(execCfg)
	return executor.Run(scenario)
}

func runDemoRun(cmd *cobra.Command, args []string) error {
	scenario, err := getScenario(args[0])
	if err != nil {
		return err
	}

	frames, err := executeScenario(scenario)
	if err != nil {
		return fmt.Errorf("error running scenario: %w", err)
	}

	// Print frames to stdout for testing
	fmt.Printf("Captured %d frames\n", len(frames))
	for i, f := range frames {
		fmt.Printf("\n=== Frame %d (delay: %v) ===\n", i, f.Delay)
		if f.Annotation != "" {
			fmt.Printf("Annotation: %s\n", f.Annotation)
		}
		if demoPlain {
			fmt.Println(ansi.Strip(f.Content))
		} else {
			fmt.Println(f.Content)
		}
	}

	return nil
}

func runDemoGenerate(cmd *cobra.Command, args []string) error {
	scenarioName := args[0]
	scenario, err := getScenario(scenarioName)
	if err != nil {
		return err
	}

	// Determine output file
	outputFile := demoOutput
	if outputFile == "" {
		outputFile = scenario.Name + ".tape"
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer f.Close()

	vhsCfg := demo.DefaultVHSConfig()
	vhsCfg.Output = strings.TrimSuffix(outputFile, ".tape") + ".gif"
	vhsCfg.Width = scenario.Width
	vhsCfg.Height = scenario.Height

	if err := demo.GenerateVHSTape(f, scenario, vhsCfg); err != nil {
		return fmt.Errorf("error generating VHS tape: %w", err)
	}

	fmt.Printf("Generated %s (%d steps)\n", outputFile, len(scenario.Steps))
	fmt.Printf("Render with: vhs %s\n", outputFile)

	return nil
}

func runDemoCast(cmd *cobra.Command, args []string) error {
	scenarioName := args[0]
	scenario, err := getScenario(scenarioName)
	if err != nil {
		return err
	}

	frames, err := executeScenario(scenario)
	if err != nil {
		return fmt.Errorf("error running scenario: %w", err)
	}

	// Determine output file
	outputFile := demoOutput
	if outputFile == "" {
		outputFile = scenario.Name + ".cast"
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer f.Close()

	castOpts := demo.CastOptions{Title: "scrollback: " + scenario.Description, Timestamp: time.Now()}
	if err := demo.GenerateASCIICast(f, frames, scenario.Width, scenario.Height, castOpts); err != nil {
		return fmt.Errorf("error generating cast file: %w", err)
	}

	fmt.Printf("Generated %s (%d frames)\n", outputFile, len(frames))
	fmt.Printf("Play with: asciinema play %s\n", outputFile)

	return nil
}
