package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zhubert/scrollback/internal/config"
	"github.com/zhubert/scrollback/internal/logger"
)

var (
	skipConfirm bool
	resetConfig bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove log files and optionally reset the config",
	Long: `Removes scrollback's debug log files. With --reset-config the config file
is rewritten with default settings as well.

It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cleanCmd.Flags().BoolVar(&resetConfig, "reset-config", false, "Also restore the default config")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return runCleanWithReader(os.Stdin)
}

// runCleanWithReader allows injecting a reader for testing
func runCleanWithReader(input io.Reader) error {
	logs, err := filepath.Glob(logger.DefaultLogPath + "*")
	if err != nil {
		return fmt.Errorf("error finding log files: %w", err)
	}

	var configFile string
	if resetConfig {
		if configFile, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("error locating config: %w", err)
		}
	}

	// Check if there's anything to clean
	if len(logs) == 0 && !resetConfig {
		fmt.Println("Nothing to clean.")
		return nil
	}

	// Print summary of what will be cleaned
	fmt.Println("This will clean:")
	if len(logs) > 0 {
		fmt.Printf("  - %d log file(s)\n", len(logs))
		for _, path := range logs {
			fmt.Printf("      %s\n", path)
		}
	}
	if resetConfig {
		fmt.Printf("  - Settings in %s\n", configFile)
	}

	// Confirm unless --yes flag is set
	if !skipConfirm {
		if !confirm(input, "Continue?") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	if resetConfig {
		fresh := config.Default()
		fresh.SetFilePath(configFile)
		if err := fresh.Save(); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
	}

	// Print results
	fmt.Println()
	fmt.Println("Cleaned:")
	if logsCleared > 0 {
		fmt.Printf("  - %d log file(s) removed\n", logsCleared)
	}
	if resetConfig {
		fmt.Println("  - config reset to defaults")
	}

	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
