// Package cmd implements the vcsview command line surface: a single
// command that detects the repository in the current directory and
// launches the TUI, plus the usual -h/--help and -v/--version.
package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kestrel-tools/vcsview/internal/app"
	"github.com/kestrel-tools/vcsview/internal/applog"
	"github.com/kestrel-tools/vcsview/internal/vcs"
	"github.com/kestrel-tools/vcsview/internal/vcs/git"
)

func init() {
	// Force lipgloss/termenv to query terminal background color before
	// bubbletea's input loop starts, so the OSC 11 response can't race it
	// and land as garbage text. See charmbracelet/bubbletea#1036.
	_ = lipgloss.HasDarkBackground()

	vcs.Detectors = append(vcs.Detectors, func(ctx context.Context, dir string) (string, vcs.Backend, bool) {
		root, backend, ok := git.Detect(ctx, dir)
		return root, backend, ok
	})
}

var (
	version   = "dev"
	debugPath string
)

var rootCmd = &cobra.Command{
	Use:           "vcsview",
	Short:         "A terminal ui over the repository in the current directory",
	Long:          "vcsview is a gitui-style terminal interface: status, log, revision details, branches, and tags, presented through one keystroke-driven mode per screen.",
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&debugPath, "debug", "",
		"write debug logs to the given path")
	// --debug with no value still enables logging, to debug.log.
	rootCmd.PersistentFlags().Lookup("debug").NoOptDefVal = "debug.log"
	_ = rootCmd.PersistentFlags().MarkHidden("debug")
}

func runApp(cmd *cobra.Command, args []string) error {
	if debugPath == "" && os.Getenv("VCSVIEW_DEBUG") != "" {
		debugPath = "debug.log"
	}
	if debugPath != "" {
		cleanup, err := applog.Init(debugPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		applog.Info(applog.CatUI, "vcsview starting", "version", version)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	ctx := context.Background()
	_, backend, err := vcs.Detect(ctx, workDir)
	if err != nil {
		return err
	}

	p := tea.NewProgram(app.New(backend), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	if debugPath != "" {
		applog.Info(applog.CatUI, "vcsview shutting down")
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by -v/--version, injected
// from main via ldflags.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
