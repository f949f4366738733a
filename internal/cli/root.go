// Package cli implements the dndsidebar command-line interface.
//
// The default command starts the interactive sidebar. The other commands
// expose the drag-and-drop engine headlessly, against the same config file:
//   - reorder: apply a drop of connections next to a target
//   - hit: hit-test a row geometry and report the insertion slot
//   - groups: print the grouped connection list
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dndsidebar/internal/config"
)

var version = "dev"

// SetVersion sets the version shown by --version
func SetVersion(v string) {
	version = v
}

// App holds the global flags shared by every command
type App struct {
	ConfigPath string
	Verbose    bool
	LogFile    string
}

func (a *App) level() log.Level {
	if a.Verbose {
		return log.DebugLevel
	}
	return log.InfoLevel
}

func (a *App) configService() config.ConfigService {
	return config.NewConfigService(a.ConfigPath)
}

// Execute runs the dndsidebar CLI
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:          "dndsidebar",
		Short:        "Connection sidebar with drag-and-drop grouping",
		Long:         `dndsidebar shows connections in collapsible groups. Connections and groups are reordered by dragging them with the mouse or moving them with the keyboard.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), app.level())))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSidebar(cmd.Context(), app)
		},
	}

	root.PersistentFlags().StringVar(&app.ConfigPath, "config", "", fmt.Sprintf("config file (default %s)", config.DefaultPath()))
	root.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&app.LogFile, "log-file", "dndsidebar.log", "log file used while the sidebar is open")

	root.AddCommand(newRunCmd(app))
	root.AddCommand(newReorderCmd(app))
	root.AddCommand(newHitCmd())
	root.AddCommand(newGroupsCmd(app))

	return root
}

// openLogFile opens path for appending. The caller closes the returned writer.
func openLogFile(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
