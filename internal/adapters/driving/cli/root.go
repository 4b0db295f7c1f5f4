// Package cli provides the lispmeta command-line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lispmeta/internal/core/ports/driving"
	"github.com/custodia-labs/lispmeta/internal/logger"
)

// version is set by SetVersion from the build.
var version = "dev"

// Services wired into the commands.
var (
	importService   driving.ImportService
	indexService    driving.IndexService
	watchService    driving.WatchService
	searchService   driving.SearchService
	settingsService driving.SettingsService
)

// Global flags.
var (
	verboseFlag   bool
	logLevelFlag  string
	configDirFlag string
	dataDirFlag   string
)

// Options carries the global flag values a Bootstrap needs.
type Options struct {
	ConfigDir string
	DataDir   string
}

// Services holds the driving ports the commands call.
type Services struct {
	Import   driving.ImportService
	Index    driving.IndexService
	Watch    driving.WatchService
	Search   driving.SearchService
	Settings driving.SettingsService
}

// Bootstrap builds the services once flags are parsed. The returned
// function releases their resources.
type Bootstrap func(opts Options) (*Services, func() error, error)

var (
	bootstrap Bootstrap
	cleanup   func() error
)

var rootCmd = &cobra.Command{
	Use:   "lispmeta",
	Short: "Extract and search metadata in Lisp source headers",
	Long: `lispmeta reads the comment header of Lisp source files (Common Lisp,
Emacs Lisp, Scheme, Clojure) and extracts fields such as Author, Version,
License and Keywords into a searchable local index.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// skipBootstrap marks commands that need no services.
const skipBootstrap = "skip-bootstrap"

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "log every matched field")
	pf.StringVar(&logLevelFlag, "log-level", "", "log level: verbose, debug or off")
	pf.StringVar(&configDirFlag, "config-dir", "", "configuration directory (default ~/.lispmeta)")
	pf.StringVar(&dataDirFlag, "data-dir", "", "index directory (default ~/.lispmeta/data)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires services on startup.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	importService = s.Import
	indexService = s.Index
	watchService = s.Watch
	searchService = s.Search
	settingsService = s.Settings
}

// Execute runs the root command and releases the services afterwards.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := teardown(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// setup configures logging from flags and settings, then wires services.
func setup(cmd *cobra.Command, _ []string) error {
	if bootstrap != nil && cmd.Annotations[skipBootstrap] == "" {
		s, release, err := bootstrap(Options{ConfigDir: configDirFlag, DataDir: dataDirFlag})
		if err != nil {
			return fmt.Errorf("initialise: %w", err)
		}
		SetServices(s)
		cleanup = release
	}

	level := logger.LevelOff
	if settingsService != nil && logLevelFlag == "" {
		if settings, err := settingsService.Get(); err == nil {
			if l, err := logger.LevelFromName(settings.Log.Level); err == nil {
				level = l
			}
		}
	}
	if logLevelFlag != "" {
		l, err := logger.LevelFromName(logLevelFlag)
		if err != nil {
			return err
		}
		level = l
	}
	if verboseFlag {
		level = logger.LevelVerbose
	}
	logger.SetLevel(level)
	return nil
}

func teardown() error {
	if cleanup == nil {
		return nil
	}
	release := cleanup
	cleanup = nil
	return release()
}

// errNotConfigured reports a command run without its service wired.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
