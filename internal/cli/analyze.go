// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/api2spec/routelint/internal/analysis"
	"github.com/api2spec/routelint/internal/config"
	"github.com/api2spec/routelint/internal/logging"
	"github.com/api2spec/routelint/internal/plugins"
	_ "github.com/api2spec/routelint/internal/plugins/rails"
	"github.com/api2spec/routelint/internal/scanner"
)

// getenv reads the environment switches; tests replace it.
var getenv = os.Getenv

// session is the configuration, logger and plugin one command runs with.
type session struct {
	cfg     *config.Config
	root    string
	logger  *slog.Logger
	closer  io.Closer
	plugin  plugins.FrameworkPlugin
	project plugins.Project
}

// newSession loads the configuration, applies the environment switches,
// the global flags and then prepare, validates the result and resolves the
// framework plugin. The caller must close the session.
func newSession(prepare func(cfg *config.Config) error) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	config.ApplyEnvironment(cfg, getenv)
	applyGlobalFlags(cfg)
	if prepare != nil {
		if err := prepare(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", cfg.Root, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	logger, closer := logging.New(rootCmd.ErrOrStderr(), logging.Options{
		Level:      cfg.Log.Level,
		Verbosity:  verbose,
		Quiet:      quiet,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	plugin, err := resolvePlugin(cfg.Framework, root)
	if err != nil {
		closer.Close()
		return nil, err
	}
	logger.Debug("resolved framework", "framework", plugin.Name(), "root", root)
	if p, ok := plugin.(plugins.InfoProvider); ok {
		info := p.Info()
		logger.Debug("plugin info", "name", info.Name, "version", info.Version, "description", info.Description)
	}

	return &session{
		cfg:    cfg,
		root:   root,
		logger: logger,
		closer: closer,
		plugin: plugin,
		project: plugins.Project{
			Root:        root,
			RoutesFiles: cfg.Routes.Files,
			Logger:      logger,
		},
	}, nil
}

// loadConfig reads the explicit --config file, or searches the --root
// directory, or the working directory.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case cfgFile != "":
		cfg, err = config.Load(cfgFile)
	case rootDir != "":
		cfg, err = config.LoadFromPath(rootDir)
	default:
		cfg, err = config.Load("")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// applyGlobalFlags overrides the configuration with the persistent flags.
func applyGlobalFlags(cfg *config.Config) {
	if rootDir != "" {
		cfg.Root = rootDir
	}
	if framework != "" {
		cfg.Framework = framework
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if verbose > 0 {
		cfg.Analysis.Verbose = true
	}
}

// resolvePlugin returns the named plugin, or detects one when name is "auto".
func resolvePlugin(name, root string) (plugins.FrameworkPlugin, error) {
	if name == "" || name == "auto" {
		plugin, err := plugins.Detect(root)
		if err != nil {
			return nil, fmt.Errorf("failed to detect framework: %w", err)
		}
		return plugin, nil
	}

	plugin := plugins.Get(name)
	if plugin == nil {
		return nil, fmt.Errorf("unsupported framework %q, must be one of: %s, auto", name, strings.Join(plugins.List(), ", "))
	}
	return plugin, nil
}

// Close releases the log file.
func (s *session) Close() error {
	return s.closer.Close()
}

// format returns the lower-cased output format.
func (s *session) format() string {
	return strings.ToLower(s.cfg.Output.Format)
}

// loadControllers scans the controller sources and builds their hierarchy.
func (s *session) loadControllers(ctx context.Context) (*analysis.ControllerSet, error) {
	files, err := scanner.New(scanner.Config{
		BasePath:         s.root,
		IncludePatterns:  s.cfg.Controllers.Include,
		ExcludePatterns:  s.cfg.Controllers.Exclude,
		Extensions:       s.plugin.Extensions(),
		RespectGitignore: s.cfg.Controllers.RespectGitignore,
	}).Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan controllers: %w", err)
	}
	s.logger.Debug("scanned controller sources", "files", len(files))

	controllers, err := s.plugin.LoadControllers(ctx, s.project, files)
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	s.logger.Info("loaded controllers", "controllers", controllers.Len())
	return controllers, nil
}

// analyze runs one full pass: controllers, route events, classification.
func (s *session) analyze(ctx context.Context) (*analysis.Result, *analysis.ControllerSet, error) {
	controllers, err := s.loadControllers(ctx)
	if err != nil {
		return nil, nil, err
	}

	engine := analysis.NewEngine(analysis.Options{
		Root:       s.root,
		Verbose:    s.cfg.Analysis.Verbose,
		OnlyOnly:   s.cfg.Analysis.OnlyOnly,
		OnlyExcept: s.cfg.Analysis.OnlyExcept,
		Logger:     s.logger,
	})
	result, err := engine.Analyze(ctx, s.plugin.RouteSource(s.project), controllers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to analyze routes: %w", err)
	}
	s.logger.Info("analyzed routes", "events", len(result.Events), "calls", len(result.Calls), "issues", len(result.Issues()))
	return result, controllers, nil
}

// fail wraps err so the command exits with ExitCodeError.
func fail(err error) error {
	return &ExitError{Code: ExitCodeError, Err: err}
}
