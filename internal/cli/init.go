// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/api2spec/routelint/internal/config"
	"github.com/api2spec/routelint/internal/plugins"
)

// DefaultConfigFile is the file init writes.
const DefaultConfigFile = "routelint.yaml"

var (
	initFramework   string
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new routelint configuration file",
	Long: `Initialize a new routelint configuration file in the application root.

This command creates a routelint.yaml file with sensible defaults
that you can customize for your application.

Features:
  - Auto-detects Rails from the Gemfile or config/routes.rb
  - Picks up split routes files under config/routes
  - Finds gems installed under vendor/bundle

Example:
  routelint init                         # Auto-detect and create config
  routelint init --root ../shop          # Create config for another app
  routelint init --force                 # Overwrite existing config
  routelint init --interactive           # Interactive mode with prompts`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initFramework, "framework", "", "web framework to use. If not specified, auto-detects from project files")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
}

func runInit(cmd *cobra.Command, args []string) error {
	projectRoot := "."
	if rootDir != "" {
		projectRoot = rootDir
	}
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}
	configFile := filepath.Join(projectRoot, DefaultConfigFile)

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	// Create config with sensible defaults
	cfg := config.Default()

	// Detect framework if not specified
	fw := initFramework
	if framework != "" {
		fw = framework
	}

	if fw == "" {
		printVerbose("Auto-detecting framework...")
		detectedPlugin, err := plugins.Detect(projectRoot)
		if err != nil {
			printVerbose("Framework detection failed: %v", err)
			printInfo("No framework auto-detected. Using 'auto' mode.")
			fw = "auto"
		} else {
			fw = detectedPlugin.Name()
			printInfo("Detected framework: %s", fw)
		}
	} else if fw != "auto" && plugins.Get(fw) == nil {
		return fmt.Errorf("unsupported framework %q, must be one of: %s, auto", fw, strings.Join(plugins.List(), ", "))
	}
	cfg.Framework = fw

	info := detectProjectInfo(projectRoot)
	if info.RailsVersion != "" {
		printVerbose("Rails version constraint: %s", info.RailsVersion)
	}
	cfg.Routes.Files = detectRoutesFiles(projectRoot)
	printVerbose("Routes files: %s", strings.Join(cfg.Routes.Files, ", "))
	if info.VendoredGems {
		printVerbose("Found gems installed under vendor/bundle")
	} else {
		cfg.Gems.Paths = []string{}
	}

	// Interactive mode
	if initInteractive && isTerminal() {
		cfg, err = interactiveInit(cfg, os.Stdin, cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("interactive init failed: %w", err)
		}
	}

	// Build YAML with comments
	out, err := buildConfigYAML(cfg, info)
	if err != nil {
		return err
	}

	// Write config file
	if err := os.WriteFile(configFile, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Framework: %s", cfg.Framework)
	printVerbose("Controllers: %s", strings.Join(cfg.Controllers.Include, ", "))

	return nil
}

// projectInfo holds information detected from the application.
type projectInfo struct {
	// Name is the application directory name
	Name string

	// RailsVersion is the version constraint of the rails gem, if any
	RailsVersion string

	// VendoredGems is true when gems are installed under vendor/bundle
	VendoredGems bool
}

var railsGemPattern = regexp.MustCompile(`^\s*gem\s+['"]rails['"]\s*(?:,\s*['"]([^'"]+)['"])?`)

// detectProjectInfo detects application information from the Gemfile and layout.
func detectProjectInfo(projectRoot string) projectInfo {
	info := projectInfo{Name: filepath.Base(projectRoot)}

	if stat, err := os.Stat(filepath.Join(projectRoot, "vendor", "bundle")); err == nil && stat.IsDir() {
		info.VendoredGems = true
	}

	file, err := os.Open(filepath.Join(projectRoot, "Gemfile"))
	if err != nil {
		return info
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := railsGemPattern.FindStringSubmatch(scanner.Text()); m != nil {
			info.RailsVersion = m[1]
			if info.RailsVersion == "" {
				info.RailsVersion = "any"
			}
			break
		}
	}

	return info
}

// detectRoutesFiles returns the routes file patterns present in the application.
func detectRoutesFiles(projectRoot string) []string {
	var files []string

	candidates := []struct {
		path    string
		pattern string
		dir     bool
	}{
		{"config/routes.rb", "config/routes.rb", false},
		{"config/routes", "config/routes/**/*.rb", true},
	}

	for _, c := range candidates {
		stat, err := os.Stat(filepath.Join(projectRoot, filepath.FromSlash(c.path)))
		if err == nil && stat.IsDir() == c.dir {
			files = append(files, c.pattern)
		}
	}

	// Keep the defaults when the layout is not recognised
	if len(files) == 0 {
		files = config.Default().Routes.Files
	}

	return files
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// interactiveInit prompts the user for configuration options.
func interactiveInit(cfg *config.Config, in io.Reader, out io.Writer) (*config.Config, error) {
	reader := bufio.NewReader(in)

	ask := func(prompt, current string) string {
		fmt.Fprintf(out, "%s [%s]: ", prompt, current)
		answer, _ := reader.ReadString('\n')
		return strings.TrimSpace(answer)
	}

	if fw := ask("Framework", cfg.Framework); fw != "" {
		cfg.Framework = fw
	}

	if files := ask("Routes files (comma separated)", strings.Join(cfg.Routes.Files, ",")); files != "" {
		cfg.Routes.Files = splitList(files)
	}

	if include := ask("Controller files (comma separated)", strings.Join(cfg.Controllers.Include, ",")); include != "" {
		cfg.Controllers.Include = splitList(include)
	}

	if format := ask("Output format (text/json/yaml/toml)", cfg.Output.Format); format != "" {
		cfg.Output.Format = format
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// buildConfigYAML builds a YAML config with a descriptive header.
func buildConfigYAML(cfg *config.Config, info projectInfo) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	header := "# routelint configuration file\n"
	if info.Name != "" {
		header += fmt.Sprintf("# application: %s\n", info.Name)
	}
	if info.RailsVersion != "" {
		header += fmt.Sprintf("# rails: %s\n", info.RailsVersion)
	}
	return header + "\n" + string(data), nil
}
