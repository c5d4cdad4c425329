// Command scaffold-cli stages common project templates onto a generated
// client-library tree and runs the hermetic post-processing hooks. Automation
// invokes it with no arguments from the library root; every step is also
// reachable individually for debugging.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	internalapimeta "github.com/goliatone/go-scaffold/internal/apimeta"
	internalmanifest "github.com/goliatone/go-scaffold/internal/manifest"
	"github.com/goliatone/go-scaffold/pkg/apimeta"
	"github.com/goliatone/go-scaffold/pkg/bundles"
	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/pipeline"
	"github.com/goliatone/go-scaffold/pkg/pipeline/config"
	"github.com/goliatone/go-scaffold/pkg/postprocess"
	nodeprocessor "github.com/goliatone/go-scaffold/pkg/processors/node"
	"github.com/goliatone/go-scaffold/pkg/workdir"
)

var (
	logger *zap.Logger

	flagDir      string
	flagKind     string
	flagDryRun   bool
	flagExcludes []string
	flagOnly     []string
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "scaffold-cli",
	Short: "Stage common templates and post-process generated client libraries",
	Long: `scaffold-cli copies the common project files (license, CI config, lint
configuration) onto a generated client-library working tree, then runs a
deterministic post-processing pass over the generated sources.

Run without arguments from the library root to perform the full sequence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		if flagQuiet {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialise logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(cmd)
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Stage templates onto the working tree, then post-process",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(cmd)
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in template bundles and their files",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := bundles.Common()
		if err != nil {
			return err
		}

		if flagKind == "" {
			for _, kind := range registry.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), kind)
			}
			return nil
		}

		set, err := registry.Render(cmd.Context(), flagKind, manifest.Manifest{}.TemplateData())
		if err != nil {
			return err
		}
		for _, path := range set.Paths() {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}

var postprocessCmd = &cobra.Command{
	Use:   "postprocess",
	Short: "Run the post-processing hooks without staging templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := flagDir
		if dir == "" {
			var err error
			dir, err = os.Getwd()
			if err != nil {
				return err
			}
		}

		tree, err := workdir.NewTree(dir)
		if err != nil {
			return err
		}

		loader, err := manifestLoader()
		if err != nil {
			return err
		}
		m, err := loader.Load(cmd.Context(), tree.Root())
		if err != nil {
			return err
		}
		cfg, err := config.Load(tree.Root())
		if err != nil {
			return err
		}

		registry := postprocess.NewRegistry()
		registry.MustRegister(nodeprocessor.New())

		processors, err := selectProcessors(registry, m.Kind, cfg.Processors)
		if err != nil {
			return err
		}
		for _, processor := range processors {
			logger.Debug("running post-processor", zap.String("processor", processor.Name()))
		}
		return postprocess.Chain(cmd.Context(), tree, m, processors...)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Author a .scaffold.yaml interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := flagDir
		if dir == "" {
			var err error
			dir, err = os.Getwd()
			if err != nil {
				return err
			}
		}
		target := filepath.Join(dir, config.FileName)

		if _, err := os.Stat(target); err == nil {
			overwrite := false
			prompt := &survey.Confirm{
				Message: config.FileName + " already exists. Overwrite?",
			}
			if err := survey.AskOne(prompt, &overwrite); err != nil {
				return err
			}
			if !overwrite {
				return nil
			}
		}

		cfg, err := promptConfig()
		if err != nil {
			return err
		}

		payload, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode %s: %w", config.FileName, err)
		}
		if err := os.WriteFile(target, payload, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", config.FileName, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
		return nil
	},
}

func runApply(cmd *cobra.Command) error {
	loader, err := manifestLoader()
	if err != nil {
		return err
	}

	options := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithManifestLoader(loader),
	}

	dir := flagDir
	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if len(cfg.Excludes) > 0 {
		options = append(options, pipeline.WithExcludes(cfg.Excludes...))
	}
	if len(flagExcludes) > 0 {
		options = append(options, pipeline.WithExcludes(flagExcludes...))
	}
	if len(cfg.Processors) > 0 {
		registry := postprocess.NewRegistry()
		registry.MustRegister(nodeprocessor.New())
		selected, err := registry.Select(cfg.Processors...)
		if err != nil {
			return err
		}
		options = append(options, pipeline.WithProcessors(selected...))
	}

	kind := flagKind
	if kind == "" && cfg.Kind != config.DefaultKind {
		kind = cfg.Kind
	}

	p := pipeline.New(options...)
	report, err := p.Run(cmd.Context(), pipeline.Request{
		Dir:    dir,
		Kind:   kind,
		DryRun: flagDryRun,
	})
	if err != nil {
		return err
	}

	logger.Debug("run finished",
		zap.String("kind", report.Kind),
		zap.Int("written", report.Written()),
		zap.Strings("processors", report.Processors),
		zap.Duration("duration", report.Duration),
	)
	return nil
}

func manifestLoader() (manifest.Loader, error) {
	return apimeta.NewLoader(internalmanifest.New(), internalapimeta.New())
}

// selectProcessors picks the hook list: --only wins, then the configured
// processor names, then every registered processor serving the kind.
func selectProcessors(registry *postprocess.Registry, kind string, configured []string) ([]postprocess.Processor, error) {
	names := flagOnly
	if len(names) == 0 {
		names = configured
	}
	if len(names) == 0 {
		return registry.ForKind(kind), nil
	}
	return registry.Select(names...)
}

func promptConfig() (config.Config, error) {
	cfg := config.Default()

	kindPrompt := &survey.Select{
		Message: "Library kind:",
		Options: []string{"node", "go"},
		Default: cfg.Kind,
	}
	if err := survey.AskOne(kindPrompt, &cfg.Kind); err != nil {
		return config.Config{}, err
	}

	excludes := ""
	excludePrompt := &survey.Input{
		Message: "Exclude globs (comma separated, empty for none):",
	}
	if err := survey.AskOne(excludePrompt, &excludes); err != nil {
		return config.Config{}, err
	}
	for _, pattern := range strings.Split(excludes, ",") {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			cfg.Excludes = append(cfg.Excludes, trimmed)
		}
	}

	namePrompt := &survey.Input{
		Message: "Library name (empty to discover from the tree):",
	}
	if err := survey.AskOne(namePrompt, &cfg.Manifest.Name); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "working tree root (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "only log warnings and errors")

	applyCmd.Flags().StringVar(&flagKind, "kind", "", "template bundle kind (default: discovered from the tree)")
	applyCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report without writing files")
	applyCmd.Flags().StringArrayVar(&flagExcludes, "exclude", nil, "glob pattern to leave untouched (repeatable)")

	rootCmd.Flags().StringVar(&flagKind, "kind", "", "template bundle kind (default: discovered from the tree)")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report without writing files")
	rootCmd.Flags().StringArrayVar(&flagExcludes, "exclude", nil, "glob pattern to leave untouched (repeatable)")

	templatesCmd.Flags().StringVar(&flagKind, "kind", "", "bundle kind to list files for")

	postprocessCmd.Flags().StringArrayVar(&flagOnly, "only", nil, "processor name to run (repeatable)")

	rootCmd.AddCommand(applyCmd, templatesCmd, postprocessCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
