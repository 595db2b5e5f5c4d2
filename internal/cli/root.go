package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/qiniu/qareport/internal/config"
	gh "github.com/qiniu/qareport/internal/github"
	"github.com/qiniu/qareport/internal/locator"
	"github.com/qiniu/qareport/internal/render"
	"github.com/qiniu/qareport/internal/summarizer"
	"github.com/qiniu/qareport/internal/trace"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

// NoLogMessage is printed when the directory holds no QA log
const NoLogMessage = "❌ No QA_Log_*.md file found in this directory."

type options struct {
	configPath string
	dir        string
	output     string
	render     bool
	publish    bool
	verbose    bool
}

// NewRootCommand builds the qareport command tree
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "qareport",
		Short: "Summarize the newest QA log into a project update",
		Long: `qareport finds the newest QA_Log_<YYYY-MM-DD>.md in a directory, extracts its
Tasks Done, Bugs Found, Fixes Verified, Observations and Next Steps sections,
and prints them as a markdown project update.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultConfigPath, "Path to the configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Directory to scan for QA logs (default \".\")")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Also write the report to this file")
	rootCmd.Flags().BoolVar(&opts.render, "render", false, "Pretty-print the report for the terminal")
	rootCmd.Flags().BoolVar(&opts.publish, "publish", false, "Publish the report to GitHub")

	rootCmd.AddCommand(newVersionCommand(version))
	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCommand(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig loads the configuration file and applies flag overrides
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Log.Dir = opts.dir
	}
	if flags.Changed("output") {
		cfg.Output.Path = opts.output
	}
	if flags.Changed("render") {
		cfg.Output.Render = opts.render
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupLogging(w io.Writer, level string) {
	log.SetOutput(w)
	switch level {
	case "debug":
		log.SetOutputLevel(log.Ldebug)
	case "warn":
		log.SetOutputLevel(log.Lwarn)
	case "error":
		log.SetOutputLevel(log.Lerror)
	default:
		log.SetOutputLevel(log.Linfo)
	}
}

func runSummarize(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	setupLogging(cmd.ErrOrStderr(), cfg.Log.Level)

	// 发布配置有误时在读取日志前失败
	var publisher gh.Publisher
	if opts.publish {
		publisher, err = gh.NewPublisher(cmd.Context(), cfg)
		if err != nil {
			return err
		}
	}

	ctx := trace.NewContext(cmd.Context(), trace.NewTraceID("summarize"))
	xl := trace.Logger(ctx)

	result, err := summarizer.New().Run(ctx, cfg.Log.Dir)
	if errors.Is(err, locator.ErrNoLogFound) {
		fmt.Fprintln(cmd.OutOrStdout(), NoLogMessage)
		return nil
	}
	if err != nil {
		return err
	}

	if cfg.Output.Path != "" {
		if err := os.WriteFile(cfg.Output.Path, []byte(result.Report), 0644); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", cfg.Output.Path, err)
		}
		xl.Infof("Report written to %s", cfg.Output.Path)
	}

	out := result.Report
	if cfg.Output.Render {
		renderer, err := render.NewRenderer(cmd.OutOrStdout(), cfg.Output.WordWrap)
		if err != nil {
			return err
		}
		if out, err = renderer.Render(result.Report); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if publisher != nil {
		publishCtx, cancel := context.WithTimeout(ctx, cfg.GitHub.Publish.Timeout)
		defer cancel()

		link, err := publisher.Publish(publishCtx, result.Report)
		if err != nil {
			return summarizer.PublishError(publisher.Target(), err)
		}
		xl.Infof("Report published: %s", link)
	}
	return nil
}
