// Package cli wires configuration, logging and tracing into the
// content-strategy command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"content_strategy_designer/config"
	"content_strategy_designer/generator"
	"content_strategy_designer/logger"
	"content_strategy_designer/observability"
)

// app holds state shared by every subcommand once the root has run setup.
type app struct {
	cfgFile string
	verbose bool

	cfg      *config.Config
	log      *logger.Logger
	shutdown func(context.Context) error
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "content-strategy",
		Short: "Generate content strategies with a language model",
		Long: `content-strategy turns a business description, audience, goals and a
primary platform into a six-part content strategy: audience analysis,
content pillars, distribution, calendar, metrics and a six-month timeline.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml or $XDG_CONFIG_HOME/content-strategy/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logs")

	root.AddCommand(newServeCmd(a), newGenerateCmd(a))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logging.Mode, a.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	shutdown, err := observability.InitOTel(cmd.Context(), log, observability.OtelConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
		Writer:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	a.cfg, a.log, a.shutdown = cfg, log, shutdown
	return nil
}

// run wraps a subcommand so tracing and logging are flushed whether or not
// the command fails. Cobra skips post-run hooks after a RunE error.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if terr := a.teardown(cmd.Context()); err == nil {
				err = terr
			}
		}()
		return fn(cmd, args)
	}
}

func (a *app) teardown(ctx context.Context) error {
	if a.log != nil {
		defer a.log.Sync()
	}
	if a.shutdown != nil {
		return a.shutdown(ctx)
	}
	return nil
}

// agent builds the generator from the loaded configuration.
func (a *app) agent(ctx context.Context) (*generator.Agent, error) {
	llm, err := generator.NewLLM(ctx, a.cfg.LLMSettings())
	if err != nil {
		return nil, err
	}
	a.log.Debug("model client ready", "provider", a.cfg.LLM.Provider, "model", a.cfg.LLM.Model)
	return generator.NewAgent(llm,
		generator.WithExtractMode(a.cfg.ExtractMode()),
		generator.WithStrictShape(a.cfg.Generator.StrictShape),
		generator.WithTimeout(a.cfg.LLM.Timeout()),
		generator.WithLogger(a.log),
	)
}
