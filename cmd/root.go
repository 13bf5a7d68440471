package cmd

import (
	"context"
	"time"

	"phihelper/pkg/config"
	"phihelper/pkg/enumerate"
	"phihelper/pkg/llm"
	"phihelper/pkg/logging"
	"phihelper/pkg/tokens"
	"phihelper/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	logger     *zap.Logger
	configPath string
	debug      bool
	timeout    time.Duration

	newClient func(cfg config.Config, logger *zap.Logger) (llm.Client, error)
	lister    enumerate.Lister
	counter   *tokens.Counter
}

func newApp(logger *zap.Logger) *app {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &app{
		logger:  logger,
		timeout: 2 * time.Minute,
		newClient: func(cfg config.Config, logger *zap.Logger) (llm.Client, error) {
			return llm.New(cfg, logger)
		},
		lister: enumerate.GitLister{},
	}
}

// NewRootCmd builds the phihelper command tree around logger.
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	return newRootCmd(newApp(logger))
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "phihelper",
		Short: "phihelper asks a hosted language model about your code",
		Long: `phihelper packs source files from a repository into a single prompt, sends it to an
OpenAI or Azure OpenAI chat-completion endpoint, and prints the answer. It can answer
ad-hoc questions, write documentation, and suggest improvements.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !a.debug {
				return nil
			}
			logger, err := logging.Setup(true, "phihelper", version.Get().Version)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the config file (default $PHIHELPER_CONFIG or <user config dir>/phihelper/config.json)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (also estimates prompt tokens, which may download the tiktoken encoding once; set TIKTOKEN_CACHE_DIR to cache it)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", a.timeout, "Timeout for repository listing and the API call")

	root.AddCommand(
		newSetupCmd(a),
		newAnalyzeCmd(a),
		newDocsCmd(a),
		newSuggestCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command. Errors are returned to main, which treats them as fatal.
func Execute(logger *zap.Logger) error {
	return NewRootCmd(logger).ExecuteContext(context.Background())
}
