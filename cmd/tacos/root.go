package tacos

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	shop "github.com/ecadlabs/taco-shop"
	"github.com/ecadlabs/taco-shop/config"
	"github.com/ecadlabs/taco-shop/sdk"
	"github.com/ecadlabs/taco-shop/sdk/tezos"
	"github.com/ecadlabs/taco-shop/types"
)

type envLoader func(files ...string) (map[string]string, error)

type rootOptions struct {
	loadEnv      envLoader
	envFiles     []string
	prefix       string
	contract     string
	account      string
	timeout      time.Duration
	pollInterval time.Duration
	logLevel     string

	logger *zap.SugaredLogger
}

// BuildTacosCmd returns the root command. Settings come from the process environment
// completed with the --env-file files.
func BuildTacosCmd() *cobra.Command {
	return newRootCmd(config.LoadEnv)
}

func newRootCmd(loadEnv envLoader) *cobra.Command {
	o := &rootOptions{loadEnv: loadEnv}

	cmd := cobra.Command{
		Use:           "tacos",
		Short:         "Run the hello-tacos shop from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), o.logLevel)
			if err != nil {
				return err
			}
			o.logger = logger
			cmd.SetContext(sdk.WithLogger(cmd.Context(), logger))

			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringSliceVar(&o.envFiles, "env-file", []string{".env"}, "dotenv files completing the environment")
	flags.StringVar(&o.prefix, "prefix", "", "prefix of the TAQ_* variables")
	flags.StringVar(&o.contract, "contract", "hello-tacos", "contract alias")
	flags.StringVar(&o.account, "account", "alice", "alias of the signing account")
	flags.DurationVar(&o.timeout, "timeout", 0, "confirmation timeout, overrides the environment setting")
	flags.DurationVar(&o.pollInterval, "poll-interval", tezos.DefaultPollInterval, "interval between checks for inclusion")
	flags.StringVar(&o.logLevel, "log-level", "info", "log level")
	_ = flags.MarkHidden("poll-interval")

	cmd.AddCommand(newAccountsCmd(o))
	cmd.AddCommand(newStorageCmd(o))
	cmd.AddCommand(newBalanceCmd(o))
	cmd.AddCommand(newStatusCmd(o))
	cmd.AddCommand(newMakeCmd(o))
	cmd.AddCommand(newBuyCmd(o))
	cmd.AddCommand(newTransferCmd(o))
	cmd.AddCommand(newOriginateCmd(o))

	return &cmd
}

func newLogger(w io.Writer, level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)).Sugar(), nil
}

func (o *rootOptions) profile(required ...string) (*types.NetworkProfile, error) {
	env, err := o.loadEnv(o.envFiles...)
	if err != nil {
		return nil, err
	}

	return config.Resolve(env, o.prefix, required...)
}

func (o *rootOptions) session(required ...string) (*shop.Session, error) {
	profile, err := o.profile(required...)
	if err != nil {
		return nil, err
	}

	return shop.NewSession(profile, o.account,
		shop.WithTransportLogger(o.logger),
		shop.WithExecutorOptions(tezos.WithPollInterval(o.pollInterval)),
	)
}

// confirmationTimeout returns the --timeout value, or the one of the profile.
func (o *rootOptions) confirmationTimeout(s *shop.Session) time.Duration {
	return types.NewDuration(o.timeout).OrDefault(s.Profile().ConfirmationTimeout())
}
