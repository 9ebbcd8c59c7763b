package main

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coregx/ecmaregex"
)

// envPrefix prefixes environment overrides, e.g. ECMARE_STEPS.
const envPrefix = "ECMARE"

// app carries what every subcommand shares.
type app struct {
	conf *viper.Viper
	log  *zap.Logger
	out  io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{conf: viper.New(), log: zap.NewNop(), out: out}

	root := &cobra.Command{
		Use:   "ecmare",
		Short: "Run ECMAScript regular expressions",
		Long: `
ecmare compiles /pattern/flags literals with JavaScript semantics and runs
them against text. Every search is bounded by a step budget and an optional
timeout, so pathological patterns fail instead of hanging.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init(errOut)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.Int64("steps", ecmaregex.DefaultConfig().StepLimit,
		"Maximum instructions per search. 0 means unlimited.")
	flags.Duration("timeout", 0,
		"Maximum time per search, e.g. 50ms. 0 means no timeout.")
	flags.Bool("verbose", false, "Log compilation and search details to stderr.")
	flags.String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")
	// BindPFlags only fails for a nil flag set.
	_ = a.conf.BindPFlags(flags)
	a.conf.SetEnvPrefix(envPrefix)
	a.conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.conf.AutomaticEnv()

	root.AddCommand(a.matchCmd(), a.findCmd(), a.checkCmd())
	return root
}

// init reads the config file and builds the logger.
func (a *app) init(errOut io.Writer) error {
	if cfg := a.conf.GetString("config"); cfg != "" {
		a.conf.SetConfigFile(cfg)
		if err := a.conf.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", cfg)
		}
	}

	level := zapcore.WarnLevel
	if a.conf.GetBool("verbose") {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(errOut),
		level,
	)
	a.log = zap.New(core)
	return nil
}

// regexConfig returns the compile configuration selected by flags,
// environment and config file.
func (a *app) regexConfig() (ecmaregex.Config, error) {
	config := ecmaregex.DefaultConfig()
	config.StepLimit = a.conf.GetInt64("steps")
	config.Timeout = a.conf.GetDuration("timeout")
	if err := config.Validate(); err != nil {
		return config, errors.Wrap(err, "invalid search limits")
	}
	return config, nil
}

// compile compiles a /pattern/flags literal under the configured limits.
func (a *app) compile(literal string) (*ecmaregex.Regex, error) {
	config, err := a.regexConfig()
	if err != nil {
		return nil, err
	}
	pattern, flags, err := ecmaregex.SplitLiteral(literal)
	if err != nil {
		return nil, err
	}
	re, err := ecmaregex.CompileWithConfig(pattern, flags, config)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %s", literal)
	}
	a.log.Debug("compiled",
		zap.String("pattern", pattern),
		zap.Stringer("flags", flags),
		zap.Int("groups", re.NumSubexp()),
		zap.Int("heap_bytes", re.HeapBytes()),
		zap.Uint64("fingerprint", re.Fingerprint()))
	return re, nil
}
