package main

import (
	"fmt"
	"os"

	"aliasdemo/internal/config"
	"aliasdemo/internal/demo"
	"aliasdemo/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// options holds the global flags shared by every subcommand.
type options struct {
	configPath string
	verbose    bool
	length     int
	fill       int
	aliasIndex int
	mode       string

	cfg    *config.Config
	logger *logging.Logger
	// logSink receives log output; nil means stderr.
	logSink zapcore.WriteSyncer
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithOptions(&options{})
}

func newRootCmdWithOptions(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aliasdemo",
		Short: "Demonstrate a value reference aliasing the sequence it updates",
		Long: `aliasdemo builds the sequence [2 2 2 2 2] and adds to every element the value
found at its first index, read again before each addition. Because the value
lives inside the sequence being updated, the first element doubles to 4 and
every later element gets that updated 4 added once, so the result is
[4 6 6 6 6] rather than the [4 4 4 4 4] a copied value would give.

Run without arguments to print the resulting sequence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := demo.NewRunner(opts.cfg, opts.logger).Run(cmd.OutOrStdout())
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file (optional)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	flags.IntVar(&opts.length, "length", 0, "Sequence length (default from config: 5)")
	flags.IntVar(&opts.fill, "fill", 0, "Initial value of every element (default from config: 2)")
	flags.IntVar(&opts.aliasIndex, "alias-index", 0, "Index the value reference aliases (default from config: 0)")
	flags.StringVar(&opts.mode, "mode", "", "Accumulation mode: reread, index or cached")

	rootCmd.AddCommand(newTraceCmd(opts), newConfigCmd())
	return rootCmd
}

// setup resolves configuration (file, env, then flags) and builds the logger.
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("length") {
		cfg.Sequence.Length = o.length
	}
	if flags.Changed("fill") {
		cfg.Sequence.Fill = o.fill
	}
	if flags.Changed("alias-index") {
		cfg.Sequence.AliasIndex = o.aliasIndex
	}
	if flags.Changed("mode") {
		cfg.Mode = config.Mode(o.mode)
	}

	logger, err := logging.New(cfg.Logging, o.verbose, o.logSink)
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logger
	logger.Get(logging.CategoryBoot).Debug("configuration resolved",
		zap.String("config_path", o.configPath),
		zap.String("version", cfg.Version))
	return nil
}

// sync flushes the logger, if one was built.
func (o *options) sync() {
	if o.logger != nil {
		_ = o.logger.Sync()
	}
}

// executeRoot runs cmd and flushes logs whether or not it failed.
func executeRoot(cmd *cobra.Command, opts *options) error {
	defer opts.sync()
	return cmd.Execute()
}

func main() {
	opts := &options{}
	if err := executeRoot(newRootCmdWithOptions(opts), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
