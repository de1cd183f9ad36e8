package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"swap-bot/config"
	"swap-bot/pkg/chain"
)

var rootCmd = &cobra.Command{
	Use:   "swap-bot",
	Short: "A CLI for swapping tokens through a Uniswap V2 style router",
	Long: `swap-bot is a command-line tool that swaps between the native currency and
ERC20 tokens through a Uniswap V2 style router contract. It computes the minimum
output from your slippage tolerance, sets a short deadline, and submits the swap
from the configured key.

Examples:
  swap-bot swap 0.01 ETH to LINK --slippage 1
  swap-bot swap
  swap-bot price eth-usd
  swap-bot balance
  swap-bot status <tx-hash> --watch`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.swap-bot.yaml)")
}

// env is what every subcommand needs after startup
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *chain.Client
	json   bool
}

func (e *env) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

// newLogger builds the stderr console logger at the configured level
func newLogger(level string, verbose bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log := zerolog.New(out).With().Timestamp().Logger()

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return log.Level(lvl)
}

// loadConfig reads the configuration named by --config, or the default search path
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	return config.Load(configFile)
}

// setup loads configuration, builds the logger, and dials the chain
func setup(ctx context.Context, cmd *cobra.Command) (*env, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg.LogLevel, verbose).With().
		Str("run_id", uuid.New().String()).
		Str("cmd", cmd.Name()).
		Logger()

	log.Debug().
		Int64("chain_id", cfg.ChainID).
		Stringer("router", cfg.RouterAddress).
		Stringer("bridge", cfg.BridgeAsset).
		Msg("configuration loaded")

	client, err := chain.Dial(ctx, cfg.RPCURL, cfg.PrivateKey, cfg.ChainID,
		chain.WithLogger(log),
		chain.WithFallbackGasLimit(cfg.GasLimit),
	)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: log, client: client, json: jsonOutput}, nil
}

// withSpinner runs fn behind a spinner unless output is JSON
func withSpinner(jsonOutput bool, suffix string, fn func() error) error {
	if jsonOutput {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()
	return fn()
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
