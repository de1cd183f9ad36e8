package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swap-bot/pkg/amount"
	"swap-bot/pkg/chain"
	"swap-bot/pkg/parser"
	"swap-bot/pkg/swap"
	"swap-bot/pkg/types"
)

var (
	slippageFlag string
	noConfirm    bool
	recipient    string
)

var swapCmd = &cobra.Command{
	Use:   "swap [<amount> <source-token> to <dest-token>]",
	Short: "Swap between the native currency and tokens",
	Long: `Swap through the configured router. Without arguments you are asked for the
direction, amount and slippage. Token-input swaps approve the router first when
its allowance is too small.

Examples:
  # Interactive
  swap-bot swap

  # Native currency to token with 1% slippage
  swap-bot swap 0.01 ETH to LINK --slippage 1

  # Token to native currency, skip confirmation
  swap-bot swap 25 LINK to ETH --slippage 0.5 --yes`,
	Run: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVarP(&slippageFlag, "slippage", "s", "", "Slippage tolerance in percent (prompted when omitted)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
	swapCmd.Flags().StringVar(&recipient, "recipient", "", "Address receiving the output (defaults to the signer)")
}

func runSwap(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e, err := setup(ctx, cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer e.Close()

	if !e.json {
		if err := printAccount(ctx, e); err != nil {
			printError(err)
			os.Exit(1)
		}
	}

	prompter := parser.NewPrompter(os.Stdin, os.Stdout)

	settings, err := collectSettings(e, prompter, args)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	req, err := resolveRequest(e.cfg, settings)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	minOut, err := swap.ComputeMinOut(req.AmountIn, req.Slippage)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	result := types.SwapResult{
		Variant:     req.Variant.String(),
		SourceToken: settings.SourceToken,
		DestToken:   settings.DestToken,
		AmountIn:    req.AmountIn.Format(e.cfg.Decimals(settings.SourceToken)),
		Slippage:    req.Slippage.Percent(),
		MinOut:      minOut.String(),
	}

	if !e.json {
		displaySwap(&result)
	}

	// Ask for confirmation
	if !noConfirm && !e.json {
		if !prompter.Confirm("Proceed with swap?") {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	router, err := swap.NewRouter(e.cfg.RouterAddress)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if req.Variant != swap.NativeToToken {
		approval, err := ensureAllowance(ctx, e, req.TokenIn, req.AmountIn)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		if approval != (common.Hash{}) {
			result.ApprovalTx = approval.Hex()
		}
	}

	opts := []swap.Option{
		swap.WithDeadlineHorizon(e.cfg.DeadlineHorizon),
		swap.WithGasMultiplier(e.cfg.GasMultiplierBps),
		swap.WithLogger(e.log),
	}
	if recipient != "" {
		if !common.IsHexAddress(recipient) {
			printError(fmt.Errorf("invalid recipient address %q", recipient))
			os.Exit(1)
		}
		opts = append(opts, swap.WithRecipient(common.HexToAddress(recipient)))
	}
	executor := swap.NewExecutor(e.client, router, e.cfg.BridgeAsset, opts...)

	var hash common.Hash
	err = withSpinner(e.json, "Submitting swap...", func() error {
		var err error
		hash, err = executor.Execute(ctx, req)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	result.TxHash = hash.Hex()

	if e.json {
		jsonData, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	color.Green("\n✓ Swap submitted!")
	fmt.Printf("  Transaction Hash: %s\n", color.CyanString(result.TxHash))
	fmt.Println("\nYou can monitor the transaction using:")
	color.Cyan("  swap-bot status %s --watch\n", result.TxHash)
}

// collectSettings parses the command line, prompting for whatever is missing
func collectSettings(e *env, prompter *parser.Prompter, args []string) (*types.SwapSettings, error) {
	if len(args) == 0 {
		if e.json {
			return nil, fmt.Errorf("interactive mode not supported with JSON output")
		}
		return parser.PromptSwapSettings(prompter, e.cfg.NativeSymbol, e.cfg.Symbols(), e.cfg.Decimals)
	}

	command, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}

	slippage := slippageFlag
	if slippage == "" {
		if e.json {
			return nil, fmt.Errorf("--slippage is required with JSON output")
		}
		if slippage, err = prompter.Slippage(); err != nil {
			return nil, err
		}
	}

	return parser.BuildSettings(command, slippage, e.cfg.Decimals(command.SourceToken))
}

// ensureAllowance approves the maximum amount when the router may not move amountIn,
// and waits for the approval to be mined
func ensureAllowance(ctx context.Context, e *env, token common.Address, amountIn amount.Amount) (common.Hash, error) {
	allowance, err := e.client.Allowance(ctx, token, e.client.Address(), e.cfg.RouterAddress)
	if err != nil {
		return common.Hash{}, err
	}
	if allowance.Cmp(amountIn.Big()) >= 0 {
		e.log.Debug().Stringer("allowance", allowance).Msg("allowance sufficient")
		return common.Hash{}, nil
	}
	return approve(ctx, e, token, chain.MaxApproval())
}

// printAccount shows the signer and its native balance
func printAccount(ctx context.Context, e *env) error {
	balance, err := e.client.Balance(ctx, e.client.Address())
	if err != nil {
		return err
	}
	native, err := amount.FromBig(balance)
	if err != nil {
		return err
	}

	fmt.Printf("\n  Address: %s\n", color.CyanString(e.client.Address().Hex()))
	fmt.Printf("  Balance: %s %s\n", native.Format(e.cfg.Decimals(e.cfg.NativeSymbol)), color.YellowString(e.cfg.NativeSymbol))
	return nil
}

func displaySwap(result *types.SwapResult) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                        SWAP")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s\n", result.AmountIn, color.YellowString(result.SourceToken))
	fmt.Printf("  To:                %s\n", color.YellowString(result.DestToken))
	fmt.Printf("  Route:             %s\n", result.Variant)
	fmt.Printf("  Slippage:          %s%%\n", result.Slippage)
	fmt.Printf("  Minimum Out:       %s (base units)\n", result.MinOut)

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
