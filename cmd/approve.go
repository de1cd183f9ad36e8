package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swap-bot/pkg/chain"
	"swap-bot/pkg/parser"
)

var approveCmd = &cobra.Command{
	Use:   "approve <symbol> [amount]",
	Short: "Approve the router to spend a token",
	Long: `Approve the configured router to move the signer's tokens. Without an amount
the maximum allowance is granted. The command waits until the approval is mined.

Examples:
  swap-bot approve LINK
  swap-bot approve LINK 50`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runApprove,
}

func init() {
	rootCmd.AddCommand(approveCmd)
	approveCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runApprove(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e, err := setup(ctx, cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer e.Close()

	symbol := parser.NormalizeTokenSymbol(args[0])
	token, ok := e.cfg.Token(symbol)
	if !ok {
		printError(fmt.Errorf("unknown token %s (try: swap-bot tokens)", symbol))
		os.Exit(1)
	}

	value := chain.MaxApproval()
	display := "unlimited"
	if len(args) == 2 {
		a, err := parser.ParseAmount(args[1], e.cfg.Decimals(symbol))
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		value = a.Big()
		display = a.Format(e.cfg.Decimals(symbol))
	}

	if !noConfirm && !e.json {
		fmt.Printf("\n  Token:    %s (%s)\n", color.YellowString(symbol), token.Hex())
		fmt.Printf("  Spender:  %s\n", e.cfg.RouterAddress.Hex())
		fmt.Printf("  Amount:   %s\n", display)
		if !parser.NewPrompter(os.Stdin, os.Stdout).Confirm("Proceed with approval?") {
			fmt.Println("\nApproval cancelled.")
			os.Exit(0)
		}
	}

	hash, err := approve(ctx, e, token, value)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if e.json {
		output := map[string]interface{}{
			"token":   token.Hex(),
			"spender": e.cfg.RouterAddress.Hex(),
			"amount":  value.String(),
			"tx_hash": hash.Hex(),
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	color.Green("\n✓ Approval confirmed!")
	fmt.Printf("  Transaction Hash: %s\n\n", color.CyanString(hash.Hex()))
}

func approve(ctx context.Context, e *env, token common.Address, value *big.Int) (common.Hash, error) {
	var hash common.Hash
	err := withSpinner(e.json, "Approving router...", func() error {
		var err error
		hash, err = e.client.Approve(ctx, token, e.cfg.RouterAddress, value)
		if err != nil {
			return err
		}
		_, err = e.client.WaitReceipt(ctx, hash, chain.DefaultReceiptInterval)
		return err
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("approval failed: %w", err)
	}
	e.log.Info().Stringer("token", token).Stringer("tx", hash).Msg("router approved")
	return hash, nil
}
