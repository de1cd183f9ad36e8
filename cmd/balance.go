package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swap-bot/pkg/amount"
	"swap-bot/pkg/types"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the signer's native and token balances",
	Long: `Show the signer address with its native balance and the balance of every
configured token.

Examples:
  swap-bot balance
  swap-bot balance --json`,
	Args: cobra.NoArgs,
	Run:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e, err := setup(ctx, cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer e.Close()

	var entries []types.BalanceEntry
	err = withSpinner(e.json, "Fetching balances...", func() error {
		var err error
		entries, err = fetchBalances(ctx, e)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if e.json {
		output := map[string]interface{}{
			"address":  e.client.Address().Hex(),
			"balances": entries,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                            BALANCES")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("\n  Address: %s\n\n", color.CyanString(e.client.Address().Hex()))
	for _, entry := range entries {
		fmt.Printf("  %-10s  %s\n", color.YellowString(entry.Symbol), entry.Balance)
	}
	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func fetchBalances(ctx context.Context, e *env) ([]types.BalanceEntry, error) {
	account := e.client.Address()

	native, err := e.client.Balance(ctx, account)
	if err != nil {
		return nil, err
	}
	nativeAmount, err := amount.FromBig(native)
	if err != nil {
		return nil, err
	}

	entries := []types.BalanceEntry{{
		Symbol:  e.cfg.NativeSymbol,
		Balance: nativeAmount.Format(e.cfg.Decimals(e.cfg.NativeSymbol)),
	}}

	for _, symbol := range e.cfg.Symbols() {
		token := e.cfg.Tokens[symbol]
		balance, err := e.client.TokenBalance(ctx, token, account)
		if err != nil {
			return nil, fmt.Errorf("%s balance: %w", symbol, err)
		}
		tokenAmount, err := amount.FromBig(balance)
		if err != nil {
			return nil, err
		}
		entries = append(entries, types.BalanceEntry{
			Symbol:  symbol,
			Address: token.Hex(),
			Balance: tokenAmount.Format(e.cfg.Decimals(symbol)),
		})
	}

	return entries, nil
}
