package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swap-bot/config"
)

var filterSymbol string

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List the configured tokens",
	Long: `List the tokens this bot can swap, as configured under "tokens" in
.swap-bot.yaml, together with the router and bridge asset in use.

Examples:
  swap-bot tokens
  swap-bot tokens --symbol LINK`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

type tokenEntry struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int32  `json:"decimals"`
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Load configuration
	cfg, err := loadConfig(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	tokens := filterTokens(cfg, filterSymbol)

	// Output
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(tokens, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTokens(cfg, tokens)
	}
}

func filterTokens(cfg *config.Config, symbol string) []tokenEntry {
	var tokens []tokenEntry
	for _, s := range cfg.Symbols() {
		if symbol != "" && !strings.Contains(s, strings.ToUpper(symbol)) {
			continue
		}
		tokens = append(tokens, tokenEntry{
			Symbol:   s,
			Address:  cfg.Tokens[s].Hex(),
			Decimals: cfg.Decimals(s),
		})
	}
	return tokens
}

func displayTokens(cfg *config.Config, tokens []tokenEntry) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                       CONFIGURED TOKENS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Chain ID:      %d\n", cfg.ChainID)
	fmt.Printf("  Native:        %s\n", color.YellowString(cfg.NativeSymbol))
	fmt.Printf("  Router:        %s\n", color.HiBlackString(cfg.RouterAddress.Hex()))
	fmt.Printf("  Bridge asset:  %s\n", color.HiBlackString(cfg.BridgeAsset.Hex()))
	fmt.Println("\n" + strings.Repeat("-", 70))

	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	for _, token := range tokens {
		fmt.Printf("  %-10s  %2d decimals  %s\n",
			color.YellowString(token.Symbol),
			token.Decimals,
			color.HiBlackString(token.Address))
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Printf("\nTotal: %d tokens\n\n", len(tokens))
}
