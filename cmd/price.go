package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swap-bot/pkg/parser"
	"swap-bot/pkg/pricefeed"
)

var priceCmd = &cobra.Command{
	Use:   "price [link-eth|eth-usd]",
	Short: "Show the latest price feed answer",
	Long: `Read the latest answer of a Chainlink style price feed. The feed addresses are
configured under price_feeds (or LINK_ETH_PRICE_FEED / ETH_USD_PRICE_FEED).

Examples:
  swap-bot price
  swap-bot price eth-usd`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e, err := setup(ctx, cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer e.Close()

	feed, err := selectFeed(e, args)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	address, ok := e.cfg.PriceFeeds[feed.ConfigKey]
	if !ok {
		printError(fmt.Errorf("no address configured for %s (set price_feeds.%s)", feed.Name, feed.ConfigKey))
		os.Exit(1)
	}

	reader, err := pricefeed.NewReader(e.client)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	var price *pricefeed.Price
	err = withSpinner(e.json, fmt.Sprintf("Reading %s...", feed.Name), func() error {
		var err error
		price, err = reader.Latest(ctx, feed, address)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	e.log.Debug().Str("feed", feed.Name).Stringer("raw", price.Raw).Msg("price read")

	if e.json {
		output := map[string]interface{}{
			"feed":     feed.Name,
			"address":  address.Hex(),
			"price":    price.String(),
			"raw":      price.Raw.String(),
			"decimals": feed.Decimals,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Printf("\n  %s: %s\n\n", color.YellowString(feed.Name), color.GreenString(price.String()))
}

// selectFeed picks the feed from the argument, or asks when there is none
func selectFeed(e *env, args []string) (pricefeed.Feed, error) {
	if len(args) == 1 {
		return pricefeed.Lookup(args[0])
	}
	if e.json {
		return pricefeed.Feed{}, fmt.Errorf("a feed argument is required with JSON output")
	}

	fmt.Println("\nSelect price feed:")
	for i, feed := range pricefeed.Feeds {
		fmt.Printf("  %d) %s\n", i+1, feed.Name)
	}

	prompter := parser.NewPrompter(os.Stdin, os.Stdout)
	choice, err := prompter.Ask(fmt.Sprintf("Choice (1-%d): ", len(pricefeed.Feeds)))
	if err != nil {
		return pricefeed.Feed{}, err
	}
	return pricefeed.Lookup(choice)
}
