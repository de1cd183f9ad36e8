package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swap-bot/pkg/chain"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Check whether a transaction has been mined",
	Long: `Check the receipt of a submitted swap or approval by its transaction hash.

Examples:
  swap-bot status 0x1234...abcd
  swap-bot status 0x1234...abcd --watch
  swap-bot status 0x1234...abcd --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Wait until the transaction is mined")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 2, "Polling interval in seconds (when watching)")
}

type txStatus struct {
	TxHash      string `json:"tx_hash"`
	Status      string `json:"status"`
	BlockNumber string `json:"block_number,omitempty"`
	GasUsed     uint64 `json:"gas_used,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !isTxHash(args[0]) {
		printError(fmt.Errorf("invalid transaction hash %q", args[0]))
		os.Exit(1)
	}
	hash := common.HexToHash(args[0])

	e, err := setup(ctx, cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer e.Close()

	var receipt *types.Receipt
	if watchStatus {
		if !e.json {
			fmt.Printf("\nWatching transaction %s\n", color.CyanString(hash.Hex()))
			fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n", watchInterval)
		}
		err = withSpinner(e.json, "Waiting for receipt...", func() error {
			var err error
			receipt, err = e.client.WaitReceipt(ctx, hash, time.Duration(watchInterval)*time.Second)
			return err
		})
	} else {
		err = withSpinner(e.json, "Checking transaction...", func() error {
			var err error
			receipt, err = e.client.Receipt(ctx, hash)
			return err
		})
	}
	if err != nil && !errors.Is(err, chain.ErrContractRevert) {
		printError(err)
		os.Exit(1)
	}

	status := toTxStatus(hash, receipt)
	if e.json {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayStatus(status)
	}
}

func isTxHash(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 2*common.HashLength {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func toTxStatus(hash common.Hash, receipt *types.Receipt) txStatus {
	status := txStatus{TxHash: hash.Hex(), Status: "PENDING"}
	if receipt == nil {
		return status
	}

	status.Status = "SUCCESS"
	if receipt.Status == types.ReceiptStatusFailed {
		status.Status = "FAILED"
	}
	if receipt.BlockNumber != nil {
		status.BlockNumber = receipt.BlockNumber.String()
	}
	status.GasUsed = receipt.GasUsed
	return status
}

func displayStatus(status txStatus) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                      TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Tx Hash:         %s\n", color.CyanString(status.TxHash))
	fmt.Printf("  Status:          %s\n", getColoredStatus(status.Status))
	if status.BlockNumber != "" {
		fmt.Printf("  Block:           %s\n", status.BlockNumber)
		fmt.Printf("  Gas Used:        %d\n", status.GasUsed)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status string) string {
	switch status {
	case "SUCCESS":
		return color.GreenString(status)
	case "PENDING":
		return color.YellowString(status)
	case "FAILED":
		return color.RedString(status)
	default:
		return status
	}
}
