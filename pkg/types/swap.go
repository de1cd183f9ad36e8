package types

import "swap-bot/pkg/amount"

// SwapCommand represents a user's swap command before validation
type SwapCommand struct {
	Amount      string
	SourceToken string
	DestToken   string
}

// SwapSettings holds validated swap parameters, with the amount in base units
type SwapSettings struct {
	AmountIn    amount.Amount
	SourceToken string
	DestToken   string
	Slippage    amount.BasisPoints
}

// SwapResult is the outcome of a submitted swap, used for JSON output
type SwapResult struct {
	Variant     string `json:"variant"`
	SourceToken string `json:"source_token"`
	DestToken   string `json:"dest_token"`
	AmountIn    string `json:"amount_in"`
	Slippage    string `json:"slippage_percent"`
	MinOut      string `json:"min_out"`
	ApprovalTx  string `json:"approval_tx,omitempty"`
	TxHash      string `json:"tx_hash"`
}

// BalanceEntry is one line of the balance report
type BalanceEntry struct {
	Symbol  string `json:"symbol"`
	Address string `json:"address,omitempty"`
	Balance string `json:"balance"`
}
