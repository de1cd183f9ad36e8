package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"swap-bot/pkg/types"
)

// Direction is a source/destination pair offered in the swap menu
type Direction struct {
	SourceToken string
	DestToken   string
}

func (d Direction) String() string {
	return fmt.Sprintf("%s -> %s", d.SourceToken, d.DestToken)
}

// Directions lists native->token and token->native for every token, in that order
func Directions(native string, tokens []string) []Direction {
	directions := make([]Direction, 0, 2*len(tokens))
	for _, token := range tokens {
		directions = append(directions,
			Direction{SourceToken: native, DestToken: token},
			Direction{SourceToken: token, DestToken: native},
		)
	}
	return directions
}

// Prompter asks for swap parameters on a line-oriented terminal
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter creates a prompter reading answers from in and writing questions to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask writes question and returns the trimmed answer line
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Direction shows the direction menu and returns the chosen pair
func (p *Prompter) Direction(directions []Direction) (Direction, error) {
	if len(directions) == 0 {
		return Direction{}, fmt.Errorf("no swap directions available")
	}

	fmt.Fprintln(p.out, "\nSelect swap direction:")
	for i, d := range directions {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, d)
	}

	answer, err := p.Ask(fmt.Sprintf("Choice (1-%d): ", len(directions)))
	if err != nil {
		return Direction{}, err
	}
	choice, err := strconv.Atoi(answer)
	if err != nil || choice < 1 || choice > len(directions) {
		return Direction{}, fmt.Errorf("invalid choice %q", answer)
	}
	return directions[choice-1], nil
}

// Amount asks for the amount of symbol to swap
func (p *Prompter) Amount(symbol string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("Amount of %s to swap: ", symbol))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("amount is required")
	}
	return answer, nil
}

// Slippage asks for the slippage tolerance in percent
func (p *Prompter) Slippage() (string, error) {
	answer, err := p.Ask("Slippage tolerance in % (e.g. 1 for 1%): ")
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("slippage is required")
	}
	return answer, nil
}

// Confirm asks a yes/no question, defaulting to no
func (p *Prompter) Confirm(question string) bool {
	answer, err := p.Ask(fmt.Sprintf("\n%s (y/N): ", question))
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// DecimalsFunc returns the decimals used to parse amounts of symbol
type DecimalsFunc func(symbol string) int32

// PromptSwapSettings collects direction, amount and slippage interactively
func PromptSwapSettings(p *Prompter, native string, tokens []string, decimals DecimalsFunc) (*types.SwapSettings, error) {
	direction, err := p.Direction(Directions(native, tokens))
	if err != nil {
		return nil, err
	}

	amountIn, err := p.Amount(direction.SourceToken)
	if err != nil {
		return nil, err
	}

	slippage, err := p.Slippage()
	if err != nil {
		return nil, err
	}

	return BuildSettings(&types.SwapCommand{
		Amount:      amountIn,
		SourceToken: direction.SourceToken,
		DestToken:   direction.DestToken,
	}, slippage, decimals(direction.SourceToken))
}
