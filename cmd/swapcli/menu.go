package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/ligun0805/swapfarm/internal/config"
	"github.com/ligun0805/swapfarm/internal/swapcore"
)

var (
	cyan    = color.New(color.FgCyan).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

func printBanner() {
	c := color.New(color.FgCyan).Add(color.Bold)
	c.Println("==========================================")
	c.Println("        DEX Swap Farming Bot")
	c.Println("==========================================")
}

// parseChoice parses a 1-based menu choice in [1, max].
func parseChoice(s string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("choice %d out of range 1-%d", n, max)
	}
	return n, nil
}

// parseRepetitions accepts a positive integer; empty input means one pass.
func parseRepetitions(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("repetitions must be a positive integer, got %q", s)
	}
	return n, nil
}

func chooseNetwork(r *bufio.Reader, nets []config.Network) (config.Network, error) {
	if len(nets) == 1 {
		fmt.Println("Network:", cyan(nets[0].Name))
		return nets[0], nil
	}
	fmt.Println(bold("Select network:"))
	for i, n := range nets {
		fmt.Printf("  %d. %s (chain %d)\n", i+1, n.Name, n.ChainID)
	}
	line, err := readLine(r, "Choice: ")
	if err != nil {
		return config.Network{}, err
	}
	i, err := parseChoice(line, len(nets))
	if err != nil {
		return config.Network{}, err
	}
	return nets[i-1], nil
}

func stateLabel(active bool) string {
	if active {
		return green("Active")
	}
	return red("Inactive")
}

// toggleMenu loops until the operator picks "Run Swap" or input ends.
func toggleMenu(r *bufio.Reader, rc *swapcore.RunConfig) error {
	for {
		fmt.Println()
		fmt.Println(bold("Toggle swaps:"))
		for i, name := range rc.Order {
			fmt.Printf("  %d. %-16s [%s]\n", i+1, name, stateLabel(rc.Active[name]))
		}
		runIdx := len(rc.Order) + 1
		fmt.Printf("  %d. %s\n", runIdx, yellow("Run Swap"))

		line, err := readLine(r, "Choice: ")
		if err != nil {
			return err
		}
		i, err := parseChoice(line, runIdx)
		if err != nil {
			fmt.Println(red("  [!]"), err)
			continue
		}
		if i == runIdx {
			return nil
		}
		_ = rc.ToggleIndex(i)
	}
}

func printBalances(bals []swapcore.TokenBalance) {
	fmt.Println(bold("Balances:"))
	for _, b := range bals {
		if b.Err != nil {
			fmt.Printf("  %-8s %s\n", b.Symbol, red("error: "+b.Err.Error()))
			continue
		}
		fmt.Printf("  %-8s %s\n", b.Symbol, yellow(b.Amount))
	}
}

func printResult(n config.Network, res swapcore.Result) {
	if !res.OK() {
		fmt.Printf("%s [%d] %s: %s (%s)\n", red("✗"), res.Iteration, res.Swap, res.Err, res.Stage)
		return
	}
	fmt.Printf("%s [%d] Swap %s | Amount %s\n", green("✓"), res.Iteration, cyan(res.Swap), yellow(res.Amount))
	fmt.Printf("    Tx Hash: %s\n", magenta(res.TxHash))
	if n.Explorer != "" {
		fmt.Printf("    %s\n", green(n.Explorer+res.TxHash))
	}
}
