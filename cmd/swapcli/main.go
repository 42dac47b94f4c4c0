package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ligun0805/swapfarm/internal/account"
	"github.com/ligun0805/swapfarm/internal/config"
	"github.com/ligun0805/swapfarm/internal/logging"
	"github.com/ligun0805/swapfarm/internal/metrics"
	"github.com/ligun0805/swapfarm/internal/swapcore"
	"github.com/ligun0805/swapfarm/internal/tasks"
	"github.com/ligun0805/swapfarm/internal/txlog"
)

func main() {
	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")

	st := config.Load()
	log := logging.New(st.LogLevel, nil)

	nets, err := config.LoadNetworks(st.NetworksFile)
	must(err, "networks")

	reader := bufio.NewReader(os.Stdin)
	printBanner()

	network, err := chooseNetwork(reader, nets)
	must(err, "network")
	rc := swapcore.NewRunConfig(network)
	must(toggleMenu(reader, &rc), "swap menu")
	if len(rc.ActiveNames()) == 0 {
		die("no active swaps selected")
	}
	line, err := readLine(reader, "How many times to run the swaps? [1]: ")
	must(err, "repetitions")
	rc.Repetitions, err = parseRepetitions(line)
	must(err, "repetitions")

	keyHex := ""
	if len(st.PrivateKeys) > 0 {
		keyHex = st.PrivateKeys[0]
		if len(st.PrivateKeys) > 1 {
			log.Warn().Int("keys", len(st.PrivateKeys)).Msg("several private keys configured, only the first is used")
		}
	} else {
		keyHex = readPassword("Enter private key: ")
	}
	acc, err := account.Load(keyHex)
	must(err, "private key")
	printConfig(st, network, keyHex, acc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go stopOnSignal(sigs, os.Stdout, cancel, os.Exit)

	ec, err := ethclient.DialContext(ctx, network.RPCURL)
	must(err, "dial RPC")
	defer ec.Close()

	if st.MetricsAddr != "" {
		srv := metrics.Serve(st.MetricsAddr)
		defer srv.Close()
		log.Info().Str("addr", st.MetricsAddr).Msg("metrics listening")
	}

	if bals, err := swapcore.Balances(ctx, ec, network, acc.Address, st.CallRetries); err != nil {
		log.Warn().Err(err).Msg("could not read balances")
	} else {
		printBalances(bals)
	}

	if err := verifyTasks(ctx, reader, st, network, acc, log); err != nil {
		die("task verification: " + err.Error())
	}

	params := swapcore.Params{
		Network:         network,
		Account:         acc,
		ChainID:         big.NewInt(network.ChainID),
		Gas:             swapcore.NewGasPolicy(st.GasMode, st.FeeGwei, st.GasLimitAdjustment),
		ApproveGasLimit: st.ApproveGasLimit,
		Deadline:        time.Duration(st.DeadlineMinutes) * time.Minute,
		ReceiptTimeout:  time.Duration(st.ReceiptTimeoutSecs) * time.Second,
		CallRetries:     st.CallRetries,
		AmountOverride:  st.ValueETH,
		Delay:           swapcore.NewDelayPolicy(st.DelayMode, st.DelaySeconds, st.DelayMinSeconds, st.DelayMaxSeconds),
		TxLog:           txlog.New(st.TxLogDir),
		Logger:          log,
		OnResult:        func(res swapcore.Result) { printResult(network, res) },
	}
	runner, err := swapcore.NewRunner(ctx, ec, params)
	must(err, "runner")

	sum, err := runner.Run(ctx, rc)
	switch {
	case errors.Is(err, swapcore.ErrInterrupted):
		// "Bot Stop" was already printed by the signal handler
		return
	case err != nil:
		die(err.Error())
	}
	fmt.Println()
	fmt.Printf("All Active Swaps Complete: Total %s", green(sum.Succeeded))
	if sum.Failed > 0 {
		fmt.Printf(" (%s failed)", red(sum.Failed))
	}
	fmt.Println()
}

// stopOnSignal waits for an operator signal only, so a normal return from
// main never prints the stop banner.
func stopOnSignal(sigs <-chan os.Signal, out io.Writer, cancel context.CancelFunc, exit func(int)) {
	<-sigs
	fmt.Fprintln(out)
	fmt.Fprintln(out, red("Bot Stop"))
	cancel()
	exit(0)
}

func printConfig(st config.Settings, n config.Network, keyHex string, acc *account.Account) {
	fmt.Println("=== CONFIG (.env) ===")
	fmt.Println("Network      :", n.Name, "chain", n.ChainID)
	fmt.Println("RPC_URL      :", n.RPCURL)
	fmt.Println("PRIVATE_KEY  :", account.Mask(keyHex))
	fmt.Println("  -> address :", cyan(acc.Address.Hex()))
	fmt.Println("GAS_MODE     :", st.GasMode, "| FEE_GWEI", st.FeeGwei)
	fmt.Println("DELAY_MODE   :", st.DelayMode)
	fmt.Println("TX_LOG_DIR   :", st.TxLogDir)
	if st.ValueETH != "" {
		fmt.Println("VALUE_ETH    :", st.ValueETH)
	}
	fmt.Println("=====================")
}

func verifyTasks(ctx context.Context, reader *bufio.Reader, st config.Settings, n config.Network, acc *account.Account, log zerolog.Logger) error {
	base := strings.TrimSpace(n.TasksAPI)
	if base == "" {
		base = st.TasksAPIURL
	}
	if base == "" {
		return nil
	}
	client := tasks.NewClient(base, log)
	info, err := client.Verify(ctx, acc.Address, func(url string) error {
		fmt.Println("Authorize the swap task in your browser:")
		fmt.Println("  ", cyan(url))
		_, err := readLine(reader, "Press Enter once done...")
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("Tracker: %s | points %s | registered %v\n", account.Short(acc.Address), yellow(info.Points), info.Registered)
	return nil
}
