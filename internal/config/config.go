package config

import (
	"os"
	"strconv"
	"strings"
)

// Settings keeps all configuration options.
// Keys are read from the environment (usually populated from .env).
type Settings struct {
	PrivateKeys        []string
	NetworksFile       string
	TxLogDir           string
	LogLevel           string
	FeeGwei            float64
	GasMode            string // "fixed" (default) or "network"
	GasLimitAdjustment float64
	ValueETH           string // overrides every swap amount when non-empty
	ApproveGasLimit    uint64
	DeadlineMinutes    int
	DelayMode          string // "constant" (default), "random" or "none"
	DelaySeconds       float64
	DelayMinSeconds    float64
	DelayMaxSeconds    float64
	ReceiptTimeoutSecs int
	CallRetries        int
	MetricsAddr        string
	TasksAPIURL        string
}

// Load reads settings from environment supporting both UPPER_CASE and lower_case keys.
func Load() Settings {
	get := func(keys []string, def string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				return v
			}
		}
		return def
	}
	getInt := func(keys []string, def int) int {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		return def
	}
	getUint64 := func(keys []string, def uint64) uint64 {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
		return def
	}
	getFloat := func(keys []string, def float64) float64 {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
		return def
	}

	st := Settings{}
	st.PrivateKeys = SplitCSV(get([]string{"private_keys", "PRIVATE_KEYS"}, get([]string{"private_key", "PRIVATE_KEY"}, "")))
	st.NetworksFile = get([]string{"networks_file", "NETWORKS_FILE"}, "")
	st.TxLogDir = get([]string{"tx_log_dir", "TX_LOG_DIR"}, "Tx_Hash")
	st.LogLevel = get([]string{"log_level", "LOG_LEVEL"}, "info")

	st.FeeGwei = getFloat([]string{"fee_gwei", "FEE_GWEI"}, 10)
	st.GasMode = strings.ToLower(get([]string{"gas_mode", "GAS_MODE"}, "fixed"))
	st.GasLimitAdjustment = getFloat([]string{"gas_limit_adjustment", "GAS_LIMIT_ADJUSTMENT"}, 1.0)
	st.ValueETH = get([]string{"value_eth", "VALUE_ETH"}, "")
	st.ApproveGasLimit = getUint64([]string{"approve_gas_limit", "APPROVE_GAS_LIMIT"}, 100_000)
	st.DeadlineMinutes = getInt([]string{"deadline_minutes", "DEADLINE_MINUTES"}, 20)

	st.DelayMode = strings.ToLower(get([]string{"delay_mode", "DELAY_MODE"}, "constant"))
	st.DelaySeconds = getFloat([]string{"delay_seconds", "DELAY_SECONDS"}, 5)
	st.DelayMinSeconds = getFloat([]string{"delay_min_seconds", "DELAY_MIN_SECONDS"}, 3)
	st.DelayMaxSeconds = getFloat([]string{"delay_max_seconds", "DELAY_MAX_SECONDS"}, 8)

	st.ReceiptTimeoutSecs = getInt([]string{"receipt_timeout_seconds", "RECEIPT_TIMEOUT_SECONDS"}, 120)
	st.CallRetries = getInt([]string{"call_retries", "CALL_RETRIES"}, 3)
	st.MetricsAddr = get([]string{"metrics_addr", "METRICS_ADDR"}, "")
	st.TasksAPIURL = get([]string{"tasks_api_url", "TASKS_API_URL"}, "")

	return st
}

// SplitCSV splits "a, b,,c" into trimmed non-empty parts.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
