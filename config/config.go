package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

const (
	DefaultChainID          = int64(11155111)
	DefaultRouterAddress    = "0xeE567Fe1712Faf6149d80dA1E6934E354124CfE3"
	DefaultBridgeAsset      = "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14"
	DefaultNativeSymbol     = "ETH"
	DefaultTokenDecimals    = int32(18)
	DefaultDeadlineHorizon  = 300 * time.Second
	DefaultGasMultiplierBps = uint64(20000)
	DefaultGasLimit         = uint64(300000)

	// NativeDecimals is the precision of the native currency
	NativeDecimals = int32(18)

	// minGasMultiplierBps keeps the escalated price at or above the suggestion
	minGasMultiplierBps = uint64(10000)
)

// DefaultTokens is the token book used when none is configured
var DefaultTokens = map[string]string{
	"LINK": "0x779877A7B0D9E8603169DdbD7836e478b4624789",
}

// legacyEnv maps config keys to the unprefixed env names still accepted
var legacyEnv = map[string]string{
	"rpc_url":              "RPC_URL",
	"private_key":          "PRIVATE_KEY",
	"price_feeds.link_eth": "LINK_ETH_PRICE_FEED",
	"price_feeds.eth_usd":  "ETH_USD_PRICE_FEED",
}

// Config holds the application configuration
type Config struct {
	RPCURL           string
	PrivateKey       string
	ChainID          int64
	RouterAddress    common.Address
	BridgeAsset      common.Address
	NativeSymbol     string
	Tokens           map[string]common.Address
	TokenDecimals    int32
	PriceFeeds       map[string]common.Address
	DeadlineHorizon  time.Duration
	GasMultiplierBps uint64
	GasLimit         uint64
	LogLevel         string
}

// Token resolves a configured symbol to its address
func (c *Config) Token(symbol string) (common.Address, bool) {
	addr, ok := c.Tokens[strings.ToUpper(strings.TrimSpace(symbol))]
	return addr, ok
}

// Symbols returns the configured token symbols in sorted order
func (c *Config) Symbols() []string {
	symbols := make([]string, 0, len(c.Tokens))
	for symbol := range c.Tokens {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Decimals returns the decimals of symbol: 18 for the native currency, token_decimals otherwise
func (c *Config) Decimals(symbol string) int32 {
	if c.IsNative(symbol) {
		return NativeDecimals
	}
	return c.TokenDecimals
}

// IsNative reports whether symbol names the chain's native asset
func (c *Config) IsNative(symbol string) bool {
	return strings.EqualFold(strings.TrimSpace(symbol), c.NativeSymbol)
}

// Load reads configuration from environment variables and an optional config file.
// An empty configFile searches for .swap-bot.yaml in $HOME and the working directory.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".swap-bot")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("SWAP_BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnvKeys(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		// the file is optional unless named explicitly
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	if err := verifyConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to verify config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chain_id", DefaultChainID)
	v.SetDefault("router_address", DefaultRouterAddress)
	v.SetDefault("bridge_asset", DefaultBridgeAsset)
	v.SetDefault("native_symbol", DefaultNativeSymbol)
	v.SetDefault("tokens", DefaultTokens)
	v.SetDefault("token_decimals", DefaultTokenDecimals)
	v.SetDefault("deadline_horizon", DefaultDeadlineHorizon)
	v.SetDefault("gas_multiplier_bps", DefaultGasMultiplierBps)
	v.SetDefault("gas_limit", DefaultGasLimit)
	v.SetDefault("log_level", "info")
}

// bindEnvKeys binds every key to SWAP_BOT_<KEY>, plus the legacy name where one exists
func bindEnvKeys(v *viper.Viper) error {
	keys := []string{
		"rpc_url", "private_key", "chain_id", "router_address", "bridge_asset",
		"native_symbol", "token_decimals", "price_feeds.link_eth", "price_feeds.eth_usd",
		"deadline_horizon", "gas_multiplier_bps", "gas_limit", "log_level",
	}
	for _, k := range keys {
		envNames := []string{"SWAP_BOT_" + strings.ToUpper(strings.ReplaceAll(k, ".", "_"))}
		if legacy, ok := legacyEnv[k]; ok {
			envNames = append(envNames, legacy)
		}
		if err := v.BindEnv(append([]string{k}, envNames...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", k, err)
		}
	}
	return nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		RPCURL:           strings.TrimSpace(v.GetString("rpc_url")),
		PrivateKey:       strings.TrimSpace(v.GetString("private_key")),
		ChainID:          v.GetInt64("chain_id"),
		NativeSymbol:     strings.ToUpper(v.GetString("native_symbol")),
		TokenDecimals:    v.GetInt32("token_decimals"),
		DeadlineHorizon:  v.GetDuration("deadline_horizon"),
		GasMultiplierBps: v.GetUint64("gas_multiplier_bps"),
		GasLimit:         v.GetUint64("gas_limit"),
		LogLevel:         v.GetString("log_level"),
		Tokens:           make(map[string]common.Address),
		PriceFeeds:       make(map[string]common.Address),
	}

	var err error
	if cfg.RouterAddress, err = parseAddress("router_address", v.GetString("router_address")); err != nil {
		return nil, err
	}
	if cfg.BridgeAsset, err = parseAddress("bridge_asset", v.GetString("bridge_asset")); err != nil {
		return nil, err
	}

	for symbol, raw := range v.GetStringMapString("tokens") {
		addr, err := parseAddress("tokens."+symbol, raw)
		if err != nil {
			return nil, err
		}
		cfg.Tokens[strings.ToUpper(symbol)] = addr
	}

	for _, key := range []string{"link_eth", "eth_usd"} {
		raw := strings.TrimSpace(v.GetString("price_feeds." + key))
		if raw == "" {
			continue
		}
		addr, err := parseAddress("price_feeds."+key, raw)
		if err != nil {
			return nil, err
		}
		cfg.PriceFeeds[key] = addr
	}

	return cfg, nil
}

func parseAddress(key, raw string) (common.Address, error) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%s: invalid address %q", key, raw)
	}
	return common.HexToAddress(raw), nil
}

func verifyConfig(cfg *Config) error {
	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc_url is required. Please set SWAP_BOT_RPC_URL (or RPC_URL) or add it to .swap-bot.yaml")
	}
	if cfg.PrivateKey == "" {
		return fmt.Errorf("private_key is required. Please set SWAP_BOT_PRIVATE_KEY (or PRIVATE_KEY) or add it to .swap-bot.yaml")
	}
	if cfg.ChainID <= 0 {
		return fmt.Errorf("chain_id must be positive, got %d", cfg.ChainID)
	}
	if cfg.NativeSymbol == "" {
		return fmt.Errorf("native_symbol is required")
	}
	if _, clash := cfg.Tokens[cfg.NativeSymbol]; clash {
		return fmt.Errorf("tokens: %s is the native symbol", cfg.NativeSymbol)
	}
	if cfg.TokenDecimals < 0 {
		return fmt.Errorf("token_decimals must not be negative, got %d", cfg.TokenDecimals)
	}
	if cfg.DeadlineHorizon < time.Second {
		return fmt.Errorf("deadline_horizon must be at least 1s, got %s", cfg.DeadlineHorizon)
	}
	if cfg.GasMultiplierBps < minGasMultiplierBps {
		return fmt.Errorf("gas_multiplier_bps must be at least %d, got %d", minGasMultiplierBps, cfg.GasMultiplierBps)
	}
	return nil
}
