package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const ConfigFileName = ".holsky-wallet.json"

// Holsky defaults.
const (
	DefaultChainID      = 17000
	DefaultWalletURL    = "http://127.0.0.1:1248"
	DefaultTokenAddress = "0x7f2bD97D3875CC1028e095b20D251f46EBaf9762"
	DefaultTokenSymbol  = "MTK"
	DefaultMinBusyMS    = 2000
	DefaultReceiptPoll  = 2000
	DefaultLogLevel     = "info"
)

// NativeCurrency describes the chain's gas token.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// TargetNetwork is the chain the wallet must be on before balances or transfers are read.
type TargetNetwork struct {
	ChainID        int64          `json:"chain_id"`
	Name           string         `json:"name"`
	NativeCurrency NativeCurrency `json:"native_currency"`
	RPCURLs        []string       `json:"rpc_urls"`
	ExplorerURLs   []string       `json:"explorer_urls"`
}

// TokenConfig holds the ERC-20 contract used for balance and transfer.
type TokenConfig struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

// AppConfig holds application-wide settings.
type AppConfig struct {
	WalletURL     string        `json:"wallet_url"`
	Network       TargetNetwork `json:"network"`
	Token         TokenConfig   `json:"token"`
	MinBusyMS     int           `json:"min_busy_ms"`
	ReceiptPollMS int           `json:"receipt_poll_ms"`
	LogLevel      string        `json:"log_level"`
	LogFile       string        `json:"log_file,omitempty"`
}

// MinBusy is the minimum time a connect or disconnect stays visibly busy.
func (c AppConfig) MinBusy() time.Duration {
	return time.Duration(c.MinBusyMS) * time.Millisecond
}

func (c AppConfig) ReceiptPollInterval() time.Duration {
	return time.Duration(c.ReceiptPollMS) * time.Millisecond
}

// ExplorerTxURL returns the explorer link for a transaction hash, or "" if no explorer is configured.
func (n TargetNetwork) ExplorerTxURL(hash string) string {
	if len(n.ExplorerURLs) == 0 {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(n.ExplorerURLs[0], "/"), hash)
}

func DefaultNetwork() TargetNetwork {
	return TargetNetwork{
		ChainID: DefaultChainID,
		Name:    "Holsky",
		NativeCurrency: NativeCurrency{
			Name:     "holsky",
			Symbol:   "ETH",
			Decimals: 18,
		},
		RPCURLs:      []string{"https://rpc.ankr.com/eth_holesky"},
		ExplorerURLs: []string{"https://holesky.etherscan.io/"},
	}
}

func DefaultConfig() AppConfig {
	return AppConfig{
		WalletURL:     DefaultWalletURL,
		Network:       DefaultNetwork(),
		Token:         TokenConfig{Address: DefaultTokenAddress, Symbol: DefaultTokenSymbol},
		MinBusyMS:     DefaultMinBusyMS,
		ReceiptPollMS: DefaultReceiptPoll,
		LogLevel:      DefaultLogLevel,
	}
}

func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

// LoadConfigFromFile reads the config at path. A missing file yields the defaults.
func LoadConfigFromFile(path string) (AppConfig, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return AppConfig{}, err
	}
	defer func() { _ = f.Close() }()
	return LoadConfig(f)
}

// LoadConfig decodes a config document, filling every absent key from DefaultConfig.
func LoadConfig(r io.Reader) (AppConfig, error) {
	var raw struct {
		WalletURL     *string `json:"wallet_url"`
		Network       *struct {
			ChainID        *int64          `json:"chain_id"`
			Name           *string         `json:"name"`
			NativeCurrency *NativeCurrency `json:"native_currency"`
			RPCURLs        []string        `json:"rpc_urls"`
			ExplorerURLs   []string        `json:"explorer_urls"`
		} `json:"network"`
		Token         *TokenConfig `json:"token"`
		MinBusyMS     *int         `json:"min_busy_ms"`
		ReceiptPollMS *int         `json:"receipt_poll_ms"`
		LogLevel      *string      `json:"log_level"`
		LogFile       *string      `json:"log_file"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return AppConfig{}, err
	}

	cfg := DefaultConfig()
	if raw.WalletURL != nil {
		cfg.WalletURL = strings.TrimSpace(*raw.WalletURL)
	}
	if n := raw.Network; n != nil {
		if n.ChainID != nil {
			cfg.Network.ChainID = *n.ChainID
		}
		if n.Name != nil {
			cfg.Network.Name = *n.Name
		}
		if n.NativeCurrency != nil {
			cfg.Network.NativeCurrency = *n.NativeCurrency
		}
		if n.RPCURLs != nil {
			cfg.Network.RPCURLs = n.RPCURLs
		}
		if n.ExplorerURLs != nil {
			cfg.Network.ExplorerURLs = n.ExplorerURLs
		}
	}
	if raw.Token != nil {
		if raw.Token.Address != "" {
			cfg.Token.Address = raw.Token.Address
		}
		if raw.Token.Symbol != "" {
			cfg.Token.Symbol = raw.Token.Symbol
		}
	}
	if raw.MinBusyMS != nil {
		cfg.MinBusyMS = *raw.MinBusyMS
	}
	if raw.ReceiptPollMS != nil {
		cfg.ReceiptPollMS = *raw.ReceiptPollMS
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the program relies on.
func Validate(cfg AppConfig) error {
	if cfg.Network.ChainID <= 0 {
		return fmt.Errorf("validation failed: network chain id must be positive, got %d", cfg.Network.ChainID)
	}
	if strings.TrimSpace(cfg.Network.Name) == "" {
		return fmt.Errorf("validation failed: network has no name")
	}
	if len(cfg.Network.RPCURLs) == 0 {
		return fmt.Errorf("validation failed: network %s has no RPC URLs", cfg.Network.Name)
	}
	if !common.IsHexAddress(cfg.Token.Address) {
		return fmt.Errorf("validation failed: token address %q is not a hex address", cfg.Token.Address)
	}
	if cfg.MinBusyMS < 0 || cfg.ReceiptPollMS <= 0 {
		return fmt.Errorf("validation failed: min_busy_ms must be >= 0 and receipt_poll_ms > 0")
	}
	return nil
}

func SaveConfig(cfg AppConfig, path string) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Create a backup of the existing file
	if _, err := os.Stat(path); err == nil {
		backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read existing config for backup: %w", err)
		}
		if err := os.WriteFile(backupPath, input, 0644); err != nil {
			return fmt.Errorf("failed to write backup config: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func RestoreLastBackup(configPath string) error {
	matches, err := filepath.Glob(configPath + ".*.bak")
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no backup files found")
	}
	sort.Strings(matches)
	lastBackup := matches[len(matches)-1]

	data, err := os.ReadFile(lastBackup)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}
