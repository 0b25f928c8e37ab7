package domain

import (
	"crypto/ed25519"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// WalletConfig is one configured sender wallet descriptor, validated at load
// time. New wallets enter the engine only through the configuration list.
type WalletConfig struct {
	ID             string `mapstructure:"id"`
	Name           string `mapstructure:"name"`
	URL            string `mapstructure:"url"`
	KeyID          string `mapstructure:"key_id"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
}

// SenderWallet is a WalletConfig with its signing key loaded. The list of
// sender wallets is built once at startup and is read-only afterwards.
type SenderWallet struct {
	WalletConfig
	PrivateKey ed25519.PrivateKey
}

// WalletAddress is the public metadata of a wallet endpoint as served by the
// payment provider.
type WalletAddress struct {
	ID             string `json:"id"`
	AssetCode      string `json:"assetCode"`
	AssetScale     int    `json:"assetScale"`
	AuthServer     string `json:"authServer"`
	ResourceServer string `json:"resourceServer"`
}

// Amount is a protocol amount: an integer minor-unit value together with its
// asset code and scale exponent.
type Amount struct {
	Value      string `json:"value"`
	AssetCode  string `json:"assetCode"`
	AssetScale int    `json:"assetScale"`
}

// HumanValue converts the minor-unit value into human units (value / 10^scale).
func (a Amount) HumanValue() (float64, error) {
	v, err := strconv.ParseInt(a.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount value %q: %w", a.Value, err)
	}
	return float64(v) / math.Pow10(a.AssetScale), nil
}

// MinorUnits converts a human-unit amount into minor units for the given scale.
func MinorUnits(amount float64, scale int) int64 {
	return int64(math.Round(amount * math.Pow10(scale)))
}

// Quote is the provider's answer for one (sender, receiver) pair.
type Quote struct {
	ID            string `json:"id"`
	DebitAmount   Amount `json:"debitAmount"`
	ReceiveAmount Amount `json:"receiveAmount"`
}

// NormalizeWalletURL turns a payment pointer ($host/name) into its https URL
// and strips a trailing slash. Endpoint equality is defined over the
// normalized form.
func NormalizeWalletURL(walletURL string) string {
	u := strings.TrimSpace(walletURL)
	if strings.HasPrefix(u, "$") {
		u = "https://" + strings.TrimPrefix(u, "$")
	}
	return strings.TrimSuffix(u, "/")
}

// ShortName returns the last path segment of a wallet URL, used in logs and
// matrix cells.
func ShortName(walletURL string) string {
	trimmed := strings.TrimSuffix(walletURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// DirectoryEntry maps a public name to a wallet URL in the wallet directory.
type DirectoryEntry struct {
	ID         int64     `json:"id"`
	PublicName string    `json:"publicName"`
	WalletURL  string    `json:"walletUrl"`
	IsDummy    bool      `json:"isDummy"`
	Owner      *string   `json:"owner,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
