package config

import (
	"fmt"
	"os"

	"crossrates/internal/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

// DirectoryDB configures the optional wallet-directory store. When disabled
// the service runs without directory endpoints.
type DirectoryDB struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DirectoryDB) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable pool_max_conns=10",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

// MarketAPI configures the external market-rate feed.
type MarketAPI struct {
	BaseURL        string   `mapstructure:"base_url"`
	RefreshSeconds int      `mapstructure:"refresh_seconds"`
	PaceMillis     int      `mapstructure:"pace_ms"`
	Currencies     []string `mapstructure:"currencies"`
}

// Optimizer carries the engine tolerances. The matrix and preview spread
// thresholds are deliberately separate settings.
type Optimizer struct {
	EpsilonBps          int     `mapstructure:"epsilon_bps"`
	MatrixSpreadPct     float64 `mapstructure:"matrix_spread_pct"`
	PreviewSpreadPct    float64 `mapstructure:"preview_spread_pct"`
	MaxReceivers        int     `mapstructure:"max_receivers"`
	MaxPreviewReceivers int     `mapstructure:"max_preview_receivers"`
	WorkerLimit         int     `mapstructure:"worker_limit"`
}

type AppConfig struct {
	HTTPServer  HTTPServer            `mapstructure:"http_server"`
	HTTPClient  HTTPClient            `mapstructure:"http_client"`
	Logging     Logging               `mapstructure:"logging"`
	DirectoryDB DirectoryDB           `mapstructure:"directory_db"`
	MarketAPI   MarketAPI             `mapstructure:"market_api"`
	Optimizer   Optimizer             `mapstructure:"optimizer"`
	Wallets     []domain.WalletConfig `mapstructure:"wallets"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	viper.SetConfigFile("config.yaml")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	viper.SetDefault("http_server.port", "8080")
	viper.SetDefault("http_client.timeout_seconds", 10)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("directory_db.max_conns", 10)
	viper.SetDefault("market_api.base_url", "https://api.frankfurter.app/latest")
	viper.SetDefault("market_api.refresh_seconds", 300)
	viper.SetDefault("market_api.pace_ms", 100)
	viper.SetDefault("market_api.currencies", []string{"CAD", "EUR", "GBP", "MXN", "SGD", "USD", "ZAR"})
	viper.SetDefault("optimizer.epsilon_bps", 5)
	viper.SetDefault("optimizer.matrix_spread_pct", 0.1)
	viper.SetDefault("optimizer.preview_spread_pct", 0.01)
	viper.SetDefault("optimizer.max_receivers", 15)
	viper.SetDefault("optimizer.max_preview_receivers", 5)
	viper.SetDefault("optimizer.worker_limit", 4)

	// directory db env vars
	_ = viper.BindEnv("directory_db.enabled", "DIRECTORY_DB_ENABLED")
	_ = viper.BindEnv("directory_db.host", "DB_HOST")
	_ = viper.BindEnv("directory_db.port", "DB_PORT")
	_ = viper.BindEnv("directory_db.user", "DB_USER")
	_ = viper.BindEnv("directory_db.pass", "DB_PASS")
	_ = viper.BindEnv("directory_db.name", "DB_NAME")
	_ = viper.BindEnv("directory_db.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = viper.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")
	_ = viper.BindEnv("market_api.base_url", "MARKET_API_BASE_URL")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validateWallets(cfg.Wallets); err != nil {
		return nil, err
	}
	for i := range cfg.Wallets {
		if cfg.Wallets[i].Name == "" {
			cfg.Wallets[i].Name = cfg.Wallets[i].ID
		}
	}

	return &cfg, nil
}

// validateWallets rejects incomplete wallet descriptors at load time. The
// typed list is the only way wallets enter the engine.
func validateWallets(wallets []domain.WalletConfig) error {
	seen := make(map[string]struct{}, len(wallets))
	for i, w := range wallets {
		if w.ID == "" {
			return fmt.Errorf("wallet #%d: id is required", i)
		}
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("wallet %s: duplicate id", w.ID)
		}
		seen[w.ID] = struct{}{}
		if w.URL == "" {
			return fmt.Errorf("wallet %s: url is required", w.ID)
		}
		if w.KeyID == "" {
			return fmt.Errorf("wallet %s: key_id is required", w.ID)
		}
		if w.PrivateKeyPath == "" {
			return fmt.Errorf("wallet %s: private_key_path is required", w.ID)
		}
	}
	return nil
}
