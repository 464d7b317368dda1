package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de bacbot.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Backtest BacktestConfig `yaml:"backtest"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	API      APIConfig      `yaml:"api"`
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// AnalysisConfig controla el detector y el motor de recomendación.
type AnalysisConfig struct {
	Window              int        `yaml:"window"`
	ManipulationPenalty float64    `yaml:"manipulation_penalty"`
	MinRun              int        `yaml:"min_run"`
	RunFraction         float64    `yaml:"run_fraction"`
	MinAlternations     int        `yaml:"min_alternations"`
	AlternationFraction float64    `yaml:"alternation_fraction"`
	ThresholdRounding   string     `yaml:"threshold_rounding"` // down | half_even
	Aggressive          ModeConfig `yaml:"aggressive"`
	Conservative        ModeConfig `yaml:"conservative"`
}

// ModeConfig es la transformación de confianza de una postura.
type ModeConfig struct {
	PenaltyMultiplier float64 `yaml:"penalty_multiplier"`
	BonusDivisor      float64 `yaml:"bonus_divisor"`
	Offset            float64 `yaml:"offset"` // puede ser negativo
	Threshold         float64 `yaml:"threshold"`
}

// BacktestConfig son los parámetros del replay sobre el histórico.
type BacktestConfig struct {
	InitialBank   float64           `yaml:"initial_bank"`
	StakeFraction float64           `yaml:"stake_fraction"`
	Stakes        []float64         `yaml:"stakes"` // si tiene valores, se simula cada uno
	Thresholds    domain.Thresholds `yaml:"thresholds"`
	Payouts       domain.Payouts    `yaml:"payouts"`
}

// SweepConfig es el grid del barrido de parámetros.
type SweepConfig struct {
	AggressiveThresholds   []float64 `yaml:"aggressive_thresholds"`
	ConservativeThresholds []float64 `yaml:"conservative_thresholds"`
	Stakes                 []float64 `yaml:"stakes"`
	Metric                 string    `yaml:"metric"` // roi | net | win_rate | final_bank | bets | wins | max_drawdown
	Top                    int       `yaml:"top"`
	CSVPath                string    `yaml:"csv_path"` // vacío = no exportar
	Workers                int       `yaml:"workers"`  // ≤1 = secuencial
}

// MonitorConfig controla el loop en vivo.
type MonitorConfig struct {
	IntervalSeconds int    `yaml:"interval_seconds"`
	Mode            string `yaml:"mode"` // aggressive | conservative
	MaxErrors       int    `yaml:"max_errors"`
}

// APIConfig contiene el endpoint de resultados.
type APIConfig struct {
	BacBoURL string `yaml:"bacbo_url"`
}

// TelegramConfig son las credenciales del bot. Vacías = solo consola.
type TelegramConfig struct {
	BaseURL  string `yaml:"base_url"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// Enabled devuelve true si hay token y chat configurados.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default devuelve la configuración de referencia. Load parte de ella, así las
// claves ausentes del YAML conservan su valor (incluidos offsets en cero o negativos).
func Default() Config {
	return Config{
		Analysis: AnalysisConfig{
			Window:              20,
			ManipulationPenalty: 0.2,
			MinRun:              4,
			RunFraction:         0.25,
			MinAlternations:     3,
			AlternationFraction: 0.20,
			ThresholdRounding:   "down",
			Aggressive:          ModeConfig{PenaltyMultiplier: 0.5, BonusDivisor: 10, Offset: 0.05, Threshold: 0.05},
			Conservative:        ModeConfig{PenaltyMultiplier: 1.5, BonusDivisor: 12, Offset: -0.05, Threshold: 0.25},
		},
		Backtest: BacktestConfig{
			InitialBank:   1000,
			StakeFraction: 0.01,
			Thresholds:    domain.Thresholds{Aggressive: 0.25, Conservative: 0.40},
			Payouts:       domain.DefaultPayouts(),
		},
		Sweep: SweepConfig{
			AggressiveThresholds:   []float64{0.15, 0.20, 0.25, 0.30, 0.35},
			ConservativeThresholds: []float64{0.30, 0.35, 0.40, 0.45, 0.50},
			Stakes:                 []float64{0.01, 0.02, 0.05},
			Metric:                 "roi",
			Top:                    20,
		},
		Monitor: MonitorConfig{
			IntervalSeconds: 6,
			Mode:            string(domain.Conservative),
			MaxErrors:       5,
		},
	}
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// PollInterval devuelve el intervalo de polling como time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("BACBO_API_URL"); v != "" {
		cfg.API.BacBoURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("BACBOT_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("POLL_INTERVAL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POLL_INTERVAL_SECONDS: %w", err)
		}
		cfg.Monitor.IntervalSeconds = n
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Analysis.Window <= 0 {
		cfg.Analysis.Window = 20
	}
	if cfg.Backtest.InitialBank <= 0 {
		cfg.Backtest.InitialBank = 1000
	}
	if cfg.Analysis.ThresholdRounding == "" {
		cfg.Analysis.ThresholdRounding = "down"
	}
	if cfg.Sweep.Metric == "" {
		cfg.Sweep.Metric = "roi"
	}
	if cfg.Sweep.Top <= 0 {
		cfg.Sweep.Top = 20
	}
	if cfg.Monitor.IntervalSeconds <= 0 {
		cfg.Monitor.IntervalSeconds = 6
	}
	if cfg.Monitor.Mode == "" {
		cfg.Monitor.Mode = string(domain.Conservative)
	}
	if cfg.Monitor.MaxErrors <= 0 {
		cfg.Monitor.MaxErrors = 5
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "bacbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	switch domain.Mode(c.Monitor.Mode) {
	case domain.Aggressive, domain.Conservative:
	default:
		return fmt.Errorf("monitor.mode must be aggressive or conservative, got %q", c.Monitor.Mode)
	}
	switch c.Analysis.ThresholdRounding {
	case "down", "half_even":
	default:
		return fmt.Errorf("analysis.threshold_rounding must be down or half_even, got %q", c.Analysis.ThresholdRounding)
	}
	// stake 0 es válido: el backtest da P&L cero
	if c.Backtest.StakeFraction < 0 || c.Backtest.StakeFraction > 1 {
		return fmt.Errorf("backtest.stake_fraction must be in [0, 1], got %v", c.Backtest.StakeFraction)
	}
	for _, list := range [][]float64{c.Backtest.Stakes, c.Sweep.Stakes} {
		for _, s := range list {
			if s < 0 || s > 1 {
				return fmt.Errorf("stakes must be in [0, 1], got %v", s)
			}
		}
	}
	return nil
}
