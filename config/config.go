package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/alejandrodnm/tradersim/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSeed se usa si ni el archivo, ni el entorno, ni el CLI fijan una semilla.
const DefaultSeed uint64 = 42

// Config es la configuración completa del generador.
type Config struct {
	Simulation  SimulationConfig   `yaml:"simulation"`
	Traders     []TraderConfig     `yaml:"traders"`
	Instruments []InstrumentConfig `yaml:"instruments"` // vacío = universo por defecto
	Output      OutputConfig       `yaml:"output"`
	Log         LogConfig          `yaml:"log"`
}

// SimulationConfig controla la ventana temporal y el balance inicial.
type SimulationConfig struct {
	Seed           *uint64  `yaml:"seed"`
	Start          string   `yaml:"start"`    // RFC3339
	End            string   `yaml:"end"`      // RFC3339, inclusivo
	Interval       string   `yaml:"interval"` // time.ParseDuration, p. ej. "1h"
	Timezone       string   `yaml:"timezone"` // IANA; vacío = offset de start
	InitialBalance float64  `yaml:"initial_balance"`
	Candidates     []string `yaml:"candidates"` // vacío = todos los instrumentos
	Workers        int      `yaml:"workers"`    // 0 = NumCPU
}

// TraderConfig asocia un directorio de salida a un arquetipo.
type TraderConfig struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Archetype string `yaml:"archetype"`
	Dir       string `yaml:"dir"`
}

// InstrumentConfig sustituye el universo de instrumentos por defecto.
type InstrumentConfig struct {
	Symbol string       `yaml:"symbol"`
	Base   float64      `yaml:"base"`
	Class  string       `yaml:"class"` // flagship | major | alt
	Trend  float64      `yaml:"trend"`
	Waves  []WaveConfig `yaml:"waves"`
}

// WaveConfig es un término de oscilación de un instrumento.
type WaveConfig struct {
	Amp    float64 `yaml:"amp"`
	Cycles float64 `yaml:"cycles"`
	Phase  float64 `yaml:"phase"`
}

// OutputConfig controla dónde se persisten los registros.
type OutputConfig struct {
	Dir          string  `yaml:"dir"`
	DSN          string  `yaml:"dsn"`            // ruta al archivo SQLite, ":memory:" o "off" para desactivar
	WritesPerSec float64 `yaml:"writes_per_sec"` // 0 = sin límite
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Si el archivo no existe se usan los valores por defecto.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// sin archivo: valores por defecto
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// Seed devuelve la semilla efectiva.
func (c *Config) Seed() uint64 {
	if c.Simulation.Seed == nil {
		return DefaultSeed
	}
	return *c.Simulation.Seed
}

// SetSeed fija la semilla (flag -seed).
func (c *Config) SetSeed(seed uint64) {
	c.Simulation.Seed = &seed
}

// Grid convierte la ventana de simulación en una rejilla temporal.
func (c *Config) Grid() (domain.TimeGrid, error) {
	start, err := time.Parse(time.RFC3339, c.Simulation.Start)
	if err != nil {
		return domain.TimeGrid{}, fmt.Errorf("config.Grid: start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, c.Simulation.End)
	if err != nil {
		return domain.TimeGrid{}, fmt.Errorf("config.Grid: end: %w", err)
	}
	step, err := time.ParseDuration(c.Simulation.Interval)
	if err != nil {
		return domain.TimeGrid{}, fmt.Errorf("config.Grid: interval: %w", err)
	}

	if tz := c.Simulation.Timezone; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return domain.TimeGrid{}, fmt.Errorf("config.Grid: timezone: %w", err)
		}
		start, end = start.In(loc), end.In(loc)
	}

	grid, err := domain.NewTimeGrid(start, end, step)
	if err != nil {
		return domain.TimeGrid{}, fmt.Errorf("config.Grid: %w", err)
	}
	return grid, nil
}

// DomainTraders resuelve el arquetipo de cada trader.
func (c *Config) DomainTraders() ([]domain.Trader, error) {
	out := make([]domain.Trader, 0, len(c.Traders))
	for i, t := range c.Traders {
		if t.ID == "" {
			return nil, fmt.Errorf("config.DomainTraders: trader #%d has no id", i+1)
		}
		a, err := domain.LookupArchetype(t.Archetype)
		if err != nil {
			return nil, fmt.Errorf("config.DomainTraders: trader %s: %w", t.ID, err)
		}
		label, dir := t.Label, t.Dir
		if label == "" {
			label = t.ID
		}
		if dir == "" {
			dir = t.ID
		}
		out = append(out, domain.Trader{ID: t.ID, Label: label, Dir: dir, Archetype: a})
	}
	return out, nil
}

// DomainInstruments devuelve los instrumentos configurados, o el universo
// por defecto si no hay ninguno.
func (c *Config) DomainInstruments() ([]domain.Instrument, error) {
	if len(c.Instruments) == 0 {
		return domain.DefaultInstruments(), nil
	}
	out := make([]domain.Instrument, 0, len(c.Instruments))
	for _, ic := range c.Instruments {
		inst := domain.Instrument{
			Symbol: ic.Symbol,
			Base:   ic.Base,
			Class:  domain.Class(ic.Class),
			Trend:  ic.Trend,
		}
		for _, w := range ic.Waves {
			inst.Waves = append(inst.Waves, domain.Wave{Amp: w.Amp, Cycles: w.Cycles, Phase: w.Phase})
		}
		if err := inst.Validate(); err != nil {
			return nil, fmt.Errorf("config.DomainInstruments: %w", err)
		}
		out = append(out, inst)
	}
	return out, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TRADERSIM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TRADERSIM_SEED: %w", err)
		}
		cfg.Simulation.Seed = &seed
	}
	if v := os.Getenv("TRADERSIM_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// DefaultTraders son los cuatro traders del dataset de referencia.
func DefaultTraders() []TraderConfig {
	return []TraderConfig{
		{ID: "grok4", Label: "Grok-4 (star)", Archetype: "star",
			Dir: "paper_openrouter-x-ai-grok-4_1763057722"},
		{ID: "gpt5", Label: "GPT-5 (conservative)", Archetype: "conservative",
			Dir: "paper_openrouter-openai-gpt-5_1763057706"},
		{ID: "gemini", Label: "Gemini (volatile)", Archetype: "volatile",
			Dir: "paper_openrouter-google-gemini-2.5-pro_1763057690"},
		{ID: "deepseek", Label: "DeepSeek (underperformer)", Archetype: "underperformer",
			Dir: "paper_openrouter-deepseek-deepseek-v3.2-exp_1763057671"},
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Simulation.Start == "" {
		cfg.Simulation.Start = "2026-01-01T00:00:00-08:00"
	}
	if cfg.Simulation.End == "" {
		cfg.Simulation.End = "2026-01-30T23:00:00-08:00"
	}
	if cfg.Simulation.Interval == "" {
		cfg.Simulation.Interval = "1h"
	}
	if cfg.Simulation.InitialBalance <= 0 {
		cfg.Simulation.InitialBalance = 10000
	}
	if len(cfg.Traders) == 0 {
		cfg.Traders = DefaultTraders()
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "decision_logs"
	}
	if cfg.Output.DSN == "" {
		cfg.Output.DSN = "tradersim.db"
	}
	if cfg.Output.WritesPerSec < 0 {
		cfg.Output.WritesPerSec = 0
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
