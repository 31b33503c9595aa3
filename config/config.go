package config

import (
	"carcassonne/engine"
	"carcassonne/meta"
	"carcassonne/searcher"
	"fmt"

	"github.com/spf13/viper"
)

const fileName = "carcassonne.cfg.json"

// PlayerConfig seats one autoplayed bot.
type PlayerConfig struct {
	Name string `json:"name" mapstructure:"name"`
	Bot  string `json:"bot" mapstructure:"bot"`
}

// SearchConfig tunes the greedy bots.
type SearchConfig struct {
	Goroutines int              `json:"goroutines" mapstructure:"goroutines"`
	Sample     int              `json:"sample" mapstructure:"sample"`
	Weights    searcher.Weights `json:"weights" mapstructure:"weights"`
}

type Config struct {
	LogLevel    string         `json:"logLevel" mapstructure:"logLevel"`
	Games       int            `json:"games" mapstructure:"games"`
	Seed        uint64         `json:"seed" mapstructure:"seed"`
	CatalogPath string         `json:"catalogPath" mapstructure:"catalogPath"`
	Metrics     bool           `json:"metrics" mapstructure:"metrics"`
	Players     []PlayerConfig `json:"players" mapstructure:"players"`
	Rules       engine.Rules   `json:"rules" mapstructure:"rules"`
	Search      SearchConfig   `json:"search" mapstructure:"search"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("games", 1)
	viper.SetDefault("seed", 0)
	viper.SetDefault("catalogPath", "")
	viper.SetDefault("metrics", false)

	viper.SetDefault("players", []map[string]any{
		{"name": "greedy", "bot": "greedy"},
		{"name": "random", "bot": "random"},
	})

	rules := engine.DefaultRules()
	viper.SetDefault("rules.hand_size", rules.HandSize)
	viper.SetDefault("rules.engineer", rules.Engineer)
	viper.SetDefault("rules.objectives", rules.Objectives)

	viper.SetDefault("search.goroutines", meta.GO_ROUTINES)
	viper.SetDefault("search.sample", meta.SEARCH_SAMPLE)
	w := searcher.DefaultWeights
	viper.SetDefault("search.weights.own", w.Own)
	viper.SetDefault("search.weights.opponent", w.Opponent)
	viper.SetDefault("search.weights.potential", w.Potential)
	viper.SetDefault("search.weights.city_control", w.CityControl)
	viper.SetDefault("search.weights.aggression", w.Aggression)
	viper.SetDefault("search.weights.position", w.Position)
	viper.SetDefault("search.weights.last_meeple", w.LastMeeple)
	viper.SetDefault("search.weights.low_meeples", w.LowMeeples)
	viper.SetDefault("search.weights.lead", w.Lead)
}

// Load reads configuration from the JSON file in configDir and sets default
// values.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(fileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Get decodes the current settings. The rules' player count follows the
// configured seats.
func Get() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	c.Rules.Players = len(c.Players)
	if err := c.Rules.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid rules: %w", err)
	}
	if c.Games < 0 {
		return Config{}, fmt.Errorf("invalid game count %d", c.Games)
	}
	return c, nil
}

// SearchOptions turns the search settings into greedy options.
func (c Config) SearchOptions() []searcher.Option {
	options := []searcher.Option{searcher.WithWeights(c.Search.Weights)}
	if c.Search.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(c.Search.Goroutines))
	}
	if c.Search.Sample > 0 {
		options = append(options, searcher.WithSample(c.Search.Sample))
	}
	return options
}
