package main

import (
	"carcassonne/config"
	"carcassonne/experiments"
	"carcassonne/experiments/metrics"
	"carcassonne/game"
	"carcassonne/gamemaster"
	"carcassonne/searcher"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configDir := flag.String("config", ".", "Directory holding carcassonne.cfg.json")
	games := flag.Int("games", 0, "Number of games to autoplay, overrides the config")
	out := flag.String("out", "", "Directory to store game and move records in")
	throughput := flag.Bool("throughput", false, "Measure search throughput over goroutine counts instead")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	if err := config.Load(*configDir); err != nil {
		log.Warn().Msgf("%v, using defaults", err)
	}
	cfg, err := config.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if *games > 0 {
		cfg.Games = *games
	}
	zerolog.SetGlobalLevel(parseLevel(cfg.LogLevel))

	if *throughput {
		_, err := experiments.RunThroughputExperiment([]int{1, 2, 4, 8, 16}, cfg.Games, cfg.Seed, *out)
		if err != nil {
			log.Fatal().Err(err).Msg("throughput experiment failed")
		}
		return
	}

	gm, err := newGameMaster(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("setting up games")
	}

	seats := make([]metrics.AgentConfig, len(cfg.Players))
	for i, p := range cfg.Players {
		seats[i] = metrics.AgentConfig{
			ID:         i + 1,
			Name:       p.Name,
			Bot:        p.Bot,
			Goroutines: cfg.Search.Goroutines,
			Sample:     cfg.Search.Sample,
		}
	}
	_, err = experiments.Run(gm, experiments.Batch{
		Name:  "autoplay",
		Games: cfg.Games,
		Rules: cfg.Rules,
		Seats: seats,
		Dir:   *out,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("autoplay failed")
	}
}

func newGameMaster(cfg config.Config) (*gamemaster.GameMaster, error) {
	searchOptions := cfg.SearchOptions()
	if cfg.Metrics {
		instruments, err := metrics.NewOTelInstruments()
		if err != nil {
			return nil, err
		}
		searchOptions = append(searchOptions, searcher.WithCollectorFactory(instruments.NewCollector))
	}

	options := []gamemaster.Option{gamemaster.WithSearchOptions(searchOptions...)}
	if cfg.Seed != 0 {
		options = append(options, gamemaster.WithSeed(cfg.Seed))
	}
	if cfg.CatalogPath != "" {
		f, err := os.Open(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		catalog, err := game.LoadCatalog(f)
		if err != nil {
			return nil, err
		}
		options = append(options, gamemaster.WithCatalog(catalog))
	}
	return gamemaster.NewGameMaster(options...), nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}
