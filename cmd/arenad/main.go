// arenad runs the battle simulation server: it loads the content tables,
// connects persistence, and serves battles through the host registry.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wartide/arena/internal/config"
	"github.com/wartide/arena/internal/data"
	"github.com/wartide/arena/internal/host"
	"github.com/wartide/arena/internal/logging"
	"github.com/wartide/arena/internal/persist"
)

func main() {
	cfgPath := flag.String("config", "arena.toml", "path to config file")
	noDB := flag.Bool("nodb", false, "run without persistence (results are not recorded)")
	flag.Parse()

	if err := run(*cfgPath, *noDB); err != nil {
		fmt.Fprintln(os.Stderr, "arenad:", err)
		os.Exit(1)
	}
}

func run(cfgPath string, noDB bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("arenad starting",
		zap.String("server", cfg.Server.Name),
		zap.Int("grid_width", cfg.Battle.GridWidth),
		zap.Int("grid_height", cfg.Battle.GridHeight))

	tables, err := loadTables(cfg, log)
	if err != nil {
		return err
	}

	var results *persist.ResultRepo
	var eventLog *persist.EventLogRepo
	var rosters host.RosterSource
	if !noDB {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := persist.Open(ctx, cfg.Database)
		cancel()
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		results = persist.NewResultRepo(db)
		eventLog = persist.NewEventLogRepo(db)
		rosters = persist.NewUnitRepo(db)
	}

	h := host.New(*cfg, tables, results, eventLog, rosters, log)
	defer h.Shutdown()

	log.Info("arenad ready")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Info("arenad shutting down", zap.String("signal", s.String()))
	return nil
}

func loadTables(cfg *config.Config, log *zap.Logger) (host.Tables, error) {
	abilities, err := data.LoadAbilityTable(cfg.Content.AbilitiesPath)
	if err != nil {
		return host.Tables{}, fmt.Errorf("abilities: %w", err)
	}
	classes, err := data.LoadHeroClassTable(cfg.Content.ClassesPath)
	if err != nil {
		return host.Tables{}, fmt.Errorf("classes: %w", err)
	}
	summons, err := data.LoadSummonTable(cfg.Content.SummonsPath)
	if err != nil {
		return host.Tables{}, fmt.Errorf("summons: %w", err)
	}
	profiles, err := data.LoadAIProfileTable(cfg.AI.ProfilesPath)
	if err != nil {
		return host.Tables{}, fmt.Errorf("ai profiles: %w", err)
	}
	log.Info("content loaded",
		zap.Int("abilities", abilities.Count()),
		zap.Int("classes", classes.Count()),
		zap.Int("summons", summons.Count()),
		zap.Int("ai_profiles", profiles.Count()))

	return host.Tables{
		Abilities: abilities,
		Classes:   classes,
		Summons:   summons,
		Profiles:  profiles,
	}, nil
}
