package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"dogpark-server/internal/config"
	"dogpark-server/internal/dbpool"
	"dogpark-server/internal/engine"
	"dogpark-server/internal/httpapi"
	"dogpark-server/internal/loot"
	"dogpark-server/internal/model"
	"dogpark-server/internal/players"
	"dogpark-server/internal/retirement"
	"dogpark-server/internal/session"
	"dogpark-server/internal/snapshot"
	"dogpark-server/internal/version"
	"dogpark-server/pkg/logger"
	"dogpark-server/pkg/utils"
)

func init() {
	logger.Init()
}

func main() {
	var (
		configFile      string
		wwwRoot         string
		tickPeriodMs    int64
		randomizeSpawns bool
		stateFile       string
		saveStatePeriod int64
		addr            string
	)
	flag.StringVar(&configFile, "config-file", "", "path to the map-config JSON file (required)")
	flag.StringVar(&wwwRoot, "www-root", "", "path to the static client files (required)")
	flag.Int64Var(&tickPeriodMs, "tick-period", 0, "if set, run an internal ticker every N ms and disable the tick endpoint")
	flag.BoolVar(&randomizeSpawns, "randomize-spawn-points", false, "spawn new dogs at a random road point instead of the first road's start")
	flag.StringVar(&stateFile, "state-file", "", "path to the persistent snapshot file")
	flag.Int64Var(&saveStatePeriod, "save-state-period", -1, "periodic snapshot interval in ms; negative means manual saves only")
	flag.StringVar(&addr, "address", ":8080", "HTTP listen address")
	flag.Parse()

	log := logger.Component("main")
	log.Info(version.String())

	if configFile == "" || wwwRoot == "" {
		log.Fatal("--config-file and --www-root are required")
	}

	dbURL := os.Getenv("GAME_DB_URL")
	if dbURL == "" {
		log.Fatal("GAME_DB_URL environment variable must be set")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to load config")
	}
	maps, err := cfg.BuildMaps()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to build map catalog")
	}
	mapByID := make(map[string]*model.Map, len(maps))
	for _, m := range maps {
		mapByID[m.ID] = m
	}
	defaults := cfg.Defaults()

	spawnPolicy := loot.Deterministic
	if randomizeSpawns {
		spawnPolicy = loot.Randomized
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := dbpool.NewConnectionPool(connectCtx, dbURL, 4)
	cancel()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to connect to the retirement database")
	}
	defer pool.Close()

	spawnRNG := rand.New(rand.NewSource(utils.NewSeed()))
	tokenSeedA, tokenSeedB := utils.NewSeed(), utils.NewSeed()

	game, registry := loadOrCreateState(stateFile, maps, mapByID, defaults, spawnPolicy, spawnRNG, tokenSeedA, tokenSeedB, log)

	eng := engine.New(game, registry, defaults.MaxIdleMs)
	eng.Run()
	defer eng.Stop()

	eng.AddListener(retirement.NewListener(game, registry, pool, defaults.MaxIdleMs))

	var snapListener *snapshot.Listener
	if stateFile != "" {
		snapListener = snapshot.NewListener(stateFile, float64(saveStatePeriod), game, registry)
		eng.AddListener(snapListener)
	}

	tickEnabled := tickPeriodMs <= 0
	var driver *engine.TickDriver
	if !tickEnabled {
		driver = engine.NewTickDriver(eng, time.Duration(tickPeriodMs)*time.Millisecond)
		driver.Start()
	}

	server := &httpapi.Server{
		Game:        game,
		Engine:      eng,
		Players:     registry,
		Factory:     pool,
		SpawnPolicy: spawnPolicy,
		TickEnabled: tickEnabled,
	}
	httpServer := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(server, wwwRoot),
	}

	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithField("error", err.Error()).Fatal("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithField("error", err.Error()).Warn("http server shutdown error")
	}

	if driver != nil {
		driver.Stop()
	}

	if snapListener != nil {
		if err := snapListener.Save(); err != nil {
			log.WithField("error", err.Error()).Error("final snapshot save failed")
		}
	}

	log.Info("done")
}

// loadOrCreateState restores a snapshot if stateFile is set and exists,
// otherwise builds a fresh Game and player Registry. Any restore failure
// is fatal at startup, per spec §4.9/§7.
func loadOrCreateState(
	stateFile string,
	maps []*model.Map,
	mapByID map[string]*model.Map,
	defaults session.Defaults,
	policy loot.SpawnPolicy,
	rng *rand.Rand,
	tokenSeedA, tokenSeedB int64,
	log *logrus.Entry,
) (*session.Game, *players.Registry) {
	if stateFile != "" {
		game, registry, err := snapshot.LoadState(stateFile, mapByID, defaults, policy, rng, tokenSeedA, tokenSeedB)
		switch {
		case err == nil:
			log.WithField("path", stateFile).Info("restored snapshot")
			return game, registry
		case os.IsNotExist(err):
			log.WithField("path", stateFile).Info("no snapshot found, starting fresh")
		default:
			log.WithField("error", err.Error()).Fatal("failed to load snapshot")
		}
	}
	return session.NewGame(maps, defaults, policy, rng), players.NewRegistry(tokenSeedA, tokenSeedB)
}
