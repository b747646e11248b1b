package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"

	"github.com/Eggnisi/KingOfJumpChess/internal/config"
	"github.com/Eggnisi/KingOfJumpChess/internal/gamemap"
	"github.com/Eggnisi/KingOfJumpChess/internal/palette"
	"github.com/Eggnisi/KingOfJumpChess/internal/server"
	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore"
	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
)

func main() {
	log.Println("Starting hex grid server...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/server.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Configuration loaded from %s", configPath)
	log.Printf("Server will run on %s:%d", cfg.Server.Host, cfg.Server.Port)

	desc, err := descriptionProvider(cfg).Description()
	if err != nil {
		log.Fatalf("Failed to build grid description: %v", err)
	}

	grid := hexcore.NewManager(
		hexcore.WithEventBus(hexcore.NewSimpleEventBus()),
		hexcore.WithPresentationFactory(server.TileFactory),
		hexcore.WithLogger(log.New(os.Stderr, "[grid] ", log.LstdFlags)),
	)
	grid.LoadGridData(desc)
	log.Printf("Grid %q loaded with %d cells", desc.Name, grid.CellCount())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")

	validator, err := server.NewJWTValidator(ctx, cfg, server.NewRedisBlacklist(redisClient, cfg.Redis.BlacklistPrefix))
	if err != nil {
		log.Fatalf("Failed to initialize JWT validator: %v", err)
	}

	srv := server.New(cfg, grid, validator, palette.Default())

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server listening on %s", addr)
		if err := srv.Start(addr); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
	}

	if err := srv.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// descriptionProvider reads the configured grid file, or generates one when
// no path is set.
func descriptionProvider(cfg *config.Config) hexcore.DescriptionProvider {
	if cfg.Grid.DescriptionPath != "" {
		return gamemap.FileProvider{Path: cfg.Grid.DescriptionPath}
	}
	return gamemap.Generator{Config: gamemap.GenConfig{
		Name:     cfg.Session.ID,
		Radius:   cfg.Grid.GenerateRadius,
		Seed:     cfg.Grid.Seed,
		HexSize:  cfg.Grid.HexSize,
		Center:   hex.Point{X: cfg.Grid.CenterX, Y: cfg.Grid.CenterY},
		Template: cfg.Grid.Template,
	}}
}
