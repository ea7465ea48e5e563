package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"snowpool/internal/config"
	"snowpool/internal/database"
	"snowpool/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type PostalAreasConfig struct {
	PostalAreas []models.PostalArea `yaml:"postal_areas"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	areasPath := flag.String("areas", "configs/postal_areas.yaml", "path to postal_areas.yaml")
	flag.Parse()

	data, err := os.ReadFile(*areasPath)
	if err != nil {
		return fmt.Errorf("read postal areas: %w", err)
	}
	var cfg PostalAreasConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse postal areas: %w", err)
	}
	if len(cfg.PostalAreas) == 0 {
		return fmt.Errorf("no postal areas in yaml")
	}
	if err = config.ValidatePostalAreas(cfg.PostalAreas); err != nil {
		return err
	}

	db := database.NewDB(cfg.PostalAreas, &logger)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shadowed := 0
	for _, area := range cfg.PostalAreas {
		resolved, err := db.GetPostalAreaByCode(ctx, area.PostalCode)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", area.PostalCode, err)
		}
		if resolved.ID != area.ID {
			logger.Warn().
				Str("postal_code", area.PostalCode).
				Str("id", area.ID).
				Str("resolved_id", resolved.ID).
				Msg("duplicate postal code is never returned by lookups")
			shadowed++
		}
	}

	fmt.Printf("done: areas=%d shadowed=%d\n", len(cfg.PostalAreas), shadowed)
	return nil
}
