// import restaura un backup de productos (GET /api/backup) sumando las cantidades en un local.
// Los productos conservan su ID; los que fallan se registran y se omiten.
//
// Uso: go run ./cmd/import -file backup_produtos_2025-06-22T22-52-10-154Z.json [-stock LojaPark]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/storage"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

func main() {
	file := flag.String("file", "", "archivo JSON de backup")
	stockName := flag.String("stock", entity.LocationStore, "local destino")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if *file == "" {
		log.Fatal().Msg("-file es requerido")
	}
	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("leer backup")
	}
	var items []dto.ProductStockResponse
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Fatal().Err(err).Msg("decodificar backup")
	}

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg.DB, false)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer repos.Close()

	loc, err := repos.Locations.GetByName(ctx, *stockName)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar local")
	}
	if loc == nil {
		log.Fatal().Str("stock", *stockName).Msg("local no encontrado, ejecute el seed primero")
	}
	log.Info().Int64("stock_id", loc.ID).Str("stock", loc.Name).Int("items", len(items)).Msg("importando")

	stockUC := inventory.NewStockUseCase(repos.Tx, repos.Products, repos.Stock, repos.Locations)
	failed := 0
	for _, it := range items {
		entry, err := stockUC.ImportProduct(ctx, loc.ID, it)
		if err != nil {
			failed++
			log.Error().Err(err).Int64("product_id", it.ID).Msg("producto omitido")
			continue
		}
		log.Info().Int64("product_id", it.ID).Str("nome", it.Nome).Int("quantidade", entry.Quantity).Msg("importado")
	}
	log.Info().Int("ok", len(items)-failed).Int("failed", failed).Msg("importación concluida")
}
