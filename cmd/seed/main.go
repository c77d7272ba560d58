// seed crea los locales LojaPark y BarPlaypub y los usuarios iniciales si no existen.
//
// Uso: go run ./cmd/seed [-admin-password X] [-employee-password Y] [-migrate]
package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/storage"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

func main() {
	adminUser := flag.String("admin", "admin", "username del administrador")
	adminPassword := flag.String("admin-password", "525210", "contraseña del administrador")
	employeeUser := flag.String("employee", "funcionario", "username del funcionario")
	employeePassword := flag.String("employee-password", "525210", "contraseña del funcionario")
	migrate := flag.Bool("migrate", true, "aplicar migraciones antes del seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repos, err := storage.Open(ctx, cfg.DB, *migrate)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer repos.Close()

	locations := map[string]int64{}
	for _, name := range []string{entity.LocationBar, entity.LocationStore} {
		loc, err := repos.Locations.Ensure(ctx, name)
		if err != nil {
			log.Fatal().Err(err).Str("stock", name).Msg("crear local")
		}
		locations[name] = loc.ID
	}

	userUC := usecase.NewUserUseCase(repos.Users, repos.Locations)
	users := []dto.CreateUserRequest{
		{Username: *adminUser, Password: *adminPassword, Role: entity.RoleAdmin, StockID: dto.FlexInt(locations[entity.LocationStore])},
		{Username: *employeeUser, Password: *employeePassword, Role: entity.RoleEmployee, StockID: dto.FlexInt(locations[entity.LocationBar])},
	}
	for _, u := range users {
		created, err := userUC.EnsureUser(ctx, u)
		if err != nil {
			log.Fatal().Err(err).Str("username", u.Username).Msg("crear usuario")
		}
		log.Info().Str("username", u.Username).Str("role", u.Role).Bool("created", created).Msg("usuario")
	}
	log.Info().Msg("seed concluido")
}
