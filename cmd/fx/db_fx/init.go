package db_fx

import (
	"log"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"mealforge/internal/infra"
)

var Module = fx.Options(
	fx.Provide(provideDB),
	fx.Invoke(runMigrations),
)

func provideDB() *gorm.DB {
	return infra.InitPostgresql()
}

func runMigrations(db *gorm.DB) {
	if err := infra.Migrate(db); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}
}
