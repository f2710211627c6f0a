package main

import (
	"database/sql"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/config"
	"github.com/hlop3z/geoalab/internal/dialect"
	"github.com/hlop3z/geoalab/internal/schemagen"
)

// loadConfig loads geoalab.yaml with env vars and flags applied.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig() (*config.Config, error) {
	return config.Load(configFile, config.Overrides{
		DatabaseURL: databaseURL,
		Dialect:     dialectName,
		Models:      modelsFile,
	})
}

// loadModels reads the configured models file.
func loadModels(cfg *config.Config) ([]*schemagen.Model, error) {
	tables, err := config.LoadModels(cfg.Models, cfg.DefaultSRID)
	if err != nil {
		return nil, err
	}
	models := make([]*schemagen.Model, len(tables))
	for i, t := range tables {
		models[i] = schemagen.NewModel(t)
	}
	return models, nil
}

// driverName maps a dialect to its registered database/sql driver.
func driverName(d dialect.Dialect) string {
	if d.Name() == "sqlite" {
		return "sqlite"
	}
	return "postgres"
}

// openDB opens and pings the configured database.
func openDB(cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, alerr.New(alerr.ErrSQLConnection, "no database URL configured").
			WithHelp("set database_url in " + configFile + ", export " + config.EnvDatabaseURL + " or pass --database-url")
	}
	db, err := sql.Open(driverName(cfg.SQLDialect()), cfg.DatabaseURL)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrSQLConnection, err, "failed to open database").
			With("dialect", cfg.Dialect)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, alerr.Wrap(alerr.ErrSQLConnection, err, "failed to connect to database").
			With("dialect", cfg.Dialect)
	}
	return db, nil
}
