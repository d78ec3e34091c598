package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-market/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "0.01", cfg.Cash.Epsilon.String())
	assert.Equal(t, 50, cfg.Cash.HistoryDefaultLimit)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("CASH_EPSILON", "0.05")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "4")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Store.Driver, "el driver no distingue mayúsculas")
	assert.Equal(t, "0.05", cfg.Cash.Epsilon.String())
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.EqualValues(t, 4, cfg.DB.MaxConns)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_EpsilonInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CASH_EPSILON", "0")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "caja", Password: "p@ss", DBName: "market", SSLMode: "disable"}
	assert.Equal(t, "postgres://caja:p%40ss@db:5432/market?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
