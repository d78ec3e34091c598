package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-market/pkg/config"
)

func TestPoolConfigFor_DesdeCampos(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db.local", Port: 5433, User: "caja", Password: "p@ss:word",
		DBName: "gimnasio", SSLMode: "disable", MaxConns: 4,
	}

	pc, err := poolConfigFor(cfg)
	require.NoError(t, err)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "p@ss:word", pc.ConnConfig.Password, "la contraseña se codifica en el DSN")
	assert.Equal(t, "gimnasio", pc.ConnConfig.Database)
	assert.Equal(t, int32(4), pc.MaxConns)
	assert.NotNil(t, pc.AfterConnect, "registra el codec decimal")
}

func TestPoolConfigFor_DatabaseURLTienePrioridad(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL: "postgres://u:p@remoto:6543/caja?sslmode=disable",
		Host:        "ignorado", Port: 5432, DBName: "otra",
	}

	pc, err := poolConfigFor(cfg)
	require.NoError(t, err)
	assert.Equal(t, "remoto", pc.ConnConfig.Host)
	assert.Equal(t, "caja", pc.ConnConfig.Database)
	assert.Greater(t, pc.MaxConns, int32(0), "sin DB_MAX_CONNS queda el valor de pgx")
}

func TestPoolConfigFor_DSNInvalido(t *testing.T) {
	_, err := poolConfigFor(config.DBConfig{DatabaseURL: "postgres://u:p@host:notaport/db"})
	assert.Error(t, err)
}
