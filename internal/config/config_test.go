package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("STOCK_FLOOR_POLICY", "")
	t.Setenv("SALE_PRICE_POLICY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, StockFloorAllow, cfg.StockFloorPolicy)
	assert.Equal(t, SalePriceEnforce, cfg.SalePricePolicy)
	assert.Equal(t, 60*time.Second, cfg.ProductsCacheTTL)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("STOCK_FLOOR_POLICY", "block")
	t.Setenv("SALE_PRICE_POLICY", "flag")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DatabaseDriver)
	assert.Equal(t, StockFloorBlock, cfg.StockFloorPolicy)
	assert.Equal(t, SalePriceFlag, cfg.SalePricePolicy)
	assert.Equal(t, 9090, cfg.Port)
}

func TestValidate_RejectsUnknownPolicy(t *testing.T) {
	cfg := &Config{DatabaseDriver: DriverMemory, StockFloorPolicy: "clamp", SalePricePolicy: SalePriceEnforce}
	assert.Error(t, cfg.Validate())

	cfg = &Config{DatabaseDriver: DriverMemory, StockFloorPolicy: StockFloorAllow, SalePricePolicy: "trust"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{DatabaseDriver: "sqlite", StockFloorPolicy: StockFloorAllow, SalePricePolicy: SalePriceEnforce}
	assert.Error(t, cfg.Validate())
}
