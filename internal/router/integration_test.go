//go:build integration

package router

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/config"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/infra"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/sync/errgroup"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	store  *repository.GormStore
	rdb    *redis.Client
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// create POSTs body and returns the id of the created record.
func (e *testEnv) create(t *testing.T, path string, body any) string {
	t.Helper()
	status, raw := e.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, status, string(raw))
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out.ID
}

func (e *testEnv) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	var it model.Item
	require.NoError(t, e.store.DB().First(&it, "id = ?", id).Error)
	return it.CurrentStock
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

func setupTestEnv(t *testing.T, floorPolicy string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("rumahrasa_test"),
		tcPostgres.WithUsername("rumahrasa"),
		tcPostgres.WithPassword("rumahrasa"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		RateLimitPerMinute: 10000,
		DatabaseDriver:     config.DriverPostgres,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		ProductsCacheTTL:   time.Minute,
		StockFloorPolicy:   floorPolicy,
		SalePricePolicy:    config.SalePriceEnforce,
		WorkerPoolSize:     1,
	}

	// Connect DB + run migrations
	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	require.NoError(t, err)
	store := repository.NewGormStore(db)
	t.Cleanup(func() { _ = store.Close() })

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	srv := httptest.NewServer(New(cfg, store, rdb, worker.NewDispatcher(rdb)))
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, store: store, rdb: rdb}
}

type catalog struct {
	flour, eggs, bread, loaf, supplier string
}

func seedCatalog(t *testing.T, env *testEnv) catalog {
	t.Helper()
	kg := env.create(t, "/api/units", map[string]any{"label": "kg"})
	c := catalog{
		flour: env.create(t, "/api/inventory", map[string]any{"name": "Flour", "unitId": kg, "currentStock": 10, "minimumStock": 2}),
		eggs:  env.create(t, "/api/inventory", map[string]any{"name": "Eggs", "currentStock": 5}),
		bread: env.create(t, "/api/inventory", map[string]any{"name": "Bread", "kind": "product", "minimumStock": 1}),
	}
	status, raw := env.do(t, http.MethodPut, "/api/recipes/"+c.bread, map[string]any{
		"lines": []map[string]any{
			{"ingredientId": c.flour, "quantityPerBatch": 2, "unitId": kg},
			{"ingredientId": c.eggs, "quantityPerBatch": 1},
		},
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	c.loaf = env.create(t, "/api/variants", map[string]any{
		"productId":       c.bread,
		"name":            "Loaf",
		"quantityPerUnit": 1,
		"offlinePrice":    3000,
		"channelPrices":   []map[string]any{{"channel": "gofood", "price": 3600}},
	})
	c.supplier = env.create(t, "/api/suppliers", map[string]any{"name": "Toko Tepung"})
	return c
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestIntegration_FullCycle(t *testing.T) {
	env := setupTestEnv(t, config.StockFloorAllow)
	c := seedCatalog(t, env)

	// Procurement adds stock
	status, raw := env.do(t, http.MethodPost, "/api/purchases", map[string]any{
		"supplierId":  c.supplier,
		"totalAmount": 60000,
		"lines":       []map[string]any{{"itemId": c.flour, "quantity": 5, "unitPrice": 12000}},
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.True(t, env.stock(t, c.flour).Equal(decimal.NewFromInt(15)))

	// Production: 2 batches of {2×flour, 1×eggs}
	status, raw = env.do(t, http.MethodPost, "/api/production", map[string]any{"productId": c.bread, "multiplier": 2})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.True(t, env.stock(t, c.flour).Equal(decimal.NewFromInt(11)))
	assert.True(t, env.stock(t, c.eggs).Equal(decimal.NewFromInt(3)))
	assert.True(t, env.stock(t, c.bread).Equal(decimal.NewFromInt(2)))

	// Products are cached until the next committed change
	status, _ = env.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, status)
	cached, err := env.rdb.Exists(context.Background(), "catalog:products").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, cached)

	// Sale on gofood uses the override price
	status, raw = env.do(t, http.MethodPost, "/api/transaction", map[string]any{
		"channel": "gofood",
		"items":   []map[string]any{{"variantId": c.loaf, "quantity": 1, "price": 3600}},
		"total":   3600,
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	var sale struct {
		TransactionNumber string `json:"transactionNumber"`
	}
	require.NoError(t, json.Unmarshal(raw, &sale))
	assert.Regexp(t, `^TRX-\d{8}-\d{6}$`, sale.TransactionNumber)
	assert.True(t, env.stock(t, c.bread).Equal(decimal.NewFromInt(1)))

	cached, err = env.rdb.Exists(context.Background(), "catalog:products").Result()
	require.NoError(t, err)
	assert.Zero(t, cached)

	// Bread hit its minimum: one alert job queued for the worker pool
	queued, err := env.rdb.LLen(context.Background(), worker.QueueStockAlerts).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, queued)

	// Receipt and report read the committed sale
	status, raw = env.do(t, http.MethodGet, "/api/transaction/"+sale.TransactionNumber+"/receipt", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	status, raw = env.do(t, http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusOK, status)
	var report struct {
		Omzet         decimal.Decimal  `json:"omzet"`
		ChannelCounts map[string]int64 `json:"channelCounts"`
		BestSellers   []struct {
			Name      string `json:"name"`
			TotalSold int64  `json:"totalSold"`
		} `json:"bestSellers"`
	}
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.True(t, report.Omzet.Equal(decimal.NewFromInt(3600)))
	assert.EqualValues(t, 1, report.ChannelCounts["gofood"])
	require.Len(t, report.BestSellers, 1)
	assert.Equal(t, "Bread Loaf", report.BestSellers[0].Name)

	// Every adjustment left an audit row
	status, raw = env.do(t, http.MethodGet, "/api/inventory/movements", nil)
	require.Equal(t, http.StatusOK, status)
	var movements struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(raw, &movements))
	assert.EqualValues(t, 5, movements.Total)
}

func TestIntegration_FailedWorkflowsRollBack(t *testing.T) {
	env := setupTestEnv(t, config.StockFloorAllow)
	c := seedCatalog(t, env)

	// Second line references an item that does not exist: the FK violation
	// must undo the first line too.
	status, raw := env.do(t, http.MethodPost, "/api/purchases", map[string]any{
		"supplierId": c.supplier,
		"lines": []map[string]any{
			{"itemId": c.flour, "quantity": 5, "unitPrice": 1000},
			{"itemId": "00000000-0000-0000-0000-000000000001", "quantity": 1, "unitPrice": 1000},
		},
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, string(raw), `"code":"not_found"`)
	assert.True(t, env.stock(t, c.flour).Equal(decimal.NewFromInt(10)))

	var procurements int64
	require.NoError(t, env.store.DB().Model(&model.Procurement{}).Count(&procurements).Error)
	assert.Zero(t, procurements)

	// Declared total disagrees with the catalog
	status, raw = env.do(t, http.MethodPost, "/api/transaction", map[string]any{
		"items": []map[string]any{{"variantId": c.loaf, "quantity": 2}},
		"total": 1000,
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, string(raw), `"code":"price_mismatch"`)

	var sales int64
	require.NoError(t, env.store.DB().Model(&model.Transaction{}).Count(&sales).Error)
	assert.Zero(t, sales)
}

func TestIntegration_BlockPolicyUnderConcurrency(t *testing.T) {
	env := setupTestEnv(t, config.StockFloorBlock)
	c := seedCatalog(t, env)

	status, raw := env.do(t, http.MethodPost, "/api/production", map[string]any{"productId": c.bread, "multiplier": 5})
	require.Equal(t, http.StatusOK, status, string(raw))

	// 12 concurrent single-loaf sales against 5 loaves: exactly 5 may commit.
	const attempts = 12
	var (
		mu      sync.Mutex
		ok      int
		numbers = make(map[string]bool)
		g       errgroup.Group
	)
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			status, raw := env.do(t, http.MethodPost, "/api/transaction", map[string]any{
				"items": []map[string]any{{"variantId": c.loaf, "quantity": 1}},
			})
			mu.Lock()
			defer mu.Unlock()
			switch status {
			case http.StatusOK:
				var sale struct {
					TransactionNumber string `json:"transactionNumber"`
				}
				if err := json.Unmarshal(raw, &sale); err != nil {
					return err
				}
				if numbers[sale.TransactionNumber] {
					return fmt.Errorf("duplicate transaction number %s", sale.TransactionNumber)
				}
				numbers[sale.TransactionNumber] = true
				ok++
			case http.StatusInternalServerError:
				if !bytes.Contains(raw, []byte(`"code":"insufficient_stock"`)) {
					return fmt.Errorf("unexpected failure: %s", raw)
				}
			default:
				return fmt.Errorf("unexpected status %d: %s", status, raw)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 5, ok)
	assert.True(t, env.stock(t, c.bread).IsZero())
}

func TestIntegration_OppositeOrderCartsBothCommit(t *testing.T) {
	env := setupTestEnv(t, config.StockFloorAllow)
	c := seedCatalog(t, env)

	status, raw := env.do(t, http.MethodPost, "/api/production", map[string]any{"productId": c.bread, "multiplier": 2})
	require.Equal(t, http.StatusOK, status, string(raw))
	cake := env.create(t, "/api/inventory", map[string]any{"name": "Cake", "kind": "product", "currentStock": 100})
	cakeSlice := env.create(t, "/api/variants", map[string]any{
		"productId": cake, "name": "Slice", "quantityPerUnit": 1, "offlinePrice": 5000,
	})

	// Every pair locks bread and cake from opposite ends of the cart.
	const pairs = 20
	carts := [][]string{{c.loaf, cakeSlice}, {cakeSlice, c.loaf}}
	var g errgroup.Group
	for i := 0; i < pairs; i++ {
		for _, cart := range carts {
			g.Go(func() error {
				items := make([]map[string]any, 0, len(cart))
				for _, v := range cart {
					items = append(items, map[string]any{"variantId": v, "quantity": 1})
				}
				status, raw := env.do(t, http.MethodPost, "/api/transaction", map[string]any{"items": items})
				if status != http.StatusOK {
					return fmt.Errorf("status %d: %s", status, raw)
				}
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())

	sold := decimal.NewFromInt(2 * pairs)
	assert.True(t, env.stock(t, c.bread).Equal(decimal.NewFromInt(2).Sub(sold)))
	assert.True(t, env.stock(t, cake).Equal(decimal.NewFromInt(100).Sub(sold)))
}

func TestIntegration_ConcurrentProductionOnDisjointProducts(t *testing.T) {
	env := setupTestEnv(t, config.StockFloorAllow)
	c := seedCatalog(t, env)

	status, raw := env.do(t, http.MethodPost, "/api/purchases", map[string]any{
		"supplierId": c.supplier,
		"lines": []map[string]any{
			{"itemId": c.flour, "quantity": 90, "unitPrice": 1000},
			{"itemId": c.eggs, "quantity": 45, "unitPrice": 2000},
		},
	})
	require.Equal(t, http.StatusOK, status, string(raw))

	sugar := env.create(t, "/api/inventory", map[string]any{"name": "Sugar", "currentStock": 50})
	cookie := env.create(t, "/api/inventory", map[string]any{"name": "Cookie", "kind": "product"})
	status, raw = env.do(t, http.MethodPut, "/api/recipes/"+cookie, map[string]any{
		"lines": []map[string]any{{"ingredientId": sugar, "quantityPerBatch": 1}},
	})
	require.Equal(t, http.StatusOK, status, string(raw))

	const runs = 25
	var g errgroup.Group
	for i := 0; i < runs; i++ {
		for _, product := range []string{c.bread, cookie} {
			g.Go(func() error {
				status, raw := env.do(t, http.MethodPost, "/api/production", map[string]any{"productId": product, "multiplier": 1})
				if status != http.StatusOK {
					return fmt.Errorf("status %d: %s", status, raw)
				}
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())

	// bread: {2×flour, 1×eggs} per batch; cookie: {1×sugar}
	assert.True(t, env.stock(t, c.bread).Equal(decimal.NewFromInt(runs)))
	assert.True(t, env.stock(t, c.flour).Equal(decimal.NewFromInt(100-2*runs)))
	assert.True(t, env.stock(t, c.eggs).Equal(decimal.NewFromInt(50-runs)))
	assert.True(t, env.stock(t, cookie).Equal(decimal.NewFromInt(runs)))
	assert.True(t, env.stock(t, sugar).Equal(decimal.NewFromInt(50-runs)))
}
