package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/cakeshop/internal/model"
	"github.com/d60-Lab/cakeshop/internal/repository"
	"github.com/d60-Lab/cakeshop/internal/service"
	"github.com/d60-Lab/cakeshop/pkg/database"
	"github.com/d60-Lab/cakeshop/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// 模拟 CONC 个并发接单请求争抢同一商品库存，验证条件扣减下不会超卖，
// 并输出接单延迟分位数
func main() {
	_ = logger.Init("warn")

	N := envInt("N", 200)         // 订单数
	CONC := envInt("CONC", 16)    // 并发度
	STOCK := envInt("STOCK", 100) // 初始库存

	db := must(gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{}))
	sqlDB := must(db.DB())
	sqlDB.SetMaxOpenConns(1) // sqlite 单写者
	must(0, database.Migrate(db))

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	ledger := service.NewInventoryLedger(productRepo)
	lifecycle := service.NewLifecycleService(db, orderRepo, ledger)

	ctx := context.Background()
	product := &model.Product{
		ID: uuid.New().String(), Name: "Ube Cheese Pandesal", Category: model.CategoryPastry,
		Price: 75.50, Stock: STOCK, Available: true,
	}
	must(0, productRepo.Create(ctx, product))

	// 预建 N 个 pending 订单，每单一件
	orderIDs := make([]string, N)
	for i := 0; i < N; i++ {
		id := uuid.New().String()
		orderIDs[i] = id
		pid := product.ID
		must(0, orderRepo.Create(ctx, &model.Order{
			ID: id, OrderNo: fmt.Sprintf("BENCH-%06d", i),
			CustomerID: "bench", CustomerName: "bench", CustomerEmail: "bench@example.com",
			DeliveryMethod: model.DeliveryMethodPickup, PaymentMethod: model.PaymentMethodCash,
			Status: model.OrderStatusPending, TotalAmount: 75.50,
			Items: []model.OrderItem{{
				ID: uuid.New().String(), ProductID: &pid,
				Name: product.Name, UnitPrice: 75.50, Quantity: 1, LineTotal: 75.50,
			}},
		}))
	}

	var accepted, rejected int64
	latencies := make([]time.Duration, N)
	jobs := make(chan int, N)
	for i := 0; i < N; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				t0 := time.Now()
				_, err := lifecycle.Transition(ctx, orderIDs[i], model.OrderStatusProcessing)
				latencies[i] = time.Since(t0)
				if err != nil {
					atomic.AddInt64(&rejected, 1)
				} else {
					atomic.AddInt64(&accepted, 1)
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	finalStock := must(productRepo.GetStock(ctx, product.ID))

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	pct := func(p float64) time.Duration { return latencies[int(float64(N-1)*p)] }

	fmt.Printf("orders=%d conc=%d stock=%d elapsed=%s\n", N, CONC, STOCK, elapsed)
	fmt.Printf("accepted=%d rejected=%d final_stock=%d oversold=%v\n",
		accepted, rejected, finalStock, finalStock < 0)
	fmt.Printf("latency p50=%s p95=%s p99=%s\n", pct(0.50), pct(0.95), pct(0.99))
}
