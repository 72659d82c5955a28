package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/megatonytrader/express-entregas-zap/configs"
	"github.com/megatonytrader/express-entregas-zap/internal/adapter/blob"
	"github.com/megatonytrader/express-entregas-zap/internal/adapter/cache"
	adapterhttp "github.com/megatonytrader/express-entregas-zap/internal/adapter/http"
	"github.com/megatonytrader/express-entregas-zap/internal/adapter/http/middleware"
	"github.com/megatonytrader/express-entregas-zap/internal/adapter/kafka"
	"github.com/megatonytrader/express-entregas-zap/internal/adapter/queue"
	"github.com/megatonytrader/express-entregas-zap/internal/adapter/repo"
	"github.com/megatonytrader/express-entregas-zap/internal/logging"
	"github.com/megatonytrader/express-entregas-zap/internal/realtime"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

// App bundles the HTTP router with the background loops that keep the
// order boards live: the change-feed consumer, the outbox drainer, and
// the merchant relay.
type App struct {
	Router    *gin.Engine
	cfg       configs.Config
	consumer  *kafka.FeedConsumer
	publisher *kafka.FeedPublisher
	relay     *queue.Router
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	log := logging.Init(cfg.App.Name, cfg.App.LogFile)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		return nil, nil, err
	}
	cancel()

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq: one channel for the checkout producer, one for the
	// relay consumer
	rconn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	pubCh, err := rconn.Channel()
	if err != nil {
		return nil, nil, err
	}
	subCh, err := rconn.Channel()
	if err != nil {
		return nil, nil, err
	}

	// init kafka
	group, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.AdminGroupID)
	if err != nil {
		return nil, nil, err
	}
	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		return nil, nil, err
	}

	blobs, err := blob.NewFSStore(cfg.Blob.Root, cfg.Blob.PublicURL)
	if err != nil {
		return nil, nil, err
	}

	orderRepo := repo.NewMySQLOrderRepo(db)
	outboxRepo := repo.NewMySQLOutboxRepo(db)
	catalogRepo := repo.NewMySQLCatalogRepo(db)
	settingsRepo := repo.NewMySQLSettingsRepo(db)
	accountRepo := repo.NewMySQLAccountRepo(db)

	cartStore := cache.NewRedisCartStore(rdb, cfg.Cart.TTL)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)

	relayProducer, err := queue.NewRabbitProducer(pubCh)
	if err != nil {
		return nil, nil, err
	}

	checkoutUC := usecase.NewCheckout(orderRepo, settingsRepo, idem, outboxRepo,
		relayProducer, cfg.Checkout.DeliveryFeeCents, logging.New("checkout"))
	updateUC := usecase.NewUpdateStatus(orderRepo, outboxRepo, logging.New("update-status"))

	adminSync := realtime.NewAdminSync(orderRepo,
		realtime.NewLogNotifier(logging.New("admin-notify")), logging.New("admin-sync"))
	customerSync := realtime.NewCustomerSync("", orderRepo,
		realtime.NewLogNotifier(logging.New("customer-notify")), logging.New("customer-sync"))

	// warm the boards so a restart does not show an empty console
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 5*time.Second)
	existing, err := orderRepo.ListAll(seedCtx)
	seedCancel()
	if err != nil {
		return nil, nil, err
	}
	adminSync.Board.Reset(existing)
	customerSync.Board.Reset(existing)

	cartHandler := adapterhttp.NewCartHandler(cartStore)
	handlers := adapterhttp.Handlers{
		Auth:     adapterhttp.NewAuthHandler(cfg, accountRepo),
		Catalog:  adapterhttp.NewCatalogHandler(catalogRepo, settingsRepo),
		Cart:     cartHandler,
		Checkout: adapterhttp.NewCheckoutHandler(checkoutUC, cartStore, cartHandler),
		Orders:   adapterhttp.NewOrderHandler(adminSync, customerSync, updateUC, settingsRepo, cartHandler),
	}
	adminCat := adapterhttp.NewAdminCatalogHandler(catalogRepo, blobs)
	handlers.AdminCat = adminCat
	handlers.Settings = adapterhttp.NewAdminSettingsHandler(settingsRepo, adminCat)

	router := adapterhttp.NewRouter(handlers, middleware.NewAuthz(cfg), blobs.Root())

	consumer := kafka.NewFeedConsumer(group, []string{cfg.Kafka.OrdersTopic},
		logging.New("feed-consumer"), adminSync.Handle, customerSync.Handle)
	publisher := kafka.NewFeedPublisher(producer, outboxRepo, cfg.Kafka.OrdersTopic,
		cfg.Kafka.DrainInterval, logging.New("feed-publisher"))

	relayRouter := queue.NewRouter(subCh)
	relayHandler := queue.NewMerchantRelayHandler(settingsRepo, logging.New("merchant-relay"))
	relayRouter.Register("order.placed.q", queue.JSONHandler[usecase.OrderPlacedMsg]{
		HandleFunc: relayHandler.HandlePlaced,
	})

	cleanup := func() {
		_ = producer.Close()
		_ = pubCh.Close()
		_ = subCh.Close()
		_ = rconn.Close()
		_ = rdb.Close()
		_ = db.Close()
		log.Info("shutdown complete")
	}

	return &App{
		Router:    router,
		cfg:       cfg,
		consumer:  consumer,
		publisher: publisher,
		relay:     relayRouter,
	}, cleanup, nil
}

// Run serves HTTP and supervises the background loops until ctx is
// cancelled; the first hard failure takes the whole process down.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.App.HTTPAddr,
		Handler:      a.Router,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
	}

	if err := a.relay.Start(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	g.Go(func() error { return a.consumer.Run(ctx) })
	g.Go(func() error { return a.publisher.Run(ctx) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	return err
}
