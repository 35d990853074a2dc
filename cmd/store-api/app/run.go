package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/webdroid21/component-pulse-sub000/configs"
	"github.com/webdroid21/component-pulse-sub000/internal/adapter/cache"
	apihttp "github.com/webdroid21/component-pulse-sub000/internal/adapter/http"
	"github.com/webdroid21/component-pulse-sub000/internal/adapter/http/middleware"
	"github.com/webdroid21/component-pulse-sub000/internal/adapter/kafka"
	"github.com/webdroid21/component-pulse-sub000/internal/adapter/payment"
	"github.com/webdroid21/component-pulse-sub000/internal/adapter/queue"
	"github.com/webdroid21/component-pulse-sub000/internal/adapter/repo"
	"github.com/webdroid21/component-pulse-sub000/internal/cart"
	"github.com/webdroid21/component-pulse-sub000/internal/checkout"
	"github.com/webdroid21/component-pulse-sub000/internal/logging"
	"github.com/webdroid21/component-pulse-sub000/internal/pricing"
	"github.com/webdroid21/component-pulse-sub000/internal/session"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, "./logs/app.log")
	log := logging.New("app")

	appCtx, stop := context.WithCancel(context.Background())

	// init mongo
	ctx, cancel := context.WithTimeout(appCtx, cfg.Mongo.Timeout)
	db, err := repo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	cancel()
	if err != nil {
		stop()
		return nil, nil, err
	}

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(appCtx).Err(); err != nil {
		stop()
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		stop()
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		stop()
		return nil, nil, err
	}

	// repos
	orderRepo := repo.NewMongoOrderRepo(db)
	productRepo := repo.NewMongoProductRepo(db)
	categoryRepo := repo.NewMongoCategoryRepo(db)
	customerRepo := repo.NewMongoCustomerRepo(db)
	settingsRepo := repo.NewMongoSettingsRepo(db)
	couponRepo := repo.NewMongoCouponRepo(db)
	outboxRepo := repo.NewMongoOutboxRepo(db)

	// caches
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	catalogCache := cache.NewRedisCatalogCache(rdb, cfg.Cache.ProductTTL)
	orderCache := cache.NewRedisOrderCache(rdb, cfg.Cache.StatusTTL)

	// use cases
	placeOrder := usecase.NewPlaceOrder(orderRepo, idem, outboxRepo)
	catalog := usecase.NewCatalog(productRepo, categoryRepo, catalogCache, logging.New("catalog"))
	settings := usecase.NewSettings(settingsRepo)
	if err := settings.Load(appCtx); err != nil {
		log.Warn("settings load failed, using defaults", "err", err)
	}

	// payment gateway
	gateway := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.SecretKey, cfg.Payment.RedirectURL, 15*time.Second)

	// outbox drain to rabbitmq
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		stop()
		return nil, nil, err
	}
	poller := queue.NewOutboxPoller(outboxRepo, producer, cfg.Outbox.PollInterval, cfg.Outbox.BatchSize)
	go poller.Run(appCtx)

	// stock reservation consumer
	setupQueue(ch, productRepo, orderRepo)

	// settlement feed consumer
	setupKafkaListener(appCtx, cfg, orderRepo, orderCache)

	// sessions: each new session snapshots the current store settings
	resolver := pricing.NewResolver(couponRepo)
	factory := func(sessionID string, c *cart.Store) *checkout.Checkout {
		s := settings.Current()
		return checkout.New(c, resolver, placeOrder, gateway, checkout.Options{
			SessionID:       sessionID,
			Currency:        s.Currency,
			DeliveryOptions: s.DeliveryOptions,
			PaymentMethods:  s.PaymentMethods,
		}, func() string { return "tx-" + uuid.NewString() })
	}
	sessions := session.NewManager(cfg.Session.TTL, factory)
	sessions.StartSweeper(appCtx, cfg.Session.SweepInterval)

	// handlers + router
	authz := middleware.NewAuthz(cfg)
	router := apihttp.NewRouter(apihttp.Handlers{
		Catalog:  apihttp.NewCatalogHandler(catalog, settings),
		Cart:     apihttp.NewCartHandler(sessions, catalog),
		Checkout: apihttp.NewCheckoutHandler(sessions, customerRepo),
		Orders:   apihttp.NewOrderHandler(orderRepo, orderCache),
		Admin:    apihttp.NewAdminHandler(productRepo, categoryRepo, customerRepo, couponRepo, orderRepo, settings, catalog),
		Token:    apihttp.NewTokenHandler(cfg),
		Webhook:  apihttp.NewWebhookHandler(cfg.Security.WebhookSecret, orderRepo, orderCache, gateway),
	}, authz)

	cleanup := func() {
		stop()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = db.Client().Disconnect(dctx)
		dcancel()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp.Channel, products usecase.ProductRepo, orders usecase.OrderRepo) {
	h := queue.NewOrderPlacedHandler(products, orders)

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register(queue.QueueOrderPlaced, queue.JSONHandler[usecase.OrderPlacedMsg]{HandleFunc: h.HandleOrderPlaced})

	if err := router.Start(); err != nil {
		panic(err)
	}
}

func setupKafkaListener(ctx context.Context, cfg configs.Config, orders usecase.OrderRepo, statuses usecase.OrderCache) {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		panic(err)
	}

	h := kafka.NewPaymentStatusHandler(orders, statuses)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.TopicSettlement}, h.Handle, logging.New("kafka"))

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			panic(err)
		}
	}()
}
