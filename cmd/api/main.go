package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	cartstore "storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/notify"
	couponrepo "storefront/internal/repository/coupon"
	customerrepo "storefront/internal/repository/customer"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	couponsvc "storefront/internal/service/coupon"
	customersvc "storefront/internal/service/customer"
	productsvc "storefront/internal/service/product"
	"storefront/internal/shipping"
)

func main() {
	cfg := config.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "api").Logger()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer dbpool.Close()

	var store cartstore.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("connect to redis")
		}
		defer client.Close()
		store = cartstore.NewRedisStore(client, cfg.CartTTL)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis cart store")
	} else {
		store = cartstore.NewMemoryStore()
		logger.Info().Msg("using in-memory cart store")
	}

	productRepo := productrepo.NewPostgres(dbpool)
	customerRepo := customerrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	couponRepo := couponrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	estimator := shipping.NewEstimator(
		shipping.Coord{Lat: cfg.ShippingOriginLat, Lon: cfg.ShippingOriginLon},
		shipping.DefaultTiers(),
		shipping.NewHTTPResolver(cfg.GeocodeTimeout),
	)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("kafka publisher enabled")
	}

	customerService := customersvc.New(customerRepo, tokenRepo, cfg.TokenTTL)
	productService := productsvc.New(productRepo)
	cartService := cartsvc.New(store, productRepo)
	couponService := couponsvc.New(couponRepo)
	checkoutService := checkoutsvc.New(store, customerRepo, orderRepo, cfg.CheckoutFlatFee, logger,
		checkoutsvc.WithShippingQuoter(estimator),
		checkoutsvc.WithNotifier(notify.LogNotifier{Logger: logger}),
		checkoutsvc.WithPublisher(publisher),
	)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Customers: customerService,
		Products:  productService,
		Carts:     cartService,
		Checkout:  checkoutService,
		Coupons:   couponService,
		Shipping:  estimator,
		Orders:    orderRepo,
	}, cfg.AllowedOrigins)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
}
