package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/notification"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/product"
	"storefront-be/internal/promo"
	"storefront-be/internal/settings"
	"storefront-be/internal/tracking"
	"storefront-be/internal/transport"
	"storefront-be/internal/user"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	productRepo := product.NewRepository(database)
	promoRepo := promo.NewRepository(database)
	userRepo := user.NewRepository(database)
	cartRepo := cart.NewRepository(database)
	orderRepo := order.NewRepository(database, productRepo)
	trackingRepo := tracking.NewRepository(database)
	settingsRepo := settings.NewRepository(database)

	settingsSvc := settings.NewService(settingsRepo)
	cartSvc := cart.NewService(cartRepo, productRepo, promoRepo, settingsSvc)
	trackingSvc := tracking.NewService(trackingRepo, tracking.NewUSPSCarrier(cfg))

	paypal := payment.NewPayPalGateway(cfg)
	stripe := payment.NewStripeClient(cfg)
	receipts := notification.NewLogSender(cfg)

	orderSvc := order.NewService(orderRepo, cartSvc, userRepo, paypal, stripe, trackingSvc, receipts)

	router := transport.NewRouter(cfg.AppEnv, transport.Handlers{
		Cart:     transport.NewCartHandler(cartSvc),
		Order:    transport.NewOrderHandler(orderSvc),
		Payment:  transport.NewPaymentHandler(orderSvc),
		Tracking: transport.NewTrackingHandler(orderSvc, trackingSvc),
		Admin:    transport.NewAdminHandler(settingsSvc, promoRepo),
	})

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.L().Info("server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("graceful shutdown failed", zap.Error(err))
	}
}
