package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fooddash/api/internal/cart"
	"github.com/fooddash/api/internal/catalog"
	"github.com/fooddash/api/internal/config"
	"github.com/fooddash/api/internal/handler"
	"github.com/fooddash/api/internal/logging"
	"github.com/fooddash/api/internal/notify"
	"github.com/fooddash/api/internal/order"
	"github.com/fooddash/api/internal/router"
	"github.com/fooddash/api/internal/service"
	"github.com/fooddash/api/internal/tracking"
	"github.com/fooddash/api/internal/web"
	"github.com/fooddash/api/internal/ws"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fooddash",
	Short: "Serves the FoodDash storefront and API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		return run(cfg)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")

	flags := rootCmd.Flags()
	flags.String("port", "8081", "HTTP listen port")
	flags.String("catalog-file", "", "YAML restaurant catalog (built-in catalog if empty)")
	flags.Duration("tracking-interval", 5*time.Second, "Time between order stages")
	flags.Duration("place-order-delay", time.Second, "Simulated order placement delay")
	flags.Duration("redirect-delay", 2*time.Second, "Delay before the confirmation page redirects to tracking")
	flags.String("amqp-url", "", "RabbitMQ URL for order events (log only if empty)")
	flags.String("log-level", "info", "Log level")

	for _, name := range []string{"port", "catalog-file", "tracking-interval", "place-order-delay", "redirect-delay", "amqp-url", "log-level"} {
		if err := viper.BindPFlag(flagKey(name), flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// flagKey maps a flag name to its config key.
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.UsingDevSecret() {
		logger.Warn("using development session secret, set SESSION_SECRET in production")
	}

	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		cat, err = catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return err
		}
	}
	logger.Info("catalog loaded", zap.Int("restaurants", len(cat.List())))

	var publisher notify.Publisher = notify.NewLogPublisher(logger)
	if cfg.AMQPURL != "" {
		publisher, err = notify.DialAMQP(cfg.AMQPURL, logger)
		if err != nil {
			return err
		}
	}
	defer publisher.Close()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := ws.NewHub(logger)
	go hub.Run(hubCtx)

	carts := cart.NewStore()
	tracker := tracking.NewTracker(cfg.TrackingInterval, logger)
	svc := service.NewCheckoutService(carts, order.NewStore(), tracker, publisher, logger, service.Delays{
		PlaceOrder: cfg.PlaceOrderDelay,
		Redirect:   cfg.RedirectDelay,
	})
	tracker.Subscribe(handler.BroadcastProgress(hub, logger))
	tracker.Subscribe(svc.PublishProgress)

	pages, err := web.New(cat, carts, svc, logger)
	if err != nil {
		return err
	}

	r := router.New(cfg, router.Deps{
		Catalog:  cat,
		Carts:    carts,
		Checkout: svc,
		Hub:      hub,
		Pages:    pages,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	// Stop ticking before the hub stops draining broadcasts.
	tracker.Close()
	stopHub()
	return nil
}
