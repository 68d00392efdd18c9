package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/flor-web/data"
	"finitefield.org/flor-web/internal/cart"
	"finitefield.org/flor-web/internal/catalogue"
	"finitefield.org/flor-web/internal/config"
	"finitefield.org/flor-web/internal/i18n"
	mw "finitefield.org/flor-web/internal/middleware"
	"finitefield.org/flor-web/internal/observability"
	"finitefield.org/flor-web/locales"
	"finitefield.org/flor-web/public"
)

// app holds everything the handlers share. It is built once and read-only afterwards.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	bundle   *i18n.Bundle
	products []catalogue.Product
	// carts holds one service per supported language so store notifications come out localised.
	carts   map[string]*cart.Service
	metrics *observability.Metrics
	views   *views
	slot    mw.SlotConfig
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	bundle, err := i18n.Load(locales.FS, cfg.Lang.Default, cfg.Lang.Supported)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	products, err := loadProducts(cfg)
	if err != nil {
		return nil, err
	}
	metrics := observability.NewMetrics(observability.WithMetricsLogger(logger))
	v, err := newViews(bundle, cfg.Dev, "templates")
	if err != nil {
		return nil, err
	}

	carts := make(map[string]*cart.Service, len(bundle.Supported()))
	for _, lang := range bundle.Supported() {
		carts[lang] = cart.NewService(
			cart.WithLogger(logger.Named("cart")),
			cart.WithRecorder(metrics),
			cart.WithMessages(cart.Messages{Added: bundle.T(lang, "cart.added")}),
		)
	}

	cookies := mw.NewCookieConfig(cfg.Cart.SigningKey, cfg.Cart.SecureCookie, logger)
	return &app{
		cfg:      cfg,
		logger:   logger,
		bundle:   bundle,
		products: products,
		carts:    carts,
		metrics:  metrics,
		views:    v,
		slot:     mw.SlotConfig{Name: cfg.Cart.CookieName, MaxBytes: cfg.Cart.MaxBytes, Cookie: cookies},
	}, nil
}

// loadProducts reads the configured catalogue file, or the embedded sample when none is set.
func loadProducts(cfg *config.Config) ([]catalogue.Product, error) {
	if cfg.Catalogue.Path != "" {
		return catalogue.LoadFile(cfg.Catalogue.Path)
	}
	f, err := data.FS.Open(data.CatalogueFile)
	if err != nil {
		return nil, fmt.Errorf("open embedded catalogue: %w", err)
	}
	defer f.Close()
	return catalogue.LoadProducts(f)
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(a.logger))
	r.Use(mw.HTMX)
	r.Use(mw.Session(a.slot.Cookie))
	r.Use(mw.Locale(a.bundle))
	r.Use(mw.CSRF(a.slot.Cookie))
	r.Use(mw.VaryLocale)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(a.cfg.Server.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/assets/*", mw.AssetsWithCache(public.Assets(), "/assets"))

	r.Get("/", a.catalogueHandler)
	r.Get("/catalogue/panel", a.cataloguePanelFrag)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", a.cartHandler)
		r.Get("/drawer", a.cartDrawerFrag)
		r.Post("/actions", a.cartActionsHandler)
		r.Post("/checkout", a.cartCheckoutHandler)
	})
	r.Get("/checkout", a.checkoutHandler)
	return r
}
