package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"

	"github.com/vardanhq/vardan-api/internal/app"
	"github.com/vardanhq/vardan-api/internal/auth"
	"github.com/vardanhq/vardan-api/internal/cart"
	"github.com/vardanhq/vardan-api/internal/catalog"
	"github.com/vardanhq/vardan-api/internal/checkout"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/config"
	"github.com/vardanhq/vardan-api/internal/health"
	"github.com/vardanhq/vardan-api/internal/obs"
	"github.com/vardanhq/vardan-api/internal/order"
	"github.com/vardanhq/vardan-api/internal/ratelimit"
	"github.com/vardanhq/vardan-api/internal/reviews"
	"github.com/vardanhq/vardan-api/internal/security"
	"github.com/vardanhq/vardan-api/internal/shipping"
	"github.com/vardanhq/vardan-api/internal/store"
	"github.com/vardanhq/vardan-api/internal/user"
	"github.com/vardanhq/vardan-api/internal/wishlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "vardan")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "vardan-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := app.OpenPool(ctx, cfg, "vardan-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	redisClient, err := app.OpenRedis(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}

	queries := store.New(pool)

	authService, err := auth.NewService(auth.Config{
		Queries:         queries,
		Secret:          cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		Issuer:          cfg.JWTIssuer,
		Audience:        cfg.JWTAudience,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authHandler := &auth.Handler{
		Service:           authService,
		RefreshCookieName: cfg.RefreshCookieName,
		CookieDomain:      cfg.CookieDomain,
		CookieSecure:      cfg.CookieSecure,
		CookieSameSite:    cfg.CookieSameSite,
	}
	authMiddleware := auth.Middleware{Service: authService}

	userHandler := &user.Handler{Service: &user.Service{Q: queries}}

	catalogHandler := &catalog.Handler{Service: &catalog.Service{
		Q:        queries,
		Cache:    catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		Log:      logger,
		MaxLimit: cfg.CatalogMaxLimit,
	}}

	cartHandler := &cart.Handler{Service: &cart.Service{Q: queries}}
	checkoutHandler := &checkout.Handler{Service: &checkout.Service{
		Q:       queries,
		Pool:    pool,
		Timeout: cfg.CheckoutTimeout,
	}}
	orderHandler := &order.Handler{Service: &order.Service{Q: queries}}
	wishlistHandler := &wishlist.Handler{Service: &wishlist.Service{Q: queries}}
	reviewHandler := &reviews.Handler{Service: &reviews.Service{
		Q:               queries,
		RequirePurchase: envBool("REVIEWS_REQUIRE_PURCHASE", false),
	}}
	shippingHandler := &shipping.Handler{Service: &shipping.Service{Q: queries}}

	idem := common.Idem{
		R:        redisClient,
		TTL:      cfg.IdempotencyTTL,
		OnReplay: func() { obs.IdempotentReplayTotal.Inc() },
	}
	// Refresh and logout authenticate via cookie, so they get double-submit
	// CSRF protection. Bearer-token requests pass through untouched.
	csrf := security.CSRF{Header: "X-CSRF-Token"}
	loginLimiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "ratelimit:login"},
		Config: ratelimit.Config{
			Key:    common.ClientIP,
			Window: cfg.LoginRateWindow,
			Max:    cfg.LoginRateMax,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("login rate limiter")
		},
	}

	globalLimiter, err := app.NewGlobalLimiter(redisClient, cfg.GlobalRateLimit)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise global rate limiter")
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(security.Headers{Enable: envBool("SECURE_HEADERS", true)}.Middleware)
	r.Use(security.BodyLimit{Max: int64(envInt("SECURE_BODY_LIMIT_BYTES", 1<<20))}.Middleware)
	r.Use(limiterstdlib.NewMiddleware(globalLimiter).Handler)

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", true) {
		pprofUser := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pprofPass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), pprofUser, pprofPass))
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{db: pool, redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	routes := func(v chi.Router) {
		v.With(loginLimiter.Middleware).Post("/login", authHandler.Login)
		v.With(csrf.Middleware).Post("/refresh", authHandler.Refresh)
		v.With(csrf.Middleware).Post("/logout", authHandler.Logout)

		v.Route("/users", func(u chi.Router) {
			u.Post("/", authHandler.Register)
			u.Group(func(g chi.Router) {
				g.Use(authMiddleware.RequireAuth)
				g.Get("/", userHandler.List)
				g.Get("/me", authHandler.Me)
				g.Get("/{id}", userHandler.Get)
				g.Put("/{id}", userHandler.Update)
				g.Delete("/{id}", userHandler.Delete)
				g.Put("/{id}/role", userHandler.SetRole)
				g.Put("/{id}/deactivate", userHandler.Deactivate)
			})
		})

		v.Route("/addresses", func(a chi.Router) {
			a.Use(authMiddleware.RequireAuth)
			a.Get("/", userHandler.ListAddresses)
			a.Post("/", userHandler.CreateAddress)
			a.Put("/{id}", userHandler.UpdateAddress)
			a.Delete("/{id}", userHandler.DeleteAddress)
		})

		v.Route("/categories", func(c chi.Router) {
			c.Get("/", catalogHandler.ListCategories)
			c.Get("/{id}", catalogHandler.GetCategory)
			c.Group(func(g chi.Router) {
				g.Use(authMiddleware.RequireAuth)
				g.Post("/", catalogHandler.CreateCategory)
				g.Put("/{id}", catalogHandler.UpdateCategory)
				g.Delete("/{id}", catalogHandler.DeleteCategory)
			})
		})

		v.Route("/products", func(p chi.Router) {
			p.Get("/", catalogHandler.ListProducts)
			p.Get("/{id}", catalogHandler.GetProduct)
			p.Group(func(g chi.Router) {
				g.Use(authMiddleware.RequireAuth)
				g.Post("/", catalogHandler.CreateProduct)
				g.Put("/{id}", catalogHandler.UpdateProduct)
				g.Delete("/{id}", catalogHandler.DeleteProduct)
			})
		})
		v.With(authMiddleware.RequireAuth).Get("/seller/products", catalogHandler.ListSellerProducts)

		v.Route("/cart", func(c chi.Router) {
			c.Use(authMiddleware.RequireAuth)
			c.Get("/", cartHandler.View)
			c.Post("/items", cartHandler.AddItem)
			c.Put("/items/{id}", cartHandler.UpdateItem)
			c.Delete("/items/{id}", cartHandler.RemoveItem)
		})

		v.Route("/orders", func(o chi.Router) {
			o.Use(authMiddleware.RequireAuth)
			o.With(idem.Middleware).Post("/", checkoutHandler.PlaceOrder)
			o.Get("/", orderHandler.List)
			o.Get("/detail/{id}", orderHandler.Get)
		})
		v.With(authMiddleware.RequireAuth).Get("/admin/orders", orderHandler.ListAll)

		v.Route("/wishlist", func(w chi.Router) {
			w.Use(authMiddleware.RequireAuth)
			w.Post("/", wishlistHandler.Add)
			w.Get("/", wishlistHandler.List)
			w.Delete("/{id}", wishlistHandler.Remove)
		})

		v.Route("/reviews", func(rv chi.Router) {
			rv.Get("/{productId}", reviewHandler.ListByProduct)
			rv.Group(func(g chi.Router) {
				g.Use(authMiddleware.RequireAuth)
				g.Post("/", reviewHandler.Create)
				g.Delete("/{id}", reviewHandler.Delete)
			})
		})

		v.Route("/shipments", func(s chi.Router) {
			s.Use(authMiddleware.RequireAuth)
			s.Post("/", shippingHandler.Create)
			s.Get("/", shippingHandler.List)
			s.Get("/{id}", shippingHandler.Get)
			s.Put("/{id}", shippingHandler.Update)
		})
	}

	routes(r)
	r.Route("/api/v1", routes)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	// Fail readiness first so load balancers drain before the listener closes.
	health.SetReady(false)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
