// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// authentication, rate limiting, CORS, and security headers.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Every /api route behind the Basic-Auth gate except the carrier
//     callbacks, which authenticate with the query-string shared secret
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	zlog "github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/valchyai/ops-backend/docs" // swagger spec registration

	"github.com/valchyai/ops-backend/internal/cache"
	"github.com/valchyai/ops-backend/internal/config"
	"github.com/valchyai/ops-backend/internal/http/handlers"
	"github.com/valchyai/ops-backend/internal/http/middleware"
	"github.com/valchyai/ops-backend/internal/services"
	"github.com/valchyai/ops-backend/internal/twilio"
	"github.com/valchyai/ops-backend/internal/voiceflow"
	"gorm.io/gorm"
)

// Deps carries the process-scoped objects the router injects into services
// and handlers. Everything is constructed once in main and shared.
type Deps struct {
	// DB is the local SQLite handle for audit rows and webhook dedupe.
	DB *gorm.DB
	// Store is the record store client services read and write through.
	Store services.RecordStore
	// SMS is the carrier SMS client.
	SMS *twilio.Client
	// Voice is the conversational voice client.
	Voice *voiceflow.Client
	// Cache is the shared response cache for the list endpoints.
	Cache *cache.Cache
	// Limiter is the shared fixed-window rate limiter.
	Limiter *middleware.RateLimiter
}

// Prefixes exempt from the Basic-Auth gate. These are the carrier-facing
// callbacks; they authenticate with QuerySecret instead. The trailing slash
// on get/clients/ keeps the full-list route behind the gate.
var carrierExempt = []string{
	"/api/twilio/webhook",
	"/api/airtable/add/caller",
	"/api/airtable/get/clients/",
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), authentication,
// per-tier rate limiting, CORS and security headers, health and metrics
// endpoints, and then mounts the dashboard API under /api.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics, then /metrics and /health (registered before the auth gate
//     so probes and scrapers stay credential-free)
//  8. Basic-Auth gate with carrier exemptions
//  9. CORS and security headers (no-store on every response; record data
//     must never land in shared caches)
//
// Rate limit tiers are attached per route: reads run on the low tier,
// dashboard writes on the medium tier, and carrier calls plus record
// mutations on the high tier.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-Twilio-Signature",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress responses (record lists grow with the tables)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics, scrape endpoint, liveness. Registered before
	// the auth gate is installed so they remain open.
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// 8) Basic-Auth gate. Carrier callbacks are exempted here and carry
	// the query-string shared secret on their own routes instead.
	secrets := middleware.AuthSecrets{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
	}
	r.Use(middleware.BasicAuthGate(secrets, carrierExempt...))

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers. NoStore is on for the whole API: responses carry
	// client PII and card numbers.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Swagger UI (disabled in production by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← store/carriers/db
	log := zlog.Logger
	clientSvc := services.NewClientService(deps.Store, cfg.Airtable.ClientsTable, deps.DB, log)
	cardSvc := services.NewCardService(deps.Store, cfg.Airtable.CardsTable, deps.DB, log)
	if cfg.CardAttempts > 0 {
		cardSvc.Attempts = cfg.CardAttempts
	}
	callerSvc := services.NewCallerService(deps.Store, cfg.Airtable.HistoryTable, deps.DB, log)
	msgSvc := services.NewMessagingService(deps.SMS, deps.Voice, deps.DB, log)
	webhookSvc := services.NewWebhookService(clientSvc, deps.DB, log)
	if cfg.WebhookDedupe > 0 {
		webhookSvc.DedupeTTL = cfg.WebhookDedupe
	}
	auditSvc := services.NewAuditService(deps.DB)

	h := handlers.New(clientSvc, cardSvc, callerSvc, msgSvc, webhookSvc, auditSvc, deps.Cache)

	rl := deps.Limiter
	querySecret := middleware.QuerySecret(secrets)

	// Record store endpoints
	at := r.Group("/api/airtable")
	{
		at.POST("/add/client", rl.Handler(middleware.TierMedium), h.AddClient)
		at.POST("/add/card", rl.Handler(middleware.TierHigh), h.AddCard)
		at.POST("/add/caller", querySecret, rl.Handler(middleware.TierHigh), h.AddCaller)

		at.GET("/get/clients", rl.Handler(middleware.TierLow), h.ListClients)
		at.GET("/get/clients/:phone", querySecret, rl.Handler(middleware.TierLow), h.SearchClients)
		at.GET("/get/cards", rl.Handler(middleware.TierLow), h.ListCards)
		at.GET("/get/cards/:phone", rl.Handler(middleware.TierLow), h.CardsByPhone)
		at.GET("/get/caller-history", rl.Handler(middleware.TierLow), h.CallerHistory)
		at.GET("/get/:field", rl.Handler(middleware.TierLow), h.GetClientField)

		at.POST("/update/client", rl.Handler(middleware.TierMedium), h.UpdateClient)
		at.PUT("/update/client", rl.Handler(middleware.TierMedium), h.UpdateClient)
		at.POST("/update/call-type", rl.Handler(middleware.TierMedium), h.UpdateCallType)
		at.POST("/update/card/:cardNumber", rl.Handler(middleware.TierHigh), h.UpdateCardStatus)
		at.POST("/update/:field", rl.Handler(middleware.TierMedium), h.UpdateClientField)
	}

	// Carrier endpoints
	tw := r.Group("/api/twilio")
	{
		tw.POST("/sms/send", rl.Handler(middleware.TierHigh), h.SendSMS)
		tw.GET("/sms/:sid", rl.Handler(middleware.TierLow), h.GetSMS)
		tw.POST("/webhook", querySecret, rl.Handler(middleware.TierHigh), h.Webhook)
	}
	r.GET("/api/voiceflow/call", rl.Handler(middleware.TierHigh), h.VoiceCall)

	// Local audit log
	r.GET("/api/audit", rl.Handler(middleware.TierLow), h.AuditLog)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
