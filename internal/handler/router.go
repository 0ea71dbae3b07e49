package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"booking-engine/internal/handler/api"
	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	rdb *redis.Client,
	slotHandler *api.SlotHandler,
	lockHandler *api.LockHandler,
	bookingHandler *api.BookingHandler,
	sessionMiddleware *middleware.SessionMiddleware,
) {
	setupMiddleware(engine, cfg, rdb)
	setupRoutes(engine, slotHandler, lockHandler, bookingHandler, sessionMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, rdb *redis.Client) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.NewRateLimitMiddleware(cfg.RateLimit, rdb))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	slotHandler *api.SlotHandler,
	lockHandler *api.LockHandler,
	bookingHandler *api.BookingHandler,
	sessionMiddleware *middleware.SessionMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		slots := apiGroup.Group("/slots")
		{
			addRoutes(slots, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: slotHandler.GetSlot},
			})
		}

		locks := apiGroup.Group("/locks")
		{
			// Acquiring mints a session when none exists; everything else
			// needs the original session token.
			ensured := locks.Group("")
			ensured.Use(sessionMiddleware.EnsureSession())
			addRoutes(ensured, []route{
				{Method: http.MethodPost, Path: "", Handler: lockHandler.AcquireLock},
			})

			sessionRequired := locks.Group("")
			sessionRequired.Use(sessionMiddleware.RequireSession())
			addRoutes(sessionRequired, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: lockHandler.GetLockStatus},
				{Method: http.MethodDelete, Path: "/:id", Handler: lockHandler.ReleaseLock},
			})

			addRoutes(locks, []route{
				{Method: http.MethodPost, Path: "/active", Handler: lockHandler.GetActiveLocks},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			sessionRequired := bookings.Group("")
			sessionRequired.Use(sessionMiddleware.RequireSession())
			addRoutes(sessionRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
			})

			addRoutes(bookings, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodPost, Path: "/:id/check-in", Handler: bookingHandler.CheckIn},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: bookingHandler.Complete},
				{Method: http.MethodPost, Path: "/:id/no-show", Handler: bookingHandler.MarkNoShow},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: bookingHandler.RecordPayment},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
