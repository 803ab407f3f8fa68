package router

import (
	"context"
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"opticaomega/internal/config"
	"opticaomega/internal/handler"
	"opticaomega/internal/infra"
	"opticaomega/internal/middleware"
	"opticaomega/internal/repository"
	"opticaomega/internal/service"
	"opticaomega/internal/worker"
)

// New wires all dependencies, starts the async worker pool and returns the
// configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	notifier := infra.NewRedisNotifier(rdb)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	pacienteRepo := repository.NewPacienteRepository(db)
	recetaRepo := repository.NewRecetaRepository(db)
	citaRepo := repository.NewCitaRepository(db)
	promocionRepo := repository.NewPromocionRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	pagoRepo := repository.NewPagoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	pacienteSvc := service.NewPacienteService(pacienteRepo, recetaRepo)
	citaSvc := service.NewCitaService(citaRepo, pacienteRepo)
	promocionSvc := service.NewPromocionService(promocionRepo)
	facturaSvc := service.NewFacturaService(facturaRepo, pagoRepo, pacienteRepo, recetaRepo, notifier, dispatcher)
	pagoSvc := service.NewPagoService(facturaRepo, pagoRepo, notifier)

	// Async PDF + email delivery
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.NewEnvioWorker(facturaSvc, mailer))

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	pacientesH := handler.NewPacientesHandler(pacienteSvc)
	citasH := handler.NewCitasHandler(citaSvc)
	promocionesH := handler.NewPromocionesHandler(promocionSvc)
	facturasH := handler.NewFacturasHandler(facturaSvc, pagoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Current promos — no auth required, feeds the public website
	r.GET("/v1/promociones", promocionesH.Listar)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	empleados := middleware.RequireRole("empleado", "administrador")
	admin := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		fact := v1.Group("/facturas", empleados)
		{
			fact.POST("", facturasH.Crear)
			fact.GET("", facturasH.Listar)
			fact.GET("/:id", facturasH.Detalle)
			fact.PUT("/:id", facturasH.Reemplazar)
			fact.POST("/:id/pagos", facturasH.RegistrarPago)
			fact.GET("/:id/pagos", facturasH.ListarPagos)
			fact.PATCH("/:id/estado", facturasH.CambiarEstado)
			fact.GET("/:id/pdf", facturasH.DescargarPDF)
			fact.POST("/:id/enviar", facturasH.Enviar)
		}
		// Deleting an invoice erases its payment history — admin only.
		v1.DELETE("/facturas/:id", admin, facturasH.Eliminar)

		pac := v1.Group("/pacientes", empleados)
		{
			pac.POST("", pacientesH.Crear)
			pac.GET("", pacientesH.Buscar)
			pac.GET("/:id", pacientesH.ObtenerPorID)
			pac.PUT("/:id", pacientesH.Actualizar)
			pac.DELETE("/:id", pacientesH.Desactivar)
			pac.POST("/:id/recetas", pacientesH.CrearReceta)
			pac.GET("/:id/recetas", pacientesH.ListarRecetas)
			pac.DELETE("/:id/recetas/:receta_id", pacientesH.EliminarReceta)
		}

		citas := v1.Group("/citas", empleados)
		{
			citas.POST("", citasH.Crear)
			citas.GET("", citasH.Listar)
			citas.PUT("/:id", citasH.Actualizar)
			citas.DELETE("/:id", citasH.Eliminar)
		}

		promos := v1.Group("/promociones", admin)
		{
			promos.POST("", promocionesH.Crear)
			promos.PUT("/:id", promocionesH.Actualizar)
			promos.DELETE("/:id", promocionesH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
