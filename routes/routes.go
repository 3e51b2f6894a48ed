package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mediconecta/backend/handlers"
	"github.com/mediconecta/backend/middleware"
)

// SetupRoutes configura todas las rutas de la aplicación
func SetupRoutes(app *fiber.App) {
	// Middleware global
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Ruta de salud del sistema
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "MediConecta API",
			"version": "1.0.0",
		})
	})

	api := app.Group("/api/v1", middleware.DefaultRateLimiter())

	// Resolución de rol: una sola vez por petición autenticada
	resolverPerfil := middleware.ResolverPerfil(handlers.MedicoRepo(), handlers.PacienteRepo())

	// === RUTAS PÚBLICAS ===
	auth := api.Group("/auth", middleware.AuthRateLimiter())
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/refresh", handlers.Refresh)
	auth.Post("/verify", handlers.Verify)
	auth.Post("/logout", middleware.JWTMiddleware(), handlers.Logout)
	auth.Get("/profile", middleware.JWTMiddleware(), resolverPerfil, handlers.Profile)

	api.Post("/contacto", handlers.EnviarMensajeContacto)

	// === RUTAS PROTEGIDAS ===
	protected := api.Group("/", middleware.JWTMiddleware())

	// --- MFA ---
	mfa := protected.Group("/mfa")
	mfa.Post("/setup", handlers.SetupMFA)
	mfa.Post("/verify", handlers.VerifyMFA)
	mfa.Post("/disable", handlers.DisableMFA)

	// --- CUENTA PROPIA ---
	usuarios := protected.Group("/usuarios")
	usuarios.Put("/perfil", handlers.ActualizarPerfil)
	usuarios.Delete("/perfil", handlers.EliminarCuenta)

	// --- MÉDICOS Y ESPECIALIDADES ---
	medicos := protected.Group("/medicos")
	medicos.Post("/perfil", handlers.EnsurePerfilMedico)
	medicos.Get("/", handlers.ObtenerMedicos)
	medicos.Get("/disponibles", handlers.MedicosDisponibles)
	medicos.Get("/por-especialidad", handlers.MedicosPorEspecialidad)
	medicos.Get("/:id", handlers.ObtenerMedicoPorID)
	medicos.Put("/:id", resolverPerfil, handlers.ActualizarMedico)
	medicos.Delete("/:id", handlers.EliminarMedico)

	especialidades := protected.Group("/especialidades")
	especialidades.Get("/", handlers.ObtenerEspecialidades)
	especialidades.Get("/:id/medicos", handlers.MedicosDeEspecialidad)

	// --- PACIENTES ---
	pacientes := protected.Group("/pacientes")
	pacientes.Post("/perfil", handlers.EnsurePerfilPaciente)
	pacientes.Get("/", handlers.ObtenerPacientes)
	pacientes.Get("/estadisticas", handlers.EstadisticasPacientes)
	pacientes.Get("/con-alergias", handlers.PacientesConAlergias)
	pacientes.Get("/:id", handlers.ObtenerPacientePorID)
	pacientes.Get("/:id/historial", handlers.HistorialDePaciente)
	pacientes.Put("/:id", resolverPerfil, handlers.ActualizarPaciente)
	pacientes.Delete("/:id", handlers.EliminarPaciente)

	// --- RESERVAS ---
	reservas := protected.Group("/reservas", resolverPerfil)
	reservas.Post("/", handlers.CrearReserva)
	reservas.Get("/", handlers.ObtenerReservas)
	reservas.Get("/:id", handlers.ObtenerReserva)
	reservas.Put("/:id/cancelar", handlers.CancelarReserva)
	reservas.Put("/:id/confirmar", handlers.ConfirmarReserva)
	reservas.Post("/:id/historial", handlers.CrearHistorial)
	reservas.Put("/:id/cobro", handlers.ActualizarCobro)
	reservas.Post("/:id/cobro/pagar", handlers.PagarCobro)

	// --- SERVICIOS EXTERNOS ---
	externos := protected.Group("/servicios-externos")
	externos.Get("/medicamentos", handlers.ObtenerMedicamentos)
	externos.Get("/estadisticas-globales", handlers.ObtenerEstadisticasGlobales)
	externos.Get("/estadisticas-pais", handlers.ObtenerEstadisticasPais)
	externos.Get("/nutricion", handlers.ObtenerNutricion)
}
