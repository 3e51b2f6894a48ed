package main

import (
	"errors"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/database"
	"github.com/mediconecta/backend/handlers"
	"github.com/mediconecta/backend/routes"
)

// errorHandler traduce los errores tipados de la aplicación a respuestas
// JSON. El detalle de los errores internos se registra pero no se expone.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error":   true,
			"message": fiberErr.Message,
		})
	}

	appErr := apperrors.AsError(err)
	if appErr.Kind == apperrors.KindInternal {
		log.Printf("error interno en %s %s: %v", c.Method(), c.Path(), appErr)
	}
	respuesta := fiber.Map{
		"error":   true,
		"message": appErr.PublicMessage(),
	}
	if len(appErr.Fields) > 0 {
		respuesta["fields"] = appErr.Fields
	}
	return c.Status(appErr.StatusCode()).JSON(respuesta)
}

func main() {
	// Cargar variables de entorno
	if err := godotenv.Load(); err != nil {
		log.Println("Advertencia: No se pudo cargar el archivo .env")
	}

	// Conectar a la base de datos
	database.ConnectDB()
	defer database.CloseDB()

	// Inicializar repositorios y servicios
	handlers.Init(database.GetDB())

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		AppName:      "MediConecta API v1.0.0",
	})

	// Configurar rutas
	routes.SetupRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error":   "Ruta no encontrada",
			"message": "La ruta solicitada no existe en este servidor",
			"path":    c.Path(),
			"method":  c.Method(),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Servidor MediConecta iniciado en puerto %s", port)
	log.Fatal(app.Listen(":" + port))
}
