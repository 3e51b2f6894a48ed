package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mediconecta/backend/apperrors"
)

// ObtenerMedicamentos busca medicamentos por nombre en OpenFDA
func ObtenerMedicamentos(c *fiber.Ctx) error {
	nombre := strings.TrimSpace(c.Query("nombre"))
	if nombre == "" {
		return apperrors.Validation("Nombre de medicamento requerido")
	}
	limit := 10
	if valor := c.Query("limit"); valor != "" {
		if n, err := strconv.Atoi(valor); err == nil && n > 0 {
			limit = n
		}
	}

	return c.JSON(medicamentosService.BuscarMedicamento(nombre, limit))
}

// ObtenerEstadisticasGlobales devuelve las estadísticas mundiales de salud
func ObtenerEstadisticasGlobales(c *fiber.Ctx) error {
	return c.JSON(enfermedadesService.ObtenerEstadisticasGlobales())
}

// ObtenerEstadisticasPais devuelve las estadísticas de salud de un país
// (Chile por defecto)
func ObtenerEstadisticasPais(c *fiber.Ctx) error {
	pais := strings.TrimSpace(c.Query("pais"))
	return c.JSON(enfermedadesService.ObtenerEstadisticasPorPais(pais))
}

// ObtenerNutricion devuelve la ficha nutricional de un alimento
func ObtenerNutricion(c *fiber.Ctx) error {
	alimento := strings.TrimSpace(c.Query("alimento"))
	if alimento == "" {
		return apperrors.Validation("Nombre de alimento requerido")
	}

	return c.JSON(nutricionService.ObtenerInformacionNutricional(alimento))
}
