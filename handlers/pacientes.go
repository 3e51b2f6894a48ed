package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/middleware"
	"github.com/mediconecta/backend/models"
)

// EnsurePerfilPaciente devuelve el perfil de paciente del usuario
// autenticado, creándolo vacío si no existía
func EnsurePerfilPaciente(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	paciente, creado, err := pacienteRepo.EnsurePerfil(c.Context(), userID)
	if err != nil {
		return err
	}

	status := 200
	if creado {
		status = 201
	}
	return c.Status(status).JSON(fiber.Map{
		"paciente": paciente,
		"creada":   creado,
	})
}

// ObtenerPacientes lista pacientes con filtros opcionales de búsqueda,
// grupo sanguíneo y rango de edad
func ObtenerPacientes(c *fiber.Ctx) error {
	filtros := models.PacienteFiltros{
		Search:         c.Query("search"),
		GrupoSanguineo: c.Query("grupo_sanguineo"),
	}
	if edadMin := c.Query("edad_min"); edadMin != "" {
		if valor, err := strconv.Atoi(edadMin); err == nil {
			filtros.EdadMin = &valor
		}
	}
	if edadMax := c.Query("edad_max"); edadMax != "" {
		if valor, err := strconv.Atoi(edadMax); err == nil {
			filtros.EdadMax = &valor
		}
	}

	pacientes, err := pacienteRepo.Listar(c.Context(), filtros)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"pacientes": pacientes,
		"total":     len(pacientes),
	})
}

// ObtenerPacientePorID devuelve un paciente específico
func ObtenerPacientePorID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.Validation("ID inválido")
	}

	paciente, err := pacienteRepo.BuscarPorID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(paciente)
}

// ActualizarPaciente modifica el perfil de paciente. Solo el propio
// paciente o un usuario staff pueden hacerlo.
func ActualizarPaciente(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.Validation("ID inválido")
	}

	isStaff, _ := c.Locals("is_staff").(bool)
	perfil := middleware.PerfilDe(c)
	esPropio := perfil.Tipo == middleware.PerfilPaciente && perfil.Paciente.IDPaciente == id
	if !isStaff && !esPropio {
		return apperrors.Forbidden("No tienes permisos para actualizar este paciente")
	}

	var req models.PacienteUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Datos inválidos")
	}

	if err := pacienteRepo.Actualizar(c.Context(), id, &req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensaje": "Paciente actualizado exitosamente",
	})
}

// EliminarPaciente borra un perfil de paciente (solo staff)
func EliminarPaciente(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.Validation("ID inválido")
	}

	if isStaff, _ := c.Locals("is_staff").(bool); !isStaff {
		return apperrors.Forbidden("No tienes permisos para eliminar pacientes")
	}

	if err := pacienteRepo.Eliminar(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensaje": "Paciente eliminado exitosamente",
	})
}

// EstadisticasPacientes devuelve el reporte agregado del padrón
func EstadisticasPacientes(c *fiber.Ctx) error {
	stats, err := pacienteRepo.Estadisticas(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// PacientesConAlergias lista los pacientes con alergias registradas
func PacientesConAlergias(c *fiber.Ctx) error {
	pacientes, err := pacienteRepo.ConAlergias(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total":     len(pacientes),
		"pacientes": pacientes,
	})
}

// HistorialDePaciente devuelve el paciente con sus registros médicos
func HistorialDePaciente(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.Validation("ID inválido")
	}

	paciente, err := pacienteRepo.BuscarPorID(c.Context(), id)
	if err != nil {
		return err
	}
	historial, err := pacienteRepo.HistorialDePaciente(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"paciente":  paciente,
		"historial": historial,
	})
}
