package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/middleware"
	"github.com/mediconecta/backend/models"
)

// EnsurePerfilMedico devuelve el perfil médico del usuario autenticado,
// creándolo con valores por defecto si no existía
func EnsurePerfilMedico(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	medico, creado, err := medicoRepo.EnsurePerfil(c.Context(), userID)
	if err != nil {
		return err
	}

	status := 200
	if creado {
		status = 201
	}
	return c.Status(status).JSON(fiber.Map{
		"medico": medico,
		"creada": creado,
	})
}

// ObtenerMedicos lista médicos con filtros opcionales de especialidad,
// disponibilidad y búsqueda por nombre
func ObtenerMedicos(c *fiber.Ctx) error {
	filtros := models.MedicoFiltros{
		Especialidad: c.Query("especialidad"),
		Search:       c.Query("search"),
	}
	if disponible := c.Query("disponible"); disponible != "" {
		valor := disponible == "true"
		filtros.Disponible = &valor
	}

	medicos, err := medicoRepo.Listar(c.Context(), filtros)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"medicos": medicos,
		"total":   len(medicos),
	})
}

// ObtenerMedicoPorID devuelve un médico específico
func ObtenerMedicoPorID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.Validation("ID inválido")
	}

	medico, err := medicoRepo.BuscarPorID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(medico)
}

// ActualizarMedico modifica el perfil médico. Solo el propio médico o un
// usuario staff pueden hacerlo.
func ActualizarMedico(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.Validation("ID inválido")
	}

	isStaff, _ := c.Locals("is_staff").(bool)
	perfil := middleware.PerfilDe(c)
	esPropio := perfil.Tipo == middleware.PerfilMedico && perfil.Medico.IDMedico == id
	if !isStaff && !esPropio {
		return apperrors.Forbidden("No tienes permisos para actualizar este médico")
	}

	var req models.MedicoUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Datos inválidos")
	}

	if err := medicoRepo.Actualizar(c.Context(), id, &req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensaje": "Médico actualizado exitosamente",
	})
}

// EliminarMedico borra un perfil médico (solo staff)
func EliminarMedico(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.Validation("ID inválido")
	}

	if isStaff, _ := c.Locals("is_staff").(bool); !isStaff {
		return apperrors.Forbidden("No tienes permisos para eliminar médicos")
	}

	if err := medicoRepo.Eliminar(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensaje": "Médico eliminado exitosamente",
	})
}

// MedicosDisponibles lista solo los médicos marcados como disponibles
func MedicosDisponibles(c *fiber.Ctx) error {
	disponible := true
	medicos, err := medicoRepo.Listar(c.Context(), models.MedicoFiltros{Disponible: &disponible})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"medicos": medicos,
		"total":   len(medicos),
	})
}

// MedicosPorEspecialidad agrupa los médicos disponibles por especialidad
func MedicosPorEspecialidad(c *fiber.Ctx) error {
	grupos, err := medicoRepo.AgruparPorEspecialidad(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(grupos)
}

// ObtenerEspecialidades lista las especialidades médicas
func ObtenerEspecialidades(c *fiber.Ctx) error {
	especialidades, err := medicoRepo.ListarEspecialidades(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"especialidades": especialidades,
		"total":          len(especialidades),
	})
}

// MedicosDeEspecialidad devuelve una especialidad con sus médicos
// disponibles
func MedicosDeEspecialidad(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.Validation("ID inválido")
	}

	especialidad, err := medicoRepo.BuscarEspecialidad(c.Context(), id)
	if err != nil {
		return err
	}
	medicos, err := medicoRepo.MedicosDeEspecialidad(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"especialidad":  especialidad,
		"medicos":       medicos,
		"total_medicos": len(medicos),
	})
}
