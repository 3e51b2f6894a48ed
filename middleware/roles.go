package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/models"
	"github.com/mediconecta/backend/repositories"
)

// TipoPerfil es la unión etiquetada del rol activo de un usuario. Se
// resuelve una sola vez por petición; los handlers la leen del contexto en
// lugar de consultar perfiles por su cuenta.
type TipoPerfil int

const (
	PerfilNinguno TipoPerfil = iota
	PerfilMedico
	PerfilPaciente
)

func (t TipoPerfil) String() string {
	switch t {
	case PerfilMedico:
		return "medico"
	case PerfilPaciente:
		return "paciente"
	default:
		return "usuario_general"
	}
}

// PerfilActivo es el resultado de la resolución de rol para la petición
type PerfilActivo struct {
	Tipo     TipoPerfil
	Medico   *models.Medico
	Paciente *models.Paciente
}

const perfilLocalKey = "perfil_activo"

// ResolverPerfil consulta los perfiles del usuario autenticado y deja la
// unión etiquetada en el contexto. Se resuelve médico primero, luego
// paciente, igual que la resolución de rol del perfil de usuario.
func ResolverPerfil(medicos repositories.MedicoRepository, pacientes repositories.PacienteRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(int)
		if !ok {
			return c.Status(401).JSON(fiber.Map{
				"error": "Usuario no autenticado",
			})
		}

		perfil := &PerfilActivo{Tipo: PerfilNinguno}

		medico, err := medicos.BuscarPorUsuario(c.Context(), userID)
		if err == nil {
			perfil.Tipo = PerfilMedico
			perfil.Medico = medico
		} else if !esNotFound(err) {
			return err
		}

		if perfil.Tipo == PerfilNinguno {
			paciente, err := pacientes.BuscarPorUsuario(c.Context(), userID)
			if err == nil {
				perfil.Tipo = PerfilPaciente
				perfil.Paciente = paciente
			} else if !esNotFound(err) {
				return err
			}
		}

		c.Locals(perfilLocalKey, perfil)
		return c.Next()
	}
}

// PerfilDe devuelve la unión etiquetada resuelta para la petición
func PerfilDe(c *fiber.Ctx) *PerfilActivo {
	if perfil, ok := c.Locals(perfilLocalKey).(*PerfilActivo); ok {
		return perfil
	}
	return &PerfilActivo{Tipo: PerfilNinguno}
}

func esNotFound(err error) bool {
	var appErr *apperrors.Error
	return errors.As(err, &appErr) && appErr.Kind == apperrors.KindNotFound
}
