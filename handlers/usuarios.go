package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/models"
	"github.com/mediconecta/backend/validators"
	"golang.org/x/crypto/bcrypt"
)

// ActualizarPerfil permite al usuario editar sus propios datos. Una
// contraseña vacía conserva la actual.
func ActualizarPerfil(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	var req models.PerfilUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Datos inválidos")
	}

	campos := make(map[string][]string)
	if req.Username == "" {
		campos["username"] = append(campos["username"], "El nombre de usuario es requerido")
	}
	if req.Email == "" {
		campos["email"] = append(campos["email"], "El email es requerido")
	}
	if req.Password != "" {
		if errores := validators.ValidarPassword(req.Password); len(errores) > 0 {
			campos["password"] = append(campos["password"], errores...)
		}
	}
	if len(campos) > 0 {
		return apperrors.ValidationFields(campos)
	}

	if existe, err := usuarioRepo.ExisteUsername(c.Context(), req.Username, userID); err != nil {
		return err
	} else if existe {
		return apperrors.Conflict("El nombre de usuario ya existe")
	}
	if existe, err := usuarioRepo.ExisteEmail(c.Context(), req.Email, userID); err != nil {
		return err
	} else if existe {
		return apperrors.Conflict("El email ya está registrado")
	}

	var passwordHash string
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.Internal("Error al procesar la contraseña", err)
		}
		passwordHash = string(hashed)
	}

	if err := usuarioRepo.Actualizar(c.Context(), userID, &req, passwordHash); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"mensaje": "Perfil actualizado correctamente",
	})
}

// EliminarCuenta borra la cuenta del usuario autenticado. Es irreversible:
// los perfiles, reservas y registros dependientes caen en cascada.
func EliminarCuenta(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	if err := tokenRepo.RevocarTodos(c.Context(), userID); err != nil {
		return err
	}
	if err := usuarioRepo.Eliminar(c.Context(), userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"mensaje": "Tu cuenta ha sido eliminada",
	})
}
