package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/models"
)

// EnviarMensajeContacto guarda un mensaje del formulario de contacto
// público
func EnviarMensajeContacto(c *fiber.Ctx) error {
	var req models.ContactoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Datos inválidos")
	}

	campos := make(map[string][]string)
	if req.Nombre == "" {
		campos["nombre"] = append(campos["nombre"], "El nombre es requerido")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		campos["email"] = append(campos["email"], "Un email válido es requerido")
	}
	if req.Mensaje == "" {
		campos["mensaje"] = append(campos["mensaje"], "El mensaje es requerido")
	}
	if len(campos) > 0 {
		return apperrors.ValidationFields(campos)
	}

	mensaje, err := contactoRepo.Guardar(c.Context(), &req)
	if err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"mensaje":  "¡Gracias! Te responderemos pronto",
		"contacto": mensaje,
	})
}
