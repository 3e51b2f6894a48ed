package validators

import (
	"strings"
	"unicode"
)

// Caracteres especiales aceptados en la política de contraseñas
const specialChars = `!@#$%^&*(),.?":{}|<>`

// ValidarPassword evalúa los cuatro predicados de la política de forma
// independiente y devuelve todos los mensajes de las reglas incumplidas.
// Una contraseña es válida cuando el slice resultante está vacío.
func ValidarPassword(password string) []string {
	var errores []string

	if len(password) < 8 {
		errores = append(errores, "La contraseña debe tener al menos 8 caracteres")
	}
	if !contieneDigito(password) {
		errores = append(errores, "La contraseña debe contener al menos un número")
	}
	if !contieneMayuscula(password) {
		errores = append(errores, "La contraseña debe contener al menos una letra mayúscula")
	}
	if !strings.ContainsAny(password, specialChars) {
		errores = append(errores, `La contraseña debe contener al menos un carácter especial (!@#$%^&*(),.?":{}|<>)`)
	}

	return errores
}

func contieneDigito(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func contieneMayuscula(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
