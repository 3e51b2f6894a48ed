package validators

import (
	"strings"
	"testing"
)

func TestValidarPasswordAceptadas(t *testing.T) {
	validas := []string{
		"Passw0rd!",
		"Segura123$",
		`Clave99"X`,
		"A1b2c3d4,",
	}
	for _, password := range validas {
		if errores := ValidarPassword(password); len(errores) != 0 {
			t.Errorf("ValidarPassword(%q) = %v, se esperaba válida", password, errores)
		}
	}
}

func TestValidarPasswordRechazadas(t *testing.T) {
	casos := []struct {
		password  string
		esperadas int
	}{
		{"password", 3},  // sin dígito, sin mayúscula, sin especial
		{"PASS1234", 1},  // sin carácter especial
		{"Ab1!", 1},      // muy corta
		{"", 4},          // incumple las cuatro reglas
		{"abcdefgh", 3},  // sin dígito, sin mayúscula, sin especial
		{"Abcdefg1", 1},  // sin carácter especial
	}
	for _, caso := range casos {
		errores := ValidarPassword(caso.password)
		if len(errores) != caso.esperadas {
			t.Errorf("ValidarPassword(%q) reportó %d violaciones, se esperaban %d: %v",
				caso.password, len(errores), caso.esperadas, errores)
		}
	}
}

func TestValidarPasswordReportaTodasLasViolaciones(t *testing.T) {
	errores := ValidarPassword("abc")
	if len(errores) != 4 {
		t.Fatalf("se esperaban 4 violaciones, hubo %d: %v", len(errores), errores)
	}
	mensajes := strings.Join(errores, " | ")
	for _, fragmento := range []string{"8 caracteres", "número", "mayúscula", "especial"} {
		if !strings.Contains(mensajes, fragmento) {
			t.Errorf("falta la violación %q en %q", fragmento, mensajes)
		}
	}
}

func TestValidarPasswordCaracteresEspeciales(t *testing.T) {
	// cada carácter del conjunto debe satisfacer la regla por sí solo
	for _, especial := range `!@#$%^&*(),.?":{}|<>` {
		password := "Abcdef1" + string(especial)
		if errores := ValidarPassword(password); len(errores) != 0 {
			t.Errorf("ValidarPassword(%q) = %v, el carácter %q debería contar como especial",
				password, errores, string(especial))
		}
	}
	// un guion no pertenece al conjunto
	if errores := ValidarPassword("Abcdefg1-"); len(errores) != 1 {
		t.Errorf("el guion no debería contar como carácter especial: %v", errores)
	}
}
