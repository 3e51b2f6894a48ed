package middleware

import "testing"

func TestTipoPerfilString(t *testing.T) {
	casos := []struct {
		tipo     TipoPerfil
		esperado string
	}{
		{PerfilMedico, "medico"},
		{PerfilPaciente, "paciente"},
		{PerfilNinguno, "usuario_general"},
	}
	for _, caso := range casos {
		if got := caso.tipo.String(); got != caso.esperado {
			t.Errorf("String() de %d = %q, se esperaba %q", caso.tipo, got, caso.esperado)
		}
	}
}
