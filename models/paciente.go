package models

import (
	"time"
)

// Paciente representa la tabla Paciente en la base de datos. Es la
// extensión uno-a-uno de un Usuario con rol de paciente.
type Paciente struct {
	IDPaciente      int        `json:"id_paciente" db:"id_paciente"`
	IDUsuario       int        `json:"id_usuario" db:"id_usuario"`
	Rut             string     `json:"rut" db:"rut"`
	Telefono        string     `json:"telefono" db:"telefono"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento" db:"fecha_nacimiento"`
	Direccion       string     `json:"direccion" db:"direccion"`
	GrupoSanguineo  string     `json:"grupo_sanguineo" db:"grupo_sanguineo"`
	Alergias        string     `json:"alergias" db:"alergias"`
}

// PacienteResponse incluye los datos del usuario asociado
type PacienteResponse struct {
	IDPaciente      int        `json:"id_paciente"`
	IDUsuario       int        `json:"id_usuario"`
	Username        string     `json:"username"`
	Nombre          string     `json:"nombre"`
	Apellido        string     `json:"apellido"`
	Email           string     `json:"email"`
	Rut             string     `json:"rut"`
	Telefono        string     `json:"telefono"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento"`
	Direccion       string     `json:"direccion"`
	GrupoSanguineo  string     `json:"grupo_sanguineo"`
	Alergias        string     `json:"alergias"`
}

// PacienteUpdateRequest para crear o actualizar el perfil de paciente
type PacienteUpdateRequest struct {
	Rut             string     `json:"rut"`
	Telefono        string     `json:"telefono"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento"`
	Direccion       string     `json:"direccion"`
	GrupoSanguineo  string     `json:"grupo_sanguineo"`
	Alergias        string     `json:"alergias"`
}

// PacienteFiltros son los filtros opcionales del listado de pacientes
type PacienteFiltros struct {
	Search         string
	GrupoSanguineo string
	EdadMin        *int
	EdadMax        *int
}

// EstadisticasPacientes es el reporte agregado del padrón de pacientes
type EstadisticasPacientes struct {
	TotalPacientes       int            `json:"total_pacientes"`
	GruposSanguineos     map[string]int `json:"grupos_sanguineos"`
	PacientesConAlergias int            `json:"pacientes_con_alergias"`
	DistribucionEdad     struct {
		Menores18  int `json:"menores_18"`
		Entre18y65 int `json:"entre_18_65"`
		Mayores65  int `json:"mayores_65"`
	} `json:"distribucion_edad"`
}

// Edad calcula la edad del paciente a la fecha indicada. Devuelve -1 si no
// hay fecha de nacimiento registrada.
func (p *Paciente) Edad(hoy time.Time) int {
	if p.FechaNacimiento == nil {
		return -1
	}
	nac := *p.FechaNacimiento
	edad := hoy.Year() - nac.Year()
	if hoy.Month() < nac.Month() || (hoy.Month() == nac.Month() && hoy.Day() < nac.Day()) {
		edad--
	}
	return edad
}
