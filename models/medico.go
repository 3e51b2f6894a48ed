package models

// Especialidad representa la tabla Especialidad en la base de datos
type Especialidad struct {
	IDEspecialidad int    `json:"id_especialidad" db:"id_especialidad"`
	Nombre         string `json:"nombre" db:"nombre"`
	Descripcion    string `json:"descripcion" db:"descripcion"`
}

// Medico representa la tabla Medico en la base de datos. Es la extensión
// uno-a-uno de un Usuario con rol de médico.
type Medico struct {
	IDMedico        int     `json:"id_medico" db:"id_medico"`
	IDUsuario       int     `json:"id_usuario" db:"id_usuario"`
	IDEspecialidad  *int    `json:"id_especialidad" db:"id_especialidad"`
	RegistroColegio string  `json:"registro_colegio" db:"registro_colegio"`
	Telefono        string  `json:"telefono" db:"telefono"`
	HorarioInicio   *string `json:"horario_inicio" db:"horario_inicio"` // HH:MM
	HorarioFin      *string `json:"horario_fin" db:"horario_fin"`
	Disponible      bool    `json:"disponible" db:"disponible"`
}

// MedicoResponse incluye los datos del usuario y la especialidad resuelta
type MedicoResponse struct {
	IDMedico        int     `json:"id_medico"`
	IDUsuario       int     `json:"id_usuario"`
	Username        string  `json:"username"`
	Nombre          string  `json:"nombre"`
	Apellido        string  `json:"apellido"`
	Email           string  `json:"email"`
	Especialidad    *string `json:"especialidad"`
	RegistroColegio string  `json:"registro_colegio"`
	Telefono        string  `json:"telefono"`
	HorarioInicio   *string `json:"horario_inicio"`
	HorarioFin      *string `json:"horario_fin"`
	Disponible      bool    `json:"disponible"`
}

// MedicoUpdateRequest para crear o actualizar el perfil médico
type MedicoUpdateRequest struct {
	IDEspecialidad  *int    `json:"id_especialidad"`
	RegistroColegio string  `json:"registro_colegio"`
	Telefono        string  `json:"telefono"`
	HorarioInicio   *string `json:"horario_inicio"`
	HorarioFin      *string `json:"horario_fin"`
	Disponible      *bool   `json:"disponible"`
}

// MedicosPorEspecialidad agrupa médicos disponibles bajo una especialidad
type MedicosPorEspecialidad struct {
	Especialidad string           `json:"especialidad"`
	Medicos      []MedicoResponse `json:"medicos"`
	TotalMedicos int              `json:"total_medicos"`
}

// MedicoFiltros son los filtros opcionales del listado de médicos
type MedicoFiltros struct {
	Especialidad string
	Disponible   *bool
	Search       string
}
