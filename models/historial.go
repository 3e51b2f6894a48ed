package models

import (
	"time"
)

// HistorialMedico es la nota de diagnóstico que el médico registra al
// completar una reserva. Existe a lo más uno por reserva.
type HistorialMedico struct {
	IDHistorial   int       `json:"id_historial" db:"id_historial"`
	IDPaciente    int       `json:"id_paciente" db:"id_paciente"`
	IDMedico      int       `json:"id_medico" db:"id_medico"`
	IDReserva     *int      `json:"id_reserva" db:"id_reserva"`
	Fecha         time.Time `json:"fecha" db:"fecha"`
	Diagnostico   string    `json:"diagnostico" db:"diagnostico"`
	Tratamiento   string    `json:"tratamiento" db:"tratamiento"`
	Observaciones string    `json:"observaciones" db:"observaciones"`
}

// HistorialRequest representa la solicitud de creación de un historial
type HistorialRequest struct {
	Diagnostico   string `json:"diagnostico" validate:"required"`
	Tratamiento   string `json:"tratamiento" validate:"required"`
	Observaciones string `json:"observaciones"`
}
