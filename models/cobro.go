package models

import (
	"time"
)

// Cobro es el cargo asociado uno-a-uno a cada reserva. Nace con monto 0 al
// crear la reserva y se marca pagado una única vez.
type Cobro struct {
	IDCobro    int        `json:"id_cobro" db:"id_cobro"`
	IDReserva  int        `json:"id_reserva" db:"id_reserva"`
	Monto      float64    `json:"monto" db:"monto"`
	Pagado     bool       `json:"pagado" db:"pagado"`
	FechaPago  *time.Time `json:"fecha_pago" db:"fecha_pago"`
	MetodoPago string     `json:"metodo_pago" db:"metodo_pago"`
}

// CobroUpdateRequest para que el médico fije el monto
type CobroUpdateRequest struct {
	Monto float64 `json:"monto" validate:"required,gte=0"`
}

// PagoRequest para el pago simulado del paciente
type PagoRequest struct {
	MetodoPago string `json:"metodo_pago"`
}
