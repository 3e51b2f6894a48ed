package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/middleware"
	"github.com/mediconecta/backend/models"
)

func parsearHora(valor string) (time.Time, error) {
	return time.Parse("15:04", valor)
}

// CrearReserva agenda una cita para el paciente autenticado. La reserva
// nace pendiente y su cobro (monto 0, sin pagar) se crea en la misma
// transacción.
func CrearReserva(c *fiber.Ctx) error {
	perfil := middleware.PerfilDe(c)
	if perfil.Tipo != middleware.PerfilPaciente {
		return apperrors.Forbidden("Debes tener un perfil de paciente para reservar")
	}

	var req models.ReservaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Datos inválidos")
	}

	campos := make(map[string][]string)
	if req.IDMedico == 0 {
		campos["id_medico"] = append(campos["id_medico"], "El médico es requerido")
	}
	if req.Motivo == "" {
		campos["motivo"] = append(campos["motivo"], "El motivo es requerido")
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		campos["fecha"] = append(campos["fecha"], "La fecha debe tener formato YYYY-MM-DD")
	}
	inicio, errInicio := parsearHora(req.HoraInicio)
	if errInicio != nil {
		campos["hora_inicio"] = append(campos["hora_inicio"], "La hora debe tener formato HH:MM")
	}
	fin, errFin := parsearHora(req.HoraFin)
	if errFin != nil {
		campos["hora_fin"] = append(campos["hora_fin"], "La hora debe tener formato HH:MM")
	}
	if errInicio == nil && errFin == nil && !inicio.Before(fin) {
		campos["hora_fin"] = append(campos["hora_fin"], "La hora de fin debe ser posterior a la de inicio")
	}
	if len(campos) > 0 {
		return apperrors.ValidationFields(campos)
	}

	if _, err := medicoRepo.BuscarPorID(c.Context(), req.IDMedico); err != nil {
		return err
	}

	reserva, err := reservaRepo.Crear(c.Context(), perfil.Paciente.IDPaciente,
		req.IDMedico, fecha, req.HoraInicio, req.HoraFin, req.Motivo)
	if err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"mensaje": "Reserva creada con éxito",
		"reserva": reserva,
	})
}

// ObtenerReservas lista las reservas del usuario según su rol: los
// pacientes ven las suyas, los médicos las suyas, cualquier otro rol una
// lista vacía
func ObtenerReservas(c *fiber.Ctx) error {
	perfil := middleware.PerfilDe(c)

	var reservas []models.ReservaResponse
	var err error
	switch perfil.Tipo {
	case middleware.PerfilPaciente:
		reservas, err = reservaRepo.ListarPorPaciente(c.Context(), perfil.Paciente.IDPaciente)
	case middleware.PerfilMedico:
		reservas, err = reservaRepo.ListarPorMedico(c.Context(), perfil.Medico.IDMedico)
	default:
		reservas = []models.ReservaResponse{}
	}
	if err != nil {
		return err
	}
	if reservas == nil {
		reservas = []models.ReservaResponse{}
	}

	return c.JSON(fiber.Map{
		"reservas": reservas,
		"total":    len(reservas),
	})
}

// cargarReservaPropia busca la reserva y verifica que el usuario sea su
// paciente o su médico
func cargarReservaPropia(c *fiber.Ctx) (*models.Reserva, *middleware.PerfilActivo, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, nil, apperrors.Validation("ID inválido")
	}

	reserva, err := reservaRepo.BuscarPorID(c.Context(), id)
	if err != nil {
		return nil, nil, err
	}

	perfil := middleware.PerfilDe(c)
	esPaciente := perfil.Tipo == middleware.PerfilPaciente && perfil.Paciente.IDPaciente == reserva.IDPaciente
	esMedico := perfil.Tipo == middleware.PerfilMedico && perfil.Medico.IDMedico == reserva.IDMedico
	if !esPaciente && !esMedico {
		return nil, nil, apperrors.Forbidden("No tienes permiso para ver esta reserva")
	}
	return reserva, perfil, nil
}

// ObtenerReserva devuelve el detalle de una reserva con su historial y
// cobro. Solo visible para su paciente o su médico.
func ObtenerReserva(c *fiber.Ctx) error {
	reserva, _, err := cargarReservaPropia(c)
	if err != nil {
		return err
	}

	detalle, err := reservaRepo.BuscarDetalle(c.Context(), reserva.IDReserva)
	if err != nil {
		return err
	}
	return c.JSON(detalle)
}

// CancelarReserva cancela una reserva pendiente o confirmada. Solo el
// paciente dueño puede cancelar; una reserva completada o ya cancelada se
// rechaza sin mutar.
func CancelarReserva(c *fiber.Ctx) error {
	reserva, perfil, err := cargarReservaPropia(c)
	if err != nil {
		return err
	}
	if perfil.Tipo != middleware.PerfilPaciente {
		return apperrors.Forbidden("No tienes permiso para cancelar esta reserva")
	}
	if !reserva.PuedeCancelar() {
		return apperrors.Conflict("No se puede cancelar esta reserva")
	}

	if err := reservaRepo.ActualizarEstado(c.Context(), reserva.IDReserva, models.EstadoCancelada); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensaje": "Reserva cancelada con éxito",
	})
}

// ConfirmarReserva pasa una reserva pendiente a confirmada. Solo el médico
// de la reserva puede confirmarla.
func ConfirmarReserva(c *fiber.Ctx) error {
	reserva, perfil, err := cargarReservaPropia(c)
	if err != nil {
		return err
	}
	if perfil.Tipo != middleware.PerfilMedico {
		return apperrors.Forbidden("Solo el médico puede confirmar la reserva")
	}
	if reserva.Estado != models.EstadoPendiente {
		return apperrors.Conflict("Solo una reserva pendiente puede confirmarse")
	}

	if err := reservaRepo.ActualizarEstado(c.Context(), reserva.IDReserva, models.EstadoConfirmada); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensaje": "Reserva confirmada con éxito",
	})
}

// CrearHistorial registra el diagnóstico de la consulta. Solo el médico de
// la reserva puede hacerlo, una única vez; como efecto la reserva queda
// completada.
func CrearHistorial(c *fiber.Ctx) error {
	reserva, perfil, err := cargarReservaPropia(c)
	if err != nil {
		return err
	}
	if perfil.Tipo != middleware.PerfilMedico {
		return apperrors.Forbidden("No tienes permiso para crear un historial médico")
	}
	if !reserva.EstaVigente() {
		return apperrors.Conflict("Solo una reserva vigente admite historial médico")
	}

	var req models.HistorialRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Datos inválidos")
	}
	campos := make(map[string][]string)
	if req.Diagnostico == "" {
		campos["diagnostico"] = append(campos["diagnostico"], "El diagnóstico es requerido")
	}
	if req.Tratamiento == "" {
		campos["tratamiento"] = append(campos["tratamiento"], "El tratamiento es requerido")
	}
	if len(campos) > 0 {
		return apperrors.ValidationFields(campos)
	}

	historial, err := reservaRepo.CrearHistorial(c.Context(), reserva, &req)
	if err != nil {
		return err
	}

	return c.Status(201).JSON(fiber.Map{
		"mensaje":   "Historial médico creado con éxito",
		"historial": historial,
	})
}

// ActualizarCobro fija el monto del cobro. Solo el médico de la reserva.
func ActualizarCobro(c *fiber.Ctx) error {
	reserva, perfil, err := cargarReservaPropia(c)
	if err != nil {
		return err
	}
	if perfil.Tipo != middleware.PerfilMedico {
		return apperrors.Forbidden("No tienes permiso para actualizar el cobro")
	}

	var req models.CobroUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Datos inválidos")
	}
	if req.Monto < 0 {
		return apperrors.Validation("El monto no puede ser negativo")
	}

	if err := reservaRepo.ActualizarMonto(c.Context(), reserva.IDReserva, req.Monto); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensaje": "Cobro actualizado con éxito",
	})
}

// PagarCobro registra el pago simulado. Solo el paciente de la reserva; un
// cobro ya pagado no se vuelve a tocar.
func PagarCobro(c *fiber.Ctx) error {
	reserva, perfil, err := cargarReservaPropia(c)
	if err != nil {
		return err
	}
	if perfil.Tipo != middleware.PerfilPaciente {
		return apperrors.Forbidden("No tienes permiso para pagar este cobro")
	}

	cobro, err := reservaRepo.BuscarCobro(c.Context(), reserva.IDReserva)
	if err != nil {
		return err
	}
	if cobro.Pagado {
		return c.JSON(fiber.Map{
			"mensaje": "Este cobro ya ha sido pagado",
			"cobro":   cobro,
		})
	}

	var req models.PagoRequest
	_ = c.BodyParser(&req)
	metodo := req.MetodoPago
	if metodo == "" {
		metodo = "Tarjeta de crédito"
	}

	pagado, err := reservaRepo.MarcarPagado(c.Context(), reserva.IDReserva, metodo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensaje": "Pago realizado con éxito",
		"cobro":   pagado,
	})
}
