package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/models"
)

// ReservaRepository define las operaciones sobre Reserva y sus registros
// dependientes (HistorialMedico y Cobro)
type ReservaRepository interface {
	// Crear inserta la reserva en estado pendiente y su cobro con monto 0
	// en una misma transacción.
	Crear(ctx context.Context, idPaciente, idMedico int, fecha time.Time, horaInicio, horaFin, motivo string) (*models.Reserva, error)
	BuscarPorID(ctx context.Context, id int) (*models.Reserva, error)
	BuscarDetalle(ctx context.Context, id int) (*models.ReservaDetalle, error)
	ListarPorPaciente(ctx context.Context, idPaciente int) ([]models.ReservaResponse, error)
	ListarPorMedico(ctx context.Context, idMedico int) ([]models.ReservaResponse, error)
	ActualizarEstado(ctx context.Context, id int, estado string) error
	// CrearHistorial inserta el historial y marca la reserva como completada
	// en una misma transacción. Falla con conflicto si la reserva ya tiene
	// historial.
	CrearHistorial(ctx context.Context, reserva *models.Reserva, req *models.HistorialRequest) (*models.HistorialMedico, error)
	BuscarCobro(ctx context.Context, idReserva int) (*models.Cobro, error)
	ActualizarMonto(ctx context.Context, idReserva int, monto float64) error
	MarcarPagado(ctx context.Context, idReserva int, metodo string) (*models.Cobro, error)
}

type reservaRepository struct {
	db *pgxpool.Pool
}

// NewReservaRepository crea el repositorio de reservas
func NewReservaRepository(db *pgxpool.Pool) ReservaRepository {
	return &reservaRepository{db: db}
}

const reservaColumns = `id_reserva, id_paciente, id_medico, fecha,
	to_char(hora_inicio, 'HH24:MI'), to_char(hora_fin, 'HH24:MI'),
	motivo, estado, fecha_creacion, fecha_modificacion`

func scanReserva(row pgx.Row) (*models.Reserva, error) {
	var r models.Reserva
	err := row.Scan(&r.IDReserva, &r.IDPaciente, &r.IDMedico, &r.Fecha,
		&r.HoraInicio, &r.HoraFin, &r.Motivo, &r.Estado,
		&r.FechaCreacion, &r.FechaModificacion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Reserva no encontrada")
		}
		return nil, apperrors.Internal("Error al consultar reserva", err)
	}
	return &r, nil
}

func (r *reservaRepository) Crear(ctx context.Context, idPaciente, idMedico int, fecha time.Time, horaInicio, horaFin, motivo string) (*models.Reserva, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperrors.Internal("Error al iniciar transacción", err)
	}
	defer tx.Rollback(ctx)

	ahora := time.Now()
	reserva := &models.Reserva{
		IDPaciente:        idPaciente,
		IDMedico:          idMedico,
		Fecha:             fecha,
		HoraInicio:        horaInicio,
		HoraFin:           horaFin,
		Motivo:            motivo,
		Estado:            models.EstadoPendiente,
		FechaCreacion:     ahora,
		FechaModificacion: ahora,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO Reserva (id_paciente, id_medico, fecha, hora_inicio, hora_fin,
		                      motivo, estado, fecha_creacion, fecha_modificacion)
		 VALUES ($1, $2, $3, $4::time, $5::time, $6, $7, $8, $8) RETURNING id_reserva`,
		idPaciente, idMedico, fecha, horaInicio, horaFin, motivo,
		models.EstadoPendiente, ahora).Scan(&reserva.IDReserva)
	if err != nil {
		return nil, apperrors.Internal("Error al crear la reserva", err)
	}

	// El cobro nace junto a la reserva, con monto 0 y sin pagar
	_, err = tx.Exec(ctx,
		`INSERT INTO Cobro (id_reserva, monto, pagado, metodo_pago) VALUES ($1, 0, false, '')`,
		reserva.IDReserva)
	if err != nil {
		return nil, apperrors.Internal("Error al crear el cobro", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Internal("Error al confirmar la reserva", err)
	}
	return reserva, nil
}

func (r *reservaRepository) BuscarPorID(ctx context.Context, id int) (*models.Reserva, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+reservaColumns+" FROM Reserva WHERE id_reserva = $1", id)
	return scanReserva(row)
}

const reservaResponseSelect = `
	SELECT r.id_reserva, r.id_paciente, up.nombre || ' ' || up.apellido,
	       r.id_medico, um.nombre || ' ' || um.apellido,
	       r.fecha, to_char(r.hora_inicio, 'HH24:MI'), to_char(r.hora_fin, 'HH24:MI'),
	       r.motivo, r.estado, r.fecha_creacion, r.fecha_modificacion
	FROM Reserva r
	JOIN Paciente p ON p.id_paciente = r.id_paciente
	JOIN Usuario up ON up.id_usuario = p.id_usuario
	JOIN Medico m ON m.id_medico = r.id_medico
	JOIN Usuario um ON um.id_usuario = m.id_usuario`

func scanReservaResponse(row pgx.Row) (*models.ReservaResponse, error) {
	var rr models.ReservaResponse
	err := row.Scan(&rr.IDReserva, &rr.IDPaciente, &rr.Paciente, &rr.IDMedico,
		&rr.Medico, &rr.Fecha, &rr.HoraInicio, &rr.HoraFin, &rr.Motivo,
		&rr.Estado, &rr.FechaCreacion, &rr.FechaModificacion)
	if err != nil {
		return nil, err
	}
	return &rr, nil
}

func (r *reservaRepository) BuscarDetalle(ctx context.Context, id int) (*models.ReservaDetalle, error) {
	row := r.db.QueryRow(ctx, reservaResponseSelect+" WHERE r.id_reserva = $1", id)
	rr, err := scanReservaResponse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Reserva no encontrada")
		}
		return nil, apperrors.Internal("Error al consultar reserva", err)
	}

	detalle := &models.ReservaDetalle{Reserva: *rr}

	var h models.HistorialMedico
	err = r.db.QueryRow(ctx,
		`SELECT id_historial, id_paciente, id_medico, id_reserva, fecha,
		        diagnostico, tratamiento, observaciones
		 FROM HistorialMedico WHERE id_reserva = $1`, id).Scan(
		&h.IDHistorial, &h.IDPaciente, &h.IDMedico, &h.IDReserva, &h.Fecha,
		&h.Diagnostico, &h.Tratamiento, &h.Observaciones)
	if err == nil {
		detalle.Historial = &h
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Internal("Error al consultar historial", err)
	}

	cobro, err := r.BuscarCobro(ctx, id)
	if err == nil {
		detalle.Cobro = cobro
	} else {
		var appErr *apperrors.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperrors.KindNotFound {
			return nil, err
		}
	}

	return detalle, nil
}

func (r *reservaRepository) listar(ctx context.Context, where string, arg interface{}) ([]models.ReservaResponse, error) {
	rows, err := r.db.Query(ctx,
		reservaResponseSelect+" WHERE "+where+" ORDER BY r.fecha, r.hora_inicio", arg)
	if err != nil {
		return nil, apperrors.Internal("Error al listar reservas", err)
	}
	defer rows.Close()

	var reservas []models.ReservaResponse
	for rows.Next() {
		rr, err := scanReservaResponse(rows)
		if err != nil {
			continue
		}
		reservas = append(reservas, *rr)
	}
	return reservas, nil
}

func (r *reservaRepository) ListarPorPaciente(ctx context.Context, idPaciente int) ([]models.ReservaResponse, error) {
	return r.listar(ctx, "r.id_paciente = $1", idPaciente)
}

func (r *reservaRepository) ListarPorMedico(ctx context.Context, idMedico int) ([]models.ReservaResponse, error) {
	return r.listar(ctx, "r.id_medico = $1", idMedico)
}

func (r *reservaRepository) ActualizarEstado(ctx context.Context, id int, estado string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE Reserva SET estado = $1, fecha_modificacion = $2 WHERE id_reserva = $3",
		estado, time.Now(), id)
	if err != nil {
		return apperrors.Internal("Error al actualizar la reserva", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Reserva no encontrada")
	}
	return nil
}

func (r *reservaRepository) CrearHistorial(ctx context.Context, reserva *models.Reserva, req *models.HistorialRequest) (*models.HistorialMedico, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperrors.Internal("Error al iniciar transacción", err)
	}
	defer tx.Rollback(ctx)

	var existentes int
	err = tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM HistorialMedico WHERE id_reserva = $1",
		reserva.IDReserva).Scan(&existentes)
	if err != nil {
		return nil, apperrors.Internal("Error al verificar historial", err)
	}
	if existentes > 0 {
		return nil, apperrors.Conflict("La reserva ya tiene un historial médico")
	}

	historial := &models.HistorialMedico{
		IDPaciente:    reserva.IDPaciente,
		IDMedico:      reserva.IDMedico,
		IDReserva:     &reserva.IDReserva,
		Fecha:         time.Now(),
		Diagnostico:   req.Diagnostico,
		Tratamiento:   req.Tratamiento,
		Observaciones: req.Observaciones,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO HistorialMedico (id_paciente, id_medico, id_reserva, fecha,
		                              diagnostico, tratamiento, observaciones)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id_historial`,
		historial.IDPaciente, historial.IDMedico, reserva.IDReserva, historial.Fecha,
		historial.Diagnostico, historial.Tratamiento, historial.Observaciones).Scan(&historial.IDHistorial)
	if err != nil {
		return nil, apperrors.Internal("Error al crear el historial médico", err)
	}

	// Crear el historial es la única vía que completa la reserva
	_, err = tx.Exec(ctx,
		"UPDATE Reserva SET estado = $1, fecha_modificacion = $2 WHERE id_reserva = $3",
		models.EstadoCompletada, time.Now(), reserva.IDReserva)
	if err != nil {
		return nil, apperrors.Internal("Error al completar la reserva", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Internal("Error al confirmar el historial", err)
	}
	return historial, nil
}

func (r *reservaRepository) BuscarCobro(ctx context.Context, idReserva int) (*models.Cobro, error) {
	var c models.Cobro
	err := r.db.QueryRow(ctx,
		`SELECT id_cobro, id_reserva, monto, pagado, fecha_pago, metodo_pago
		 FROM Cobro WHERE id_reserva = $1`, idReserva).Scan(
		&c.IDCobro, &c.IDReserva, &c.Monto, &c.Pagado, &c.FechaPago, &c.MetodoPago)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Cobro no encontrado")
		}
		return nil, apperrors.Internal("Error al consultar cobro", err)
	}
	return &c, nil
}

func (r *reservaRepository) ActualizarMonto(ctx context.Context, idReserva int, monto float64) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE Cobro SET monto = $1 WHERE id_reserva = $2", monto, idReserva)
	if err != nil {
		return apperrors.Internal("Error al actualizar el cobro", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Cobro no encontrado")
	}
	return nil
}

// MarcarPagado fija pagado, fecha y método en una sola escritura. La
// condición "AND NOT pagado" garantiza que el pago se aplique una única vez.
func (r *reservaRepository) MarcarPagado(ctx context.Context, idReserva int, metodo string) (*models.Cobro, error) {
	_, err := r.db.Exec(ctx,
		`UPDATE Cobro SET pagado = true, fecha_pago = $1, metodo_pago = $2
		 WHERE id_reserva = $3 AND NOT pagado`,
		time.Now(), metodo, idReserva)
	if err != nil {
		return nil, apperrors.Internal("Error al registrar el pago", err)
	}
	return r.BuscarCobro(ctx, idReserva)
}
