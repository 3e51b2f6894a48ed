package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/models"
)

// PacienteRepository define las operaciones de acceso a datos sobre Paciente
type PacienteRepository interface {
	// EnsurePerfil devuelve el perfil de paciente del usuario, creándolo
	// vacío si no existe. El booleano indica si fue creado.
	EnsurePerfil(ctx context.Context, idUsuario int) (*models.Paciente, bool, error)
	BuscarPorID(ctx context.Context, id int) (*models.PacienteResponse, error)
	BuscarPorUsuario(ctx context.Context, idUsuario int) (*models.Paciente, error)
	Listar(ctx context.Context, filtros models.PacienteFiltros) ([]models.PacienteResponse, error)
	Actualizar(ctx context.Context, idPaciente int, req *models.PacienteUpdateRequest) error
	Eliminar(ctx context.Context, idPaciente int) error
	Estadisticas(ctx context.Context) (*models.EstadisticasPacientes, error)
	ConAlergias(ctx context.Context) ([]models.PacienteResponse, error)
	HistorialDePaciente(ctx context.Context, idPaciente int) ([]models.HistorialMedico, error)
}

type pacienteRepository struct {
	db *pgxpool.Pool
}

// NewPacienteRepository crea el repositorio de pacientes
func NewPacienteRepository(db *pgxpool.Pool) PacienteRepository {
	return &pacienteRepository{db: db}
}

const pacienteSelect = `
	SELECT p.id_paciente, p.id_usuario, u.username, u.nombre, u.apellido, u.email,
	       p.rut, p.telefono, p.fecha_nacimiento, p.direccion, p.grupo_sanguineo, p.alergias
	FROM Paciente p
	JOIN Usuario u ON u.id_usuario = p.id_usuario`

func scanPacienteResponse(row pgx.Row) (*models.PacienteResponse, error) {
	var p models.PacienteResponse
	err := row.Scan(&p.IDPaciente, &p.IDUsuario, &p.Username, &p.Nombre, &p.Apellido,
		&p.Email, &p.Rut, &p.Telefono, &p.FechaNacimiento, &p.Direccion,
		&p.GrupoSanguineo, &p.Alergias)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pacienteRepository) EnsurePerfil(ctx context.Context, idUsuario int) (*models.Paciente, bool, error) {
	paciente, err := r.BuscarPorUsuario(ctx, idUsuario)
	if err == nil {
		return paciente, false, nil
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperrors.KindNotFound {
		return nil, false, err
	}

	var nuevo models.Paciente
	nuevo.IDUsuario = idUsuario
	err = r.db.QueryRow(ctx,
		`INSERT INTO Paciente (id_usuario, rut, telefono, direccion, grupo_sanguineo, alergias)
		 VALUES ($1, '', '', '', '', '') RETURNING id_paciente`, idUsuario).Scan(&nuevo.IDPaciente)
	if err != nil {
		return nil, false, apperrors.Internal("Error al crear perfil de paciente", err)
	}
	return &nuevo, true, nil
}

func (r *pacienteRepository) BuscarPorUsuario(ctx context.Context, idUsuario int) (*models.Paciente, error) {
	var p models.Paciente
	err := r.db.QueryRow(ctx,
		`SELECT id_paciente, id_usuario, rut, telefono, fecha_nacimiento, direccion,
		        grupo_sanguineo, alergias
		 FROM Paciente WHERE id_usuario = $1`, idUsuario).Scan(
		&p.IDPaciente, &p.IDUsuario, &p.Rut, &p.Telefono, &p.FechaNacimiento,
		&p.Direccion, &p.GrupoSanguineo, &p.Alergias)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Perfil de paciente no encontrado")
		}
		return nil, apperrors.Internal("Error al consultar paciente", err)
	}
	return &p, nil
}

func (r *pacienteRepository) BuscarPorID(ctx context.Context, id int) (*models.PacienteResponse, error) {
	row := r.db.QueryRow(ctx, pacienteSelect+" WHERE p.id_paciente = $1", id)
	p, err := scanPacienteResponse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Paciente no encontrado")
		}
		return nil, apperrors.Internal("Error al consultar paciente", err)
	}
	return p, nil
}

func (r *pacienteRepository) Listar(ctx context.Context, filtros models.PacienteFiltros) ([]models.PacienteResponse, error) {
	query := pacienteSelect
	var condiciones []string
	var args []interface{}

	if filtros.Search != "" {
		args = append(args, "%"+filtros.Search+"%")
		n := len(args)
		condiciones = append(condiciones, fmt.Sprintf(
			"(u.nombre ILIKE $%d OR u.apellido ILIKE $%d OR u.username ILIKE $%d OR p.rut ILIKE $%d OR p.telefono ILIKE $%d)",
			n, n, n, n, n))
	}
	if filtros.GrupoSanguineo != "" {
		args = append(args, "%"+filtros.GrupoSanguineo+"%")
		condiciones = append(condiciones, fmt.Sprintf("p.grupo_sanguineo ILIKE $%d", len(args)))
	}
	hoy := time.Now()
	if filtros.EdadMin != nil {
		// fecha máxima de nacimiento para tener al menos edad_min años
		maxNacimiento := time.Date(hoy.Year()-*filtros.EdadMin, hoy.Month(), hoy.Day(), 0, 0, 0, 0, time.UTC)
		args = append(args, maxNacimiento)
		condiciones = append(condiciones, fmt.Sprintf("p.fecha_nacimiento <= $%d", len(args)))
	}
	if filtros.EdadMax != nil {
		minNacimiento := time.Date(hoy.Year()-*filtros.EdadMax-1, hoy.Month(), hoy.Day(), 0, 0, 0, 0, time.UTC)
		args = append(args, minNacimiento)
		condiciones = append(condiciones, fmt.Sprintf("p.fecha_nacimiento >= $%d", len(args)))
	}
	if len(condiciones) > 0 {
		query += " WHERE " + strings.Join(condiciones, " AND ")
	}
	query += " ORDER BY u.apellido, u.nombre"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Internal("Error al listar pacientes", err)
	}
	defer rows.Close()

	var pacientes []models.PacienteResponse
	for rows.Next() {
		p, err := scanPacienteResponse(rows)
		if err != nil {
			continue
		}
		pacientes = append(pacientes, *p)
	}
	return pacientes, nil
}

func (r *pacienteRepository) Actualizar(ctx context.Context, idPaciente int, req *models.PacienteUpdateRequest) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE Paciente SET rut = $1, telefono = $2, fecha_nacimiento = $3,
		 direccion = $4, grupo_sanguineo = $5, alergias = $6 WHERE id_paciente = $7`,
		req.Rut, req.Telefono, req.FechaNacimiento, req.Direccion,
		req.GrupoSanguineo, req.Alergias, idPaciente)
	if err != nil {
		return apperrors.Internal("Error al actualizar paciente", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Paciente no encontrado")
	}
	return nil
}

func (r *pacienteRepository) Eliminar(ctx context.Context, idPaciente int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM Paciente WHERE id_paciente = $1", idPaciente)
	if err != nil {
		return apperrors.Internal("Error al eliminar paciente", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Paciente no encontrado")
	}
	return nil
}

// Estadisticas calcula el reporte agregado del padrón de pacientes
func (r *pacienteRepository) Estadisticas(ctx context.Context) (*models.EstadisticasPacientes, error) {
	var stats models.EstadisticasPacientes
	stats.GruposSanguineos = make(map[string]int)

	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM Paciente").Scan(&stats.TotalPacientes)
	if err != nil {
		return nil, apperrors.Internal("Error al contar pacientes", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT CASE WHEN grupo_sanguineo = '' THEN 'No especificado' ELSE grupo_sanguineo END, COUNT(*)
		 FROM Paciente GROUP BY 1`)
	if err != nil {
		return nil, apperrors.Internal("Error al agrupar grupos sanguíneos", err)
	}
	defer rows.Close()
	for rows.Next() {
		var grupo string
		var total int
		if err := rows.Scan(&grupo, &total); err != nil {
			continue
		}
		stats.GruposSanguineos[grupo] = total
	}

	err = r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM Paciente WHERE alergias <> ''").Scan(&stats.PacientesConAlergias)
	if err != nil {
		return nil, apperrors.Internal("Error al contar alergias", err)
	}

	edadRows, err := r.db.Query(ctx,
		"SELECT fecha_nacimiento FROM Paciente WHERE fecha_nacimiento IS NOT NULL")
	if err != nil {
		return nil, apperrors.Internal("Error al consultar edades", err)
	}
	defer edadRows.Close()

	hoy := time.Now()
	for edadRows.Next() {
		var nacimiento time.Time
		if err := edadRows.Scan(&nacimiento); err != nil {
			continue
		}
		p := models.Paciente{FechaNacimiento: &nacimiento}
		edad := p.Edad(hoy)
		switch {
		case edad < 18:
			stats.DistribucionEdad.Menores18++
		case edad <= 65:
			stats.DistribucionEdad.Entre18y65++
		default:
			stats.DistribucionEdad.Mayores65++
		}
	}

	return &stats, nil
}

func (r *pacienteRepository) ConAlergias(ctx context.Context) ([]models.PacienteResponse, error) {
	rows, err := r.db.Query(ctx,
		pacienteSelect+" WHERE p.alergias <> '' ORDER BY u.apellido, u.nombre")
	if err != nil {
		return nil, apperrors.Internal("Error al consultar pacientes con alergias", err)
	}
	defer rows.Close()

	var pacientes []models.PacienteResponse
	for rows.Next() {
		p, err := scanPacienteResponse(rows)
		if err != nil {
			continue
		}
		pacientes = append(pacientes, *p)
	}
	return pacientes, nil
}

func (r *pacienteRepository) HistorialDePaciente(ctx context.Context, idPaciente int) ([]models.HistorialMedico, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id_historial, id_paciente, id_medico, id_reserva, fecha,
		        diagnostico, tratamiento, observaciones
		 FROM HistorialMedico WHERE id_paciente = $1 ORDER BY fecha DESC`, idPaciente)
	if err != nil {
		return nil, apperrors.Internal("Error al consultar historial médico", err)
	}
	defer rows.Close()

	var historiales []models.HistorialMedico
	for rows.Next() {
		var h models.HistorialMedico
		err := rows.Scan(&h.IDHistorial, &h.IDPaciente, &h.IDMedico, &h.IDReserva,
			&h.Fecha, &h.Diagnostico, &h.Tratamiento, &h.Observaciones)
		if err != nil {
			continue
		}
		historiales = append(historiales, h)
	}
	return historiales, nil
}
