package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/models"
)

// MedicoRepository define las operaciones de acceso a datos sobre Medico y
// Especialidad
type MedicoRepository interface {
	// EnsurePerfil devuelve el perfil médico del usuario, creándolo con
	// valores por defecto si no existe. El booleano indica si fue creado.
	EnsurePerfil(ctx context.Context, idUsuario int) (*models.Medico, bool, error)
	BuscarPorID(ctx context.Context, id int) (*models.MedicoResponse, error)
	BuscarPorUsuario(ctx context.Context, idUsuario int) (*models.Medico, error)
	Listar(ctx context.Context, filtros models.MedicoFiltros) ([]models.MedicoResponse, error)
	Actualizar(ctx context.Context, idMedico int, req *models.MedicoUpdateRequest) error
	Eliminar(ctx context.Context, idMedico int) error
	AgruparPorEspecialidad(ctx context.Context) ([]models.MedicosPorEspecialidad, error)
	ListarEspecialidades(ctx context.Context) ([]models.Especialidad, error)
	BuscarEspecialidad(ctx context.Context, id int) (*models.Especialidad, error)
	MedicosDeEspecialidad(ctx context.Context, idEspecialidad int) ([]models.MedicoResponse, error)
}

type medicoRepository struct {
	db *pgxpool.Pool
}

// NewMedicoRepository crea el repositorio de médicos
func NewMedicoRepository(db *pgxpool.Pool) MedicoRepository {
	return &medicoRepository{db: db}
}

const medicoSelect = `
	SELECT m.id_medico, m.id_usuario, u.username, u.nombre, u.apellido, u.email,
	       e.nombre, m.registro_colegio, m.telefono,
	       to_char(m.horario_inicio, 'HH24:MI'), to_char(m.horario_fin, 'HH24:MI'),
	       m.disponible
	FROM Medico m
	JOIN Usuario u ON u.id_usuario = m.id_usuario
	LEFT JOIN Especialidad e ON e.id_especialidad = m.id_especialidad`

func scanMedicoResponse(row pgx.Row) (*models.MedicoResponse, error) {
	var m models.MedicoResponse
	err := row.Scan(&m.IDMedico, &m.IDUsuario, &m.Username, &m.Nombre, &m.Apellido,
		&m.Email, &m.Especialidad, &m.RegistroColegio, &m.Telefono,
		&m.HorarioInicio, &m.HorarioFin, &m.Disponible)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicoRepository) EnsurePerfil(ctx context.Context, idUsuario int) (*models.Medico, bool, error) {
	medico, err := r.BuscarPorUsuario(ctx, idUsuario)
	if err == nil {
		return medico, false, nil
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperrors.KindNotFound {
		return nil, false, err
	}

	var nuevo models.Medico
	nuevo.IDUsuario = idUsuario
	nuevo.Disponible = true
	err = r.db.QueryRow(ctx,
		`INSERT INTO Medico (id_usuario, registro_colegio, telefono, disponible)
		 VALUES ($1, '', '', true) RETURNING id_medico`, idUsuario).Scan(&nuevo.IDMedico)
	if err != nil {
		return nil, false, apperrors.Internal("Error al crear perfil médico", err)
	}
	return &nuevo, true, nil
}

func (r *medicoRepository) BuscarPorUsuario(ctx context.Context, idUsuario int) (*models.Medico, error) {
	var m models.Medico
	err := r.db.QueryRow(ctx,
		`SELECT id_medico, id_usuario, id_especialidad, registro_colegio, telefono,
		        to_char(horario_inicio, 'HH24:MI'), to_char(horario_fin, 'HH24:MI'), disponible
		 FROM Medico WHERE id_usuario = $1`, idUsuario).Scan(
		&m.IDMedico, &m.IDUsuario, &m.IDEspecialidad, &m.RegistroColegio,
		&m.Telefono, &m.HorarioInicio, &m.HorarioFin, &m.Disponible)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Perfil médico no encontrado")
		}
		return nil, apperrors.Internal("Error al consultar médico", err)
	}
	return &m, nil
}

func (r *medicoRepository) BuscarPorID(ctx context.Context, id int) (*models.MedicoResponse, error) {
	row := r.db.QueryRow(ctx, medicoSelect+" WHERE m.id_medico = $1", id)
	m, err := scanMedicoResponse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Médico no encontrado")
		}
		return nil, apperrors.Internal("Error al consultar médico", err)
	}
	return m, nil
}

func (r *medicoRepository) Listar(ctx context.Context, filtros models.MedicoFiltros) ([]models.MedicoResponse, error) {
	query := medicoSelect
	var condiciones []string
	var args []interface{}

	if filtros.Especialidad != "" {
		args = append(args, "%"+filtros.Especialidad+"%")
		condiciones = append(condiciones, fmt.Sprintf("e.nombre ILIKE $%d", len(args)))
	}
	if filtros.Disponible != nil {
		args = append(args, *filtros.Disponible)
		condiciones = append(condiciones, fmt.Sprintf("m.disponible = $%d", len(args)))
	}
	if filtros.Search != "" {
		args = append(args, "%"+filtros.Search+"%")
		n := len(args)
		condiciones = append(condiciones, fmt.Sprintf(
			"(u.nombre ILIKE $%d OR u.apellido ILIKE $%d OR u.username ILIKE $%d OR e.nombre ILIKE $%d)",
			n, n, n, n))
	}
	if len(condiciones) > 0 {
		query += " WHERE " + strings.Join(condiciones, " AND ")
	}
	query += " ORDER BY u.apellido, u.nombre"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Internal("Error al listar médicos", err)
	}
	defer rows.Close()

	var medicos []models.MedicoResponse
	for rows.Next() {
		m, err := scanMedicoResponse(rows)
		if err != nil {
			continue
		}
		medicos = append(medicos, *m)
	}
	return medicos, nil
}

func (r *medicoRepository) Actualizar(ctx context.Context, idMedico int, req *models.MedicoUpdateRequest) error {
	disponible := true
	if req.Disponible != nil {
		disponible = *req.Disponible
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE Medico SET id_especialidad = $1, registro_colegio = $2, telefono = $3,
		 horario_inicio = $4::time, horario_fin = $5::time, disponible = $6
		 WHERE id_medico = $7`,
		req.IDEspecialidad, req.RegistroColegio, req.Telefono,
		req.HorarioInicio, req.HorarioFin, disponible, idMedico)
	if err != nil {
		return apperrors.Internal("Error al actualizar médico", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Médico no encontrado")
	}
	return nil
}

func (r *medicoRepository) Eliminar(ctx context.Context, idMedico int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM Medico WHERE id_medico = $1", idMedico)
	if err != nil {
		return apperrors.Internal("Error al eliminar médico", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Médico no encontrado")
	}
	return nil
}

// AgruparPorEspecialidad devuelve las especialidades que tienen médicos
// disponibles, con sus médicos y el total por grupo
func (r *medicoRepository) AgruparPorEspecialidad(ctx context.Context) ([]models.MedicosPorEspecialidad, error) {
	especialidades, err := r.ListarEspecialidades(ctx)
	if err != nil {
		return nil, err
	}

	var resultado []models.MedicosPorEspecialidad
	for _, esp := range especialidades {
		medicos, err := r.MedicosDeEspecialidad(ctx, esp.IDEspecialidad)
		if err != nil {
			return nil, err
		}
		if len(medicos) == 0 {
			continue
		}
		resultado = append(resultado, models.MedicosPorEspecialidad{
			Especialidad: esp.Nombre,
			Medicos:      medicos,
			TotalMedicos: len(medicos),
		})
	}
	return resultado, nil
}

func (r *medicoRepository) ListarEspecialidades(ctx context.Context) ([]models.Especialidad, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id_especialidad, nombre, COALESCE(descripcion, '') FROM Especialidad ORDER BY nombre")
	if err != nil {
		return nil, apperrors.Internal("Error al listar especialidades", err)
	}
	defer rows.Close()

	var especialidades []models.Especialidad
	for rows.Next() {
		var e models.Especialidad
		if err := rows.Scan(&e.IDEspecialidad, &e.Nombre, &e.Descripcion); err != nil {
			continue
		}
		especialidades = append(especialidades, e)
	}
	return especialidades, nil
}

func (r *medicoRepository) BuscarEspecialidad(ctx context.Context, id int) (*models.Especialidad, error) {
	var e models.Especialidad
	err := r.db.QueryRow(ctx,
		"SELECT id_especialidad, nombre, COALESCE(descripcion, '') FROM Especialidad WHERE id_especialidad = $1",
		id).Scan(&e.IDEspecialidad, &e.Nombre, &e.Descripcion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Especialidad no encontrada")
		}
		return nil, apperrors.Internal("Error al consultar especialidad", err)
	}
	return &e, nil
}

func (r *medicoRepository) MedicosDeEspecialidad(ctx context.Context, idEspecialidad int) ([]models.MedicoResponse, error) {
	rows, err := r.db.Query(ctx,
		medicoSelect+" WHERE m.id_especialidad = $1 AND m.disponible = true ORDER BY u.apellido",
		idEspecialidad)
	if err != nil {
		return nil, apperrors.Internal("Error al consultar médicos por especialidad", err)
	}
	defer rows.Close()

	var medicos []models.MedicoResponse
	for rows.Next() {
		m, err := scanMedicoResponse(rows)
		if err != nil {
			continue
		}
		medicos = append(medicos, *m)
	}
	return medicos, nil
}
