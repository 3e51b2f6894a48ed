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

// UsuarioRepository define las operaciones de acceso a datos sobre Usuario
type UsuarioRepository interface {
	Crear(ctx context.Context, u *models.Usuario) (int, error)
	BuscarPorID(ctx context.Context, id int) (*models.Usuario, error)
	BuscarPorUsername(ctx context.Context, username string) (*models.Usuario, error)
	ExisteUsername(ctx context.Context, username string, excluirID int) (bool, error)
	ExisteEmail(ctx context.Context, email string, excluirID int) (bool, error)
	Actualizar(ctx context.Context, id int, req *models.PerfilUpdateRequest, passwordHash string) error
	Eliminar(ctx context.Context, id int) error
	ActualizarMFA(ctx context.Context, id int, enabled bool, secret, backupCodes string) error
}

type usuarioRepository struct {
	db *pgxpool.Pool
}

// NewUsuarioRepository crea el repositorio de usuarios
func NewUsuarioRepository(db *pgxpool.Pool) UsuarioRepository {
	return &usuarioRepository{db: db}
}

const usuarioColumns = `id_usuario, username, email, password, nombre, apellido,
	is_staff, is_active, created_at, updated_at, mfa_enabled,
	COALESCE(mfa_secret, ''), COALESCE(backup_codes, '')`

func scanUsuario(row pgx.Row) (*models.Usuario, error) {
	var u models.Usuario
	err := row.Scan(&u.IDUsuario, &u.Username, &u.Email, &u.Password, &u.Nombre,
		&u.Apellido, &u.IsStaff, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		&u.MFAEnabled, &u.MFASecret, &u.BackupCodes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Usuario no encontrado")
		}
		return nil, apperrors.Internal("Error al consultar usuario", err)
	}
	return &u, nil
}

func (r *usuarioRepository) Crear(ctx context.Context, u *models.Usuario) (int, error) {
	var id int
	err := r.db.QueryRow(ctx,
		`INSERT INTO Usuario (username, email, password, nombre, apellido, is_staff, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, false, true, $6, $6) RETURNING id_usuario`,
		u.Username, u.Email, u.Password, u.Nombre, u.Apellido, time.Now()).Scan(&id)
	if err != nil {
		return 0, apperrors.Internal("Error al crear el usuario", err)
	}
	return id, nil
}

func (r *usuarioRepository) BuscarPorID(ctx context.Context, id int) (*models.Usuario, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+usuarioColumns+" FROM Usuario WHERE id_usuario = $1", id)
	return scanUsuario(row)
}

func (r *usuarioRepository) BuscarPorUsername(ctx context.Context, username string) (*models.Usuario, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+usuarioColumns+" FROM Usuario WHERE username = $1", username)
	return scanUsuario(row)
}

func (r *usuarioRepository) ExisteUsername(ctx context.Context, username string, excluirID int) (bool, error) {
	var total int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM Usuario WHERE username = $1 AND id_usuario <> $2",
		username, excluirID).Scan(&total)
	if err != nil {
		return false, apperrors.Internal("Error al verificar username", err)
	}
	return total > 0, nil
}

func (r *usuarioRepository) ExisteEmail(ctx context.Context, email string, excluirID int) (bool, error) {
	var total int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM Usuario WHERE email = $1 AND id_usuario <> $2",
		email, excluirID).Scan(&total)
	if err != nil {
		return false, apperrors.Internal("Error al verificar email", err)
	}
	return total > 0, nil
}

// Actualizar modifica los datos básicos del usuario. passwordHash vacío
// conserva la contraseña actual.
func (r *usuarioRepository) Actualizar(ctx context.Context, id int, req *models.PerfilUpdateRequest, passwordHash string) error {
	var err error
	if passwordHash != "" {
		_, err = r.db.Exec(ctx,
			`UPDATE Usuario SET username = $1, email = $2, nombre = $3, apellido = $4,
			 password = $5, updated_at = $6 WHERE id_usuario = $7`,
			req.Username, req.Email, req.Nombre, req.Apellido, passwordHash, time.Now(), id)
	} else {
		_, err = r.db.Exec(ctx,
			`UPDATE Usuario SET username = $1, email = $2, nombre = $3, apellido = $4,
			 updated_at = $5 WHERE id_usuario = $6`,
			req.Username, req.Email, req.Nombre, req.Apellido, time.Now(), id)
	}
	if err != nil {
		return apperrors.Internal("Error al actualizar usuario", err)
	}
	return nil
}

// Eliminar borra la cuenta. Las filas dependientes (perfiles, reservas,
// historiales, cobros, tokens) caen por las reglas ON DELETE del esquema.
func (r *usuarioRepository) Eliminar(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM Usuario WHERE id_usuario = $1", id)
	if err != nil {
		return apperrors.Internal("Error al eliminar usuario", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Usuario no encontrado")
	}
	return nil
}

func (r *usuarioRepository) ActualizarMFA(ctx context.Context, id int, enabled bool, secret, backupCodes string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE Usuario SET mfa_enabled = $1, mfa_secret = $2, backup_codes = $3,
		 updated_at = $4 WHERE id_usuario = $5`,
		enabled, secret, backupCodes, time.Now(), id)
	if err != nil {
		return apperrors.Internal("Error al actualizar MFA", err)
	}
	return nil
}
