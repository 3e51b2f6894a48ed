package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/models"
)

// ContactoRepository persiste los mensajes del formulario de contacto
type ContactoRepository interface {
	Guardar(ctx context.Context, req *models.ContactoRequest) (*models.MensajeContacto, error)
}

type contactoRepository struct {
	db *pgxpool.Pool
}

// NewContactoRepository crea el repositorio de mensajes de contacto
func NewContactoRepository(db *pgxpool.Pool) ContactoRepository {
	return &contactoRepository{db: db}
}

func (r *contactoRepository) Guardar(ctx context.Context, req *models.ContactoRequest) (*models.MensajeContacto, error) {
	mensaje := &models.MensajeContacto{
		Nombre:  req.Nombre,
		Email:   req.Email,
		Mensaje: req.Mensaje,
		Creado:  time.Now(),
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO MensajeContacto (nombre, email, mensaje, creado)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		mensaje.Nombre, mensaje.Email, mensaje.Mensaje, mensaje.Creado).Scan(&mensaje.ID)
	if err != nil {
		return nil, apperrors.Internal("Error al guardar el mensaje", err)
	}
	return mensaje, nil
}
