package models

import (
	"time"
)

// Usuario representa la tabla Usuario en la base de datos
type Usuario struct {
	IDUsuario   int       `json:"id_usuario" db:"id_usuario"`
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email" db:"email"`
	Password    string    `json:"password,omitempty" db:"password"`
	Nombre      string    `json:"nombre" db:"nombre"`
	Apellido    string    `json:"apellido" db:"apellido"`
	IsStaff     bool      `json:"is_staff" db:"is_staff"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	MFAEnabled  bool      `json:"mfa_enabled" db:"mfa_enabled"`
	MFASecret   string    `json:"-" db:"mfa_secret"`
	BackupCodes string    `json:"-" db:"backup_codes"`
}

// UsuarioResponse representa la respuesta sin datos sensibles
type UsuarioResponse struct {
	ID        int       `json:"id_usuario"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Nombre    string    `json:"nombre"`
	Apellido  string    `json:"apellido"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest representa la solicitud de registro
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

// LoginRequest representa la solicitud de login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfa_code,omitempty"`
}

// RefreshToken representa un token de actualización persistido
type RefreshToken struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	IsRevoked bool      `json:"is_revoked" db:"is_revoked"`
}

// LoginResponse representa la respuesta del login con tokens
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"` // segundos
	Usuario      UsuarioResponse `json:"usuario"`
}

// RefreshRequest para solicitar nuevo token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse para respuesta de renovación
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// VerifyRequest para verificar un token de acceso
type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// PerfilUpdateRequest para que el usuario edite sus propios datos.
// Password vacío significa "sin cambio".
type PerfilUpdateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Password string `json:"password"`
}

// Tipos para MFA
type MFASetupRequest struct {
	Password string `json:"password" validate:"required"`
}

type MFASetupResponse struct {
	Secret      string   `json:"secret"`
	QRCodeURL   string   `json:"qr_code_url"`
	BackupCodes []string `json:"backup_codes"`
}

type MFAVerifyRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

type MFADisableRequest struct {
	Password string `json:"password" validate:"required"`
}
