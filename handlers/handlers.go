package handlers

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediconecta/backend/repositories"
	"github.com/mediconecta/backend/services"
)

// Repositorios y servicios compartidos por los handlers, inicializados una
// vez al arrancar el proceso
var (
	usuarioRepo  repositories.UsuarioRepository
	tokenRepo    repositories.TokenRepository
	medicoRepo   repositories.MedicoRepository
	pacienteRepo repositories.PacienteRepository
	reservaRepo  repositories.ReservaRepository
	contactoRepo repositories.ContactoRepository

	medicamentosService *services.MedicamentosService
	enfermedadesService *services.EnfermedadesService
	nutricionService    *services.NutricionService
)

// Init construye las capas de acceso a datos y los servicios externos
func Init(db *pgxpool.Pool) {
	usuarioRepo = repositories.NewUsuarioRepository(db)
	tokenRepo = repositories.NewTokenRepository(db)
	medicoRepo = repositories.NewMedicoRepository(db)
	pacienteRepo = repositories.NewPacienteRepository(db)
	reservaRepo = repositories.NewReservaRepository(db)
	contactoRepo = repositories.NewContactoRepository(db)

	medicamentosService = services.NewMedicamentosService("")
	enfermedadesService = services.NewEnfermedadesService("")
	nutricionService = services.NewNutricionService()
}

// MedicoRepo expone el repositorio de médicos para el middleware de roles
func MedicoRepo() repositories.MedicoRepository {
	return medicoRepo
}

// PacienteRepo expone el repositorio de pacientes para el middleware de roles
func PacienteRepo() repositories.PacienteRepository {
	return pacienteRepo
}
