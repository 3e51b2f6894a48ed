package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/middleware"
	"github.com/mediconecta/backend/models"
	"github.com/mediconecta/backend/repositories"
)

// Los dobles embeben la interfaz: los métodos que una prueba no necesita
// entran en pánico si se llaman.

type fakeMedicos struct {
	repositories.MedicoRepository
	porUsuario map[int]*models.Medico
	porID      map[int]*models.MedicoResponse
}

func (f *fakeMedicos) BuscarPorUsuario(ctx context.Context, idUsuario int) (*models.Medico, error) {
	if m, ok := f.porUsuario[idUsuario]; ok {
		return m, nil
	}
	return nil, apperrors.NotFound("Perfil de médico no encontrado")
}

func (f *fakeMedicos) BuscarPorID(ctx context.Context, id int) (*models.MedicoResponse, error) {
	if m, ok := f.porID[id]; ok {
		return m, nil
	}
	return nil, apperrors.NotFound("Médico no encontrado")
}

type fakePacientes struct {
	repositories.PacienteRepository
	porUsuario map[int]*models.Paciente
}

func (f *fakePacientes) BuscarPorUsuario(ctx context.Context, idUsuario int) (*models.Paciente, error) {
	if p, ok := f.porUsuario[idUsuario]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("Perfil de paciente no encontrado")
}

type fakeReservas struct {
	repositories.ReservaRepository
	reservas    map[int]*models.Reserva
	cobros      map[int]*models.Cobro
	estados     map[int]string
	creadas     []*models.Reserva
	historiales map[int]*models.HistorialMedico
}

func (f *fakeReservas) Crear(ctx context.Context, idPaciente, idMedico int, fecha time.Time, horaInicio, horaFin, motivo string) (*models.Reserva, error) {
	reserva := &models.Reserva{
		IDReserva:  len(f.creadas) + 1,
		IDPaciente: idPaciente,
		IDMedico:   idMedico,
		Fecha:      fecha,
		HoraInicio: horaInicio,
		HoraFin:    horaFin,
		Motivo:     motivo,
		Estado:     models.EstadoPendiente,
	}
	f.creadas = append(f.creadas, reserva)
	return reserva, nil
}

func (f *fakeReservas) BuscarPorID(ctx context.Context, id int) (*models.Reserva, error) {
	if r, ok := f.reservas[id]; ok {
		return r, nil
	}
	return nil, apperrors.NotFound("Reserva no encontrada")
}

func (f *fakeReservas) ActualizarEstado(ctx context.Context, id int, estado string) error {
	if f.estados == nil {
		f.estados = map[int]string{}
	}
	f.estados[id] = estado
	return nil
}

func (f *fakeReservas) CrearHistorial(ctx context.Context, reserva *models.Reserva, req *models.HistorialRequest) (*models.HistorialMedico, error) {
	if f.historiales == nil {
		f.historiales = map[int]*models.HistorialMedico{}
	}
	if _, ok := f.historiales[reserva.IDReserva]; ok {
		return nil, apperrors.Conflict("La reserva ya tiene un historial médico")
	}
	historial := &models.HistorialMedico{
		IDHistorial:   len(f.historiales) + 1,
		IDPaciente:    reserva.IDPaciente,
		IDMedico:      reserva.IDMedico,
		IDReserva:     &reserva.IDReserva,
		Fecha:         time.Now(),
		Diagnostico:   req.Diagnostico,
		Tratamiento:   req.Tratamiento,
		Observaciones: req.Observaciones,
	}
	f.historiales[reserva.IDReserva] = historial
	reserva.Estado = models.EstadoCompletada
	return historial, nil
}

func (f *fakeReservas) BuscarCobro(ctx context.Context, idReserva int) (*models.Cobro, error) {
	if c, ok := f.cobros[idReserva]; ok {
		return c, nil
	}
	return nil, apperrors.NotFound("Cobro no encontrado")
}

func (f *fakeReservas) MarcarPagado(ctx context.Context, idReserva int, metodo string) (*models.Cobro, error) {
	cobro := f.cobros[idReserva]
	ahora := time.Now()
	cobro.Pagado = true
	cobro.MetodoPago = metodo
	cobro.FechaPago = &ahora
	return cobro, nil
}

func manejarError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		respuesta := fiber.Map{
			"error":   true,
			"message": appErr.PublicMessage(),
		}
		if len(appErr.Fields) > 0 {
			respuesta["fields"] = appErr.Fields
		}
		return c.Status(appErr.StatusCode()).JSON(respuesta)
	}
	return c.Status(500).JSON(fiber.Map{"error": true, "message": err.Error()})
}

// appReservas monta las rutas de reservas con el usuario autenticado fijo
// y la resolución de perfil real sobre repositorios dobles
func appReservas(userID int, medicos repositories.MedicoRepository, pacientes repositories.PacienteRepository) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: manejarError})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Use(middleware.ResolverPerfil(medicos, pacientes))
	grupo := app.Group("/reservas")
	grupo.Post("/", CrearReserva)
	grupo.Get("/", ObtenerReservas)
	grupo.Put("/:id/cancelar", CancelarReserva)
	grupo.Put("/:id/confirmar", ConfirmarReserva)
	grupo.Post("/:id/historial", CrearHistorial)
	grupo.Post("/:id/cobro/pagar", PagarCobro)
	return app
}

func peticionJSON(metodo, ruta string, cuerpo any) *http.Request {
	var buf bytes.Buffer
	if cuerpo != nil {
		_ = json.NewEncoder(&buf).Encode(cuerpo)
	}
	req := httptest.NewRequest(metodo, ruta, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodificar(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var cuerpo map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&cuerpo); err != nil {
		t.Fatalf("decodificando respuesta: %v", err)
	}
	return cuerpo
}

func TestCrearReserva(t *testing.T) {
	medicos := &fakeMedicos{porID: map[int]*models.MedicoResponse{5: {IDMedico: 5}}}
	pacientes := &fakePacientes{porUsuario: map[int]*models.Paciente{1: {IDPaciente: 10, IDUsuario: 1}}}
	reservas := &fakeReservas{}
	reservaRepo, medicoRepo = reservas, medicos

	app := appReservas(1, medicos, pacientes)
	resp, err := app.Test(peticionJSON("POST", "/reservas/", map[string]any{
		"id_medico":   5,
		"fecha":       "2026-09-10",
		"hora_inicio": "10:00",
		"hora_fin":    "10:30",
		"motivo":      "Control anual",
	}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(reservas.creadas) != 1 {
		t.Fatalf("se crearon %d reservas", len(reservas.creadas))
	}
	creada := reservas.creadas[0]
	if creada.Estado != models.EstadoPendiente {
		t.Errorf("la reserva debe nacer pendiente, estado = %q", creada.Estado)
	}
	if creada.IDPaciente != 10 || creada.IDMedico != 5 {
		t.Errorf("reserva mal asignada: %+v", creada)
	}
}

func TestCrearReservaHorasInvertidas(t *testing.T) {
	medicos := &fakeMedicos{porID: map[int]*models.MedicoResponse{5: {IDMedico: 5}}}
	pacientes := &fakePacientes{porUsuario: map[int]*models.Paciente{1: {IDPaciente: 10}}}
	reservas := &fakeReservas{}
	reservaRepo, medicoRepo = reservas, medicos

	app := appReservas(1, medicos, pacientes)
	resp, err := app.Test(peticionJSON("POST", "/reservas/", map[string]any{
		"id_medico":   5,
		"fecha":       "2026-09-10",
		"hora_inicio": "11:00",
		"hora_fin":    "10:30",
		"motivo":      "Control anual",
	}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, se esperaba 400", resp.StatusCode)
	}
	cuerpo := decodificar(t, resp)
	fields, _ := cuerpo["fields"].(map[string]any)
	if _, ok := fields["hora_fin"]; !ok {
		t.Errorf("la violación debe reportarse sobre hora_fin: %v", cuerpo)
	}
	if len(reservas.creadas) != 0 {
		t.Error("no debe crearse la reserva")
	}
}

func TestCrearReservaSinPerfilPaciente(t *testing.T) {
	medicos := &fakeMedicos{porID: map[int]*models.MedicoResponse{}}
	pacientes := &fakePacientes{}
	reservaRepo, medicoRepo = &fakeReservas{}, medicos

	app := appReservas(1, medicos, pacientes)
	resp, err := app.Test(peticionJSON("POST", "/reservas/", map[string]any{
		"id_medico": 5, "fecha": "2026-09-10",
		"hora_inicio": "10:00", "hora_fin": "10:30", "motivo": "Control",
	}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("status = %d, se esperaba 403", resp.StatusCode)
	}
}

func TestObtenerReservasUsuarioGeneral(t *testing.T) {
	medicos := &fakeMedicos{}
	pacientes := &fakePacientes{}
	reservaRepo = &fakeReservas{}

	app := appReservas(1, medicos, pacientes)
	resp, err := app.Test(httptest.NewRequest("GET", "/reservas/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	cuerpo := decodificar(t, resp)
	if total, _ := cuerpo["total"].(float64); total != 0 {
		t.Errorf("un usuario sin perfil ve una lista vacía, total = %v", cuerpo["total"])
	}
}

func TestCancelarReserva(t *testing.T) {
	pacientes := &fakePacientes{porUsuario: map[int]*models.Paciente{1: {IDPaciente: 10}}}
	reservas := &fakeReservas{reservas: map[int]*models.Reserva{
		3: {IDReserva: 3, IDPaciente: 10, IDMedico: 5, Estado: models.EstadoPendiente},
	}}
	reservaRepo = reservas

	app := appReservas(1, &fakeMedicos{}, pacientes)
	resp, err := app.Test(peticionJSON("PUT", "/reservas/3/cancelar", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if reservas.estados[3] != models.EstadoCancelada {
		t.Errorf("estado registrado = %q", reservas.estados[3])
	}
}

func TestCancelarReservaCompletada(t *testing.T) {
	pacientes := &fakePacientes{porUsuario: map[int]*models.Paciente{1: {IDPaciente: 10}}}
	reservas := &fakeReservas{reservas: map[int]*models.Reserva{
		3: {IDReserva: 3, IDPaciente: 10, Estado: models.EstadoCompletada},
	}}
	reservaRepo = reservas

	app := appReservas(1, &fakeMedicos{}, pacientes)
	resp, err := app.Test(peticionJSON("PUT", "/reservas/3/cancelar", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("status = %d, se esperaba 409", resp.StatusCode)
	}
	if len(reservas.estados) != 0 {
		t.Error("una reserva completada no debe mutarse")
	}
}

func TestCancelarReservaAjena(t *testing.T) {
	// el paciente 99 intenta cancelar la reserva del paciente 10
	pacientes := &fakePacientes{porUsuario: map[int]*models.Paciente{1: {IDPaciente: 99}}}
	reservas := &fakeReservas{reservas: map[int]*models.Reserva{
		3: {IDReserva: 3, IDPaciente: 10, Estado: models.EstadoPendiente},
	}}
	reservaRepo = reservas

	app := appReservas(1, &fakeMedicos{}, pacientes)
	resp, err := app.Test(peticionJSON("PUT", "/reservas/3/cancelar", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("status = %d, se esperaba 403", resp.StatusCode)
	}
}

func TestConfirmarReserva(t *testing.T) {
	medicos := &fakeMedicos{porUsuario: map[int]*models.Medico{2: {IDMedico: 5, IDUsuario: 2}}}
	reservas := &fakeReservas{reservas: map[int]*models.Reserva{
		3: {IDReserva: 3, IDPaciente: 10, IDMedico: 5, Estado: models.EstadoPendiente},
	}}
	reservaRepo = reservas

	app := appReservas(2, medicos, &fakePacientes{})
	resp, err := app.Test(peticionJSON("PUT", "/reservas/3/confirmar", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if reservas.estados[3] != models.EstadoConfirmada {
		t.Errorf("estado registrado = %q", reservas.estados[3])
	}
}

func TestConfirmarReservaPorPaciente(t *testing.T) {
	pacientes := &fakePacientes{porUsuario: map[int]*models.Paciente{1: {IDPaciente: 10}}}
	reservas := &fakeReservas{reservas: map[int]*models.Reserva{
		3: {IDReserva: 3, IDPaciente: 10, IDMedico: 5, Estado: models.EstadoPendiente},
	}}
	reservaRepo = reservas

	app := appReservas(1, &fakeMedicos{}, pacientes)
	resp, err := app.Test(peticionJSON("PUT", "/reservas/3/confirmar", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("status = %d, se esperaba 403", resp.StatusCode)
	}
}

func TestCrearHistorialCompletaLaReservaUnaVez(t *testing.T) {
	medicos := &fakeMedicos{porUsuario: map[int]*models.Medico{2: {IDMedico: 5, IDUsuario: 2}}}
	reservas := &fakeReservas{reservas: map[int]*models.Reserva{
		3: {IDReserva: 3, IDPaciente: 10, IDMedico: 5, Estado: models.EstadoConfirmada},
	}}
	reservaRepo = reservas

	app := appReservas(2, medicos, &fakePacientes{})
	cuerpoHistorial := map[string]any{
		"diagnostico": "Faringitis aguda",
		"tratamiento": "Reposo y antibióticos por 7 días",
	}

	resp, err := app.Test(peticionJSON("POST", "/reservas/3/historial", cuerpoHistorial))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d, se esperaba 201", resp.StatusCode)
	}
	if reservas.reservas[3].Estado != models.EstadoCompletada {
		t.Errorf("la reserva debe quedar completada, estado = %q", reservas.reservas[3].Estado)
	}
	if len(reservas.historiales) != 1 {
		t.Fatalf("se registraron %d historiales", len(reservas.historiales))
	}

	// el segundo intento se rechaza sin registrar nada
	resp, err = app.Test(peticionJSON("POST", "/reservas/3/historial", cuerpoHistorial))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("segundo intento: status = %d, se esperaba 409", resp.StatusCode)
	}
	if len(reservas.historiales) != 1 {
		t.Errorf("el segundo intento no debe crear otro historial, hay %d", len(reservas.historiales))
	}
}

func TestCrearHistorialReservaCancelada(t *testing.T) {
	medicos := &fakeMedicos{porUsuario: map[int]*models.Medico{2: {IDMedico: 5, IDUsuario: 2}}}
	reservas := &fakeReservas{reservas: map[int]*models.Reserva{
		3: {IDReserva: 3, IDPaciente: 10, IDMedico: 5, Estado: models.EstadoCancelada},
	}}
	reservaRepo = reservas

	app := appReservas(2, medicos, &fakePacientes{})
	resp, err := app.Test(peticionJSON("POST", "/reservas/3/historial", map[string]any{
		"diagnostico": "Faringitis", "tratamiento": "Reposo",
	}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("status = %d, se esperaba 409", resp.StatusCode)
	}
	if len(reservas.historiales) != 0 {
		t.Error("una reserva cancelada no admite historial")
	}
}

func TestCrearHistorialPorPaciente(t *testing.T) {
	pacientes := &fakePacientes{porUsuario: map[int]*models.Paciente{1: {IDPaciente: 10}}}
	reservas := &fakeReservas{reservas: map[int]*models.Reserva{
		3: {IDReserva: 3, IDPaciente: 10, IDMedico: 5, Estado: models.EstadoConfirmada},
	}}
	reservaRepo = reservas

	app := appReservas(1, &fakeMedicos{}, pacientes)
	resp, err := app.Test(peticionJSON("POST", "/reservas/3/historial", map[string]any{
		"diagnostico": "Faringitis", "tratamiento": "Reposo",
	}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("status = %d, se esperaba 403", resp.StatusCode)
	}
}

func TestCrearHistorialSinDiagnostico(t *testing.T) {
	medicos := &fakeMedicos{porUsuario: map[int]*models.Medico{2: {IDMedico: 5, IDUsuario: 2}}}
	reservas := &fakeReservas{reservas: map[int]*models.Reserva{
		3: {IDReserva: 3, IDPaciente: 10, IDMedico: 5, Estado: models.EstadoConfirmada},
	}}
	reservaRepo = reservas

	app := appReservas(2, medicos, &fakePacientes{})
	resp, err := app.Test(peticionJSON("POST", "/reservas/3/historial", map[string]any{
		"observaciones": "sin datos",
	}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, se esperaba 400", resp.StatusCode)
	}
	cuerpo := decodificar(t, resp)
	fields, _ := cuerpo["fields"].(map[string]any)
	if _, ok := fields["diagnostico"]; !ok {
		t.Errorf("falta la violación de diagnostico: %v", cuerpo)
	}
	if _, ok := fields["tratamiento"]; !ok {
		t.Errorf("falta la violación de tratamiento: %v", cuerpo)
	}
}

func TestPagarCobro(t *testing.T) {
	pacientes := &fakePacientes{porUsuario: map[int]*models.Paciente{1: {IDPaciente: 10}}}
	reservas := &fakeReservas{
		reservas: map[int]*models.Reserva{
			3: {IDReserva: 3, IDPaciente: 10, IDMedico: 5, Estado: models.EstadoCompletada},
		},
		cobros: map[int]*models.Cobro{
			3: {IDCobro: 1, IDReserva: 3, Monto: 25000},
		},
	}
	reservaRepo = reservas

	app := appReservas(1, &fakeMedicos{}, pacientes)
	resp, err := app.Test(peticionJSON("POST", "/reservas/3/cobro/pagar", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	cobro := reservas.cobros[3]
	if !cobro.Pagado || cobro.FechaPago == nil {
		t.Errorf("el cobro debe quedar pagado: %+v", cobro)
	}
	if cobro.MetodoPago != "Tarjeta de crédito" {
		t.Errorf("método por defecto = %q", cobro.MetodoPago)
	}
}

func TestPagarCobroYaPagado(t *testing.T) {
	pagadoEn := time.Now()
	pacientes := &fakePacientes{porUsuario: map[int]*models.Paciente{1: {IDPaciente: 10}}}
	reservas := &fakeReservas{
		reservas: map[int]*models.Reserva{
			3: {IDReserva: 3, IDPaciente: 10, Estado: models.EstadoCompletada},
		},
		cobros: map[int]*models.Cobro{
			3: {IDCobro: 1, IDReserva: 3, Monto: 25000, Pagado: true,
				FechaPago: &pagadoEn, MetodoPago: "Efectivo"},
		},
	}
	reservaRepo = reservas

	app := appReservas(1, &fakeMedicos{}, pacientes)
	resp, err := app.Test(peticionJSON("POST", "/reservas/3/cobro/pagar",
		map[string]any{"metodo_pago": "Transferencia"}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	cuerpo := decodificar(t, resp)
	if cuerpo["mensaje"] != "Este cobro ya ha sido pagado" {
		t.Errorf("mensaje = %v", cuerpo["mensaje"])
	}
	// el método original no se sobreescribe
	if reservas.cobros[3].MetodoPago != "Efectivo" {
		t.Errorf("un cobro pagado no debe mutarse: %+v", reservas.cobros[3])
	}
}
