package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const respuestaOpenFDA = `{
	"meta": {"results": {"total": 2}},
	"results": [
		{
			"description": ["Analgésico de uso general"],
			"indications_and_usage": ["Dolor leve a moderado"],
			"warnings": ["No exceder la dosis indicada"],
			"openfda": {
				"brand_name": ["Aspirin"],
				"substance_name": ["ASPIRIN"],
				"manufacturer_name": ["Bayer"]
			}
		},
		{
			"openfda": {}
		}
	]
}`

func TestBuscarMedicamentoMapeaRespuesta(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != `openfda.brand_name:"aspirin"` {
			t.Errorf("search = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q", got)
		}
		fmt.Fprint(w, respuestaOpenFDA)
	}))
	defer server.Close()

	servicio := NewMedicamentosService(server.URL)
	resultado := servicio.BuscarMedicamento("aspirin", 5)

	if resultado.Error != "" {
		t.Fatalf("error inesperado: %s", resultado.Error)
	}
	if resultado.Total != 2 || len(resultado.Medicamentos) != 2 {
		t.Fatalf("total %d con %d medicamentos", resultado.Total, len(resultado.Medicamentos))
	}

	primero := resultado.Medicamentos[0]
	if primero.Nombre != "Aspirin" || primero.Fabricante != "Bayer" {
		t.Errorf("primer medicamento mal mapeado: %+v", primero)
	}

	// campos ausentes reciben los valores por defecto
	segundo := resultado.Medicamentos[1]
	if segundo.Nombre != "Desconocido" || segundo.Descripcion != "Sin descripción" {
		t.Errorf("valores por defecto incorrectos: %+v", segundo)
	}
}

func TestBuscarMedicamentoUsaCache(t *testing.T) {
	llamadas := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas++
		fmt.Fprint(w, respuestaOpenFDA)
	}))
	defer server.Close()

	servicio := NewMedicamentosService(server.URL)
	servicio.BuscarMedicamento("aspirin", 10)
	servicio.BuscarMedicamento("aspirin", 10)
	if llamadas != 1 {
		t.Errorf("la segunda búsqueda debió servirse del caché, hubo %d llamadas", llamadas)
	}

	// distinto limit es otra entrada del caché
	servicio.BuscarMedicamento("aspirin", 3)
	if llamadas != 2 {
		t.Errorf("un limit distinto debe consultar de nuevo, hubo %d llamadas", llamadas)
	}
}

func TestBuscarMedicamentoErroresNoSeCachean(t *testing.T) {
	llamadas := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas++
		if llamadas == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, respuestaOpenFDA)
	}))
	defer server.Close()

	servicio := NewMedicamentosService(server.URL)

	fallo := servicio.BuscarMedicamento("aspirin", 10)
	if fallo.Error == "" {
		t.Fatal("se esperaba un resultado con error")
	}
	if fallo.Total != 0 || len(fallo.Medicamentos) != 0 {
		t.Errorf("un fallo debe traer los campos en cero: %+v", fallo)
	}

	exito := servicio.BuscarMedicamento("aspirin", 10)
	if exito.Error != "" {
		t.Errorf("el fallo no debe quedar cacheado: %s", exito.Error)
	}
	if llamadas != 2 {
		t.Errorf("se esperaban 2 llamadas al upstream, hubo %d", llamadas)
	}
}

func TestBuscarMedicamentoRespuestaMalformada(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer server.Close()

	servicio := NewMedicamentosService(server.URL)
	resultado := servicio.BuscarMedicamento("aspirin", 10)
	if resultado.Error != "Error interno del servidor" {
		t.Errorf("error = %q", resultado.Error)
	}
}

func TestBuscarMedicamentoLimitPorDefecto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit = %q, se esperaba el valor por defecto 10", got)
		}
		fmt.Fprint(w, respuestaOpenFDA)
	}))
	defer server.Close()

	NewMedicamentosService(server.URL).BuscarMedicamento("aspirin", 0)
}
