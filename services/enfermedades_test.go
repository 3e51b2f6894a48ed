package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEstadisticasGlobales(t *testing.T) {
	llamadas := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/all" {
			t.Errorf("path = %q", r.URL.Path)
		}
		llamadas++
		fmt.Fprint(w, `{"cases": 700000000, "active": 2000000, "recovered": 690000000,
			"deaths": 7000000, "critical": 40000, "todayCases": 12000,
			"todayDeaths": 300, "todayRecovered": 15000,
			"population": 7900000000, "updated": 1718000000000}`)
	}))
	defer server.Close()

	servicio := NewEnfermedadesService(server.URL)
	stats := servicio.ObtenerEstadisticasGlobales()

	if stats.Error != "" {
		t.Fatalf("error inesperado: %s", stats.Error)
	}
	if stats.CasosTotales != 700000000 || stats.Fallecidos != 7000000 {
		t.Errorf("cifras mal mapeadas: %+v", stats)
	}

	// la segunda consulta dentro de la vigencia se sirve del caché
	servicio.ObtenerEstadisticasGlobales()
	if llamadas != 1 {
		t.Errorf("se esperaba 1 llamada al upstream, hubo %d", llamadas)
	}
}

func TestEstadisticasGlobalesUpstreamCaido(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	stats := NewEnfermedadesService(server.URL).ObtenerEstadisticasGlobales()
	if stats.Error == "" {
		t.Fatal("se esperaba un resultado con error")
	}
	if stats.CasosTotales != 0 || stats.Fallecidos != 0 {
		t.Errorf("un fallo debe traer las cifras en cero: %+v", stats)
	}
}

func TestEstadisticasPorPais(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/countries/Chile" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"country": "Chile", "cases": 5300000, "deaths": 64000,
			"casesPerOneMillion": 274000.5, "deathsPerOneMillion": 3300.2,
			"population": 19300000, "updated": 1718000000000}`)
	}))
	defer server.Close()

	servicio := NewEnfermedadesService(server.URL)

	// país vacío cae en Chile
	stats := servicio.ObtenerEstadisticasPorPais("")
	if stats.Error != "" {
		t.Fatalf("error inesperado: %s", stats.Error)
	}
	if stats.Pais != "Chile" || stats.CasosTotales != 5300000 {
		t.Errorf("cifras mal mapeadas: %+v", stats)
	}
	if stats.CasosPorMillon != 274000.5 {
		t.Errorf("casos por millón = %v", stats.CasosPorMillon)
	}
}

func TestEstadisticasPorPaisCachePorClave(t *testing.T) {
	llamadas := map[string]int{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas[r.URL.Path]++
		fmt.Fprintf(w, `{"country": %q, "cases": 1}`, r.URL.Path)
	}))
	defer server.Close()

	servicio := NewEnfermedadesService(server.URL)
	servicio.ObtenerEstadisticasPorPais("Chile")
	servicio.ObtenerEstadisticasPorPais("Chile")
	servicio.ObtenerEstadisticasPorPais("Peru")

	if llamadas["/countries/Chile"] != 1 {
		t.Errorf("Chile consultado %d veces", llamadas["/countries/Chile"])
	}
	if llamadas["/countries/Peru"] != 1 {
		t.Errorf("Peru consultado %d veces", llamadas["/countries/Peru"])
	}
}

func TestEstadisticasPorPaisDesconocido(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Country not found"}`)
	}))
	defer server.Close()

	stats := NewEnfermedadesService(server.URL).ObtenerEstadisticasPorPais("Atlantis")
	if stats.Error == "" {
		t.Fatal("se esperaba un resultado con error")
	}
	if stats.Pais != "Atlantis" {
		t.Errorf("el resultado debe conservar el país pedido: %q", stats.Pais)
	}
}
