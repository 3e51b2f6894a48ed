package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/mediconecta/backend/models"
)

// OpenFDABaseURL es el endpoint público de etiquetas de medicamentos
const OpenFDABaseURL = "https://api.fda.gov/drug/label.json"

// medicamentosTTL es la vigencia del caché de búsquedas de medicamentos
const medicamentosTTL = time.Hour

// MedicamentosService consulta la API de medicamentos de OpenFDA con un
// caché en proceso. Los fallos de red o de forma se convierten en un
// resultado con Error y campos en cero; nunca se propaga la excepción.
type MedicamentosService struct {
	BaseURL string
	client  *http.Client
	cache   *ccache.Cache[*models.ResultadoMedicamentos]
}

// NewMedicamentosService crea el servicio con el timeout fijo de salida
func NewMedicamentosService(baseURL string) *MedicamentosService {
	if baseURL == "" {
		baseURL = OpenFDABaseURL
	}
	return &MedicamentosService{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   ccache.New(ccache.Configure[*models.ResultadoMedicamentos]().MaxSize(500)),
	}
}

// forma cruda de la respuesta de OpenFDA
type openFDAResponse struct {
	Meta struct {
		Results struct {
			Total int `json:"total"`
		} `json:"results"`
	} `json:"meta"`
	Results []struct {
		Description         []string `json:"description"`
		IndicationsAndUsage []string `json:"indications_and_usage"`
		Warnings            []string `json:"warnings"`
		OpenFDA             struct {
			BrandName        []string `json:"brand_name"`
			SubstanceName    []string `json:"substance_name"`
			ManufacturerName []string `json:"manufacturer_name"`
		} `json:"openfda"`
	} `json:"results"`
}

func primero(valores []string, porDefecto string) string {
	if len(valores) > 0 && valores[0] != "" {
		return valores[0]
	}
	return porDefecto
}

// BuscarMedicamento busca medicamentos por nombre de marca. Los resultados
// exitosos se cachean por nombre+limit durante una hora.
func (s *MedicamentosService) BuscarMedicamento(nombre string, limit int) *models.ResultadoMedicamentos {
	if limit <= 0 {
		limit = 10
	}
	cacheKey := fmt.Sprintf("medicamento_%s_%d", nombre, limit)
	if item := s.cache.Get(cacheKey); item != nil && !item.Expired() {
		return item.Value()
	}

	params := url.Values{}
	params.Set("search", fmt.Sprintf("openfda.brand_name:%q", nombre))
	params.Set("limit", fmt.Sprintf("%d", limit))

	resp, err := s.client.Get(s.BaseURL + "?" + params.Encode())
	if err != nil {
		log.Printf("Error al consultar API de medicamentos: %v", err)
		return &models.ResultadoMedicamentos{
			Error:        "No se pudo conectar con el servicio de medicamentos",
			Medicamentos: []models.Medicamento{},
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("API de medicamentos respondió %d", resp.StatusCode)
		return &models.ResultadoMedicamentos{
			Error:        "No se pudo conectar con el servicio de medicamentos",
			Medicamentos: []models.Medicamento{},
		}
	}

	var data openFDAResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Printf("Respuesta inesperada de la API de medicamentos: %v", err)
		return &models.ResultadoMedicamentos{
			Error:        "Error interno del servidor",
			Medicamentos: []models.Medicamento{},
		}
	}

	resultado := &models.ResultadoMedicamentos{
		Total:        data.Meta.Results.Total,
		Medicamentos: []models.Medicamento{},
	}
	for _, r := range data.Results {
		resultado.Medicamentos = append(resultado.Medicamentos, models.Medicamento{
			Nombre:             primero(r.OpenFDA.BrandName, "Desconocido"),
			PrincipioActivo:    primero(r.OpenFDA.SubstanceName, "Desconocido"),
			Fabricante:         primero(r.OpenFDA.ManufacturerName, "Desconocido"),
			Descripcion:        primero(r.Description, "Sin descripción"),
			Indicaciones:       primero(r.IndicationsAndUsage, "Sin indicaciones"),
			EfectosSecundarios: primero(r.Warnings, "Sin información"),
		})
	}

	s.cache.Set(cacheKey, resultado, medicamentosTTL)
	return resultado
}
