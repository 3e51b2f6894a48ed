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

// DiseaseShBaseURL es el endpoint público de estadísticas de enfermedades
const DiseaseShBaseURL = "https://disease.sh/v3/covid-19"

// enfermedadesTTL es la vigencia del caché de estadísticas
const enfermedadesTTL = 30 * time.Minute

// EnfermedadesService consulta estadísticas de salud desde disease.sh con
// un caché en proceso de 30 minutos por clave
type EnfermedadesService struct {
	BaseURL     string
	client      *http.Client
	cacheGlobal *ccache.Cache[*models.EstadisticasGlobales]
	cachePais   *ccache.Cache[*models.EstadisticasPais]
}

// NewEnfermedadesService crea el servicio con el timeout fijo de salida
func NewEnfermedadesService(baseURL string) *EnfermedadesService {
	if baseURL == "" {
		baseURL = DiseaseShBaseURL
	}
	return &EnfermedadesService{
		BaseURL:     baseURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		cacheGlobal: ccache.New(ccache.Configure[*models.EstadisticasGlobales]().MaxSize(10)),
		cachePais:   ccache.New(ccache.Configure[*models.EstadisticasPais]().MaxSize(300)),
	}
}

// forma cruda de disease.sh, compartida por /all y /countries/{pais}
type diseaseShResponse struct {
	Country               string  `json:"country"`
	Cases                 int64   `json:"cases"`
	Active                int64   `json:"active"`
	Recovered             int64   `json:"recovered"`
	Deaths                int64   `json:"deaths"`
	Critical              int64   `json:"critical"`
	TodayCases            int64   `json:"todayCases"`
	TodayDeaths           int64   `json:"todayDeaths"`
	TodayRecovered        int64   `json:"todayRecovered"`
	CasesPerOneMillion    float64 `json:"casesPerOneMillion"`
	DeathsPerOneMillion   float64 `json:"deathsPerOneMillion"`
	Population            int64   `json:"population"`
	Updated               int64   `json:"updated"`
}

func (s *EnfermedadesService) consultar(path string, out *diseaseShResponse) error {
	resp, err := s.client.Get(s.BaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("estado %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ObtenerEstadisticasGlobales devuelve las cifras mundiales, cacheadas por
// 30 minutos. En caso de fallo devuelve el resultado con Error y cifras en
// cero.
func (s *EnfermedadesService) ObtenerEstadisticasGlobales() *models.EstadisticasGlobales {
	const cacheKey = "covid_global_stats"
	if item := s.cacheGlobal.Get(cacheKey); item != nil && !item.Expired() {
		return item.Value()
	}

	var data diseaseShResponse
	if err := s.consultar("/all", &data); err != nil {
		log.Printf("Error al consultar API de enfermedades: %v", err)
		return &models.EstadisticasGlobales{
			Error: "No se pudo conectar con el servicio de estadísticas médicas",
		}
	}

	resultado := &models.EstadisticasGlobales{
		CasosTotales:        data.Cases,
		CasosActivos:        data.Active,
		Recuperados:         data.Recovered,
		Fallecidos:          data.Deaths,
		CasosCriticos:       data.Critical,
		CasosHoy:            data.TodayCases,
		FallecidosHoy:       data.TodayDeaths,
		RecuperadosHoy:      data.TodayRecovered,
		PoblacionAfectada:   data.Population,
		UltimaActualizacion: data.Updated,
	}
	s.cacheGlobal.Set(cacheKey, resultado, enfermedadesTTL)
	return resultado
}

// ObtenerEstadisticasPorPais devuelve las cifras de un país, cacheadas por
// 30 minutos por país
func (s *EnfermedadesService) ObtenerEstadisticasPorPais(pais string) *models.EstadisticasPais {
	if pais == "" {
		pais = "Chile"
	}
	cacheKey := "covid_stats_" + pais
	if item := s.cachePais.Get(cacheKey); item != nil && !item.Expired() {
		return item.Value()
	}

	var data diseaseShResponse
	if err := s.consultar("/countries/"+url.PathEscape(pais), &data); err != nil {
		log.Printf("Error al consultar API de estadísticas por país: %v", err)
		return &models.EstadisticasPais{
			Error: fmt.Sprintf("No se pudo obtener estadísticas para %s", pais),
			Pais:  pais,
		}
	}

	nombrePais := data.Country
	if nombrePais == "" {
		nombrePais = pais
	}
	resultado := &models.EstadisticasPais{
		Pais:                nombrePais,
		CasosTotales:        data.Cases,
		CasosActivos:        data.Active,
		Recuperados:         data.Recovered,
		Fallecidos:          data.Deaths,
		CasosCriticos:       data.Critical,
		CasosPorMillon:      data.CasesPerOneMillion,
		FallecidosPorMillon: data.DeathsPerOneMillion,
		Poblacion:           data.Population,
		UltimaActualizacion: data.Updated,
	}
	s.cachePais.Set(cacheKey, resultado, enfermedadesTTL)
	return resultado
}
