package models

// Formas normalizadas de las respuestas de los servicios externos. Los
// campos Error van vacíos cuando la consulta fue exitosa.

// Medicamento es la ficha plana de un medicamento de OpenFDA
type Medicamento struct {
	Nombre             string `json:"nombre"`
	PrincipioActivo    string `json:"principio_activo"`
	Fabricante         string `json:"fabricante"`
	Descripcion        string `json:"descripcion"`
	Indicaciones       string `json:"indicaciones"`
	EfectosSecundarios string `json:"efectos_secundarios"`
}

// ResultadoMedicamentos es la respuesta normalizada de la búsqueda
type ResultadoMedicamentos struct {
	Error        string        `json:"error,omitempty"`
	Total        int           `json:"total"`
	Medicamentos []Medicamento `json:"medicamentos"`
}

// EstadisticasGlobales son las cifras mundiales de disease.sh
type EstadisticasGlobales struct {
	Error                string `json:"error,omitempty"`
	CasosTotales         int64  `json:"casos_totales"`
	CasosActivos         int64  `json:"casos_activos"`
	Recuperados          int64  `json:"recuperados"`
	Fallecidos           int64  `json:"fallecidos"`
	CasosCriticos        int64  `json:"casos_criticos"`
	CasosHoy             int64  `json:"casos_hoy"`
	FallecidosHoy        int64  `json:"fallecidos_hoy"`
	RecuperadosHoy       int64  `json:"recuperados_hoy"`
	PoblacionAfectada    int64  `json:"poblacion_afectada"`
	UltimaActualizacion  int64  `json:"ultima_actualizacion"`
}

// EstadisticasPais son las cifras por país de disease.sh
type EstadisticasPais struct {
	Error                string  `json:"error,omitempty"`
	Pais                 string  `json:"pais"`
	CasosTotales         int64   `json:"casos_totales"`
	CasosActivos         int64   `json:"casos_activos"`
	Recuperados          int64   `json:"recuperados"`
	Fallecidos           int64   `json:"fallecidos"`
	CasosCriticos        int64   `json:"casos_criticos"`
	CasosPorMillon       float64 `json:"casos_por_millon"`
	FallecidosPorMillon  float64 `json:"fallecidos_por_millon"`
	Poblacion            int64   `json:"poblacion"`
	UltimaActualizacion  int64   `json:"ultima_actualizacion"`
}

// InfoNutricional es la ficha nutricional de un alimento de la tabla local
type InfoNutricional struct {
	Error         string   `json:"error,omitempty"`
	Sugerencias   []string `json:"sugerencias,omitempty"`
	Nombre        string   `json:"nombre,omitempty"`
	Calorias      float64  `json:"calorias,omitempty"`
	Proteinas     float64  `json:"proteinas,omitempty"`
	Carbohidratos float64  `json:"carbohidratos,omitempty"`
	Fibra         float64  `json:"fibra,omitempty"`
	Azucar        float64  `json:"azucar,omitempty"`
	Grasas        float64  `json:"grasas,omitempty"`
	VitaminaC     float64  `json:"vitamina_c,omitempty"`
	Potasio       float64  `json:"potasio,omitempty"`
}
