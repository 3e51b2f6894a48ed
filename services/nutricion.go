package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mediconecta/backend/models"
)

// NutricionService resuelve fichas nutricionales desde una tabla local.
// No hace llamadas de red: la API real requiere autenticación, así que se
// sirven datos fijos para tres alimentos.
type NutricionService struct {
	alimentos map[string]models.InfoNutricional
}

// NewNutricionService crea el servicio con la tabla de alimentos conocidos
func NewNutricionService() *NutricionService {
	return &NutricionService{
		alimentos: map[string]models.InfoNutricional{
			"manzana": {
				Nombre:        "Manzana",
				Calorias:      52,
				Proteinas:     0.3,
				Carbohidratos: 14,
				Fibra:         2.4,
				Azucar:        10.4,
				Grasas:        0.2,
				VitaminaC:     4.6,
				Potasio:       107,
			},
			"platano": {
				Nombre:        "Plátano",
				Calorias:      89,
				Proteinas:     1.1,
				Carbohidratos: 23,
				Fibra:         2.6,
				Azucar:        12,
				Grasas:        0.3,
				VitaminaC:     8.7,
				Potasio:       358,
			},
			"naranja": {
				Nombre:        "Naranja",
				Calorias:      47,
				Proteinas:     0.9,
				Carbohidratos: 12,
				Fibra:         2.4,
				Azucar:        9,
				Grasas:        0.1,
				VitaminaC:     53.2,
				Potasio:       181,
			},
		},
	}
}

// ObtenerInformacionNutricional devuelve la ficha del alimento. Para un
// alimento desconocido devuelve un error junto con las claves conocidas
// como sugerencias.
func (s *NutricionService) ObtenerInformacionNutricional(alimento string) *models.InfoNutricional {
	if info, ok := s.alimentos[strings.ToLower(alimento)]; ok {
		return &info
	}

	sugerencias := make([]string, 0, len(s.alimentos))
	for nombre := range s.alimentos {
		sugerencias = append(sugerencias, nombre)
	}
	sort.Strings(sugerencias)

	return &models.InfoNutricional{
		Error:       fmt.Sprintf("Información nutricional no disponible para %s", alimento),
		Sugerencias: sugerencias,
	}
}
