package catalog

import "context"

// Static is the compiled-in demo catalog of five charitable causes.
// It never fails and needs no network access.
type Static struct{}

// NewStatic creates the static catalog source.
func NewStatic() *Static {
	return &Static{}
}

// Fetch returns a copy of the built-in dataset.
func (*Static) Fetch(_ context.Context) ([]Cause, error) {
	causes := make([]Cause, len(staticCauses))
	copy(causes, staticCauses)
	return causes, nil
}

// staticCauses is the built-in knowledge base of charitable causes.
var staticCauses = []Cause{
	{
		ID:          "101",
		Title:       "Fondo Global para la Conservación de Océanos",
		Description: "Asociación dedicada a la limpieza de plásticos marinos y protección de especies. Necesitan voluntarios para eventos de limpieza de playas.",
		Tags:        "Medio Ambiente, Animales, Voluntariado, Océanos, Global, Cambio Climático",
	},
	{
		ID:          "102",
		Title:       "Asociación de Apoyo Educativo para Niños",
		Description: "Ofrece becas y tutorías a niños de comunidades de bajos ingresos. Buscan donaciones para útiles escolares.",
		Tags:        "Educación, Niños, Becas, Tutoría, Local, Pobreza",
	},
	{
		ID:          "103",
		Title:       "Albergue de Rescate Animal 'Patitas Felices'",
		Description: "Rescata perros y gatos abandonados, proporcionando atención veterinaria y buscando adopción. Necesitan pienso y mantas.",
		Tags:        "Animales, Mascotas, Adopción, Pienso, Local, Veterinaria",
	},
	{
		ID:          "104",
		Title:       "Iniciativa para el Suministro de Agua Potable",
		Description: "Organización que instala filtros de agua en zonas rurales con escasez. Buscan financiación para la compra de materiales.",
		Tags:        "Salud, Suministro, Agua, Zonas Rurales, Financiación, Infraestructura",
	},
	{
		ID:          "105",
		Title:       "Red de Asistencia a Personas Mayores en Hogares",
		Description: "Proporciona compañía, alimentos y medicinas a personas mayores que viven solas. Se buscan voluntarios para visitas semanales.",
		Tags:        "Salud, Personas Mayores, Compañía, Voluntariado, Hogares, Comunidad",
	},
}
