package classifier

import "service-order-pipeline/internal/model"

// DefaultCategories seeds a fresh database.
var DefaultCategories = []model.DefectCategory{
	{Name: "Vazamentos", Description: "Vazamento de óleo, água ou combustível", Keywords: []string{"vazamento", "vazando", "gotejando", "retentor", "junta"}},
	{Name: "Motor", Description: "Falhas internas do motor", Keywords: []string{"motor", "biela", "pistão", "cabeçote", "virabrequim", "compressão"}},
	{Name: "Arrefecimento", Description: "Sistema de arrefecimento e superaquecimento", Keywords: []string{"superaquecimento", "radiador", "bomba d'água", "arrefecimento", "temperatura"}},
	{Name: "Injeção", Description: "Sistema de injeção e alimentação", Keywords: []string{"injetor", "injeção", "bico", "bomba injetora", "combustível"}},
	{Name: "Elétrica", Description: "Componentes elétricos e eletrônicos", Keywords: []string{"elétrico", "chicote", "sensor", "alternador", "motor de partida", "bateria"}},
	{Name: "Turbo", Description: "Turbocompressor e admissão", Keywords: []string{"turbo", "turbina", "intercooler", "admissão"}},
	{Name: "Ruídos", Description: "Ruídos e vibrações anormais", Keywords: []string{"ruído", "barulho", "batida", "vibração"}},
	{Name: FallbackCategory, Description: "Defeitos sem categoria específica", Keywords: []string{}},
}
