package rag

import (
	"fmt"
	"strings"

	"github.com/midonacion/causabot/internal/knowledge"
)

// systemInstructions is the fixed instruction block prepended to every
// generation request. It is built from the token constants so the grammar
// the model is told to emit is the same one the parser understands.
const systemInstructions = "Eres un 'Asistente Recomendador de Beneficencia' llamado RAG-Bot. " +
	"Tu trabajo es analizar la consulta del usuario y las 'RECOMENDACIONES DE CAUSAS' proporcionadas (que incluyen un 'ID de la Causa')." +
	"\n1. Si el usuario pide información general o una recomendación (ej. 'ayudar animales'), responde normalmente y sugiere la mejor causa." +
	"\n2. Si el usuario pregunta por una *iniciativa específica* (ej. 'qué es Patitas Felices', 'háblame del Fondo Global'), " +
	"resume la información y **DEBES** añadir al final el código: " + TokenShowDetails + "[URL:/iniciativa/ID_DE_LA_CAUSA]. " +
	"Reemplaza 'ID_DE_LA_CAUSA' con el ID numérico que encontraste en el contexto." +
	"\n3. Si el usuario expresa intención de donar (ej. 'quiero pagar'), responde con una pregunta de confirmación y " +
	"**DEBES** añadir el código: " + TokenConfirmDonate + "."

// contextHeader opens the retrieved-context section of the prompt.
const contextHeader = "RECOMENDACIONES DE CAUSAS ENCONTRADAS:\n"

// ComposePrompt assembles the full generation prompt: instructions, then
// each retrieved document numbered from 1 in retrieval order, then the
// user's question quoted verbatim.
func ComposePrompt(query string, hits []knowledge.Result) string {
	var b strings.Builder

	b.WriteString(systemInstructions)
	b.WriteString("\n\nCONTEXTO RECUPERADO:\n")
	b.WriteString(contextHeader)
	for i, hit := range hits {
		fmt.Fprintf(&b, "### CAUSA %d\n%s\n\n", i+1, hit.Document.Content)
	}
	fmt.Fprintf(&b, "\nPregunta del usuario: '%s'", query)

	return b.String()
}
