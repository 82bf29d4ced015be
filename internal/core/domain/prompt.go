package domain

// Default batch prompt templates.
// The header takes the answer language (%s) and the 1-based batch number (%d).
const (
	DefaultBatchHeader = "Por favor, contesta en %s cada una de las siguientes preguntas " +
		"basándote en el CONTEXTO proporcionado para la Tanda %d."

	DefaultBatchFooter = "Proporcione cada respuesta en el mismo formato numérico de las preguntas. " +
		"Si el CONTEXTO no contiene la respuesta, escriba \"-\"."
)
