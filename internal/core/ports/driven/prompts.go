package driven

// PromptStore provides access to completion prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; known names fall back to a default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptBatchHeader opens every batch prompt.
	// The template expects %s (answer language) and %d (1-based batch number).
	PromptBatchHeader = "batch_header"

	// PromptBatchFooter closes every batch prompt. It has no placeholders.
	PromptBatchFooter = "batch_footer"
)
