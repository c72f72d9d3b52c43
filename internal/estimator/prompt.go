package estimator

import (
	_ "embed"
)

// reasonPromptTemplate is the first-turn prompt asking the model to reason
// about the quantity. Contains one %s placeholder for the question.
// Loaded from prompts/reason.md at compile time.
//
//go:embed prompts/reason.md
var reasonPromptTemplate string

// formatPrompt is the second-turn instruction asking for nothing but the
// JSON estimate object. Loaded from prompts/format.md at compile time.
//
//go:embed prompts/format.md
var formatPrompt string

// extractPromptTemplate is the system instruction for extracting an
// estimate from an existing research report. Contains one %q placeholder
// for the question. Loaded from prompts/extract.md at compile time.
//
//go:embed prompts/extract.md
var extractPromptTemplate string
