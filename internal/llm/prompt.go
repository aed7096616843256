package llm

import (
	"encoding/json"
	"fmt"
)

// SystemPrompt frames every etymology request.
const SystemPrompt = `You are an expert historical linguist. You answer with a single JSON object and nothing else.
Do not wrap the JSON in code fences. Do not add commentary.`

// BuildInstruction returns the per-query instruction for word in language.
func BuildInstruction(word, language string) string {
	return fmt.Sprintf(`Provide a detailed etymology for the word "%s" in %s.

Timeline:
- Trace the direct lineage of the word back to its earliest reconstructable root.
- Order the steps from the root to the current form.
- Keep each step description concise.

Graph:
- Include the root, the ancestors on the direct line and the current word.
- Include exactly 3 distinct cognates in other languages descended from the same root.
- Give every node a short gloss in "definition" and an approximate era in "era".
- Every link must reference node ids that exist in "nodes".

Summary:
- Write a one-paragraph summary of the word's history.

Scripts:
- For non-Latin scripts (e.g. Greek, Cyrillic, Arabic, Devanagari, Chinese, Japanese), write the native script in "word" and "label".
- Put the Latin-alphabet romanization in "transliteration". Leave "transliteration" empty for Latin-script words.

Leave optional text fields empty rather than inventing values.`, word, language)
}

// instructionsWithSchema appends the schema to the system prompt for providers
// that cannot enforce structured output natively.
func instructionsWithSchema(req Request) (string, error) {
	if req.Schema == nil {
		return req.System, nil
	}
	b, err := json.Marshal(req.Schema)
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return fmt.Sprintf("%s\n\nThe JSON object must conform to this JSON Schema:\n%s", req.System, b), nil
}
