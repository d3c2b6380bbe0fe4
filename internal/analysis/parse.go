package analysis

import (
	"encoding/json"

	"github.com/awside/symtrain-assistant/internal/llm"
)

// ParseJSONObject decodes the first balanced JSON object found in an LLM
// response into v, after stripping any markdown code fence.
func ParseJSONObject(raw string, v any) error {
	obj := llm.ExtractFirstJSONObject(llm.CleanJSONBlock(raw))
	if obj == "" {
		return &ParseError{Message: "no JSON object found in response", Raw: raw}
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return &ParseError{Message: "failed to decode JSON object", Raw: raw, Cause: err}
	}
	return nil
}
