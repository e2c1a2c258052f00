// Package resolver turns free-form sentences into directory search
// filters by calling a remote language model.
package resolver

import "strings"

const systemPrompt = `You are a helpful assistant that parses natural language commands into structured search parameters for a livestock member directory. Always respond with valid JSON.`

// BuildPrompt constructs the user prompt for one sentence. The model is
// told the three recognized filter fields, the strict response format,
// and gets the sentence verbatim.
func BuildPrompt(sentence string) string {
	var b strings.Builder

	b.WriteString("Parse the following command into search parameters for a member directory search.\n")
	b.WriteString("Extract the state, the member name, and the breed, if mentioned.\n\n")
	b.WriteString("Command: \"")
	b.WriteString(sentence)
	b.WriteString("\"\n\n")
	b.WriteString("Respond with a single JSON object with exactly the keys: state, member, breed.\n")
	b.WriteString("If a parameter is not mentioned in the command, set it to null.\n\n")
	b.WriteString("Example response:\n")
	b.WriteString(`{"state": "Kansas", "member": "Dwight Elmore", "breed": "American Red"}`)
	b.WriteString("\n")

	return b.String()
}

// filterSchema describes the expected payload for providers with native
// structured-output support.
func filterSchema() map[string]any {
	field := func(desc string) map[string]any {
		return map[string]any{
			"type":        []string{"string", "null"},
			"description": desc,
		}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"state":  field("US state to filter members by, or null"),
			"member": field("Member name to search for, or null"),
			"breed":  field("Breed to filter members by, or null"),
		},
		"required":             []any{"state", "member", "breed"},
		"additionalProperties": false,
	}
}
