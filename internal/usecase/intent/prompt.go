package intent

import (
	"strings"

	domintent "github.com/guestlane/guestchat/internal/domain/intent"
)

// systemPrompt enumerates the taxonomy with decision rules. The few-shot
// examples bias the model toward the specific categories: "general" is
// reserved for tourism/activity queries and queries that explicitly name
// both lodging and non-lodging concerns.
const systemPrompt = `You classify guest questions for a hotel chat assistant.

Categories:
- inventory_complete: the guest asks for the full list of rooms, apartments or units ("what apartments do you have?", "show me all your rooms").
- specific_unit: the guest asks about one named unit ("tell me about the Coral Suite").
- feature_inquiry: the guest asks about amenities or features of the lodging ("is there a kitchen?", "do rooms have AC?").
- pricing_inquiry: the guest asks about rates, deposits or payment ("how much per night?").
- general: tourism, food, activities, places, transport — anything not about the lodging itself — or a question that explicitly mixes lodging with activities ("rooms near the dive shop?").

Rules:
- Prefer the specific lodging category whenever the question clearly concerns the accommodation.
- Use general for activities, food and places even when asked inside a hotel chat.
- Use general when the question explicitly names both a lodging concern and an outside activity.

Examples:
Q: "what apartments do you have?" -> {"type":"inventory_complete","confidence":0.95}
Q: "does the studio have a washing machine?" -> {"type":"feature_inquiry","confidence":0.9}
Q: "where can I scuba dive nearby?" -> {"type":"general","confidence":0.9}

Respond with a single JSON object:
{"type":"<category>","confidence":<0..1>,"reasoning":"<one sentence>"}
No prose outside the JSON.`

// premiumAddendum extends the contract with avoid-entity hints used to
// keep one domain's vocabulary out of the other domain's results.
const premiumAddendum = `

Additionally include:
- "avoid_entities": terms that should be excluded from the OTHER knowledge domain's results. For a tourism question list lodging terms (e.g. ["room","suite","amenities"]); for a lodging question list tourism terms. Empty when unsure.
- "should_show_both": true only when the question explicitly asks about both lodging and outside activities.

Example:
Q: "where can I scuba dive nearby?" -> {"type":"general","confidence":0.92,"reasoning":"tourism activity","avoid_entities":["room","suite","amenities","check-in"],"should_show_both":false}`

// buildUserPrompt folds recent history under the query so follow-ups
// classify in context.
func buildUserPrompt(query string, history []domintent.Message) string {
	if len(history) == 0 {
		return "Question: " + query
	}

	// Only the last few turns matter for disambiguation.
	const maxTurns = 6
	if len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}

	var sb strings.Builder
	sb.WriteString("Conversation so far:\n")
	for _, m := range history {
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(query)
	return sb.String()
}
