package prompts

const proseSpec = `Respond with a JSON object matching this exact structure:

{
  "paragraphs": ["<paragraph>", "<paragraph>"]
}

Field constraints:
- paragraphs: One or more paragraphs of clinical prose, in reading order.
  Each paragraph is plain text with no markdown, headings, or bullets.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Use only the scores, classifications, and observations provided
- Refer to the child by first name`

const listSpec = `Respond with a JSON object matching this exact structure:

{
  "paragraphs": ["<optional introduction>"],
  "items": ["<item>", "<item>"]
}

Field constraints:
- paragraphs: Zero or one introductory paragraph of plain text.
- items: The list entries, one complete sentence each, in the order they
  should appear in the report. Must not be empty.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Do not number or bullet the items yourself
- Use only the findings provided`

const goalsSpec = `Respond with a JSON object matching this exact structure:

{
  "goals": [
    {"domain": "<need domain>", "target": "<measurable target>", "timeframe": "<timeframe>"}
  ]
}

Field constraints:
- goals: Exactly one entry per need domain listed in the clinical data.
- domain: The need domain name, copied exactly as given.
- target: What the child will do and how success is measured, written as a
  phrase that completes "{child} will ...". Include a measurable criterion
  such as "in 4 out of 5 opportunities".
- timeframe: When the goal is expected to be met (e.g., "Within six months").

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never add goals for domains that are not needs
- Never combine two domains into one goal`

var specs = map[Stage]string{
	StageBackground:        proseSpec,
	StageResults:           proseSpec,
	StageObservations:      proseSpec,
	StageStrengthsAndNeeds: listSpec,
	StageRecommendations:   listSpec,
	StageGoals:             goalsSpec,
}

// Spec returns the fixed output specification for a stage. Specifications
// define the response format the narrative parser expects, so unlike
// instructions they cannot be overridden.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
