package prompts

import (
	"encoding/json"
	"slices"
)

// Stage is the narrative section a prompt is composed for.
type Stage string

// Narrative stages, in report order.
const (
	StageBackground        Stage = "background"
	StageResults           Stage = "results"
	StageObservations      Stage = "observations"
	StageStrengthsAndNeeds Stage = "strengths_and_needs"
	StageRecommendations   Stage = "recommendations"
	StageGoals             Stage = "goals"
)

var stages = []Stage{
	StageBackground,
	StageResults,
	StageObservations,
	StageStrengthsAndNeeds,
	StageRecommendations,
	StageGoals,
}

// Stages returns the narrative stages in report order.
func Stages() []Stage {
	return slices.Clone(stages)
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known narrative stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
