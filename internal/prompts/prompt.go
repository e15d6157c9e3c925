// Package prompts owns the instructions and output specifications the AI
// narrative strategy composes into section prompts. Instructions have
// built-in defaults that configuration can override per stage.
package prompts

// Prompt is the effective prompt material for one stage.
type Prompt struct {
	Stage        Stage  `json:"stage"`
	Instructions string `json:"instructions"`
	Spec         string `json:"spec"`
	Overridden   bool   `json:"overridden"`
}
