package narrative

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/otreport/internal/assessment"
)

// sensoryStrategies are real-world strategies for grooming, play, and
// feeding keyed by SP2 quadrant.
var sensoryStrategies = map[string]string{
	"Seeking":      "Provide scheduled movement and heavy work activities before grooming, play, and mealtime routines to meet sensory seeking needs",
	"Avoiding":     "Use predictable routines, advance warning, and a quiet space so %s can tolerate grooming, play, and mealtime demands",
	"Sensitivity":  "Grade sensory input such as food textures, clothing, and water temperature during grooming and feeding to build tolerance",
	"Registration": "Use high-contrast, multisensory cues during play and self-care to increase %s's awareness of sensory input",
}

var feedingStrategies = map[string]string{
	"Physiologic Symptoms":           "Consult with the pediatrician or a gastroenterologist regarding physiologic feeding symptoms",
	"Problematic Mealtime Behaviors": "Caregiver coaching on responsive feeding strategies and consistent mealtime routines",
	"Selective/Restrictive Eating":   "Graded food exposure to expand dietary variety, with dietitian consultation as needed",
	"Oral Processing":                "Oral motor intervention to improve chewing, bolus formation, and swallowing efficiency",
}

func recommendations(in Input, profile Profile) Section {
	child := in.Child()
	var items []string

	if len(profile.Needs) > 0 {
		labels := make([]string, 0, len(profile.Needs))
		for _, f := range profile.Needs {
			labels = append(labels, strings.ToLower(f.Label()))
		}
		items = append(items, sentence(fmt.Sprintf(
			"Occupational therapy services 1 to 2 times per week for 45 to 60 minute sessions to address %s",
			joinList(labels),
		)))
	} else {
		items = append(items, sentence(fmt.Sprintf(
			"Continue monitoring %s's development through routine well-child visits; occupational therapy services are not indicated at this time",
			child,
		)))
	}

	for _, f := range profile.Needs {
		switch f.Domain {
		case "Language Composite":
			items = append(items, "Speech-language evaluation and services to support receptive and expressive communication.")
		case "Motor Composite":
			items = append(items, "Physical therapy consultation to address gross motor development and mobility.")
		}
	}

	if r, ok := in.Record(assessment.SP2); ok {
		for _, s := range r.ScoresOf(assessment.KindQuadrant) {
			if !concerning(s.Classification) {
				continue
			}
			if strategy, ok := sensoryStrategies[s.Domain]; ok {
				if strings.Contains(strategy, "%s") {
					strategy = fmt.Sprintf(strategy, child)
				}
				items = append(items, sentence(strategy))
			}
		}
	}

	if r, ok := in.Record(assessment.ChOMPS); ok {
		var domains []string
		for _, s := range r.ScoresOf(assessment.KindDomain) {
			if concerning(s.Classification) {
				domains = append(domains, strings.ToLower(s.Domain))
			}
		}
		if len(domains) > 0 {
			items = append(items, sentence(fmt.Sprintf(
				"Feeding therapy targeting %s to improve oral motor proficiency and mealtime safety", joinList(domains),
			)))
		}
	}

	if r, ok := in.Record(assessment.PediEAT); ok {
		for _, s := range r.ScoresOf(assessment.KindDomain) {
			if strategy, ok := feedingStrategies[s.Domain]; ok && concerning(s.Classification) {
				items = append(items, sentence(strategy))
			}
		}
	}

	items = append(items,
		"Home program activities and caregiver education to carry therapy strategies into daily routines.",
		"Re-evaluation in six months to monitor progress toward goals.",
	)

	return Section{Blocks: []Block{Bullets(items...)}, Sources: profile.Sources()}
}

// concerning reports whether a severity band signals difficulty. Unknown is
// never concerning.
func concerning(c assessment.Classification) bool {
	return c == assessment.SomeDifficulty || c == assessment.DefiniteDifficulty
}

// goalTargets phrase the activity of a goal, keyed by domain.
var goalTargets = map[string]string{
	"Cognitive Composite":            "solve simple problems during play, such as finding a hidden toy or completing a three-piece puzzle,",
	"Language Composite":             "follow one-step directions and use words or gestures to request wants and needs",
	"Motor Composite":                "use an age-appropriate grasp to stack blocks and manipulate small toys",
	"Social-Emotional Composite":     "engage in reciprocal play with a caregiver for at least three minutes",
	"Adaptive Behavior Composite":    "participate in self-care routines such as handwashing and undressing with minimal assistance",
	"Seeking":                        "use a calming sensory strategy to remain regulated during structured activities",
	"Avoiding":                       "tolerate new sensory experiences during grooming and play without distress",
	"Sensitivity":                    "tolerate varied textures during self-care and mealtime routines",
	"Registration":                   "respond to sensory cues from the environment during play",
	"Complex Movement Patterns":      "chew and manage mixed-texture foods safely",
	"Basic Movement Patterns":        "maintain stable positioning during play and mealtime tasks",
	"Oral Motor Skills":              "lateralize the tongue and clear the spoon with the lips",
	"Fine Motor Skills":              "use a pincer grasp to self-feed small finger foods",
	"Physiologic Symptoms":           "complete meals without signs of physiologic distress",
	"Problematic Mealtime Behaviors": "remain seated and engaged for the duration of a meal",
	"Selective/Restrictive Eating":   "accept a new food from a target food group",
	"Oral Processing":                "chew and swallow age-appropriate textures without gagging",
}

func goalTarget(f Finding) string {
	if target, ok := goalTargets[f.Domain]; ok {
		return target
	}
	return fmt.Sprintf("demonstrate improved %s skills during daily routines", strings.ToLower(f.Label()))
}
