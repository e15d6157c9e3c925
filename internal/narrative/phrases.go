package narrative

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type phrase struct {
	pattern     *regexp.Regexp
	replacement string
}

// phrases rewrite terse clinician shorthand into report wording. They apply
// in order to a lowercased fragment.
var phrases = []phrase{
	{regexp.MustCompile(`^refused\b`), "demonstrated refusal behaviors when presented with"},
	{regexp.MustCompile(`^cried\b`), "became distressed"},
	{regexp.MustCompile(`^fussed\b`), "became irritable"},
	{regexp.MustCompile(`\boverstuffed (?:his |her |their )?mouth\b`), "overstuffed the mouth"},
	{regexp.MustCompile(`\bgagged several times\b`), "gagged in response to large bolus sizes"},
	{regexp.MustCompile(`^used both hands\b`), "used both hands during self-feeding, demonstrating bilateral coordination"},
	{regexp.MustCompile(`\blimited oral control\b`), "showed limited oral motor control"},
	{regexp.MustCompile(`\brequired (\w+) assistance\b`), "required $1 level of assistance"},
	{regexp.MustCompile(`^appeared (\w+)$`), "appeared $1 throughout the session"},
	{regexp.MustCompile(`\bw/o\b`), "without"},
	{regexp.MustCompile(`\bw/`), "with "},
}

var connectives = []string{"Additionally, ", "In addition, ", "Further, "}

// subjects open fragments that already say who acted.
var subjects = wordSet(
	"the", "a", "an", "this", "it", "there", "no",
	"he", "she", "they", "his", "her", "their",
	"child", "patient", "parent", "parents", "mother", "father", "mom", "dad",
	"caregiver", "caregivers", "guardian", "grandmother", "grandfather",
	"family", "therapist", "clinician",
)

// verbs are predicate openers the "-ed" rule misses: irregular past forms
// and the present tense clinicians write notes in.
var verbs = wordSet(
	"sat", "ate", "drank", "took", "held", "made", "bit", "threw", "spat",
	"was", "were", "did", "had", "kept", "went", "began", "fell", "stood",
	"ran", "sought", "put", "got", "gave", "became", "spent",
	"is", "has", "gags", "cries", "refuses", "accepts", "tolerates",
	"demonstrates", "requires", "needs", "uses", "shows", "prefers", "eats",
	"drinks", "reaches", "sits", "walks", "crawls", "plays", "avoids", "seeks",
	"responds", "engages", "follows", "imitates", "holds", "takes",
	"becomes", "appears", "attends", "babbles", "points", "stacks", "throws",
	"bites", "chews", "swallows", "spits", "mouths", "grasps", "transitions",
)

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// ToSentence converts one observation fragment into a sentence about child.
// A fragment opening with a verb is a predicate: it is lowercased, rewritten
// through the phrase table, and given the child as subject. A fragment that
// already names its subject is only capitalized and terminated. Other
// fragments are predicates when written in lowercase shorthand.
func ToSentence(child, fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}

	if !isPredicate(child, fragment) {
		return sentence(fragment)
	}

	text := strings.ToLower(fragment)
	for _, p := range phrases {
		text = p.pattern.ReplaceAllString(text, p.replacement)
	}
	text = strings.Join(strings.Fields(text), " ")
	return sentence(child + " " + text)
}

func isPredicate(child, fragment string) bool {
	lower := strings.ToLower(fragment)
	if child != "" && strings.HasPrefix(lower+" ", strings.ToLower(child)+" ") {
		return false
	}

	word := strings.TrimRightFunc(strings.Fields(lower)[0], unicode.IsPunct)
	switch {
	case subjects[word]:
		return false
	case verbs[word], pastParticiple(word):
		return true
	}

	for _, p := range phrases {
		if strings.HasPrefix(p.pattern.String(), "^") && p.pattern.MatchString(lower) {
			return true
		}
	}

	first, _ := utf8.DecodeRuneInString(fragment)
	return unicode.IsLower(first)
}

// pastParticiple reports whether word reads as a regular "-ed" verb form.
func pastParticiple(word string) bool {
	return len(word) > 3 && strings.HasSuffix(word, "ed") && !strings.HasSuffix(word, "eed")
}

// Narrate joins observation fragments into one paragraph, preserving their
// order. Consecutive sentences about the child are linked with connective
// phrases so the paragraph does not read as a list.
func Narrate(child string, fragments []string) string {
	var sentences []string
	linked := 0
	for _, f := range fragments {
		s := ToSentence(child, f)
		if s == "" {
			continue
		}
		if len(sentences) > 0 && strings.HasPrefix(s, child+" ") {
			s = connectives[linked%len(connectives)] + midSentence(s)
			linked++
		}
		sentences = append(sentences, s)
	}
	return strings.Join(sentences, " ")
}

// sentence capitalizes s and ensures it ends in terminal punctuation.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[size:]
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		s += "."
	}
	return s
}

// midSentence lowercases a leading article so s can follow a connective.
func midSentence(s string) string {
	if rest, ok := strings.CutPrefix(s, "The "); ok {
		return "the " + rest
	}
	return s
}

// joinList renders items as "a", "a and b", or "a, b, and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
