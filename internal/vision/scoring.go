package vision

import (
	"strings"
	"unicode/utf8"

	"github.com/awside/symtrain-assistant/internal/types"
)

// Weights for scoring components
const (
	genericPenalty       = 0.15
	domainMatchWeight    = 0.5
	domainFuzzyWeight    = 0.3
	exactTargetWeight    = 1.2
	partialTargetWeight  = 0.7
	fuzzyTargetWeight    = 0.6
	alignmentWeight      = 0.35
	sharedWordWeight     = 0.15
	crossWordFuzzyWeight = 0.2
)

// Thresholds and bounds
const (
	domainFuzzyMin    = 0.7
	targetFuzzyMin    = 0.75
	crossWordFuzzyMin = 0.8
	shortWordMax      = 4
)

// MaxScore is the upper bound of every relevance score
const MaxScore = 2.0

var genericTerms = map[string]bool{
	"click": true, "button": true, "text": true, "field": true, "input": true,
	"next": true, "back": true, "submit": true, "ok": true, "yes": true,
	"no": true, "continue": true, "cancel": true, "close": true, "audio": true,
	"for": true, "the": true,
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "is": true, "are": true, "was": true,
	"were": true, "my": true, "your": true, "can": true, "you": true, "help": true,
	"me": true, "that": true, "this": true,
}

// Score returns the relevance of a hotspot record to a step, in [0, MaxScore].
// requestContext may be empty.
func Score(step string, record types.HotspotRecord, requestContext string) float64 {
	return newStepScorer(step, requestContext).score(Normalize(record, DefaultImageSize))
}

// stepScorer holds everything derived from the step and context so that one
// step can be scored against many hotspots.
type stepScorer struct {
	keywords       Keywords
	stepWords      map[string]bool
	domainKeywords []string
}

func newStepScorer(step, requestContext string) *stepScorer {
	s := &stepScorer{
		keywords:  ExtractKeywords(step),
		stepWords: meaningfulWords(step),
	}
	if requestContext != "" {
		var domain []string
		for _, word := range tokenize(requestContext) {
			if longWord(word) && !stopWords[word] {
				domain = append(domain, word)
			}
		}
		s.domainKeywords = ExpandWithSynonyms(domain)
	}
	return s
}

func (s *stepScorer) score(hotspot types.Hotspot) float64 {
	text := strings.ToLower(hotspot.Text)
	trimmed := strings.TrimSpace(text)
	hotspotType := strings.ToLower(hotspot.Type)

	total := 0.0

	if genericTerms[trimmed] {
		total -= genericPenalty
	}

	total += s.domainBonus(text)
	total += s.targetBonus(text, trimmed)
	total += s.alignmentBonus(hotspotType)
	total += s.wordOverlapBonus(text)

	return clamp(total, 0, MaxScore)
}

// domainBonus rewards hotspots that mention the business domain of the request
func (s *stepScorer) domainBonus(text string) float64 {
	if len(s.domainKeywords) == 0 {
		return 0
	}

	matches := 0
	bestRatio := 0.0
	for _, keyword := range s.domainKeywords {
		if strings.Contains(text, keyword) {
			matches++
			continue
		}
		if ratio := SimilarityRatio(keyword, text); ratio > domainFuzzyMin && ratio > bestRatio {
			bestRatio = ratio
		}
	}

	return float64(matches)*domainMatchWeight + bestRatio*domainFuzzyWeight
}

// targetBonus rewards hotspots whose label is one of the step's targets
func (s *stepScorer) targetBonus(text, trimmed string) float64 {
	bonus := 0.0
	for _, target := range s.keywords.Targets {
		target = strings.ToLower(target)
		switch {
		case target == trimmed:
			bonus += exactTargetWeight
		case strings.Contains(text, target) || strings.Contains(target, text):
			bonus += partialTargetWeight
		default:
			if ratio := SimilarityRatio(target, trimmed); ratio > targetFuzzyMin {
				bonus += ratio * fuzzyTargetWeight
			}
		}
	}
	return bonus
}

// alignmentBonus rewards hotspot types that fit the step's action
func (s *stepScorer) alignmentBonus(hotspotType string) float64 {
	if hotspotType == "" {
		return 0
	}

	bonus := 0.0
	if strings.Contains(hotspotType, "button") && s.keywords.HasAction("click") {
		bonus += alignmentWeight
	}
	if (strings.Contains(hotspotType, "input") || strings.Contains(hotspotType, "field")) && s.keywords.HasAction("enter") {
		bonus += alignmentWeight
	}
	if strings.Contains(hotspotType, "menu") && s.keywords.HasAction("navigate") {
		bonus += alignmentWeight
	}
	return bonus
}

// wordOverlapBonus rewards long words shared by step and hotspot label, and
// falls back to the closest pair of long words when none are shared.
func (s *stepScorer) wordOverlapBonus(text string) float64 {
	hotspotWords := meaningfulWords(text)

	shared := 0
	for word := range s.stepWords {
		if hotspotWords[word] && longWord(word) && !genericTerms[word] {
			shared++
		}
	}
	if shared > 0 {
		return float64(shared) * sharedWordWeight
	}
	if len(s.stepWords) == 0 || len(hotspotWords) == 0 {
		return 0
	}

	best := 0.0
	for a := range s.stepWords {
		if !longWord(a) {
			continue
		}
		for b := range hotspotWords {
			if !longWord(b) {
				continue
			}
			if ratio := SimilarityRatio(a, b); ratio > best {
				best = ratio
			}
		}
	}
	if best > crossWordFuzzyMin {
		return best * crossWordFuzzyWeight
	}
	return 0
}

// longWord reports whether word has more than shortWordMax characters
func longWord(word string) bool {
	return utf8.RuneCountInString(word) > shortWordMax
}

// meaningfulWords returns the token set of text without stop words
func meaningfulWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range tokenize(text) {
		if !stopWords[word] {
			words[word] = true
		}
	}
	return words
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
