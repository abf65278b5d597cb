package search

import "strings"

// semanticGroups maps legal concept keywords to related terms. Each related
// term found in a section's title or content adds a small bonus, so a query
// about "murder" still surfaces sections that only speak of "causing death".
var semanticGroups = map[string][]string{
	"murder":     {"kill", "death", "homicide", "culpable", "causing death", "intentionally"},
	"theft":      {"steal", "dishonest", "movable", "property", "dishonestly", "taking"},
	"assault":    {"hurt", "grievous", "simple", "voluntarily", "causing hurt", "violence"},
	"criminal":   {"offence", "crime", "punishment", "penalty", "guilty", "liable"},
	"property":   {"movable", "immovable", "ownership", "possession", "dishonest"},
	"conspiracy": {"agreement", "common", "intention", "object", "abetment"},
	"cheating":   {"dishonest", "deception", "fraud", "induce", "deceive"},
	"defamation": {"reputation", "imputation", "harm", "words", "injure"},
	"kidnapping": {"abduction", "wrongful", "restraint", "confinement"},
	"rape":       {"sexual", "consent", "penetration", "assault", "intercourse"},
	"robbery":    {"theft", "extortion", "force", "fear", "violence"},
	"bribery":    {"corruption", "gratification", "illegal", "public servant"},
	"forgery":    {"false", "document", "signature", "fraudulent", "making"},
	"dowry":      {"marriage", "demand", "harassment", "death", "cruelty"},
	"domestic":   {"violence", "cruelty", "wife", "husband", "matrimonial"},
}

// semanticMatches counts how many related terms of the given keywords occur
// in the combined title and content text.
func semanticMatches(keywords []string, fullText string) int {
	count := 0
	for _, kw := range keywords {
		for _, related := range semanticGroups[kw] {
			if strings.Contains(fullText, related) {
				count++
			}
		}
	}
	return count
}
