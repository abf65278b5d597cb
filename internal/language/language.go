package language

import "strings"

// Language is the detected natural language of user input. It drives the
// response-structure instructions sent to the model and the headings of
// the locally generated fallback and footer text.
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Punjabi Language = "pa"
)

func (l Language) DisplayName() string {
	switch l {
	case Hindi:
		return "Hindi"
	case Punjabi:
		return "Punjabi"
	default:
		return "English"
	}
}

// Transliterated function words and legal vocabulary, used to vote on the
// language of Latin-script input. Words shared between Hindi and Punjabi
// count for both; the majority wins.
var transliterated = map[Language][]string{
	Hindi: {
		"kya", "hai", "hain", "kaise", "kyun", "nahi", "mujhe", "mera", "meri",
		"aap", "apka", "kanoon", "dhara", "saza", "jurm", "gunah", "adalat",
		"giraftar", "shikayat", "batao", "bataiye", "chahiye", "hoga", "hogi",
	},
	Punjabi: {
		"ki", "hai", "kiven", "kyon", "nahi", "mainu", "menu", "tusi", "twanu",
		"tuhada", "kanoon", "dhara", "saza", "jurm", "adalat", "giraftar",
		"shikayat", "dasso", "chahida", "hovega", "kithe", "haan",
	},
}

// Detect determines the language of user text. Non-Latin scripts are the
// fast path: a single Devanagari or Gurmukhi rune decides immediately.
// Latin-script text falls through to a transliterated-keyword vote; the
// default is English.
func Detect(text string) Language {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return Hindi
		}
		if r >= 0x0A00 && r <= 0x0A7F {
			return Punjabi
		}
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return English
	}

	votes := map[Language]int{}
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:'\"()")
		for lang, vocab := range transliterated {
			for _, known := range vocab {
				if word == known {
					votes[lang]++
					break
				}
			}
		}
	}

	best := English
	bestVotes := 0
	for _, lang := range []Language{Hindi, Punjabi} {
		if votes[lang] > bestVotes {
			best = lang
			bestVotes = votes[lang]
		}
	}

	// A single transliterated word is too weak a signal to switch.
	if bestVotes < 2 {
		return English
	}
	return best
}
