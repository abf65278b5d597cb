package composer

import (
	"fmt"
	"strings"

	"github.com/jackryan100123/nyaya-sahayak/internal/language"
	"github.com/jackryan100123/nyaya-sahayak/internal/models"
)

// headings are the localized section labels used in prompts, the fallback
// listing and the analysis footer.
type headings struct {
	Answer        string
	CurrentLaw    string
	PreviousLaw   string
	KeyChanges    string
	Practical     string
	SearchResults string
	Analysis      string
	Title         string
	Chapter       string
	Content       string
	Matches       string
	NoSections    string
}

var headingSets = map[language.Language]headings{
	language.English: {
		Answer:        "Answer",
		CurrentLaw:    "Current Law (BNS/BNSS/BSA)",
		PreviousLaw:   "Previous Law (IPC/CrPC/IEA)",
		KeyChanges:    "Key Changes",
		Practical:     "Practical Information",
		SearchResults: "Legal Search Results",
		Analysis:      "Legal Analysis",
		Title:         "Title",
		Chapter:       "Chapter",
		Content:       "Content",
		Matches:       "Matches",
		NoSections:    "No matching sections were found in the statute database.",
	},
	language.Hindi: {
		Answer:        "उत्तर",
		CurrentLaw:    "वर्तमान कानून (BNS/BNSS/BSA)",
		PreviousLaw:   "पूर्व कानून (IPC/CrPC/IEA)",
		KeyChanges:    "मुख्य बदलाव",
		Practical:     "व्यावहारिक जानकारी",
		SearchResults: "कानूनी खोज परिणाम",
		Analysis:      "कानूनी विश्लेषण",
		Title:         "शीर्षक",
		Chapter:       "अध्याय",
		Content:       "विवरण",
		Matches:       "मिलान",
		NoSections:    "कानून डेटाबेस में कोई मेल खाती धारा नहीं मिली। (No matching sections were found.)",
	},
	language.Punjabi: {
		Answer:        "ਜਵਾਬ",
		CurrentLaw:    "ਮੌਜੂਦਾ ਕਾਨੂੰਨ (BNS/BNSS/BSA)",
		PreviousLaw:   "ਪਿਛਲਾ ਕਾਨੂੰਨ (IPC/CrPC/IEA)",
		KeyChanges:    "ਮੁੱਖ ਬਦਲਾਅ",
		Practical:     "ਵਿਹਾਰਕ ਜਾਣਕਾਰੀ",
		SearchResults: "ਕਾਨੂੰਨੀ ਖੋਜ ਨਤੀਜੇ",
		Analysis:      "ਕਾਨੂੰਨੀ ਵਿਸ਼ਲੇਸ਼ਣ",
		Title:         "ਸਿਰਲੇਖ",
		Chapter:       "ਅਧਿਆਇ",
		Content:       "ਵੇਰਵਾ",
		Matches:       "ਮਿਲਾਨ",
		NoSections:    "ਕਾਨੂੰਨ ਡੇਟਾਬੇਸ ਵਿੱਚ ਕੋਈ ਮੇਲ ਖਾਂਦੀ ਧਾਰਾ ਨਹੀਂ ਮਿਲੀ। (No matching sections were found.)",
	},
}

func headingsFor(lang language.Language) headings {
	if h, ok := headingSets[lang]; ok {
		return h
	}
	return headingSets[language.English]
}

const fallbackMaxSections = 10
const contentTruncateRunes = 300

// FormatSectionsFallback is the fully local response used when the remote
// model is unavailable: the top sections grouped by law recency, each with
// title, chapter, matched keywords and truncated content. It reads only
// already-available in-memory data.
func FormatSectionsFallback(sections []models.ScoredSection, lang language.Language) string {
	h := headingsFor(lang)
	if len(sections) == 0 {
		return h.NoSections
	}

	top := sections
	if len(top) > fallbackMaxSections {
		top = top[:fallbackMaxSections]
	}

	var current, superseded []models.ScoredSection
	for _, s := range top {
		if s.Section.IsCurrentLaw {
			current = append(current, s)
		} else {
			superseded = append(superseded, s)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 **%s**\n\n", h.SearchResults)
	fmt.Fprintf(&b, "📊 **%s:** Found %d total sections (%d current law, %d superseded law). Showing top %d most relevant:\n\n",
		h.Analysis, len(sections), len(current), len(superseded), len(top))

	if len(current) > 0 {
		fmt.Fprintf(&b, "## 📖 **%s**\n\n", h.CurrentLaw)
		writeSectionGroup(&b, current, h)
	}
	if len(superseded) > 0 {
		fmt.Fprintf(&b, "## ⚖️ **%s**\n\n", h.PreviousLaw)
		writeSectionGroup(&b, superseded, h)
	}

	if len(current) > 0 && len(superseded) > 0 {
		b.WriteString("\n🔄 **Note:** BNS, BNSS and BSA are the current laws that replaced IPC, CrPC and IEA. The sections above show both current and previous provisions for comparison.\n")
	}

	return b.String()
}

func writeSectionGroup(b *strings.Builder, group []models.ScoredSection, h headings) {
	for i, s := range group {
		fmt.Fprintf(b, "**%d. %s Section %s** (%s confidence)\n",
			i+1, s.Section.CodeType, s.Section.SectionNumber, s.ConfidenceLevel)
		fmt.Fprintf(b, "**%s:** %s\n", h.Title, s.Section.Title)
		if s.Section.ChapterTitle != "" {
			chapter := s.Section.ChapterTitle
			if s.Section.ChapterName != "" {
				chapter += " - " + s.Section.ChapterName
			}
			fmt.Fprintf(b, "**%s:** %s\n", h.Chapter, chapter)
		}
		if len(s.MatchedKeywords) > 0 {
			fmt.Fprintf(b, "**%s:** %s\n", h.Matches, strings.Join(s.MatchedKeywords, ", "))
		}
		fmt.Fprintf(b, "**%s:** %s\n\n", h.Content, truncate(s.Section.FullContent(), contentTruncateRunes))
	}
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// analysisFooter summarizes the run from local data alone: confidence
// distribution and current-versus-superseded coverage. It is appended to
// every legal answer, model-generated or fallback.
func analysisFooter(sections []models.ScoredSection, selected int, lang language.Language) string {
	h := headingsFor(lang)

	high, medium := 0, 0
	current, superseded := 0, 0
	for _, s := range sections {
		switch s.ConfidenceLevel {
		case models.ConfidenceHigh:
			high++
		case models.ConfidenceMedium:
			medium++
		}
		if s.Section.IsCurrentLaw {
			current++
		} else {
			superseded++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **%s:** Found %d matching sections across current and superseded laws. ", h.Analysis, len(sections))
	fmt.Fprintf(&b, "Analyzed %d current-law sections and %d superseded-law sections. ", current, superseded)

	switch {
	case high > 0:
		fmt.Fprintf(&b, "%d high-confidence matches", high)
		if medium > 0 {
			fmt.Fprintf(&b, " and %d medium-confidence matches", medium)
		}
		b.WriteString(". Response prioritized current law with superseded-law comparison.")
	case medium > 0:
		fmt.Fprintf(&b, "%d medium-confidence matches found. Response covers the most relevant sections from both laws.", medium)
	default:
		fmt.Fprintf(&b, "Showing top %d most relevant sections from comprehensive analysis.", selected)
	}

	switch {
	case current > 0 && superseded > 0:
		b.WriteString(" Both current and superseded provisions analyzed.")
	case current > 0:
		b.WriteString(" Results show current-law provisions only.")
	case superseded > 0:
		b.WriteString(" Results show superseded-law provisions only.")
	}

	return b.String()
}
