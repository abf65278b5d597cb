package corpus

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/jackryan100123/nyaya-sahayak/internal/models"
)

//go:embed data/*.json
var lawFiles embed.FS

// The bundled statute files come in two shapes: the 2023 codes are grouped
// into chapters, the superseded codes are flat section lists with different
// field names. Both are normalized into models.LawSection exactly once, at
// load time.

type chapterRecord struct {
	ChapterTitle string          `json:"chapter_title"`
	ChapterName  string          `json:"chapter_name"`
	Sections     []sectionRecord `json:"sections"`
}

type sectionRecord struct {
	SectionNumber string          `json:"section_number"`
	SectionTitle  string          `json:"section_title"`
	Content       json.RawMessage `json:"content"`
}

type flatRecord struct {
	Section      string `json:"Section"`
	Chapter      string `json:"chapter"`
	ChapterTitle string `json:"chapter_title"`
	SectionTitle string `json:"section_title"`
	SectionDesc  string `json:"section_desc"`
}

var sources = []struct {
	code      models.CodeType
	file      string
	chaptered bool
}{
	{models.CodeBNS, "data/bns.json", true},
	{models.CodeBNSS, "data/bnss.json", true},
	{models.CodeBSA, "data/bsa.json", true},
	{models.CodeIPC, "data/ipc.json", false},
	{models.CodeCrPC, "data/crpc.json", false},
	{models.CodeIEA, "data/iea.json", false},
}

// Corpus is the process-wide, read-only collection of law sections.
type Corpus struct {
	sections []models.LawSection
	byCode   map[models.CodeType]map[string]int
}

// Load parses every bundled statute file and normalizes it. The returned
// corpus is shared by all conversations and never mutated.
func Load() (*Corpus, error) {
	c := &Corpus{byCode: make(map[models.CodeType]map[string]int)}

	for _, src := range sources {
		data, err := lawFiles.ReadFile(src.file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src.file, err)
		}

		if src.chaptered {
			var chapters []chapterRecord
			if err := json.Unmarshal(data, &chapters); err != nil {
				return nil, fmt.Errorf("parse %s: %w", src.file, err)
			}
			for _, ch := range chapters {
				for _, sec := range ch.Sections {
					content, err := decodeContent(sec.Content)
					if err != nil {
						return nil, fmt.Errorf("parse %s section %s: %w", src.file, sec.SectionNumber, err)
					}
					c.add(models.LawSection{
						SectionNumber: sec.SectionNumber,
						Title:         sec.SectionTitle,
						Content:       content,
						ChapterTitle:  ch.ChapterTitle,
						ChapterName:   ch.ChapterName,
						CodeType:      src.code,
						IsCurrentLaw:  src.code.IsCurrent(),
					})
				}
			}
		} else {
			var records []flatRecord
			if err := json.Unmarshal(data, &records); err != nil {
				return nil, fmt.Errorf("parse %s: %w", src.file, err)
			}
			for _, rec := range records {
				chapterTitle := rec.ChapterTitle
				if chapterTitle == "" && rec.Chapter != "" {
					chapterTitle = "Chapter " + rec.Chapter
				}
				c.add(models.LawSection{
					SectionNumber: rec.Section,
					Title:         rec.SectionTitle,
					Content:       []string{rec.SectionDesc},
					ChapterTitle:  chapterTitle,
					CodeType:      src.code,
					IsCurrentLaw:  src.code.IsCurrent(),
				})
			}
		}
	}

	return c, nil
}

func (c *Corpus) add(sec models.LawSection) {
	idx, ok := c.byCode[sec.CodeType]
	if !ok {
		idx = make(map[string]int)
		c.byCode[sec.CodeType] = idx
	}
	idx[sec.SectionNumber] = len(c.sections)
	c.sections = append(c.sections, sec)
}

// Sections returns the flattened section list across all codes. Callers
// must treat it as read-only.
func (c *Corpus) Sections() []models.LawSection {
	return c.sections
}

// Section looks up one provision by code and section number.
func (c *Corpus) Section(code models.CodeType, number string) (models.LawSection, bool) {
	idx, ok := c.byCode[code]
	if !ok {
		return models.LawSection{}, false
	}
	i, ok := idx[number]
	if !ok {
		return models.LawSection{}, false
	}
	return c.sections[i], true
}

func (c *Corpus) Len() int {
	return len(c.sections)
}

// decodeContent accepts either a single string or an ordered list of
// paragraphs; both occur in the source files.
func decodeContent(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []string{single}, nil
}
