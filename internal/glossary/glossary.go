// Package glossary maps grant-speak terms to plain-language definitions
// and annotates requirement text with inline definitions.
package glossary

import (
	"embed"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/glossary.yaml
var glossaryYAML embed.FS

// Term is a single glossary entry.
type Term struct {
	Term       string `yaml:"term" json:"term"`
	Definition string `yaml:"definition" json:"definition"`
}

type glossaryFile struct {
	Terms []Term `yaml:"terms"`
}

// Segment is a run of annotated text. Term and Definition are empty for
// runs that matched no glossary entry; Text is always the verbatim input
// slice, original casing preserved.
type Segment struct {
	Text       string `json:"text"`
	Term       string `json:"term,omitempty"`
	Definition string `json:"definition,omitempty"`
}

var (
	loadOnce sync.Once
	loadErr  error

	entries map[string]string // lowercased term -> definition
	ordered []Term            // file order, for listing
	matcher *regexp.Regexp    // longest-match-first alternation
)

func load() error {
	loadOnce.Do(func() {
		data, err := glossaryYAML.ReadFile("config/glossary.yaml")
		if err != nil {
			loadErr = fmt.Errorf("failed to read embedded glossary: %w", err)
			return
		}
		var f glossaryFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			loadErr = fmt.Errorf("failed to parse glossary: %w", err)
			return
		}

		entries = make(map[string]string, len(f.Terms))
		for _, t := range f.Terms {
			entries[strings.ToLower(t.Term)] = t.Definition
		}
		ordered = f.Terms

		// Longer keys first so "sustainability plan" wins over
		// "sustainability" at the same position.
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if len(keys[i]) != len(keys[j]) {
				return len(keys[i]) > len(keys[j])
			}
			return keys[i] < keys[j]
		})
		for i, k := range keys {
			keys[i] = regexp.QuoteMeta(k)
		}
		matcher, err = regexp.Compile(`(?i)\b(` + strings.Join(keys, "|") + `)\b`)
		if err != nil {
			loadErr = fmt.Errorf("failed to compile glossary matcher: %w", err)
		}
	})
	return loadErr
}

// Lookup returns the plain-language definition for a term,
// case-insensitively. The second return is false for unknown terms.
func Lookup(term string) (string, bool) {
	if err := load(); err != nil {
		return "", false
	}
	def, ok := entries[strings.ToLower(strings.TrimSpace(term))]
	return def, ok
}

// Terms returns all glossary entries in their authored order.
func Terms() []Term {
	if err := load(); err != nil {
		return nil
	}
	out := make([]Term, len(ordered))
	copy(out, ordered)
	return out
}

// Annotate splits text into segments, marking every non-overlapping,
// word-boundary occurrence of a glossary term with its key and
// definition. Non-matching text passes through verbatim.
func Annotate(text string) []Segment {
	if text == "" {
		return nil
	}
	if err := load(); err != nil {
		return []Segment{{Text: text}}
	}

	var segs []Segment
	last := 0
	for _, loc := range matcher.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segs = append(segs, Segment{Text: text[last:loc[0]]})
		}
		surface := text[loc[0]:loc[1]]
		key := strings.ToLower(surface)
		segs = append(segs, Segment{Text: surface, Term: key, Definition: entries[key]})
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, Segment{Text: text[last:]})
	}
	return segs
}

// AnnotateHTML renders the annotated text as HTML, wrapping matched terms
// in span carriers the way web presentation layers expect.
func AnnotateHTML(text string) string {
	var b strings.Builder
	for _, seg := range Annotate(text) {
		if seg.Term == "" {
			b.WriteString(html.EscapeString(seg.Text))
			continue
		}
		b.WriteString(`<span class="jargon-term" data-term="` + html.EscapeString(seg.Term) +
			`" title="` + html.EscapeString(seg.Definition) + `">` +
			html.EscapeString(seg.Text) + `</span>`)
	}
	return b.String()
}
