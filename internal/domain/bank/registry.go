package bank

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Registry is the immutable set of banks built from content.
type Registry struct {
	global      *Bank
	courses     map[string]*Bank
	courseOrder []CourseRef
	owners      map[string]CourseRef
	chips       []Chip
	categories  int
	topics      int
}

// IntegrityError lists every load-time content fault found by Build.
type IntegrityError struct {
	Problems []string
}

func (e *IntegrityError) Error() string {
	if len(e.Problems) == 1 {
		return "bank integrity: " + e.Problems[0]
	}
	return fmt.Sprintf("bank integrity: %d problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

// Build assembles a Registry from decoded category definitions.
// Categories keep their slice order; within a category, topics, answers and
// entries keep declaration order. Any integrity fault aborts the build with
// an *IntegrityError naming every problem found.
func Build(defs []CategoryDef) (*Registry, error) {
	r := &Registry{
		global:     newBank("", "Global"),
		courses:    make(map[string]*Bank),
		owners:     make(map[string]CourseRef),
		categories: len(defs),
	}
	var p problems

	for _, def := range defs {
		for _, c := range def.Courses {
			if c.Slug == "" {
				p.addf("%s: course with empty slug", def.where())
				continue
			}
			if _, dup := r.courses[c.Slug]; dup {
				p.addf("%s: duplicate course slug %q", def.where(), c.Slug)
				continue
			}
			ref := CourseRef{Slug: c.Slug, Name: c.Name, URL: CourseURLPrefix + c.Slug}
			if ref.Name == "" {
				ref.Name = titleFromSlug(c.Slug)
			}
			r.courses[c.Slug] = newBank(c.Slug, ref.Name)
			r.courseOrder = append(r.courseOrder, ref)
		}
	}

	var catalogLabels []string
	for _, def := range defs {
		declared := make(map[string]bool, len(def.Courses))
		for _, c := range def.Courses {
			declared[c.Slug] = true
		}
		if len(def.Courses) > 0 {
			catalogLabels = appendUnique(catalogLabels, def.label())
		}

		for _, ch := range def.Chips {
			r.chips = append(r.chips, Chip(ch))
		}

		for _, topic := range def.Topics {
			r.topics++
			var course *Bank
			if topic.Course != "" {
				if !declared[topic.Course] {
					p.addf("%s: topic %q references undeclared course %q", def.where(), topic.Name, topic.Course)
					continue
				}
				course = r.courses[topic.Course]
			}
			r.addTopic(def, topic, course, &p)
		}
	}

	if len(r.courseOrder) > 0 {
		addCatalog(r.global, catalogLabels)
	}

	validateRefs(r.global, &p)
	for _, ref := range r.courseOrder {
		validateRefs(r.courses[ref.Slug], &p)
	}

	if len(p) > 0 {
		return nil, &IntegrityError{Problems: p}
	}
	return r, nil
}

func (r *Registry) addTopic(def CategoryDef, topic TopicDef, course *Bank, p *problems) {
	for _, a := range topic.Answers {
		switch {
		case a.ID == "":
			p.addf("%s: topic %q has an answer with empty id", def.where(), topic.Name)
			continue
		case strings.TrimSpace(a.Text) == "":
			p.addf("%s: answer %q has empty text", def.where(), a.ID)
			continue
		}
		if _, dup := r.global.Answers[a.ID]; dup {
			p.addf("%s: duplicate answer id %q", def.where(), a.ID)
			continue
		}
		r.global.addAnswer(a)
		if course != nil {
			course.addAnswer(a)
			r.owners[a.ID] = r.courseRef(course.Scope)
		}
	}

	for i, ed := range topic.Entries {
		e, err := toEntry(ed)
		if err != nil {
			p.addf("%s: topic %q entry %d: %v", def.where(), topic.Name, i+1, err)
			continue
		}
		r.global.Entries = append(r.global.Entries, e)
		if course != nil {
			course.Entries = append(course.Entries, e)
		}
	}

	for _, sd := range topic.Suggestions {
		s := Suggestion(sd)
		r.global.Suggestions = append(r.global.Suggestions, s)
		if course != nil {
			course.Suggestions = append(course.Suggestions, s)
		}
	}
}

func toEntry(def EntryDef) (Entry, error) {
	if len(def.Keywords) == 0 {
		return Entry{}, fmt.Errorf("no keywords")
	}
	switch {
	case def.Answer != "" && def.FollowUp != nil:
		return Entry{}, fmt.Errorf("has both answer and followUp")
	case def.Answer != "":
		return Entry{Keywords: def.Keywords, Target: AnswerRef{ID: def.Answer}}, nil
	case def.FollowUp == nil:
		return Entry{}, fmt.Errorf("has neither answer nor followUp")
	}

	fu := def.FollowUp
	if strings.TrimSpace(fu.Question) == "" {
		return Entry{}, fmt.Errorf("followUp has empty question")
	}
	if len(fu.Options) < 2 {
		return Entry{}, fmt.Errorf("followUp needs at least 2 options, has %d", len(fu.Options))
	}
	out := &FollowUp{Question: fu.Question, Options: make([]Option, 0, len(fu.Options))}
	for i, o := range fu.Options {
		if len(o.Keywords) == 0 {
			return Entry{}, fmt.Errorf("followUp option %d has no keywords", i+1)
		}
		if o.Answer == "" {
			return Entry{}, fmt.Errorf("followUp option %d has no answer", i+1)
		}
		out.Options = append(out.Options, Option{Label: o.Label, Keywords: o.Keywords, AnswerID: o.Answer})
	}
	return Entry{Keywords: def.Keywords, Target: out}, nil
}

// validateRefs checks that every answer id referenced inside b exists in b.
func validateRefs(b *Bank, p *problems) {
	scope := "global scope"
	if !b.IsGlobal() {
		scope = fmt.Sprintf("course %q", b.Scope)
	}
	for _, e := range b.Entries {
		switch t := e.Target.(type) {
		case AnswerRef:
			if _, ok := b.Answers[t.ID]; !ok {
				p.addf("%s: entry %q references unknown answer %q", scope, e.Keywords[0], t.ID)
			}
		case *FollowUp:
			for _, o := range t.Options {
				if _, ok := b.Answers[o.AnswerID]; !ok {
					p.addf("%s: followUp %q option %q references unknown answer %q", scope, t.Question, o.Label, o.AnswerID)
				}
			}
		}
	}
	for id := range b.Videos {
		if _, ok := b.Answers[id]; !ok {
			p.addf("%s: video for unknown answer %q", scope, id)
		}
	}
	for id := range b.NextQuestions {
		if _, ok := b.Answers[id]; !ok {
			p.addf("%s: next questions for unknown answer %q", scope, id)
		}
	}
}

// Global returns the global bank.
func (r *Registry) Global() *Bank { return r.global }

// Course returns the bank of a course scope.
func (r *Registry) Course(slug string) (*Bank, bool) {
	b, ok := r.courses[slug]
	return b, ok
}

// Resolve returns the bank for scope, falling back to the global bank when
// scope is empty or unknown.
func (r *Registry) Resolve(scope string) *Bank {
	if b, ok := r.courses[scope]; ok {
		return b
	}
	return r.global
}

// Owner returns the course that owns an answer, if any.
func (r *Registry) Owner(answerID string) (CourseRef, bool) {
	ref, ok := r.owners[answerID]
	return ref, ok
}

// Courses returns every course in declaration order.
func (r *Registry) Courses() []CourseRef {
	out := make([]CourseRef, len(r.courseOrder))
	copy(out, r.courseOrder)
	return out
}

// Chips returns the quick-start chips in declaration order.
func (r *Registry) Chips() []Chip {
	out := make([]Chip, len(r.chips))
	copy(out, r.chips)
	return out
}

// Stats counts the content in the registry. Answers, entries and suggestions
// are counted in the global bank, which includes every course's content.
func (r *Registry) Stats() Stats {
	return Stats{
		Categories:  r.categories,
		Topics:      r.topics,
		Courses:     len(r.courseOrder),
		Answers:     len(r.global.Answers),
		Entries:     len(r.global.Entries),
		Suggestions: len(r.global.Suggestions),
		Videos:      len(r.global.Videos),
	}
}

func (r *Registry) courseRef(slug string) CourseRef {
	for _, ref := range r.courseOrder {
		if ref.Slug == slug {
			return ref
		}
	}
	return CourseRef{Slug: slug, URL: CourseURLPrefix + slug}
}

func (c CategoryDef) where() string {
	if c.source != "" {
		return c.source
	}
	return "category " + c.Category
}

func (c CategoryDef) label() string {
	if c.Label != "" {
		return c.Label
	}
	return titleFromSlug(c.Category)
}

func titleFromSlug(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
