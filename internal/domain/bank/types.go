// Package bank holds the answer banks the resolution engine scores against.
//
// Content is declared as YAML category files (see CategoryDef), decoded by
// Load and assembled by Build into an immutable Registry: one global bank
// that is the union of every category, plus one bank per course holding only
// that course's topics. A Registry is never mutated after Build, so any
// number of goroutines may read it without locking.
package bank

// CourseURLPrefix is prepended to a course slug to form its page URL.
const CourseURLPrefix = "/modules/"

// Answer is a pre-written reply.
type Answer struct {
	ID    string
	Text  string
	Video *Video
	Next  []string
}

// Video is walkthrough metadata attached to an answer.
type Video struct {
	Src       string `json:"src"`
	Label     string `json:"label"`
	ModuleURL string `json:"moduleUrl,omitempty"`
}

// Target is what a scoring entry resolves to: an AnswerRef or a *FollowUp.
type Target interface {
	isTarget()
}

// AnswerRef points an entry at an answer id.
type AnswerRef struct {
	ID string
}

// FollowUp is a clarifying question offered when a query is ambiguous.
type FollowUp struct {
	Question string
	Options  []Option
}

// Option is one choice of a FollowUp.
type Option struct {
	Label    string
	Keywords []string
	AnswerID string
}

func (AnswerRef) isTarget() {}
func (*FollowUp) isTarget() {}

// Entry maps trigger keywords to a Target.
type Entry struct {
	Keywords []string
	Target   Target
}

// Suggestion is an autocomplete row.
type Suggestion struct {
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
}

// Chip is a quick-start prompt shown under the chat input.
type Chip struct {
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// CourseRef identifies the course that owns an answer.
type CourseRef struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Bank is the content of one scope. Scope is "" for the global bank.
// All fields are read-only after Build.
type Bank struct {
	Scope         string
	Name          string
	Answers       map[string]string
	Order         []string // answer ids in declaration order
	Entries       []Entry
	Suggestions   []Suggestion
	Videos        map[string]Video
	NextQuestions map[string][]string
}

// IsGlobal reports whether b is the global bank.
func (b *Bank) IsGlobal() bool { return b.Scope == "" }

// Answer returns the answer with the given id including its side-table data.
// The result shares no memory with b.
func (b *Bank) Answer(id string) (Answer, bool) {
	text, ok := b.Answers[id]
	if !ok {
		return Answer{}, false
	}
	a := Answer{ID: id, Text: text}
	if nq := b.NextQuestions[id]; len(nq) > 0 {
		a.Next = append([]string(nil), nq...)
	}
	if v, ok := b.Videos[id]; ok {
		a.Video = &v
	}
	return a, true
}

func newBank(scope, name string) *Bank {
	return &Bank{
		Scope:         scope,
		Name:          name,
		Answers:       make(map[string]string),
		Videos:        make(map[string]Video),
		NextQuestions: make(map[string][]string),
	}
}

func (b *Bank) addAnswer(a AnswerDef) {
	b.Answers[a.ID] = a.Text
	b.Order = append(b.Order, a.ID)
	if a.Video != nil {
		b.Videos[a.ID] = Video(*a.Video)
	}
	if len(a.Next) > 0 {
		b.NextQuestions[a.ID] = a.Next
	}
}

// Stats summarizes a Registry.
type Stats struct {
	Categories  int `json:"categories"`
	Topics      int `json:"topics"`
	Courses     int `json:"courses"`
	Answers     int `json:"answers"`
	Entries     int `json:"entries"`
	Suggestions int `json:"suggestions"`
	Videos      int `json:"videos"`
}
