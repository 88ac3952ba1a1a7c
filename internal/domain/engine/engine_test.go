package engine

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/corey/awmit/internal/domain/bank"
	"github.com/corey/awmit/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *bank.Registry {
	t.Helper()
	r, err := bank.Build([]bank.CategoryDef{
		{
			Category: "general",
			Label:    "General",
			Topics: []bank.TopicDef{
				{
					Name: "greetings",
					Answers: []bank.AnswerDef{
						{ID: "general-hello", Text: "Hello! I'm the AWMIT Agent. How can I help you today?", Next: []string{"What can you do?"}},
						{ID: "general-help", Text: "I handle basic greetings and point you to courses."},
					},
					Entries: []bank.EntryDef{
						{Keywords: []string{"hello", "hi", "hey"}, Answer: "general-hello"},
						{Keywords: []string{"help", "what can you do"}, Answer: "general-help"},
					},
					Suggestions: []bank.SuggestionDef{
						{Text: "Say hello", Keywords: []string{"hello", "hi", "hey"}},
						{Text: "What can the AWMIT Agent do?", Keywords: []string{"what", "can", "do", "help"}},
						{Text: "What is Stratos?", Keywords: []string{"what", "stratos"}},
					},
				},
				{
					Name: "recommend",
					Entries: []bank.EntryDef{{
						Keywords: []string{"recommend"},
						FollowUp: &bank.FollowUpDef{
							Question: "Which Stratos course?",
							Options: []bank.OptionDef{
								{Label: "Setup", Keywords: []string{"setup", "install"}, Answer: "stratos-setup-install"},
								{Label: "Workflows", Keywords: []string{"workflow"}, Answer: "stratos-workflows-deploy"},
							},
						},
					}},
				},
			},
		},
		{
			Category: "stratos",
			Label:    "Stratos",
			Courses: []bank.CourseDef{
				{Slug: "stratos-setup", Name: "Stratos Setup"},
				{Slug: "stratos-workflows", Name: "Stratos Workflows"},
			},
			Topics: []bank.TopicDef{
				{
					Name:   "intro",
					Course: "stratos-setup",
					Answers: []bank.AnswerDef{{
						ID:    "stratos-setup-install",
						Text:  "Run the Stratos installer to get started.",
						Video: &bank.VideoDef{Src: "modules/stratos-setup/intro.mp4", Label: "Install walkthrough"},
						Next:  []string{"How do I deploy?"},
					}},
					Entries:     []bank.EntryDef{{Keywords: []string{"install", "installer"}, Answer: "stratos-setup-install"}},
					Suggestions: []bank.SuggestionDef{{Text: "How do I install Stratos?", Keywords: []string{"install", "stratos"}}},
				},
				{
					Name:    "deploy",
					Course:  "stratos-workflows",
					Answers: []bank.AnswerDef{{ID: "stratos-workflows-deploy", Text: "Deploy with the Stratos workflow runner."}},
					Entries: []bank.EntryDef{{Keywords: []string{"deploy", "workflow"}, Answer: "stratos-workflows-deploy"}},
				},
			},
		},
	})
	require.NoError(t, err)
	return r
}

type recorder struct {
	mu     sync.Mutex
	events []ports.ResolveEvent
}

func (r *recorder) ObserveResolve(ev ports.ResolveEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) last() ports.ResolveEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func helloFollowUp() *FollowUpState {
	return &FollowUpState{
		Question: "Did you mean?",
		Options: []OptionState{
			{Label: "Hello", Keywords: []string{"hello"}, AnswerID: "general-hello"},
			{Label: "Help", Keywords: []string{"help"}, AnswerID: "general-help"},
		},
	}
}

func TestResolve_Answer(t *testing.T) {
	e := New(testRegistry(t))

	resp := e.Resolve("Hello!", nil, "")
	assert.Equal(t, TypeAnswer, resp.Type)
	assert.Equal(t, "general-hello", resp.AnswerID)
	assert.Equal(t, "Hello! I'm the AWMIT Agent. How can I help you today?", resp.Text)
	assert.Equal(t, []string{"What can you do?"}, resp.NextQuestions)
	assert.Nil(t, resp.ModuleRef)
	assert.Nil(t, resp.Video)
}

func TestResolve_EmptyQuery(t *testing.T) {
	e := New(testRegistry(t))
	assert.Equal(t, NoMatch(), e.Resolve("", nil, ""))
	assert.Equal(t, NoMatch(), e.Resolve("  ?!  ", nil, ""))
}

func TestResolve_NoOverlap(t *testing.T) {
	e := New(testRegistry(t))
	assert.Equal(t, NoMatch(), e.Resolve("purple elephant moon", nil, ""))
}

func TestResolve_UnknownScopeFallsBackToGlobal(t *testing.T) {
	e := New(testRegistry(t))
	assert.Equal(t, e.Resolve("hello", nil, ""), e.Resolve("hello", nil, "unknown-scope"))
	assert.Equal(t, e.Resolve("install", nil, ""), e.Resolve("install", nil, "unknown-scope"))
}

func TestResolve_PendingFollowUpOption(t *testing.T) {
	e := New(testRegistry(t))

	resp := e.Resolve("hello", helloFollowUp(), "")
	assert.Equal(t, TypeAnswer, resp.Type)
	assert.Equal(t, "general-hello", resp.AnswerID)

	resp = e.Resolve("help", helloFollowUp(), "")
	assert.Equal(t, "general-help", resp.AnswerID)
}

func TestResolve_PendingTakesPriorityOverBank(t *testing.T) {
	e := New(testRegistry(t))
	pending := &FollowUpState{Options: []OptionState{
		{Label: "Help", Keywords: []string{"hello"}, AnswerID: "general-help"},
		{Label: "Other", Keywords: []string{"other"}, AnswerID: "general-hello"},
	}}

	// "hello" matches a bank entry too, but the pending option wins
	resp := e.Resolve("hello", pending, "")
	assert.Equal(t, "general-help", resp.AnswerID)
}

func TestResolve_PendingTieKeepsFirstOption(t *testing.T) {
	e := New(testRegistry(t))
	pending := &FollowUpState{Options: []OptionState{
		{Keywords: []string{"hello"}, AnswerID: "general-help"},
		{Keywords: []string{"hello"}, AnswerID: "general-hello"},
	}}
	assert.Equal(t, "general-help", e.Resolve("hello", pending, "").AnswerID)
}

func TestResolve_PendingBelowThresholdFallsThrough(t *testing.T) {
	e := New(testRegistry(t))
	pending := &FollowUpState{Options: []OptionState{
		{Keywords: []string{"helpful"}, AnswerID: "general-help"},
		{Keywords: []string{"xyz"}, AnswerID: "general-help"},
	}}

	// neither option scores against "hello"
	resp := e.Resolve("hello", pending, "")
	assert.Equal(t, "general-hello", resp.AnswerID)
}

func TestResolve_PendingTargetOutOfScopeFallsThrough(t *testing.T) {
	e := New(testRegistry(t))
	pending := e.Resolve("recommend", nil, "").Pending()
	require.NotNil(t, pending)

	// the Setup option targets an answer the workflows course does not hold
	assert.Equal(t, NoMatch(), e.Resolve("install", pending, "stratos-workflows"))
	// inside the setup course the same pick resolves
	assert.Equal(t, "stratos-setup-install", e.Resolve("install", pending, "stratos-setup").AnswerID)
}

func TestResolve_MalformedPendingIgnored(t *testing.T) {
	e := New(testRegistry(t))
	assert.Equal(t, "general-hello", e.Resolve("hello", &FollowUpState{}, "").AnswerID)

	pending := &FollowUpState{Options: []OptionState{{Keywords: []string{"hello"}, AnswerID: "no-such-answer"}}}
	assert.Equal(t, "general-hello", e.Resolve("hello", pending, "").AnswerID)
}

func TestResolve_FollowUp(t *testing.T) {
	e := New(testRegistry(t))

	resp := e.Resolve("Can you recommend something?", nil, "")
	assert.Equal(t, TypeFollowUp, resp.Type)
	assert.Equal(t, "Which Stratos course?", resp.Question)
	require.Len(t, resp.Options, 2)
	assert.Equal(t, OptionState{Label: "Setup", Keywords: []string{"setup", "install"}, AnswerID: "stratos-setup-install"}, resp.Options[0])
	assert.Empty(t, resp.AnswerID)

	pending := resp.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, resp.Question, pending.Question)

	picked := e.Resolve("workflow", pending, "")
	assert.Equal(t, "stratos-workflows-deploy", picked.AnswerID)
	assert.Nil(t, picked.Pending())
}

func TestResolve_EditingResponseLeavesRegistryIntact(t *testing.T) {
	e := New(testRegistry(t))

	fu := e.Resolve("Can you recommend something?", nil, "")
	require.Len(t, fu.Options, 2)
	fu.Options[0].Keywords[0] = "changed"
	pending := fu.Pending()
	pending.Options[1].Keywords[0] = "changed"

	again := e.Resolve("Can you recommend something?", nil, "")
	assert.Equal(t, []string{"setup", "install"}, again.Options[0].Keywords)
	assert.Equal(t, "workflow", again.Options[1].Keywords[0])

	ans := e.ResolveByAnswerID("stratos-setup-install")
	require.NotEmpty(t, ans.NextQuestions)
	want := ans.NextQuestions[0]
	ans.NextQuestions[0] = "changed"
	assert.Equal(t, want, e.ResolveByAnswerID("stratos-setup-install").NextQuestions[0])

	rows := e.Autocomplete("what", "", 1)
	require.Len(t, rows, 1)
	kw := rows[0].Keywords[0]
	rows[0].Keywords[0] = "changed"
	assert.Equal(t, kw, e.Autocomplete("what", "", 1)[0].Keywords[0])
}

func TestResolve_ModuleRefOnlyInGlobalContext(t *testing.T) {
	e := New(testRegistry(t))

	global := e.Resolve("install", nil, "")
	assert.Equal(t, "stratos-setup-install", global.AnswerID)
	require.NotNil(t, global.ModuleRef)
	assert.Equal(t, ModuleRef{Name: "Stratos Setup", URL: "/modules/stratos-setup"}, *global.ModuleRef)
	require.NotNil(t, global.Video)
	assert.Equal(t, "modules/stratos-setup/intro.mp4", global.Video.Src)
	assert.Equal(t, []string{"How do I deploy?"}, global.NextQuestions)

	scoped := e.Resolve("install", nil, "stratos-setup")
	assert.Equal(t, "stratos-setup-install", scoped.AnswerID)
	assert.Nil(t, scoped.ModuleRef)
	assert.NotNil(t, scoped.Video)
	assert.Equal(t, []string{"How do I deploy?"}, scoped.NextQuestions)

	unknown := e.Resolve("install", nil, "no-such-course")
	require.NotNil(t, unknown.ModuleRef)
	assert.Equal(t, "/modules/stratos-setup", unknown.ModuleRef.URL)
}

func TestResolve_ScopeContainment(t *testing.T) {
	e := New(testRegistry(t))

	// global answers are invisible inside a course
	assert.Equal(t, NoMatch(), e.Resolve("hello", nil, "stratos-setup"))
	// so are other courses' answers
	assert.Equal(t, NoMatch(), e.Resolve("deploy", nil, "stratos-setup"))
	assert.Equal(t, "stratos-workflows-deploy", e.Resolve("deploy", nil, "stratos-workflows").AnswerID)
}

func TestResolve_Deterministic(t *testing.T) {
	e := New(testRegistry(t))
	queries := []string{"hello", "recommend", "install stratos", "what can you do", "purple"}
	for _, q := range queries {
		first := e.Resolve(q, helloFollowUp(), "")
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, e.Resolve(q, helloFollowUp(), ""), q)
		}
	}
}

func TestResolve_ThresholdLaw(t *testing.T) {
	rec := &recorder{}
	e := New(testRegistry(t), WithObserver(rec))

	queries := []string{"hello", "h", "he", "hel", "instal", "install", "recommend", "rec", "what", "do", "a", "help me", "deploy workflow"}
	for _, q := range queries {
		resp := e.Resolve(q, nil, "")
		ev := rec.last()
		if resp.Type == TypeNoMatch {
			assert.Less(t, ev.Score, 5, q)
		} else {
			assert.GreaterOrEqual(t, ev.Score, 5, q)
		}
	}
}

func TestResolve_ObserverEvent(t *testing.T) {
	rec := &recorder{}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := New(testRegistry(t), WithObserver(rec), WithClock(func() time.Time { return at }))

	e.Resolve("Purple elephant, moon!", nil, "")
	assert.Equal(t, ports.ResolveEvent{Query: "purple elephant moon", Scope: "", Type: "noMatch", At: at}, rec.last())

	e.Resolve("install", nil, "stratos-setup")
	ev := rec.last()
	assert.Equal(t, "stratos-setup", ev.Scope)
	assert.Equal(t, "answer", ev.Type)
	assert.Equal(t, "stratos-setup-install", ev.AnswerID)
	assert.Equal(t, 17, ev.Score)

	e.Resolve("hello", nil, "no-such-course")
	assert.Equal(t, "", rec.last().Scope)
}

func TestResolveByAnswerID(t *testing.T) {
	e := New(testRegistry(t))

	resp := e.ResolveByAnswerID("stratos-setup-install")
	assert.Equal(t, TypeAnswer, resp.Type)
	assert.Equal(t, "Run the Stratos installer to get started.", resp.Text)
	require.NotNil(t, resp.ModuleRef)
	assert.Equal(t, "/modules/stratos-setup", resp.ModuleRef.URL)

	assert.Equal(t, NoMatch(), e.ResolveByAnswerID("no-such-answer"))
	assert.Equal(t, NoMatch(), e.ResolveByAnswerID(""))
}

func TestAutocomplete(t *testing.T) {
	e := New(testRegistry(t))

	assert.Equal(t, []bank.Suggestion{}, e.Autocomplete("", "", 5))

	got := e.Autocomplete("what", "", 2)
	require.Len(t, got, 2)
	// both score 15; declaration order breaks the tie
	assert.Equal(t, "What can the AWMIT Agent do?", got[0].Text)
	assert.Equal(t, "What is Stratos?", got[1].Text)
}

func TestAutocomplete_SortsByScore(t *testing.T) {
	e := New(testRegistry(t))

	got := e.Autocomplete("what is stratos", "", 0)
	require.NotEmpty(t, got)
	assert.Equal(t, "What is Stratos?", got[0].Text)
	assert.LessOrEqual(t, len(got), DefaultSuggestionLimit)
}

func TestAutocomplete_Scoped(t *testing.T) {
	e := New(testRegistry(t))

	got := e.Autocomplete("install", "stratos-setup", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "How do I install Stratos?", got[0].Text)

	none := e.Autocomplete("hello", "stratos-setup", 5)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := New(testRegistry(t), WithObserver(&recorder{}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, "general-hello", e.Resolve("hello", nil, "").AnswerID)
				e.Autocomplete("what", "", 3)
			}
		}()
	}
	wg.Wait()
}

func TestResponse_WireShape(t *testing.T) {
	data, err := json.Marshal(NoMatch())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"noMatch"}`, string(data))

	e := New(testRegistry(t))
	data, err = json.Marshal(e.Resolve("install", nil, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "answer",
		"answerId": "stratos-setup-install",
		"text": "Run the Stratos installer to get started.",
		"video": {"src": "modules/stratos-setup/intro.mp4", "label": "Install walkthrough"},
		"nextQuestions": ["How do I deploy?"],
		"moduleRef": {"name": "Stratos Setup", "url": "/modules/stratos-setup"}
	}`, string(data))
}

func TestFollowUpState_DecodesFromWire(t *testing.T) {
	var fu FollowUpState
	err := json.Unmarshal([]byte(`{"question":"Which?","options":[{"label":"Hello","keywords":["hello"],"answerId":"general-hello"}]}`), &fu)
	require.NoError(t, err)
	assert.Equal(t, "general-hello", fu.Options[0].AnswerID)
}
