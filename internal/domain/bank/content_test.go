package bank

import (
	"testing"

	"github.com/corey/awmit/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadContent(t *testing.T) *Registry {
	t.Helper()
	r, err := LoadRegistry(content.FS, "v1")
	require.NoError(t, err)
	return r
}

func TestContent_Loads(t *testing.T) {
	r := loadContent(t)

	st := r.Stats()
	assert.Equal(t, 6, st.Categories)
	assert.Equal(t, 7, st.Courses)
	assert.Equal(t, 21, st.Answers)
	assert.Len(t, r.Chips(), 4)

	for _, ref := range r.Courses() {
		b, ok := r.Course(ref.Slug)
		require.True(t, ok, ref.Slug)
		assert.NotEmpty(t, b.Order, "course %s has no answers", ref.Slug)
		assert.Equal(t, CourseURLPrefix+ref.Slug, ref.URL)
	}
}

func TestContent_Catalog(t *testing.T) {
	r := loadContent(t)

	a, ok := r.Global().Answer(CatalogAnswerID)
	require.True(t, ok)
	assert.Contains(t, a.Text, "<strong>1. GitHub Copilot</strong>")
	assert.Contains(t, a.Text, "<strong>5. Full-Stack AI Integration</strong>")
	assert.Equal(t, []string{
		"Explore the GitHub Copilot module",
		"What does SmartSDK cover?",
		"Dive into Stratos basics",
	}, a.Next)
}

func TestContent_LintClean(t *testing.T) {
	r := loadContent(t)
	for _, f := range Lint(r, &substringMatcher{}) {
		t.Errorf("lint: %s", f)
	}
}

// Every answer referenced inside a course bank lives in that bank.
func TestContent_ScopeContainment(t *testing.T) {
	r := loadContent(t)

	for _, ref := range r.Courses() {
		b, _ := r.Course(ref.Slug)
		for _, e := range b.Entries {
			switch tg := e.Target.(type) {
			case AnswerRef:
				assert.Contains(t, b.Answers, tg.ID)
			case *FollowUp:
				for _, o := range tg.Options {
					assert.Contains(t, b.Answers, o.AnswerID)
				}
			}
		}
		for id := range b.Videos {
			assert.Contains(t, b.Answers, id)
		}
		for id := range b.Answers {
			owner, ok := r.Owner(id)
			require.True(t, ok, id)
			assert.Equal(t, ref.Slug, owner.Slug)
		}
	}
}
