package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_LowercasesAndStripsPunctuation(t *testing.T) {
	assert.Equal(t, "whats up", Normalize("What's UP??"))
}

func TestNormalize_PreservesNumbers(t *testing.T) {
	assert.Equal(t, "seal id 106135", Normalize("Seal ID 106135"))
}

func TestNormalize_TrimsAndCollapses(t *testing.T) {
	assert.Equal(t, "seal id 106135", Normalize("  Seal ID: 106135!! "))
	assert.Equal(t, "hello world", Normalize("hello\t\n   world"))
	assert.Equal(t, "hello world", Normalize("hello  !  world"))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "", Normalize("?!...,;"))
}

func TestNormalize_KeepsUnderscore(t *testing.T) {
	assert.Equal(t, "snake_case name", Normalize("snake_case name"))
}

func TestNormalize_StripsSymbolsAndEmoji(t *testing.T) {
	assert.Equal(t, "hi there", Normalize("hi 👋 there"))
	assert.Equal(t, "cicd 100", Normalize("CI/CD → 100%"))
}

func TestNormalize_UnicodeLetters(t *testing.T) {
	// Decomposed accent composes instead of being dropped.
	assert.Equal(t, "café", Normalize("Café"))
	assert.Equal(t, "résumé", Normalize("RÉSUMÉ"))
	assert.Equal(t, "日本語 ok", Normalize("日本語 OK!"))
}

func TestNormalize_InformationSeparatorsAreSpace(t *testing.T) {
	assert.Equal(t, "a b", Normalize("a\x1cb"))
	assert.Equal(t, "a b c", Normalize("a\x1d\x1eb\x1fc"))
	assert.Equal(t, "a b", Normalize("a\u0085b"))
}

func TestNormalize_FinalSigma(t *testing.T) {
	assert.Equal(t, "οδος", Normalize("ΟΔΟΣ"))
	assert.Equal(t, "οδος οδος", Normalize("ΟΔΟΣ, ΟΔΟΣ"))
	assert.Equal(t, "σα", Normalize("ΣΑ"))
	assert.Equal(t, "istanbul", Normalize("İstanbul"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"What's UP??",
		"  Seal ID: 106135!! ",
		"hello\t\tworld\n",
		"Café au lait",
		"ᄀ!ᅡ",
		"İstanbul",
		"a-b_c.d/e",
		"👋👋👋",
		"ΟΔΟΣ!",
		"x\x1fy",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"how", "do", "i", "start"}, Tokens("how do i start"))
	assert.Empty(t, Tokens(""))
}
