package cmd

import (
	"fmt"
	"strings"

	"github.com/corey/awmit/internal/domain/bank"
	"github.com/corey/awmit/internal/domain/engine"
	"github.com/corey/awmit/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorRed     = "\033[31m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// answerMarkup renders the inline tags answers may carry.
var answerMarkup = strings.NewReplacer(
	"<strong>", colorBold,
	"</strong>", colorReset,
	"<br>", "\n",
	"<br/>", "\n",
	"<br />", "\n",
)

// indent prefixes every line of s with pad.
func indent(s, pad string) string {
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}

// formatResponse formats a chat Response for terminal display.
//
//	⚡ answer general-hello │ Copilot Basics /modules/copilot-basics
//	  Hello! ...
//	  ▶ DevPod Onboarding Walkthrough  /videos/devpod.mp4
//	  next:
//	    • What can you help me with?
func formatResponse(r engine.Response) string {
	var sb strings.Builder
	switch r.Type {
	case engine.TypeAnswer:
		sb.WriteString(fmt.Sprintf("%s⚡ answer%s %s%s%s", colorBold, colorReset, colorCyan, r.AnswerID, colorReset))
		if r.ModuleRef != nil {
			sb.WriteString(fmt.Sprintf(" │ %s%s%s %s", colorMagenta, r.ModuleRef.Name, colorReset, r.ModuleRef.URL))
		}
		sb.WriteString("\n")
		sb.WriteString(indent(answerMarkup.Replace(r.Text), "  "))
		sb.WriteString("\n")
		if r.Video != nil {
			sb.WriteString(fmt.Sprintf("  %s▶ %s%s  %s\n", colorGreen, r.Video.Label, colorReset, r.Video.Src))
		}
		if len(r.NextQuestions) > 0 {
			sb.WriteString(fmt.Sprintf("  %snext:%s\n", colorGray, colorReset))
			for _, q := range r.NextQuestions {
				sb.WriteString(fmt.Sprintf("    • %s\n", q))
			}
		}

	case engine.TypeFollowUp:
		sb.WriteString(fmt.Sprintf("%s⚡ follow-up%s\n", colorBold, colorReset))
		sb.WriteString(fmt.Sprintf("  %s\n", r.Question))
		for i, o := range r.Options {
			sb.WriteString(fmt.Sprintf("    %d. %s  %s[%s]%s\n", i+1, o.Label, colorGray, strings.Join(o.Keywords, ", "), colorReset))
		}

	default:
		sb.WriteString(fmt.Sprintf("%s⚡ no match%s\n", colorYellow, colorReset))
	}
	return sb.String()
}

// formatSuggestions formats autocomplete rows for terminal display.
func formatSuggestions(rows []bank.Suggestion) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d suggestions%s\n", colorBold, len(rows), colorReset))
	for _, s := range rows {
		sb.WriteString(fmt.Sprintf("  %s  %s[%s]%s\n", s.Text, colorGray, strings.Join(s.Keywords, ", "), colorReset))
	}
	return sb.String()
}

// formatStats formats registry counts for terminal display.
func formatStats(st bank.Stats) string {
	return fmt.Sprintf("  %d categories │ %d topics │ %d courses │ %d answers │ %d entries │ %d suggestions │ %d videos\n",
		st.Categories, st.Topics, st.Courses, st.Answers, st.Entries, st.Suggestions, st.Videos)
}

// formatFindings formats lint findings grouped under their check.
func formatFindings(findings []bank.Finding) string {
	var sb strings.Builder
	if len(findings) == 0 {
		sb.WriteString(fmt.Sprintf("%s✓ no lint findings%s\n", colorGreen, colorReset))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("%s⚡ %d lint findings%s\n", colorYellow, len(findings), colorReset))
	for _, f := range findings {
		scope := f.Scope
		if scope == "" {
			scope = ports.GlobalScope
		}
		sb.WriteString(fmt.Sprintf("  %s[%s]%s %s%s%s", colorMagenta, f.Check, colorReset, colorCyan, scope, colorReset))
		if f.AnswerID != "" {
			sb.WriteString("/" + f.AnswerID)
		}
		sb.WriteString(": " + f.Message + "\n")
	}
	return sb.String()
}

// formatMisses formats gap-log rows for terminal display.
func formatMisses(misses []ports.Miss) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d unanswered queries%s\n", colorBold, len(misses), colorReset))
	for _, m := range misses {
		sb.WriteString(fmt.Sprintf("  %5d  %s%-16s%s %s  %slast %s%s\n",
			m.Count,
			colorMagenta, m.Scope, colorReset,
			m.Query,
			colorGray, m.LastSeen.Local().Format("2006-01-02 15:04"), colorReset))
	}
	return sb.String()
}
