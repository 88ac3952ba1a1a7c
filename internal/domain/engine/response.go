package engine

import "github.com/corey/awmit/internal/domain/bank"

// ResponseType is the kind of a chat Response.
type ResponseType string

const (
	TypeAnswer   ResponseType = "answer"
	TypeFollowUp ResponseType = "followUp"
	TypeNoMatch  ResponseType = "noMatch"
)

// Response is the result of a resolution. Only the fields of its Type are set:
// answers carry AnswerID and Text plus optional Video, NextQuestions and
// ModuleRef; follow-ups carry Question and Options; no-match carries nothing.
type Response struct {
	Type          ResponseType  `json:"type"`
	AnswerID      string        `json:"answerId,omitempty"`
	Text          string        `json:"text,omitempty"`
	Video         *bank.Video   `json:"video,omitempty"`
	NextQuestions []string      `json:"nextQuestions,omitempty"`
	ModuleRef     *ModuleRef    `json:"moduleRef,omitempty"`
	Question      string        `json:"question,omitempty"`
	Options       []OptionState `json:"options,omitempty"`
}

// ModuleRef points a global answer at the course that owns it.
type ModuleRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FollowUpState is a pending follow-up held by the caller between turns.
// It is the Question and Options of a followUp Response sent back verbatim.
type FollowUpState struct {
	Question string        `json:"question"`
	Options  []OptionState `json:"options"`
}

// OptionState is one option of a FollowUpState.
type OptionState struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
	AnswerID string   `json:"answerId"`
}

// Pending returns the FollowUpState a caller should hold after r, or nil
// when r is not a follow-up.
func (r Response) Pending() *FollowUpState {
	if r.Type != TypeFollowUp {
		return nil
	}
	return &FollowUpState{Question: r.Question, Options: r.Options}
}

// NoMatch is the empty response.
func NoMatch() Response { return Response{Type: TypeNoMatch} }

func followUpResponse(fu *bank.FollowUp) Response {
	opts := make([]OptionState, len(fu.Options))
	for i, o := range fu.Options {
		opts[i] = OptionState{Label: o.Label, Keywords: append([]string(nil), o.Keywords...), AnswerID: o.AnswerID}
	}
	return Response{Type: TypeFollowUp, Question: fu.Question, Options: opts}
}

// BuildAnswer assembles the answer payload for id in the context of bank b.
// Video and next questions come from b first and fall back to the global
// bank. A course reference is attached only in the global context, when a
// course owns the answer.
func BuildAnswer(reg *bank.Registry, b *bank.Bank, id, text string) Response {
	resp := Response{Type: TypeAnswer, AnswerID: id, Text: text}
	global := reg.Global()

	if b.IsGlobal() {
		if owner, ok := reg.Owner(id); ok {
			resp.ModuleRef = &ModuleRef{Name: owner.Name, URL: owner.URL}
		}
	}

	if v, ok := b.Videos[id]; ok {
		resp.Video = &v
	} else if v, ok := global.Videos[id]; ok {
		resp.Video = &v
	}

	if nq := b.NextQuestions[id]; len(nq) > 0 {
		resp.NextQuestions = append([]string(nil), nq...)
	} else if nq := global.NextQuestions[id]; len(nq) > 0 {
		resp.NextQuestions = append([]string(nil), nq...)
	}
	return resp
}
