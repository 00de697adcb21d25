package diagnosis

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeCompleter struct {
	reply  string
	err    error
	system string
	prompt string
	calls  int
	block  bool
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.system = system
	f.prompt = prompt
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeCompleter) Name() string { return "fake" }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	kb, err := DefaultKnowledgeBase()
	if err != nil {
		t.Fatalf("load knowledge base: %v", err)
	}
	return NewEngine(kb, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func TestAnalyze_LocalFeverAndHeadache(t *testing.T) {
	e := newTestEngine(t)
	if e.AIEnabled() {
		t.Fatal("expected ai path to be disabled without a completer")
	}

	result := e.Analyze(context.Background(), Request{Symptoms: "I have a fever and headache"})
	if !result.Success || result.Source != SourceKnowledgeBase || result.Severity != SeverityModerate {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Disclaimer != kbDisclaimer {
		t.Fatalf("expected rule-based disclaimer, got %q", result.Disclaimer)
	}

	for _, want := range []string{"• Common Cold", "• Flu", "• Viral Infection"} {
		if !strings.Contains(result.Diagnosis, want) {
			t.Fatalf("expected %q in diagnosis:\n%s", want, result.Diagnosis)
		}
	}
	if strings.Contains(result.Diagnosis, "Tension Headache") {
		t.Fatalf("expected at most three conditions:\n%s", result.Diagnosis)
	}

	meds := "**Recommended Medications:**\n" +
		"• Adequate water intake\n" +
		"• Ibuprofen 200mg\n" +
		"• Ibuprofen 400mg\n" +
		"• Paracetamol 500mg\n" +
		"• Rest and fluids\n"
	if !strings.Contains(result.Diagnosis, meds) {
		t.Fatalf("expected sorted, deduplicated remedies:\n%s", result.Diagnosis)
	}
}

func TestAnalyze_LocalNoMatch(t *testing.T) {
	e := newTestEngine(t)
	input := "xyz123 unknown complaint"

	result := e.Analyze(context.Background(), Request{Symptoms: input})
	if !result.Success || result.Source != SourceKnowledgeBase {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.HasPrefix(result.Diagnosis, "**Unable to Match Specific Conditions**") {
		t.Fatalf("expected unmatched variant, got:\n%s", result.Diagnosis)
	}
	if !strings.Contains(result.Diagnosis, `"`+input+`"`) {
		t.Fatalf("expected input echoed, got:\n%s", result.Diagnosis)
	}
	if !strings.Contains(result.Diagnosis, "**When to See a Doctor Immediately:**") {
		t.Fatalf("expected doctor referral block, got:\n%s", result.Diagnosis)
	}
}

func TestAnalyze_AIPath(t *testing.T) {
	ai := &fakeCompleter{reply: "1. Likely a cold"}
	e := newTestEngine(t, WithCompleter(ai))

	result := e.Analyze(context.Background(), Request{Symptoms: "runny nose", Age: "30", Gender: "female"})
	if result.Source != SourceAI || result.Diagnosis != "1. Likely a cold" || result.Disclaimer != aiDisclaimer {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Severity != "" {
		t.Fatalf("ai results carry no severity, got %q", result.Severity)
	}
	if ai.system != systemInstruction {
		t.Fatalf("unexpected system instruction %q", ai.system)
	}
	if !strings.Contains(ai.prompt, "Patient Information: Age: 30, Gender: female") ||
		!strings.Contains(ai.prompt, "Symptoms: runny nose") {
		t.Fatalf("unexpected prompt:\n%s", ai.prompt)
	}
}

func TestAnalyze_FallbackEqualsLocal(t *testing.T) {
	local := newTestEngine(t)
	req := Request{Symptoms: "Cough and sore throat since Monday", Age: "41"}
	want := local.Analyze(context.Background(), req)

	cases := map[string]*fakeCompleter{
		"error":       {err: errors.New("rate limited")},
		"empty reply": {reply: "  \n"},
		"timeout":     {block: true},
	}
	for name, ai := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t, WithCompleter(ai), WithAITimeout(10*time.Millisecond))
			got := e.Analyze(context.Background(), req)
			if got != want {
				t.Fatalf("fallback differs from local result:\n got %+v\nwant %+v", got, want)
			}
			if ai.calls != 1 {
				t.Fatalf("expected exactly one ai call, got %d", ai.calls)
			}
		})
	}
}

func TestPatientInfo(t *testing.T) {
	if got := patientInfo("30", ""); got != "Age and gender not provided" {
		t.Fatalf("expected placeholder when gender is missing, got %q", got)
	}
	if got := patientInfo("", "male"); got != "Age and gender not provided" {
		t.Fatalf("expected placeholder when age is missing, got %q", got)
	}
	if got := patientInfo("65", "male"); got != "Age: 65, Gender: male" {
		t.Fatalf("unexpected patient info %q", got)
	}
}

func TestRenderAssessment_ConditionOrder(t *testing.T) {
	kb, err := DefaultKnowledgeBase()
	if err != nil {
		t.Fatalf("load knowledge base: %v", err)
	}
	// "cough" precedes "runny nose" in the table, so its conditions lead.
	a := kb.Match("runny nose, cough")
	if !slices.Equal(a.MatchedSymptoms, []string{"cough", "runny nose"}) {
		t.Fatalf("unexpected matched symptoms %v", a.MatchedSymptoms)
	}
	out := renderAssessment("runny nose, cough", a)
	want := "**Possible Conditions:**\n• Common Cold\n• Bronchitis\n• Respiratory Infection\n\n"
	if !strings.Contains(out, want) {
		t.Fatalf("unexpected condition block:\n%s", out)
	}
}
