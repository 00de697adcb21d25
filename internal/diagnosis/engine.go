// Package diagnosis produces preliminary health assessments from free-text
// symptoms, either through an AI completer or a static knowledge base.
package diagnosis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	SourceAI            = "AI"
	SourceKnowledgeBase = "Knowledge Base"
)

const defaultAITimeout = 20 * time.Second

var errEmptyReply = errors.New("ai provider returned an empty reply")

// Completer sends one system/user prompt pair to a chat model and returns
// its reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Name() string
}

// Request carries already-normalised input. Empty Age or Gender means the
// value was not supplied.
type Request struct {
	Symptoms string
	Age      string
	Gender   string
}

type Result struct {
	Success    bool     `json:"success"`
	Diagnosis  string   `json:"diagnosis"`
	Disclaimer string   `json:"disclaimer"`
	Source     string   `json:"source"`
	Severity   Severity `json:"severity,omitempty"`
}

// Engine is read-only after construction and safe for concurrent use.
type Engine struct {
	kb        *KnowledgeBase
	ai        Completer
	aiTimeout time.Duration
	log       logrus.FieldLogger
}

type Option func(*Engine)

// WithCompleter enables the AI path. A nil completer leaves it disabled.
func WithCompleter(c Completer) Option {
	return func(e *Engine) { e.ai = c }
}

func WithAITimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.aiTimeout = d
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func NewEngine(kb *KnowledgeBase, opts ...Option) *Engine {
	e := &Engine{
		kb:        kb,
		aiTimeout: defaultAITimeout,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) AIEnabled() bool {
	return e.ai != nil
}

// Analyze always returns a successful result. Failures of the AI path are
// logged and answered from the knowledge base.
func (e *Engine) Analyze(ctx context.Context, req Request) Result {
	if e.ai == nil {
		return e.fromKnowledgeBase(req)
	}

	text, err := e.complete(ctx, req)
	if err != nil {
		e.log.WithError(err).WithField("provider", e.ai.Name()).Warn("ai diagnosis failed, using knowledge base")
		return e.fromKnowledgeBase(req)
	}

	return Result{
		Success:    true,
		Diagnosis:  text,
		Disclaimer: aiDisclaimer,
		Source:     SourceAI,
	}
}

func (e *Engine) complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.aiTimeout)
	defer cancel()

	text, err := e.ai.Complete(ctx, systemInstruction, buildPrompt(req))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errEmptyReply
	}
	return text, nil
}

func (e *Engine) fromKnowledgeBase(req Request) Result {
	a := e.kb.Match(req.Symptoms)
	return Result{
		Success:    true,
		Diagnosis:  renderAssessment(req.Symptoms, a),
		Disclaimer: kbDisclaimer,
		Source:     SourceKnowledgeBase,
		Severity:   a.Severity,
	}
}
