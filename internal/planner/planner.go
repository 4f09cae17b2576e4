// Package planner implements the plan/confirm conversation protocol: a turn
// in AWAITING_INSTRUCTION produces an editing plan awaiting approval, and a
// turn in AWAITING_CONFIRMATION either executes, revises, or explains it.
//
// The machine is pure over an explicit State value: callers pass the current
// state into Step and store the returned one, which makes concurrent
// conversations safe as long as each serializes its own turns.
package planner

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm.go -package=mocks mediarag/internal/planner LLM

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediarag/internal/contextutil"
	"mediarag/internal/llm"
)

// Phase names of the conversation protocol. The machine cycles; there is no
// terminal phase.
const (
	PhaseAwaitingInstruction  = "AWAITING_INSTRUCTION"
	PhaseAwaitingConfirmation = "AWAITING_CONFIRMATION"
)

// Classification intents for a confirmation turn.
const (
	intentConfirm = "CONFIRM"
	intentChange  = "CHANGE"
	intentClarify = "CLARIFY"
)

// State is one conversation's position in the protocol plus its pending
// plan, if any.
type State struct {
	Phase string `json:"phase"`
	Plan  *Plan  `json:"plan,omitempty"`
}

// NewState returns the initial state.
func NewState() State {
	return State{Phase: PhaseAwaitingInstruction}
}

// Plan is an ordered list of typed operations awaiting confirmation.
type Plan struct {
	Steps   []Operation `json:"steps"`
	Summary string      `json:"summary"`
}

// Operation is one typed, parameterized plan step.
type Operation struct {
	Operation   string         `json:"operation"`
	Params      map[string]any `json:"params"`
	Description string         `json:"description"`
}

// StepResult records the outcome of executing one plan step. A failing step
// never aborts the remaining steps.
type StepResult struct {
	Operation   string `json:"operation"`
	Description string `json:"description"`
	Result      string `json:"result,omitempty"`
	Error       string `json:"error,omitempty"`
	Status      string `json:"status"`
}

// Response is the machine's reply to one turn. Error is a per-turn problem
// reported to the user; it does not advance the protocol.
type Response struct {
	Plan    *Plan        `json:"plan,omitempty"`
	Prompt  string       `json:"user_prompt,omitempty"`
	Results []StepResult `json:"execution_results,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Turn is one incoming user turn with its retrieved context text.
type Turn struct {
	Queries []string
	Context string
}

// LLM is the language-model collaborator: a structured completion that
// returns the raw payload for manual recovery, and a plain chat call used
// for intent classification.
type LLM interface {
	Complete(ctx context.Context, messages []llm.Message, target any) ([]byte, error)
	Chat(ctx context.Context, messages []llm.Message) (string, error)
}

// Executor executes one confirmed plan operation.
type Executor interface {
	Execute(ctx context.Context, op Operation) (string, error)
}

// Machine drives the plan/confirm protocol. It holds no conversation state.
type Machine struct {
	llm      LLM
	executor Executor
}

// NewMachine creates a new Machine.
func NewMachine(llmClient LLM, executor Executor) *Machine {
	return &Machine{llm: llmClient, executor: executor}
}

const planSystemPrompt = `You are an AI video editing assistant. Your role is to:
1. Understand the user's editing request
2. Break it down into manageable tasks
3. Identify potential issues or needed clarifications
4. Coordinate with specialized components to execute the tasks
5. Provide feedback and ask for clarification when needed

Create a plan of action and engage with the user. Respond with a JSON object
of the form {"steps": [{"operation": "...", "params": {...}, "description": "..."}], "summary": "..."}.`

const classifySystemPrompt = `You are an AI assistant helping with video editing. The user has been presented with a plan and is now responding.
Your task is to determine if the user is:
1. Confirming the plan (in which case, respond with 'CONFIRM')
2. Requesting changes (in which case, respond with 'CHANGE')
3. Asking for clarification (in which case, respond with 'CLARIFY')
Respond with only one of these words based on the user's input.`

// Step processes one turn and returns the next state plus the reply. A
// returned error means the turn could not complete (for example an LLM
// timeout, which the caller may retry); the state is returned unchanged in
// that case.
func (m *Machine) Step(ctx context.Context, state State, turn Turn) (State, Response, error) {
	if state.Phase == "" {
		state = NewState()
	}

	switch state.Phase {
	case PhaseAwaitingInstruction:
		return m.handleInstruction(ctx, state, turn)
	case PhaseAwaitingConfirmation:
		return m.handleConfirmation(ctx, state, turn)
	default:
		return state, Response{Error: fmt.Sprintf("unknown state: %s", state.Phase)}, nil
	}
}

func (m *Machine) handleInstruction(ctx context.Context, state State, turn Turn) (State, Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	messages := []llm.Message{
		{Role: "system", Content: planSystemPrompt},
		{Role: "user", Content: strings.Join(turn.Queries, " ")},
	}
	if turn.Context != "" {
		messages = append(messages, llm.Message{
			Role:    "user",
			Content: "Context: " + turn.Context,
		})
	}

	var plan Plan
	raw, err := m.llm.Complete(ctx, messages, &plan)
	switch {
	case err == nil && plan.Steps != nil && plan.Summary != "":
		// Schema-conforming plan.
	case errors.Is(err, llm.ErrTimeout):
		return state, Response{}, fmt.Errorf("plan generation timed out: %w", err)
	case err == nil || errors.Is(err, llm.ErrSchemaMismatch) || errors.Is(err, llm.ErrInvalidJSON):
		// Structurally invalid plan: recover what we can field by field.
		logger.WarnContext(ctx, "plan failed validation, extracting manually", "error", err)
		plan = extractPlan(raw)
	default:
		return state, Response{}, fmt.Errorf("plan generation failed: %w", err)
	}

	normalizePlan(&plan)
	logger.InfoContext(ctx, "generated editing plan", "steps", len(plan.Steps))

	next := State{Phase: PhaseAwaitingConfirmation, Plan: &plan}
	return next, Response{
		Plan:   &plan,
		Prompt: "I've created a plan based on your request. Please review it and let me know if you want to proceed or if you need any changes.",
	}, nil
}

func (m *Machine) handleConfirmation(ctx context.Context, state State, turn Turn) (State, Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	messages := []llm.Message{
		{Role: "system", Content: classifySystemPrompt},
		{Role: "user", Content: strings.Join(turn.Queries, " ")},
	}

	reply, err := m.llm.Chat(ctx, messages)
	if err != nil {
		if errors.Is(err, llm.ErrTimeout) {
			return state, Response{}, fmt.Errorf("classification timed out: %w", err)
		}
		return state, Response{}, fmt.Errorf("classification failed: %w", err)
	}

	intent := strings.ToUpper(strings.TrimSpace(reply))
	logger.InfoContext(ctx, "classified confirmation turn", "intent", intent)

	switch intent {
	case intentConfirm:
		if state.Plan == nil {
			return state, Response{
				Error:  "No plan found to execute. Please generate a plan first.",
				Prompt: "I couldn't find a plan to execute. Could you please restate your original request?",
			}, nil
		}
		results := m.executePlan(ctx, *state.Plan)
		return State{Phase: PhaseAwaitingInstruction}, Response{
			Results: results,
			Prompt:  "The plan has been executed. Is there anything else you'd like me to do?",
		}, nil

	case intentChange:
		return State{Phase: PhaseAwaitingInstruction}, Response{
			Prompt: "I understand you want to make changes. Could you please describe what changes you'd like to make to the plan?",
		}, nil

	case intentClarify:
		return state, Response{
			Prompt: "I'd be happy to clarify. What part of the plan would you like me to explain further?",
		}, nil

	default:
		return state, Response{
			Error:  fmt.Sprintf("unexpected response: %s", intent),
			Prompt: "I'm sorry, I didn't understand your response. Could you please clarify if you want to proceed with the plan, make changes, or if you need any part of it explained?",
		}, nil
	}
}

// executePlan runs every step. Each step catches its own failure; unaffected
// steps still execute.
func (m *Machine) executePlan(ctx context.Context, plan Plan) []StepResult {
	logger := contextutil.LoggerFromContext(ctx)

	results := make([]StepResult, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		result := StepResult{
			Operation:   step.Operation,
			Description: step.Description,
		}

		out, err := m.executor.Execute(ctx, step)
		if err != nil {
			result.Error = err.Error()
			result.Status = "failed"
			logger.WarnContext(ctx, "plan step failed", "operation", step.Operation, "error", err)
		} else {
			result.Result = out
			result.Status = "success"
		}
		results = append(results, result)
	}
	return results
}

// normalizePlan guarantees every step has non-nil params.
func normalizePlan(plan *Plan) {
	if plan.Steps == nil {
		plan.Steps = []Operation{}
	}
	for i := range plan.Steps {
		if plan.Steps[i].Params == nil {
			plan.Steps[i].Params = map[string]any{}
		}
	}
}
