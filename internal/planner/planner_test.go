package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/mock/gomock"

	"mediarag/internal/llm"
	"mediarag/internal/planner/mocks"
)

// completeWith makes the mock behave like a structured completion returning
// payload: it unmarshals into the target the way the real client does and
// reports the given error.
func completeWith(payload string, err error) func(context.Context, []llm.Message, any) ([]byte, error) {
	return func(_ context.Context, _ []llm.Message, target any) ([]byte, error) {
		if err == nil {
			if uerr := json.Unmarshal([]byte(payload), target); uerr != nil {
				return []byte(payload), fmt.Errorf("%w: %v", llm.ErrSchemaMismatch, uerr)
			}
		}
		return []byte(payload), err
	}
}

type recordingExecutor struct {
	executed []string
	failOn   map[string]error
}

func (r *recordingExecutor) Execute(ctx context.Context, op Operation) (string, error) {
	r.executed = append(r.executed, op.Operation)
	if err, ok := r.failOn[op.Operation]; ok {
		return "", err
	}
	return "done: " + op.Operation, nil
}

const validPlanJSON = `{
	"steps": [
		{"operation": "insert_clip", "params": {"track": 1}, "description": "insert the intro clip"},
		{"operation": "delete_section", "params": {"from": 3}, "description": "remove the flubbed take"}
	],
	"summary": "Insert the intro and remove the flubbed take."
}`

func TestStep_InstructionIncludesContextText(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var captured []llm.Message
	mockLLM := mocks.NewMockLLM(ctrl)
	mockLLM.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, messages []llm.Message, target any) ([]byte, error) {
			captured = messages
			return completeWith(validPlanJSON, nil)(ctx, messages, target)
		})

	machine := NewMachine(mockLLM, &recordingExecutor{})
	turn := Turn{
		Queries: []string{"cut the intro"},
		Context: "--- Document: raw-footage ---\nintro runs 0s to 12s",
	}
	if _, _, err := machine.Step(context.Background(), NewState(), turn); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	found := false
	for _, msg := range captured {
		if msg.Role == "user" && msg.Content == "Context: "+turn.Context {
			found = true
		}
	}
	if !found {
		t.Errorf("messages %+v missing the context text", captured)
	}
}

func TestStep_InstructionStoresPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockLLM(ctrl)
	mockLLM.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(completeWith(validPlanJSON, nil))

	machine := NewMachine(mockLLM, &recordingExecutor{})
	state, resp, err := machine.Step(context.Background(), NewState(), Turn{Queries: []string{"cut the intro"}})
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if state.Phase != PhaseAwaitingConfirmation {
		t.Errorf("phase = %q, want %q", state.Phase, PhaseAwaitingConfirmation)
	}
	if state.Plan == nil || len(state.Plan.Steps) != 2 {
		t.Fatalf("stored plan = %+v, want 2 steps", state.Plan)
	}
	if resp.Plan == nil || resp.Prompt == "" {
		t.Errorf("response missing plan or prompt: %+v", resp)
	}
}

func TestStep_ConfirmExecutesEveryStep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockLLM(ctrl)
	mockLLM.EXPECT().
		Chat(gomock.Any(), gomock.Any()).
		Return("CONFIRM", nil)

	executor := &recordingExecutor{failOn: map[string]error{
		"delete_section": errors.New("section out of range"),
	}}
	machine := NewMachine(mockLLM, executor)

	plan := Plan{
		Steps: []Operation{
			{Operation: "insert_clip", Params: map[string]any{}, Description: "insert"},
			{Operation: "delete_section", Params: map[string]any{}, Description: "delete"},
			{Operation: "insert_clip", Params: map[string]any{}, Description: "insert again"},
		},
		Summary: "three steps",
	}
	state := State{Phase: PhaseAwaitingConfirmation, Plan: &plan}

	next, resp, err := machine.Step(context.Background(), state, Turn{Queries: []string{"yes, go ahead"}})
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if next.Phase != PhaseAwaitingInstruction {
		t.Errorf("phase = %q, want %q", next.Phase, PhaseAwaitingInstruction)
	}
	if len(executor.executed) != 3 {
		t.Fatalf("executed %d steps, want 3 (no cascading abort)", len(executor.executed))
	}
	if len(resp.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(resp.Results))
	}
	if resp.Results[1].Status != "failed" || resp.Results[1].Error == "" {
		t.Errorf("failing step result = %+v, want failed with error", resp.Results[1])
	}
	for _, i := range []int{0, 2} {
		if resp.Results[i].Status != "success" {
			t.Errorf("step %d status = %q, want success", i, resp.Results[i].Status)
		}
	}
}

func TestStep_ChangeReturnsWithoutExecuting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockLLM(ctrl)
	mockLLM.EXPECT().
		Chat(gomock.Any(), gomock.Any()).
		Return("CHANGE", nil)

	executor := &recordingExecutor{}
	machine := NewMachine(mockLLM, executor)
	plan := Plan{Steps: []Operation{{Operation: "insert_clip"}}, Summary: "one"}
	state := State{Phase: PhaseAwaitingConfirmation, Plan: &plan}

	next, resp, err := machine.Step(context.Background(), state, Turn{Queries: []string{"actually, change it"}})
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if next.Phase != PhaseAwaitingInstruction {
		t.Errorf("phase = %q, want %q", next.Phase, PhaseAwaitingInstruction)
	}
	if len(executor.executed) != 0 {
		t.Errorf("executed %d steps, want 0", len(executor.executed))
	}
	if resp.Prompt == "" {
		t.Error("expected a revision prompt")
	}
}

func TestStep_ClarifyStaysInConfirmation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockLLM(ctrl)
	mockLLM.EXPECT().
		Chat(gomock.Any(), gomock.Any()).
		Return("CLARIFY", nil)

	machine := NewMachine(mockLLM, &recordingExecutor{})
	plan := Plan{Steps: []Operation{{Operation: "insert_clip"}}, Summary: "one"}
	state := State{Phase: PhaseAwaitingConfirmation, Plan: &plan}

	next, _, err := machine.Step(context.Background(), state, Turn{Queries: []string{"what does step 1 do?"}})
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if next.Phase != PhaseAwaitingConfirmation {
		t.Errorf("phase = %q, want %q", next.Phase, PhaseAwaitingConfirmation)
	}
	if next.Plan == nil {
		t.Error("plan was discarded on a clarifying turn")
	}
}

func TestStep_UnknownClassificationIsPerTurnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockLLM(ctrl)
	mockLLM.EXPECT().
		Chat(gomock.Any(), gomock.Any()).
		Return("MAYBE", nil)

	machine := NewMachine(mockLLM, &recordingExecutor{})
	plan := Plan{Steps: []Operation{{Operation: "insert_clip"}}, Summary: "one"}
	state := State{Phase: PhaseAwaitingConfirmation, Plan: &plan}

	next, resp, err := machine.Step(context.Background(), state, Turn{Queries: []string{"perhaps"}})
	if err != nil {
		t.Fatalf("unknown classification must not fail the call: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected a per-turn error in the response")
	}
	if next.Phase != PhaseAwaitingConfirmation {
		t.Errorf("phase = %q, want to stay in %q", next.Phase, PhaseAwaitingConfirmation)
	}
}

func TestStep_ConfirmWithoutPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockLLM(ctrl)
	mockLLM.EXPECT().
		Chat(gomock.Any(), gomock.Any()).
		Return("CONFIRM", nil)

	machine := NewMachine(mockLLM, &recordingExecutor{})
	state := State{Phase: PhaseAwaitingConfirmation}

	next, resp, err := machine.Step(context.Background(), state, Turn{Queries: []string{"yes"}})
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected a per-turn error for missing plan")
	}
	if next.Phase != PhaseAwaitingConfirmation {
		t.Errorf("phase = %q, want to stay in %q", next.Phase, PhaseAwaitingConfirmation)
	}
}

func TestStep_TimeoutLeavesStateUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockLLM(ctrl)
	mockLLM.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: deadline exceeded", llm.ErrTimeout))

	machine := NewMachine(mockLLM, &recordingExecutor{})
	state := NewState()

	next, _, err := machine.Step(context.Background(), state, Turn{Queries: []string{"cut the intro"}})
	if !errors.Is(err, llm.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if next.Phase != PhaseAwaitingInstruction {
		t.Errorf("phase = %q, state must not advance on timeout", next.Phase)
	}
}

func TestStep_MalformedPlanTriggersExtraction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Steps recoverable, summary missing, one junk field.
	raw := `{"steps": [{"operation": "insert_clip", "description": "insert"}], "junk": true}`
	mockLLM := mocks.NewMockLLM(ctrl)
	mockLLM.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(raw), fmt.Errorf("%w: unknown field", llm.ErrSchemaMismatch))

	machine := NewMachine(mockLLM, &recordingExecutor{})
	state, resp, err := machine.Step(context.Background(), NewState(), Turn{Queries: []string{"cut the intro"}})
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if state.Phase != PhaseAwaitingConfirmation {
		t.Errorf("phase = %q, want %q", state.Phase, PhaseAwaitingConfirmation)
	}
	if resp.Plan == nil || len(resp.Plan.Steps) != 1 {
		t.Fatalf("extracted plan = %+v, want 1 step", resp.Plan)
	}
	if resp.Plan.Steps[0].Operation != "insert_clip" {
		t.Errorf("operation = %q, want insert_clip", resp.Plan.Steps[0].Operation)
	}
	if resp.Plan.Summary != placeholderSummary {
		t.Errorf("summary = %q, want placeholder", resp.Plan.Summary)
	}
}

func TestStep_ResumesCycleAfterExecution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockLLM(ctrl)
	gomock.InOrder(
		mockLLM.EXPECT().
			Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(completeWith(validPlanJSON, nil)),
		mockLLM.EXPECT().
			Chat(gomock.Any(), gomock.Any()).
			Return("CONFIRM", nil),
		mockLLM.EXPECT().
			Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(completeWith(validPlanJSON, nil)),
	)

	machine := NewMachine(mockLLM, &recordingExecutor{})
	ctx := context.Background()

	state := NewState()
	var err error
	state, _, err = machine.Step(ctx, state, Turn{Queries: []string{"cut the intro"}})
	if err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	state, _, err = machine.Step(ctx, state, Turn{Queries: []string{"yes"}})
	if err != nil {
		t.Fatalf("confirm turn failed: %v", err)
	}
	state, _, err = machine.Step(ctx, state, Turn{Queries: []string{"now trim the outro"}})
	if err != nil {
		t.Fatalf("third turn failed: %v", err)
	}
	if state.Phase != PhaseAwaitingConfirmation {
		t.Errorf("phase = %q, want %q after a new instruction", state.Phase, PhaseAwaitingConfirmation)
	}
}
