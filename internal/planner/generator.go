package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"mediarag/internal/pipeline"
)

// Generator adapts the Machine to the pipeline Generator contract. It owns
// one State per conversation id and serializes turns against the same
// conversation; the machine itself stays pure.
type Generator struct {
	machine *Machine

	mu     sync.Mutex
	states map[string]State
}

// NewGenerator creates a new Generator.
func NewGenerator(machine *Machine) *Generator {
	return &Generator{
		machine: machine,
		states:  map[string]State{},
	}
}

// Generate processes one conversation turn and returns the machine's reply
// as a JSON message.
func (g *Generator) Generate(ctx context.Context, req pipeline.GenerateRequest) (pipeline.GenerateResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.states[req.ConversationID]
	if !ok {
		state = NewState()
	}

	next, response, err := g.machine.Step(ctx, state, Turn{
		Queries: req.Queries,
		Context: req.Context,
	})
	if err != nil {
		return pipeline.GenerateResult{}, err
	}
	g.states[req.ConversationID] = next

	message, err := json.Marshal(response)
	if err != nil {
		return pipeline.GenerateResult{}, fmt.Errorf("failed to marshal response: %w", err)
	}

	finishReason := "stop"
	if response.Error != "" {
		finishReason = "error"
	}
	return pipeline.GenerateResult{
		Message:      string(message),
		FinishReason: finishReason,
	}, nil
}

// StateOf returns the stored state for a conversation, for status surfaces.
func (g *Generator) StateOf(conversationID string) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if state, ok := g.states[conversationID]; ok {
		return state
	}
	return NewState()
}
