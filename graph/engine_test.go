package graph_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/flowgraph/flowgraph/graph"
)

// countingAgent records how many times it ran and always returns delta.
type countingAgent struct {
	calls int
	delta graph.AgentOutput
}

func (a *countingAgent) Execute(ctx context.Context, state graph.GlobalState) graph.AgentResult {
	a.calls++
	return graph.AgentResult{Delta: a.delta}
}

// TestApplyEmptyDeltaIsIdentity is the §8 quantified invariant:
// apply(s, empty_delta) == s.
func TestApplyEmptyDeltaIsIdentity(t *testing.T) {
	s := graph.Apply(graph.GlobalState{}, graph.AgentOutput{
		Context:   map[string]any{"a": 1},
		Artifacts: map[string]any{"b": "x"},
		Quality:   map[string]any{"c": true},
		Messages:  []graph.Message{{Agent: "n", Kind: "step"}},
	})
	s2 := graph.Apply(s, graph.AgentOutput{})

	if len(s2.Context) != len(s.Context) || s2.Context["a"] != s.Context["a"] {
		t.Errorf("context changed under empty delta: %v vs %v", s.Context, s2.Context)
	}
	if len(s2.Artifacts) != len(s.Artifacts) || s2.Artifacts["b"] != s.Artifacts["b"] {
		t.Errorf("artifacts changed under empty delta: %v vs %v", s.Artifacts, s2.Artifacts)
	}
	if len(s2.Quality) != len(s.Quality) || s2.Quality["c"] != s.Quality["c"] {
		t.Errorf("quality changed under empty delta: %v vs %v", s.Quality, s2.Quality)
	}
	if len(s2.Messages) != len(s.Messages) {
		t.Errorf("messages changed under empty delta: %v vs %v", s.Messages, s2.Messages)
	}
}

// TestApplyMergesAppendsAndOverwrites covers deep-merge semantics: nested
// maps recurse, sequences replace wholesale, scalars overwrite, and
// messages append rather than replace.
func TestApplyMergesAppendsAndOverwrites(t *testing.T) {
	s0 := graph.Apply(graph.GlobalState{}, graph.AgentOutput{
		Artifacts: map[string]any{
			"copy": map[string]any{"title": "v1", "body": "hello"},
			"tags": []any{"a", "b"},
		},
		Messages: []graph.Message{{Agent: "n1", Kind: "step"}},
	})

	s1 := graph.Apply(s0, graph.AgentOutput{
		Artifacts: map[string]any{
			"copy": map[string]any{"title": "v2"},
			"tags": []any{"c"},
		},
		Messages: []graph.Message{{Agent: "n2", Kind: "step"}},
	})

	copy, _ := s1.Artifacts["copy"].(map[string]any)
	if copy["title"] != "v2" {
		t.Errorf("copy.title = %v, want v2 (scalar overwrite)", copy["title"])
	}
	if copy["body"] != "hello" {
		t.Errorf("copy.body = %v, want hello (nested merge preserves sibling key)", copy["body"])
	}

	tags, _ := s1.Artifacts["tags"].([]any)
	if len(tags) != 1 || tags[0] != "c" {
		t.Errorf("tags = %v, want [c] (sequences replace, not concatenate)", tags)
	}

	if len(s1.Messages) != 2 || s1.Messages[0].Agent != "n1" || s1.Messages[1].Agent != "n2" {
		t.Errorf("messages = %v, want [n1, n2] appended in order", s1.Messages)
	}

	// s0 must remain untouched by the second Apply.
	if s0.Artifacts["tags"].([]any)[0] != "a" {
		t.Error("Apply mutated its input state")
	}
}

// TestRunLinearPipelineTerminatesAtEndSentinel is a minimal version of §8
// scenario 2 (plan-and-execute): a straight chain with no conditions.
func TestRunLinearPipelineTerminatesAtEndSentinel(t *testing.T) {
	plan := &countingAgent{delta: graph.AgentOutput{Artifacts: map[string]any{"plan": "p"}}}
	exec := &countingAgent{delta: graph.AgentOutput{Artifacts: map[string]any{"result": "r"}}}

	proc, err := graph.NewProcess("plan-and-execute", "plan", "", map[string]graph.Agent{
		"plan": plan,
		"exec": exec,
	}, []graph.Edge{
		{From: "plan", To: "exec"},
		{From: "exec", To: graph.EndSentinel},
	})
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}

	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	state, err := eng.Run(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if plan.calls != 1 || exec.calls != 1 {
		t.Errorf("calls = plan:%d exec:%d, want 1 each", plan.calls, exec.calls)
	}
	if state.Artifacts["result"] != "r" {
		t.Errorf("artifacts.result = %v", state.Artifacts["result"])
	}
	// messages sequence matches the visited agents, per §8's quantified
	// invariant.
	var agents []string
	for _, m := range state.Messages {
		if m.Kind == "step" {
			agents = append(agents, m.Agent)
		}
	}
	if strings.Join(agents, ",") != "plan,exec" {
		t.Errorf("messages sequence = %v, want [plan exec]", agents)
	}
}

// TestRunRefinementLoopTerminatesViaDoneCondition is §8 scenario 1's
// shape: a reviewer loops back to an adaptor until approved, gated by a
// done_condition.
func TestRunRefinementLoopTerminatesViaDoneCondition(t *testing.T) {
	reviewCalls := 0
	review := graph.AgentFunc(func(ctx context.Context, state graph.GlobalState) graph.AgentResult {
		reviewCalls++
		status := "REFINAR"
		if reviewCalls >= 3 {
			status = "APROVADO"
		}
		return graph.AgentResult{Delta: graph.AgentOutput{Quality: map[string]any{"review_status": status}}}
	})
	adapt := &countingAgent{delta: graph.AgentOutput{Artifacts: map[string]any{"adapted": true}}}

	proc, err := graph.NewProcess("review-loop", "review", "quality.review_status == 'APROVADO'",
		map[string]graph.Agent{"review": review, "adapt": adapt},
		[]graph.Edge{
			{From: "review", To: "adapt", Condition: "quality.review_status == 'REFINAR'"},
			// Fallback so approval still routes somewhere; the done_condition
			// then stops the run before adapt executes a third time.
			{From: "review", To: "adapt"},
			{From: "adapt", To: "review"},
		},
	)
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}

	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	state, err := eng.Run(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if reviewCalls != 3 {
		t.Errorf("reviewCalls = %d, want 3", reviewCalls)
	}
	if adapt.calls != 2 {
		t.Errorf("adapt.calls = %d, want 2", adapt.calls)
	}
	if state.Quality["review_status"] != "APROVADO" {
		t.Errorf("review_status = %v", state.Quality["review_status"])
	}
}

// TestRunFailingAgentWritesQualityErrorWithoutRaising is §8 scenario 3:
// an agent fault never escapes Run; it lands in quality.error.
func TestRunFailingAgentWritesQualityErrorWithoutRaising(t *testing.T) {
	fail := graph.AgentFunc(func(ctx context.Context, state graph.GlobalState) graph.AgentResult {
		return graph.AgentResult{Delta: graph.AgentOutput{
			Quality: map[string]any{"error": "AgentExecutionError: LLM invocation failed: boom"},
		}}
	})
	proc, err := graph.NewProcess("failing", "draft", "", map[string]graph.Agent{"draft": fail}, []graph.Edge{
		{From: "draft", To: graph.EndSentinel, Condition: "quality.error is not None"},
	})
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}

	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	state, err := eng.Run(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Run returned an error, want nil: %v", err)
	}
	errText, _ := state.Quality["error"].(string)
	if !strings.Contains(errText, "LLM invocation failed") {
		t.Errorf("quality.error = %q, want it to contain %q", errText, "LLM invocation failed")
	}
}

// TestRunTerminatesOnAgentPanic verifies the runtime contains a panicking
// agent rather than letting it crash the run (spec §7 AgentExecutionError,
// "any fault surfacing out of an agent's execute").
func TestRunTerminatesOnAgentPanic(t *testing.T) {
	boom := graph.AgentFunc(func(ctx context.Context, state graph.GlobalState) graph.AgentResult {
		panic("kaboom")
	})
	proc, err := graph.NewProcess("panicky", "n", "", map[string]graph.Agent{"n": boom}, nil)
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	state, err := eng.Run(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Run returned an error, want nil: %v", err)
	}
	errText, _ := state.Quality["error"].(string)
	if !strings.Contains(errText, "kaboom") {
		t.Errorf("quality.error = %q, want it to mention the panic value", errText)
	}
}

// TestRunNoMatchingEdgeTerminatesCleanly is §8's boundary behavior: an
// edge list with no fallback and no matching condition ends the run
// without error.
func TestRunNoMatchingEdgeTerminatesCleanly(t *testing.T) {
	n := &countingAgent{}
	proc, err := graph.NewProcess("dead-end", "n", "", map[string]graph.Agent{"n": n}, []graph.Edge{
		{From: "n", To: "somewhere", Condition: "quality.never == 'true'"},
	})
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	if _, err := eng.Run(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n.calls != 1 {
		t.Errorf("calls = %d, want 1 (agent runs once, then no route terminates)", n.calls)
	}
}

// TestRunLoopGuardTriggersAtDefaultLimit is §8's boundary behavior:
// a node may be visited 50 times; the 51st visit trips the loop guard
// before the agent runs.
func TestRunLoopGuardTriggersAtDefaultLimit(t *testing.T) {
	n := &countingAgent{}
	proc, err := graph.NewProcess("looping", "n", "", map[string]graph.Agent{"n": n}, []graph.Edge{
		{From: "n", To: "n"},
	})
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	state, err := eng.Run(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n.calls != 50 {
		t.Errorf("calls = %d, want 50 (the 51st visit trips the guard before the agent runs)", n.calls)
	}
	errText, _ := state.Quality["error"].(string)
	if !strings.Contains(errText, "loop-guard") {
		t.Errorf("quality.error = %q, want a loop-guard marker", errText)
	}
}

// TestWithVisitLimitOverridesDefault confirms the loop guard bound is
// configurable via Option, not hardcoded.
func TestWithVisitLimitOverridesDefault(t *testing.T) {
	n := &countingAgent{}
	proc, err := graph.NewProcess("looping", "n", "", map[string]graph.Agent{"n": n}, []graph.Edge{
		{From: "n", To: "n"},
	})
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	eng, err := graph.New(proc, graph.WithVisitLimit(3))
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	if _, err := eng.Run(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n.calls != 3 {
		t.Errorf("calls = %d, want 3 (the 4th visit trips the lowered guard before the agent runs)", n.calls)
	}
}

// TestWithVisitLimitRejectsNonPositive confirms the Option validates
// eagerly at construction, per its doc comment.
func TestWithVisitLimitRejectsNonPositive(t *testing.T) {
	proc, err := graph.NewProcess("p", "n", "", map[string]graph.Agent{"n": &countingAgent{}}, nil)
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	if _, err := graph.New(proc, graph.WithVisitLimit(0)); err == nil {
		t.Fatal("expected an error for a non-positive visit limit")
	}
}

// TestRunDoneConditionBeforeFirstStepRunsZeroAgents is §8's boundary
// behavior / scenario 5: a done_condition true at entry terminates with
// no agent executions.
func TestRunDoneConditionBeforeFirstStepRunsZeroAgents(t *testing.T) {
	n := &countingAgent{}
	proc, err := graph.NewProcess("skip", "n", "context.skip == True", map[string]graph.Agent{"n": n}, nil)
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	state, err := eng.Run(context.Background(), map[string]any{"skip": true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n.calls != 0 {
		t.Errorf("calls = %d, want 0", n.calls)
	}
	if len(state.Messages) != 1 {
		t.Errorf("messages = %v, want exactly one termination note", state.Messages)
	}
}

// TestRunCancellationAppendsMessageAndStopsCleanly covers §5's
// cancellation contract: checked at the top of each step, appends a
// "cancelled" message, no in-flight agent is forcibly interrupted.
func TestRunCancellationAppendsMessageAndStopsCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := &countingAgent{}
	proc, err := graph.NewProcess("p", "n", "", map[string]graph.Agent{"n": n}, nil)
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	state, err := eng.Run(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n.calls != 0 {
		t.Errorf("calls = %d, want 0 (cancellation observed before the first agent runs)", n.calls)
	}
	if len(state.Messages) != 1 || state.Messages[0].Kind != "cancelled" {
		t.Errorf("messages = %v, want a single cancelled entry", state.Messages)
	}
}

// TestRunHonorsExplicitAgentRoute exercises AgentResult.Route taking
// precedence over declared edges, for embedders who hand-build an Agent.
func TestRunHonorsExplicitAgentRoute(t *testing.T) {
	skip := graph.AgentFunc(func(ctx context.Context, state graph.GlobalState) graph.AgentResult {
		return graph.AgentResult{Route: graph.Next{To: "c"}}
	})
	b := &countingAgent{}
	c := &countingAgent{}

	proc, err := graph.NewProcess("routed", "skip", "", map[string]graph.Agent{
		"skip": skip, "b": b, "c": c,
	}, []graph.Edge{
		{From: "skip", To: "b"},
		{From: "c", To: graph.EndSentinel},
	})
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	if _, err := eng.Run(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if b.calls != 0 {
		t.Errorf("b.calls = %d, want 0: explicit Route should bypass the skip->b edge", b.calls)
	}
	if c.calls != 1 {
		t.Errorf("c.calls = %d, want 1", c.calls)
	}
}

// TestRunHonorsExplicitTerminalRoute confirms Route.Terminal ends the run
// immediately, without consulting edges.
func TestRunHonorsExplicitTerminalRoute(t *testing.T) {
	stop := graph.AgentFunc(func(ctx context.Context, state graph.GlobalState) graph.AgentResult {
		return graph.AgentResult{Route: graph.Next{Terminal: true}}
	})
	next := &countingAgent{}

	proc, err := graph.NewProcess("stopper", "stop", "", map[string]graph.Agent{
		"stop": stop, "next": next,
	}, []graph.Edge{
		{From: "stop", To: "next"},
	})
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	if _, err := eng.Run(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if next.calls != 0 {
		t.Errorf("next.calls = %d, want 0", next.calls)
	}
}

// TestNewRejectsNilProcess confirms construction fails fast rather than
// letting Run dereference a nil process.
func TestNewRejectsNilProcess(t *testing.T) {
	if _, err := graph.New(nil); err == nil {
		t.Fatal("expected an error for a nil process")
	}
}

// TestRunReturnsErrorForUnregisteredAgent covers the one path that can
// still raise out of Run: a process assembled by hand (bypassing the DSL
// loader's validation) with an edge to an agent never registered.
func TestRunReturnsErrorForUnregisteredAgent(t *testing.T) {
	n := &countingAgent{}
	proc, err := graph.NewProcess("p", "n", "", map[string]graph.Agent{"n": n}, []graph.Edge{
		{From: "n", To: "ghost"},
	})
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	eng, err := graph.New(proc)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	_, err = eng.Run(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("expected an error for an edge to an unregistered agent")
	}
	var engErr *graph.EngineError
	if !errors.As(err, &engErr) {
		t.Errorf("err = %T, want *graph.EngineError", err)
	}
}
