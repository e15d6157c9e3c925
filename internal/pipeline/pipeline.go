package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/report"
)

// Execute runs one generation session. Optional documents that fail to parse
// are dropped and listed on the result. A missing mandatory assessment, an
// invalid patient, or cancellation of ctx fails the session; in the first
// two cases no narrative request is made.
func Execute(ctx context.Context, rt *Runtime, req Request) (*Result, error) {
	if len(req.Uploads) == 0 {
		return nil, ErrNoDocuments
	}

	r := &run{rt: rt, session: uuid.New()}
	r.logger = rt.Logger.With("session", r.session)

	graph, err := r.buildGraph()
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeySession, r.session)
	initial = initial.Set(KeyRequest, req)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		if r.failure != nil {
			return nil, r.failure
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return r.result(final)
}

func (r *run) buildGraph() (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("otreport-generate")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	nodes := []struct {
		name string
		node state.StateNode
	}{
		{"parse", r.parseNode()},
		{"age", r.ageNode()},
		{"interpret", r.interpretNode()},
		{"narrate", r.narrateNode()},
		{"assemble", r.assembleNode()},
	}
	for _, n := range nodes {
		if err := graph.AddNode(n.name, n.node); err != nil {
			return nil, err
		}
	}

	// parse → age (mandatory assessments usable)
	if err := graph.AddEdge("parse", "age", coreReady); err != nil {
		return nil, err
	}

	// parse → assemble (mandatory assessment missing; assembly reports it)
	if err := graph.AddEdge("parse", "assemble", state.Not(coreReady)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("age", "interpret", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("interpret", "narrate", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("narrate", "assemble", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("parse"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("assemble"); err != nil {
		return nil, err
	}

	return graph, nil
}

func (r *run) result(s state.State) (*Result, error) {
	doc, err := get[*report.Document](s, KeyDocument)
	if err != nil {
		return nil, err
	}

	dropped, _ := get[[]Dropped](s, KeyDropped)

	return &Result{
		SessionID:   r.session,
		Document:    doc,
		Dropped:     dropped,
		CompletedAt: time.Now(),
	}, nil
}

func coreReady(s state.State) bool {
	records, err := get[[]assessment.Record](s, KeyRecords)
	if err != nil {
		return false
	}
	return report.RequireCore(records) == nil
}

func get[T any](s state.State, key string) (T, error) {
	var zero T
	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("missing %s in state", key)
	}

	v, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%s is not %T", key, zero)
	}

	return v, nil
}

func workerCount(n int) int {
	return max(min(runtime.NumCPU(), n), 1)
}
