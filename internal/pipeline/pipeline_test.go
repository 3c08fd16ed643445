package pipeline

import (
	"context"
	"errors"
	"testing"
)

// mockStep is a configurable Step for testing.
type mockStep struct {
	name string
	err  error
	do   func(ctx context.Context, job *Job)
}

func (m *mockStep) Name() string { return m.name }

func (m *mockStep) Do(ctx context.Context, job *Job) error {
	if m.do != nil {
		m.do(ctx, job)
	}
	return m.err
}

// TestPipelineNew tests the constructor and step registration.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	p := New()
	if p.logger == nil {
		t.Error("expected default logger")
	}
	if p.StepCount() != 0 {
		t.Errorf("expected no steps, got %d", p.StepCount())
	}

	p.AddStep(&mockStep{name: "one"})
	p.AddSteps(&mockStep{name: "two"}, &mockStep{name: "three"})

	names := p.StepNames()
	want := []string{"one", "two", "three"}
	if len(names) != len(want) {
		t.Fatalf("StepNames() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("StepNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

// TestPipelineExecute tests step ordering and error handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		for _, name := range []string{"a", "b", "c"} {
			p.AddStep(&mockStep{name: name, do: func(context.Context, *Job) { order = append(order, name) }})
		}

		job := NewJob("example.com")
		if err := p.Execute(t.Context(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 3 || order[0] != "a" || order[2] != "c" {
			t.Errorf("order = %v", order)
		}
		if len(job.Performed) != 3 {
			t.Errorf("Performed = %v", job.Performed)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		ran := false
		p := New()
		p.AddSteps(
			&mockStep{name: "fail", err: errBoom},
			&mockStep{name: "after", do: func(context.Context, *Job) { ran = true }},
		)

		job := NewJob("example.com")
		if err := p.Execute(t.Context(), job); !errors.Is(err, errBoom) {
			t.Errorf("expected errBoom, got %v", err)
		}
		if ran {
			t.Error("step after failure should not run")
		}
		if !errors.Is(job.Err, errBoom) {
			t.Errorf("job.Err = %v", job.Err)
		}
	})

	t.Run("continue on error keeps the first error", func(t *testing.T) {
		t.Parallel()

		errFirst := errors.New("first")
		ran := false
		p := New(WithContinueOnError(true))
		p.AddSteps(
			&mockStep{name: "fail", err: errFirst},
			&mockStep{name: "fail again", err: errors.New("second")},
			&mockStep{name: "after", do: func(context.Context, *Job) { ran = true }},
		)

		job := NewJob("example.com")
		if err := p.Execute(t.Context(), job); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !ran {
			t.Error("expected remaining steps to run")
		}
		if !errors.Is(job.Err, errFirst) {
			t.Errorf("job.Err = %v", job.Err)
		}
	})

	t.Run("cancelled context stops before the next step", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		ran := false
		p := New()
		p.AddSteps(
			&mockStep{name: "cancel", do: func(context.Context, *Job) { cancel() }},
			&mockStep{name: "after", do: func(context.Context, *Job) { ran = true }},
		)

		job := NewJob("example.com")
		if err := p.Execute(ctx, job); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if ran {
			t.Error("step after cancellation should not run")
		}
		if !errors.Is(job.Err, context.Canceled) {
			t.Errorf("job.Err = %v", job.Err)
		}
	})
}
