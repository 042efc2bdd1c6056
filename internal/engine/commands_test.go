package engine

import (
	"strings"
	"testing"

	"motionctl/internal/safety"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.TotalSteps = 50
	return cfg
}

func TestDispatchControlStepAdvancesAxis(t *testing.T) {
	e, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result := e.Dispatch(1, 3, [5]float64{})
	if result.Status != StatusCompleted {
		t.Fatalf("cmd 1 axis 3 (both axes): got status %v, want Completed: %s", result.Status, result.Message)
	}
	if e.Axes[0].Step != 1 || e.Axes[1].Step != 1 {
		t.Fatalf("both axes should have advanced one step, got %d and %d", e.Axes[0].Step, e.Axes[1].Step)
	}
}

func TestDispatchSingleAxisMask(t *testing.T) {
	e, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if result := e.Dispatch(1, 1, [5]float64{}); result.Status != StatusCompleted {
		t.Fatalf("cmd 1 axis 1: got %v: %s", result.Status, result.Message)
	}
	if e.Axes[0].Step != 1 {
		t.Fatalf("axis 0 should have advanced, got step %d", e.Axes[0].Step)
	}
	if e.Axes[1].Step != 0 {
		t.Fatalf("axis 1 should not have advanced, got step %d", e.Axes[1].Step)
	}
}

func TestDispatchResetCounters(t *testing.T) {
	e, _ := New(testConfig(), nil)
	e.Dispatch(1, 3, [5]float64{})
	e.Dispatch(2, 0, [5]float64{})
	if e.globalStep != 0 {
		t.Fatalf("cmd 2 should reset globalStep, got %d", e.globalStep)
	}
	for i, ax := range e.Axes {
		if ax.Step != 0 || ax.Active {
			t.Fatalf("axis %d not reset: step=%d active=%v", i, ax.Step, ax.Active)
		}
	}
}

func TestDispatchEmergencyStop(t *testing.T) {
	e, _ := New(testConfig(), nil)
	result := e.Dispatch(4, 0, [5]float64{})
	if result.Status != StatusCompleted {
		t.Fatalf("cmd 4: got %v", result.Status)
	}
	if e.Running() {
		t.Fatalf("cmd 4 should clear the running flag")
	}
	for i, ax := range e.Axes {
		if !ax.Fault.Raw[0] {
			t.Fatalf("axis %d should have HARDWARE_EMERGENCY_STOP raised", i)
		}
		if ax.Safety.Mode != safety.Open {
			t.Fatalf("axis %d should be in open mode, got %v", i, ax.Safety.Mode)
		}
	}
}

func TestDispatchStatusQueryReportsSnapshotFields(t *testing.T) {
	e, _ := New(testConfig(), nil)
	e.Dispatch(1, 1, [5]float64{})
	result := e.Dispatch(7, 0, [5]float64{})
	if result.Status != StatusCompleted {
		t.Fatalf("cmd 7: got %v: %s", result.Status, result.Message)
	}
	for _, field := range []string{"st=", "t=", "a=", "e=", "f=", "md=", "kp=", "ki=", "kd=", "d=", "v=", "am="} {
		if !strings.Contains(result.Message, field) {
			t.Fatalf("cmd 7 message missing field %q: %s", field, result.Message)
		}
	}
	if len(result.Message) > 128 {
		t.Fatalf("cmd 7 message exceeds wire buffer: %d bytes", len(result.Message))
	}
}

func TestDispatchStatusQueryRejectsInvalidAxis(t *testing.T) {
	e, _ := New(testConfig(), nil)
	result := e.Dispatch(7, 99, [5]float64{})
	if result.Status != StatusError {
		t.Fatalf("cmd 7 with out-of-range axis should error, got %v", result.Status)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	e, _ := New(testConfig(), nil)
	result := e.Dispatch(42, 0, [5]float64{})
	if result.Status != StatusError {
		t.Fatalf("unknown command should error, got %v", result.Status)
	}
}

func TestDispatchPlannerReinitSentinelDefaults(t *testing.T) {
	e, _ := New(testConfig(), nil)
	result := e.Dispatch(5, 0, [5]float64{0, 0, 0, 0, 0})
	if result.Status != StatusCompleted {
		t.Fatalf("cmd 5 with all-zero params should use defaults: %s", result.Message)
	}
	in := e.Axes[0].Planner.Input()
	if in.Distance != 1.0 || in.VMax != 0.8 {
		t.Fatalf("cmd 5 sentinel defaults not applied: got %+v", in)
	}
}

func TestDispatchGainUpdateSentinelKeepsCurrent(t *testing.T) {
	e, _ := New(testConfig(), nil)
	orig := e.Axes[0].Controller.PID.Kp
	result := e.Dispatch(6, 0, [5]float64{0, 5.0, 0})
	if result.Status != StatusCompleted {
		t.Fatalf("cmd 6: %s", result.Message)
	}
	if e.Axes[0].Controller.PID.Kp != orig {
		t.Fatalf("Kp should be unchanged by a zero param, got %v want %v", e.Axes[0].Controller.PID.Kp, orig)
	}
	if e.Axes[0].Controller.PID.Ki != 5.0 {
		t.Fatalf("Ki should have been updated to 5.0, got %v", e.Axes[0].Controller.PID.Ki)
	}
}
