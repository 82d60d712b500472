package main

import "testing"

func TestTransitionLifecycle(t *testing.T) {
	tr := NewTransition()
	if tr.Update() {
		t.Fatalf("Update() on an idle transition reported activity")
	}

	var started []string
	tr.OnStart = func(target, spawn string) {
		started = append(started, target+"/"+spawn)
	}

	tr.Enter("corridor", "From_South")
	if !tr.Active {
		t.Fatalf("Enter did not activate the transition")
	}
	// a second request during the fade is ignored
	tr.Enter("cellar", "From_Corridor")
	if tr.Target != "corridor" {
		t.Fatalf("Target = %q, want %q", tr.Target, "corridor")
	}

	updates := 0
	for tr.Active {
		if !tr.Update() {
			t.Fatalf("Update() returned false while active")
		}
		updates++
		if updates > 100 {
			t.Fatalf("transition never finished")
		}
	}

	if updates != 40 {
		t.Fatalf("transition took %d updates, want 40", updates)
	}
	if len(started) != 1 || started[0] != "corridor/From_South" {
		t.Fatalf("OnStart calls = %v, want one corridor/From_South", started)
	}
	if tr.Target != "" || tr.Spawn != "" || tr.Phase != 0 || tr.Frames != 0 {
		t.Fatalf("transition not reset after finishing: %+v", tr)
	}
}

func TestTransitionFiresLoadAtMidpoint(t *testing.T) {
	tr := NewTransition()
	fired := -1
	step := 0
	tr.OnStart = func(string, string) {
		fired = step
	}

	tr.Enter("cellar", "")
	for step < tr.Duration {
		step++
		tr.Update()
	}

	// the room swap happens exactly when the screen is fully black
	if fired != tr.Duration {
		t.Fatalf("OnStart fired at step %d, want %d", fired, tr.Duration)
	}
	if tr.Phase != 3 {
		t.Fatalf("Phase = %d, want 3 after the midpoint", tr.Phase)
	}
}
