package tagplay

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadScript_Errors(t *testing.T) {
	for name, src := range map[string]string{
		"invalid json":   `{`,
		"no steps":       `{"steps": []}`,
		"unknown action": `{"steps": [{"action": "dance"}]}`,
	} {
		if _, err := LoadScript([]byte(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestScript_DrivesStage(t *testing.T) {
	script, err := LoadScript([]byte(`{"steps": [
		{"action": "start", "sprite": "flake"},
		{"action": "wait", "frames": 2},
		{"action": "release", "sprite": "flake"},
		{"action": "link", "sprite": "flake", "sheet": "alt"},
		{"action": "start_tag", "sprite": "flake", "tag": "white_Start"}
	]}`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	stage := NewStage()
	s := newTestSprite(t, "flake", NewTagQueue("white", "Idle", "Cast"), nil)
	stage.Add(s)
	stage.SetScript(script)

	stage.Update(1.0 / 6.0) // start
	if s.Tag() != "white_Idle" {
		t.Fatalf("after start: tag %q", s.Tag())
	}
	stage.Update(1.0 / 6.0) // wait
	stage.Update(1.0 / 6.0) // wait
	if s.Tag() != "white_Idle" {
		t.Fatalf("released during wait: tag %q", s.Tag())
	}
	stage.Update(1.0 / 6.0) // release
	if s.Tag() != "white_Cast" {
		t.Fatalf("after release: tag %q", s.Tag())
	}
	stage.Update(1.0 / 6.0) // link
	if s.Sheet() != "alt" {
		t.Fatalf("after link: sheet %q", s.Sheet())
	}
	stage.Update(1.0 / 6.0) // start_tag
	if s.Tag() != "white_Start" {
		t.Fatalf("after start_tag: tag %q", s.Tag())
	}
	if !script.Done() || script.Err() != nil {
		t.Errorf("Done %v Err %v", script.Done(), script.Err())
	}
}

func TestScript_UnknownSpriteStops(t *testing.T) {
	script, err := LoadScript([]byte(`{"steps": [
		{"action": "start", "sprite": "ghost"},
		{"action": "start", "sprite": "flake"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	stage := NewStage()
	s := newTestSprite(t, "flake", NewTagQueue("white", "Idle"), nil)
	stage.Add(s)
	stage.SetScript(script)

	stage.Update(0.1)
	stage.Update(0.1)
	if !script.Done() || script.Err() == nil || !strings.Contains(script.Err().Error(), "ghost") {
		t.Errorf("Done %v Err %v", script.Done(), script.Err())
	}
	if s.State() != StateInitial {
		t.Error("script kept running after an error")
	}
}

func TestScript_PropagatesSpriteErrors(t *testing.T) {
	script, _ := LoadScript([]byte(`{"steps": [{"action": "start", "sprite": "flake"}]}`))
	stage := NewStage()
	stage.Add(newTestSprite(t, "flake", nil, nil))
	stage.SetScript(script)
	stage.Update(0.1)
	if !errors.Is(script.Err(), ErrNoQueue) {
		t.Errorf("Err = %v, want ErrNoQueue", script.Err())
	}
}
