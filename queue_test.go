package tagplay

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
)

// countingReleaser records releases, optionally into a shared log.
type countingReleaser struct {
	name string
	n    int
	log  *[]string
}

func (c *countingReleaser) Release() error {
	c.n++
	if c.log != nil {
		*c.log = append(*c.log, c.name)
	}
	return nil
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(5, 5))
}

func TestAssembleTags(t *testing.T) {
	got := AssembleTags("white", "Start", "Idle", "black*", "Start", "Idle")
	want := []string{"white_Start", "white_Idle", "black_Start", "black_Idle"}
	if !slices.Equal(got, want) {
		t.Errorf("AssembleTags = %v, want %v", got, want)
	}
}

func TestAssembleTags_SkipsEmptyTokens(t *testing.T) {
	got := AssembleTags("a", "", "x", "b*", "")
	if !slices.Equal(got, []string{"a_x"}) {
		t.Errorf("AssembleTags = %v", got)
	}
}

func TestTagQueue_AdvanceInOrderThenEnd(t *testing.T) {
	q := NewTagQueue("white", "Start", "Idle", "Cast")
	for _, want := range []string{"white_Start", "white_Idle", "white_Cast"} {
		step, err := q.Advance()
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if step.End || step.Tag != want {
			t.Fatalf("Advance = %+v, want tag %q", step, want)
		}
	}
	for i := 0; i < 3; i++ {
		step, err := q.Advance()
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if step != EndOfSequence {
			t.Fatalf("call %d after exhaustion = %+v, want EndOfSequence", i, step)
		}
	}
	if q.Pos() != 3 || !q.Exhausted() {
		t.Errorf("Pos = %d, Exhausted = %v", q.Pos(), q.Exhausted())
	}
}

func TestTagQueue_EmptyQueue(t *testing.T) {
	q := NewTagQueue("x")
	q.Randomize(true)
	step, err := q.Advance()
	if err != nil || !step.End {
		t.Errorf("Advance = %+v, %v; want end", step, err)
	}
}

func TestTagQueue_RandomizeKeepsRestFirst(t *testing.T) {
	q := NewTagQueue("Idle", "Base", "VarA", "VarB", "VarC", "VarD").SetRand(seeded())
	if q.IsRandom() {
		t.Fatal("new queue should not be random")
	}
	if q.Randomize(false) != q {
		t.Fatal("Randomize should return the queue")
	}
	if !q.IsRandom() {
		t.Fatal("IsRandom = false after Randomize")
	}

	cur := q.CurTags()
	if cur[0] != "Idle_Base" {
		t.Errorf("first tag = %q, want Idle_Base", cur[0])
	}
	rest := slices.Clone(cur[1:])
	slices.Sort(rest)
	want := []string{"Idle_VarA", "Idle_VarB", "Idle_VarC", "Idle_VarD"}
	if !slices.Equal(rest, want) {
		t.Errorf("variants = %v, want permutation of %v", rest, want)
	}
	if !slices.Equal(q.Tags(), []string{"Idle_Base", "Idle_VarA", "Idle_VarB", "Idle_VarC", "Idle_VarD"}) {
		t.Errorf("base tags changed: %v", q.Tags())
	}
}

func TestTagQueue_RandomizeReproducibleWithSeed(t *testing.T) {
	a := NewTagQueue("Idle", "Base", "A", "B", "C", "D", "E").SetRand(seeded()).Randomize(false)
	b := NewTagQueue("Idle", "Base", "A", "B", "C", "D", "E").SetRand(seeded()).Randomize(false)
	if !slices.Equal(a.CurTags(), b.CurTags()) {
		t.Errorf("same seed gave %v and %v", a.CurTags(), b.CurTags())
	}
}

func TestTagQueue_RandomizeInterleave(t *testing.T) {
	q := NewTagQueue("Idle", "Base", "VarA", "VarB", "VarC").SetRand(seeded()).Randomize(true)
	cur := q.CurTags()
	// rest + 3 variants, rest between each pair: 1 + (2*3 - 1)
	if len(cur) != 6 {
		t.Fatalf("len = %d, want 6 (%v)", len(cur), cur)
	}
	for i, tag := range cur {
		if i%2 == 0 && tag != "Idle_Base" {
			t.Errorf("cur[%d] = %q, want rest tag", i, tag)
		}
		if i%2 == 1 && tag == "Idle_Base" {
			t.Errorf("cur[%d] is the rest tag, want a variant", i)
		}
	}
}

func TestTagQueue_InterleaveIsSticky(t *testing.T) {
	q := NewTagQueue("Idle", "Base", "VarA", "VarB").SetRand(seeded())
	q.Randomize(true)
	q.Randomize(false)
	if !q.Interleaved() {
		t.Fatal("interleave should stay set")
	}
	if got := len(q.CurTags()); got != 4 {
		t.Errorf("len = %d, want 4", got)
	}
	q.Reset()
	if got := len(q.CurTags()); got != 4 {
		t.Errorf("len after Reset = %d, want 4", got)
	}
}

func TestTagQueue_ResetReshuffles(t *testing.T) {
	q := NewTagQueue("Idle", "Base", "A", "B", "C", "D", "E", "F").SetRand(seeded()).Randomize(false)
	first := q.CurTags()
	base := q.Tags()

	q.Advance()
	q.Advance()

	changed := false
	for i := 0; i < 5; i++ {
		q.Reset()
		if q.Pos() != 0 {
			t.Fatalf("Pos after Reset = %d", q.Pos())
		}
		if q.CurTags()[0] != "Idle_Base" {
			t.Fatalf("rest tag moved: %v", q.CurTags())
		}
		if !slices.Equal(q.CurTags(), first) {
			changed = true
		}
	}
	if !changed {
		t.Error("Reset never produced a new permutation")
	}
	if !slices.Equal(q.Tags(), base) {
		t.Errorf("Reset changed base tags: %v", q.Tags())
	}
}

func TestTagQueue_ResetWithoutRandomKeepsOrder(t *testing.T) {
	q := NewTagQueue("a", "x", "y")
	q.Advance()
	q.Advance()
	q.Reset()
	step, _ := q.Advance()
	if step.Tag != "a_x" {
		t.Errorf("after Reset Advance = %+v, want a_x", step)
	}
}

func TestTagQueue_DependentsFireOneStepLate(t *testing.T) {
	idle := &countingReleaser{name: "idle"}
	start := &countingReleaser{name: "start"}
	q := NewTagQueue("black", "Start", "Idle")
	if _, err := q.SetDependents(map[string]any{
		"black_Start": Releaser(start),
		"black_Idle":  Releaser(idle),
	}); err != nil {
		t.Fatalf("SetDependents: %v", err)
	}

	step, _ := q.Advance()
	if step.Tag != "black_Start" || start.n != 0 {
		t.Fatalf("after first Advance: %+v, start released %d times", step, start.n)
	}
	step, _ = q.Advance()
	if step.Tag != "black_Idle" {
		t.Fatalf("second Advance = %+v", step)
	}
	if start.n != 1 {
		t.Errorf("start dependents released %d times, want 1", start.n)
	}
	if idle.n != 0 {
		t.Errorf("idle dependents released on the call returning black_Idle")
	}

	step, _ = q.Advance()
	if !step.End || idle.n != 1 {
		t.Fatalf("third Advance = %+v, idle released %d times, want end and 1", step, idle.n)
	}
	q.Advance()
	if idle.n != 1 || start.n != 1 {
		t.Errorf("exhausted Advance re-fired dependents: idle %d start %d", idle.n, start.n)
	}
}

func TestTagQueue_ResetDropsUnfinishedTriggers(t *testing.T) {
	start := &countingReleaser{name: "start"}
	q := NewTagQueue("black", "Start", "Idle")
	if _, err := q.SetDependents(map[string]any{"black_Start": Releaser(start)}); err != nil {
		t.Fatalf("SetDependents: %v", err)
	}

	q.Advance()
	q.Reset()
	if q.LastStep() != "" {
		t.Errorf("LastStep after Reset = %q, want empty", q.LastStep())
	}
	step, err := q.Advance()
	if err != nil || step.Tag != "black_Start" {
		t.Fatalf("Advance after Reset = %+v, %v", step, err)
	}
	if start.n != 0 {
		t.Errorf("start dependents released %d times before black_Start completed", start.n)
	}
	q.Advance()
	if start.n != 1 {
		t.Errorf("start dependents released %d times, want 1", start.n)
	}
}

func TestTagQueue_DependentsReleaseInGroupOrder(t *testing.T) {
	var log []string
	a := &countingReleaser{name: "a", log: &log}
	b := &countingReleaser{name: "b", log: &log}
	c := &countingReleaser{name: "c", log: &log}
	q := NewTagQueue("x", "One", "Two")
	if _, err := q.SetDependents(map[string]any{"x_One": []Releaser{c, a, b}}); err != nil {
		t.Fatalf("SetDependents: %v", err)
	}
	q.Advance()
	q.Advance()
	if !slices.Equal(log, []string{"c", "a", "b"}) {
		t.Errorf("release order = %v, want [c a b]", log)
	}
}

func TestTagQueue_SetDependentsNormalizes(t *testing.T) {
	d1 := NewTagQueue("d1", "A")
	d2 := NewTagQueue("d2", "A")
	q := NewTagQueue("x", "One")
	if _, err := q.SetDependents(map[string]any{
		"single": d1,
		"group":  []*TagQueue{d2, d1},
	}); err != nil {
		t.Fatalf("SetDependents: %v", err)
	}
	if got := q.Dependents("single"); len(got) != 1 || got[0] != Releaser(d1) {
		t.Errorf("single = %v", got)
	}
	got := q.Dependents("group")
	if len(got) != 2 || got[0] != Releaser(d2) || got[1] != Releaser(d1) {
		t.Errorf("group = %v", got)
	}
}

func TestTagQueue_SetDependentsRejectsBadTypes(t *testing.T) {
	keep := &countingReleaser{}
	q := NewTagQueue("x", "Idle")
	if _, err := q.SetDependents(map[string]any{"x_Idle": Releaser(keep)}); err != nil {
		t.Fatal(err)
	}

	for _, bad := range []any{"test", 3, nil, []string{"a"}, []*TagQueue{nil}, (*TagQueue)(nil)} {
		_, err := q.SetDependents(map[string]any{"x_Idle": bad})
		if !errors.Is(err, ErrInvalidDependentType) {
			t.Errorf("SetDependents(%#v) err = %v, want ErrInvalidDependentType", bad, err)
		}
	}
	if got := q.Dependents("x_Idle"); len(got) != 1 {
		t.Errorf("rejected mapping replaced dependents: %v", got)
	}
}

func TestTagQueue_ReleaseUnbound(t *testing.T) {
	q := NewTagQueue("x", "A")
	if err := q.Release(); !errors.Is(err, ErrUnboundQueueRelease) {
		t.Errorf("Release err = %v, want ErrUnboundQueueRelease", err)
	}
}

func TestTagQueue_SetOwnerRejectsNonSprite(t *testing.T) {
	q := NewTagQueue("x", "A")
	err := q.SetOwner("bad_parent")
	if !errors.Is(err, ErrInvalidOwnerType) {
		t.Fatalf("err = %v, want ErrInvalidOwnerType", err)
	}
	if !strings.Contains(err.Error(), "string") {
		t.Errorf("error %q should name the passed type", err)
	}
	if err := q.SetOwner((*Sprite)(nil)); !errors.Is(err, ErrInvalidOwnerType) {
		t.Errorf("nil sprite err = %v", err)
	}
	if q.Owner() != nil {
		t.Error("failed SetOwner bound the queue")
	}
}

func TestTagQueue_FirstBindWins(t *testing.T) {
	s1 := newTestSprite(t, "one", nil, nil)
	s2 := newTestSprite(t, "two", nil, nil)
	q := NewTagQueue("white", "Start")

	if err := q.SetOwner(s1); err != nil {
		t.Fatalf("SetOwner(s1): %v", err)
	}
	if err := q.SetOwner(s1); err != nil {
		t.Errorf("rebinding the same sprite: %v", err)
	}
	if err := q.SetOwner(s2); !errors.Is(err, ErrOwnerConflict) {
		t.Errorf("SetOwner(s2) err = %v, want ErrOwnerConflict", err)
	}
	if q.Owner() != s1 {
		t.Error("owner changed after conflict")
	}
}

func TestTagQueue_AtlasChangeOnFollowingAdvance(t *testing.T) {
	q := NewTagQueue("white", "Start", "Idle").
		SetAtlasChange(map[string]string{"white_Start": "alt"})
	s := newTestSprite(t, "flake", q, nil)

	q.Advance()
	if s.Sheet() != "snowflake" {
		t.Fatalf("sheet changed on the call returning white_Start")
	}
	q.Advance()
	if s.Sheet() != "alt" {
		t.Errorf("sheet = %q, want alt", s.Sheet())
	}
	if sheet, ok := q.AtlasChange("white_Start"); !ok || sheet != "alt" {
		t.Errorf("AtlasChange = %q, %v", sheet, ok)
	}
}

func TestTagQueue_AtlasChangeUnbound(t *testing.T) {
	q := NewTagQueue("white", "Start", "Idle").
		SetAtlasChange(map[string]string{"white_Start": "alt"})
	q.Advance()
	if _, err := q.Advance(); !errors.Is(err, ErrUnboundQueueRelease) {
		t.Errorf("err = %v, want ErrUnboundQueueRelease", err)
	}
}

func TestTagQueue_LastStepAndAutoRelease(t *testing.T) {
	q := NewTagQueue("a", "x").SetAutoRelease(true)
	if !q.AutoRelease() {
		t.Error("AutoRelease = false")
	}
	q.Advance()
	if q.LastStep() != "a_x" {
		t.Errorf("LastStep = %q", q.LastStep())
	}
}
