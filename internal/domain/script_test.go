package domain

import "testing"

func TestSceneCount(t *testing.T) {
	cases := []struct {
		name     string
		duration string
		want     int
	}{
		{"exact multiple", "24", 3},
		{"rounds up", "25", 4},
		{"single scene", "8", 1},
		{"below one scene", "5", 1},
		{"empty defaults to 24", "", 3},
		{"garbage defaults to 24", "soon", 3},
		{"negative defaults to 24", "-16", 3},
		{"whitespace is tolerated", " 16 ", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := ScriptRequest{Duration: tc.duration}
			if got := req.SceneCount(); got != tc.want {
				t.Fatalf("SceneCount(%q) = %d, want %d", tc.duration, got, tc.want)
			}
		})
	}
}

func TestBundlesJoinInSceneOrder(t *testing.T) {
	script := &Script{
		Summary: "overview",
		Scenes: []Scene{
			{Index: 1, ImagePrompt: "A", MotionPrompt: "move-A", VideoPromptJSON: `{"prompt":"a"}`},
			{Index: 2, ImagePrompt: "B", MotionPrompt: "move-B", VideoPromptJSON: `{"prompt":"b"}`},
			{Index: 3, ImagePrompt: "C", MotionPrompt: "move-C", VideoPromptJSON: `{"prompt":"c"}`},
		},
	}

	bundles := script.Bundles()
	if bundles.Image != "A\n\nB\n\nC" {
		t.Fatalf("Image bundle = %q", bundles.Image)
	}
	if bundles.Motion != "move-A\n\nmove-B\n\nmove-C" {
		t.Fatalf("Motion bundle = %q", bundles.Motion)
	}
	if got := CountPrompts(bundles.Image); got != 3 {
		t.Fatalf("CountPrompts = %d, want 3", got)
	}
	if got := CountPrompts(bundles.VideoJSON); got != 3 {
		t.Fatalf("CountPrompts(video) = %d, want 3", got)
	}
}

func TestCountPromptsSkipsEmptySegments(t *testing.T) {
	if got := CountPrompts(""); got != 0 {
		t.Fatalf("CountPrompts(empty) = %d, want 0", got)
	}
	if got := CountPrompts("A\n\n\n\nB"); got != 2 {
		t.Fatalf("CountPrompts with blank segment = %d, want 2", got)
	}
}

func TestCompositionJobID(t *testing.T) {
	model := ReferenceImage{ID: "m1"}
	garment := ReferenceImage{ID: "g1"}
	accessory := ReferenceImage{ID: "a1"}

	pair := CompositionJob{Model: model, Garment: garment}
	if pair.ID() != "m1g1" {
		t.Fatalf("pair ID = %q", pair.ID())
	}
	triple := CompositionJob{Model: model, Garment: garment, Accessory: &accessory}
	if triple.ID() != "m1g1a1" {
		t.Fatalf("triple ID = %q", triple.ID())
	}
	if refs := triple.Refs(); len(refs) != 3 || refs[0].ID != "m1" || refs[2].ID != "a1" {
		t.Fatalf("Refs = %#v", refs)
	}
}
