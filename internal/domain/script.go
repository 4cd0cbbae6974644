package domain

import (
	"strconv"
	"strings"
)

const (
	// SceneSeconds is the fixed length of every storyboard scene.
	SceneSeconds = 8
	// DefaultDurationSeconds is assumed when the requested duration is
	// empty or unparseable.
	DefaultDurationSeconds = 24
)

// ScriptRequest captures one storyboard generation request. It is treated
// as immutable once submitted.
type ScriptRequest struct {
	Idea        string `json:"idea"`
	Duration    string `json:"duration"`
	Style       string `json:"style"`
	AspectRatio string `json:"aspect_ratio"`
}

// SceneCount derives the number of scenes from the requested duration:
// ceil(duration/8), minimum one scene.
func (r ScriptRequest) SceneCount() int {
	d, err := strconv.Atoi(strings.TrimSpace(r.Duration))
	if err != nil || d <= 0 {
		d = DefaultDurationSeconds
	}
	n := (d + SceneSeconds - 1) / SceneSeconds
	if n < 1 {
		n = 1
	}
	return n
}

// Scene is one 8-second narrative unit of a storyboard. All six fields are
// mandatory in a well-formed scene.
type Scene struct {
	Index           int    `json:"index"`
	Duration        string `json:"duration"`
	Description     string `json:"description"`
	ImagePrompt     string `json:"image_prompt"`
	MotionPrompt    string `json:"motion_prompt"`
	VideoPromptJSON string `json:"video_prompt_json"`
}

// Script is the output of the storyboard generator: a summary plus the
// ordered scene list. It is created whole from one successful generation
// call, never partially populated.
type Script struct {
	Summary string  `json:"summary"`
	Scenes  []Scene `json:"scenes"`
}

// bundleSeparator joins prompts into the flattened copy-all bundles.
const bundleSeparator = "\n\n"

// PromptBundles are the three flattened prompt texts derived from a script,
// one prompt per scene joined by a blank line.
type PromptBundles struct {
	Image     string `json:"image"`
	Motion    string `json:"motion"`
	VideoJSON string `json:"video_json"`
}

// Bundles flattens the per-scene prompts, in scene order, into the three
// copy-all bundles.
func (s *Script) Bundles() PromptBundles {
	image := make([]string, 0, len(s.Scenes))
	motion := make([]string, 0, len(s.Scenes))
	videoJSON := make([]string, 0, len(s.Scenes))
	for _, scene := range s.Scenes {
		image = append(image, scene.ImagePrompt)
		motion = append(motion, scene.MotionPrompt)
		videoJSON = append(videoJSON, scene.VideoPromptJSON)
	}
	return PromptBundles{
		Image:     strings.Join(image, bundleSeparator),
		Motion:    strings.Join(motion, bundleSeparator),
		VideoJSON: strings.Join(videoJSON, bundleSeparator),
	}
}

// CountPrompts counts the prompts in a flattened bundle by splitting on the
// blank-line separator and discarding empty segments. This is the canonical
// count used for display.
func CountPrompts(bundle string) int {
	count := 0
	for _, part := range strings.Split(bundle, bundleSeparator) {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}
