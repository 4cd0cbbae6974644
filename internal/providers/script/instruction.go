package script

import (
	"encoding/json"
	"fmt"
	"strings"

	"veostudio/internal/domain"
)

// scriptSchema is the structured-output constraint sent to the direct
// backend: a summary plus scene objects with exactly six required fields.
var scriptSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "summary": {"type": "STRING"},
    "scenes": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "index": {"type": "INTEGER"},
          "duration": {"type": "STRING"},
          "description": {"type": "STRING"},
          "image_prompt": {"type": "STRING"},
          "motion_prompt": {"type": "STRING"},
          "video_prompt_json": {"type": "STRING"}
        },
        "required": ["index", "duration", "description", "image_prompt", "motion_prompt", "video_prompt_json"]
      }
    }
  },
  "required": ["summary", "scenes"]
}`)

// buildInstruction embeds the idea and constraints into one instruction.
// The four formatting rules are contract obligations on the upstream model
// and must be preserved exactly by any replacement backend.
func buildInstruction(req domain.ScriptRequest, sceneCount int) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You are a professional video director. Create a storyboard script for this idea: %q.\n", strings.TrimSpace(req.Idea))
	fmt.Fprintf(sb, "Style: %s. Aspect ratio: %s.\n", req.Style, req.AspectRatio)
	fmt.Fprintf(sb, "Respond strictly as JSON with a top-level \"summary\" string and a \"scenes\" array.\n")
	fmt.Fprintf(sb, "Each scene object must contain exactly these fields: index, duration, description, image_prompt, motion_prompt, video_prompt_json.\n")
	sb.WriteString("Non-negotiable rules:\n")
	fmt.Fprintf(sb, "1. Output exactly %d scenes, numbered 1 to %d, each with duration labeled \"8 seconds\".\n", sceneCount, sceneCount)
	sb.WriteString("2. Any spoken dialogue from the idea's source language must be preserved verbatim, in its original language, wrapped in quotation marks, inside otherwise English-language prompts.\n")
	sb.WriteString("3. If a character speaks in more than one scene, use a textually identical voice descriptor for that character in every prompt referencing them.\n")
	sb.WriteString("4. video_prompt_json must be a syntactically valid JSON-encoded string with a single key \"prompt\" whose value merges the image prompt's visual intent with the motion prompt's movement and dialogue intent.\n")
	return sb.String()
}
