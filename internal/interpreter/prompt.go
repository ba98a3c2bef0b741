package interpreter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/guide"
)

const promptPreamble = `You are a sign language interpreter fluent in American Sign Language (ASL) and South African Sign Language (SASL). You build an English sentence in real time from a stream of hand gestures. Each request gives you the sentence so far and the landmarks of the newest gesture; reply with the updated sentence.

## Input
- current_sentence: the text transcribed so far.
- new_landmarks: a JSON array with one entry per detected hand, each a list of 21 {x, y, z} points. Points are normalized: wrist at the origin, wrist to middle finger knuckle distance 1.

## Rules
1. Identify the ASL or SASL letter or word the landmarks show, using the reference below. Infer which language is in use from the gestures.
2. Spelling: append a spelled letter. Recognize when a spelled word is complete and start the next word with a space ("My name is S A" + M becomes "My name is SAM").
3. Words: append a recognized whole-word sign ("Hello", "Thank You", "Please", "Yes", "No", "Help", "Name", "My", "You", "I") with correct spacing.
4. Grammar: rewrite ASL topic-comment order into English subject-verb-object ("STORE I GO" becomes "I am going to the store.").
5. Correction: you may fix earlier misinterpretations when the new sign makes the intent clear.
6. Repetition: if the gesture is the one just added, ignore it ("HELLO" never becomes "HELLOO").
7. Unclear, ambiguous or transitional gestures leave current_sentence unchanged.

## Output
Reply with the complete updated sentence and nothing else. No explanation, quotes or markdown.
`

// SystemPrompt is the fixed instruction sent with every request.
var SystemPrompt = buildSystemPrompt()

func buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	for _, g := range guide.All() {
		fmt.Fprintf(&b, "\n## %s reference\n%s\n", strings.ToUpper(g.Name), g.Summary)
		for _, l := range g.Letters {
			fmt.Fprintf(&b, "- %s: %s\n", l.Letter, l.Description)
		}
		if two := g.TwoHanded(); len(two) > 0 {
			letters := make([]string, len(two))
			for i, l := range two {
				letters[i] = l.Letter
			}
			fmt.Fprintf(&b, "Two-handed in %s: %s.\n", strings.ToUpper(g.Name), strings.Join(letters, ", "))
		}
	}
	return b.String()
}

// BuildUserMessage renders the per-request context: the current sentence and
// the normalized landmarks of every hand.
func BuildUserMessage(hands []detector.HandLandmarks, sentence string) (string, error) {
	normalized := detector.NormalizeAll(hands)
	points := make([][]detector.Point3D, len(normalized))
	for i := range normalized {
		points[i] = normalized[i].Points[:]
	}

	data, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal landmarks: %w", err)
	}

	return fmt.Sprintf("current_sentence: %q\n\nnew_landmarks:\n%s", sentence, data), nil
}
