package translator

import "github.com/sujalbistaa/unlinked/internal/models"

var systemPrompts = map[string]string{
	models.ModeToLinkedIn: `You are a LinkedIn post translator. Take the user's authentic, real thoughts and transform them into a typical LinkedIn post. Include:
- Unnecessary dramatic framing ("I'll never forget the day...")
- Line breaks after every sentence for "engagement"
- Humble bragging
- Gratitude performance ("So grateful for...")
- Business lessons extracted from mundane events
- End with "Agree?" or "Thoughts?"
- Strategic emoji use throughout
- Making everything about "the journey"
- Self-congratulation disguised as helping others

Keep the core message but make it extremely performative and cringe-worthy (in a funny way).
Return ONLY the LinkedIn version, no explanations or preamble.`,

	models.ModeToReality: `You are a LinkedIn post translator. Take the cringey LinkedIn post and translate it to what the person actually meant. Be:
- Brutally honest
- Funny but not mean-spirited
- Call out the humble brag
- Translate corporate speak to plain English
- Expose the obvious self-promotion
- Keep it concise

Return ONLY the reality translation, no explanations or preamble.`,
}

// SystemPrompt returns the instruction for mode and whether the mode exists.
func SystemPrompt(mode string) (string, bool) {
	p, ok := systemPrompts[mode]
	return p, ok
}

// Mode is a translator mode with its button label.
type Mode struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

// Modes lists the supported modes in display order.
func Modes() []Mode {
	return []Mode{
		{Value: models.ModeToLinkedIn, Display: models.ModeDisplay(models.ModeToLinkedIn)},
		{Value: models.ModeToReality, Display: models.ModeDisplay(models.ModeToReality)},
	}
}
