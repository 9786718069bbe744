package model

import "fmt"

// EmotionCategory groups catalog emotions by valence.
type EmotionCategory string

const (
	EmotionPositive EmotionCategory = "positive"
	EmotionNeutral  EmotionCategory = "neutral"
	EmotionNegative EmotionCategory = "negative"
)

// Emotion is one entry of the fixed check-in catalog.
type Emotion struct {
	Name     string
	Emoji    string
	Category EmotionCategory
}

// EmotionCatalog is the closed set of emotions a check-in may reference.
// Mood entries store the catalog name; unknown names are rejected at the
// save boundary rather than stored unchecked.
var EmotionCatalog = []Emotion{
	{Name: "Amazed", Emoji: "🤩", Category: EmotionPositive},
	{Name: "Excited", Emoji: "😄", Category: EmotionPositive},
	{Name: "Grateful", Emoji: "🙏", Category: EmotionPositive},
	{Name: "Joyful", Emoji: "😊", Category: EmotionPositive},
	{Name: "Satisfied", Emoji: "😌", Category: EmotionPositive},
	{Name: "Hopeful", Emoji: "🌟", Category: EmotionPositive},
	{Name: "Amused", Emoji: "😏", Category: EmotionNeutral},
	{Name: "Passionate", Emoji: "❤️", Category: EmotionPositive},
	{Name: "Calm", Emoji: "🧘", Category: EmotionPositive},
	{Name: "Anxious", Emoji: "😰", Category: EmotionNegative},
	{Name: "Stressed", Emoji: "😤", Category: EmotionNegative},
	{Name: "Tired", Emoji: "😴", Category: EmotionNegative},
}

// TriggerOptions is the fixed set of stress trigger tags offered on a
// check-in. Triggers are free tags on the entry, the catalog only feeds
// the selection UI.
var TriggerOptions = []string{
	"Work", "Family", "Health", "Money", "Sleep", "Social", "Commute", "News",
}

// EmotionByName looks up a catalog emotion by its exact name.
func EmotionByName(name string) (Emotion, error) {
	for _, e := range EmotionCatalog {
		if e.Name == name {
			return e, nil
		}
	}
	return Emotion{}, fmt.Errorf("unknown emotion %q", name)
}
