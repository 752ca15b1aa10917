// internal/cards/transform.go
package cards

import (
	"strconv"
	"strings"
)

const (
	unknownModel      = "Unknown"
	defaultDifficulty = "modeling"
	missingModule     = "R?"
)

// FormatModelName turns a model identifier such as "sora_2" into "Sora 2":
// underscores become spaces and the first letter of every word is upper-cased.
// An empty identifier yields "Unknown".
func FormatModelName(model string) string {
	if model == "" {
		return unknownModel
	}
	b := []byte(strings.ReplaceAll(model, "_", " "))
	prevWord := false
	for i, c := range b {
		word := isWordByte(c)
		if word && !prevWord && c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
		prevWord = word
	}
	return string(b)
}

// isWordByte matches the ASCII word class [A-Za-z0-9_].
func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// SelectPrompt picks the prompt text matching the record's prompt variant,
// falling back to the generic prompt text.
func SelectPrompt(rec Record) string {
	variant := rec.RelaxPrompt
	if rec.PromptType == PromptStrict {
		variant = rec.StrictPrompt
	}
	if variant != "" {
		return variant
	}
	return rec.PromptText
}

// BuildScores maps the raw score entries to chart scores, keeping input order.
func BuildScores(rec Record) []Score {
	out := make([]Score, 0, len(rec.Scores))
	for _, entry := range rec.Scores {
		module := entry.ID
		if module == "" {
			module = missingModule
		}
		var score float64
		if entry.RawScore != nil {
			score = *entry.RawScore
		}
		out = append(out, Score{Module: module, Score: score})
	}
	return out
}

// ChecklistLength returns the explicit checklist length, else the number of
// score entries, else 1. It never returns 0.
func ChecklistLength(rec Record) int {
	if rec.ChecklistLength != nil && *rec.ChecklistLength > 0 {
		return *rec.ChecklistLength
	}
	if n := len(rec.Scores); n > 0 {
		return n
	}
	return 1
}

// TotalScore returns the explicit total score, else the sum of the scores.
func TotalScore(rec Record, scores []Score) float64 {
	if rec.TotalScore != nil {
		return *rec.TotalScore
	}
	var sum float64
	for _, s := range scores {
		sum += s.Score
	}
	return sum
}

// StemName strips the final extension from a file name. A trailing dot or an
// "extension" containing a slash is left untouched.
func StemName(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return name
	}
	if strings.ContainsRune(name[i+1:], '/') {
		return name
	}
	return name[:i]
}

// CardID derives the stable card identifier used for DOM addressing and
// export filenames. fallbackID is used when the record has no video name.
func CardID(rec Record, fallbackID int) string {
	base := StemName(rec.VideoName)
	if base == "" {
		id := fallbackID
		if rec.ID != nil {
			id = *rec.ID
		}
		base = "card-" + strconv.Itoa(id)
	}
	if rec.PromptType != "" {
		return base + "-" + rec.PromptType
	}
	return base
}

// Transform maps a raw record at position index to its card view model.
// It never fails: missing fields fall back to defaults.
func Transform(rec Record, index int, icons IconTable) Sample {
	id := index + 1
	if rec.ID != nil {
		id = *rec.ID
	}

	scores := BuildScores(rec)

	promptType := rec.PromptType
	if promptType == "" {
		promptType = PromptRelax
	}

	difficulty := defaultDifficulty
	if rec.Categories != nil && rec.Categories.Category1 != "" {
		difficulty = rec.Categories.Category1
	}

	var tsr float64
	if rec.SampleScore != nil {
		tsr = *rec.SampleScore
	}

	frames := rec.VideoFrames
	if frames == nil {
		frames = []string{}
	}

	return Sample{
		ID:              id,
		Prompt:          SelectPrompt(rec),
		PromptType:      promptType,
		Difficulty:      difficulty,
		ModelName:       FormatModelName(rec.GenerationModel),
		ModelIcon:       icons.Icon(rec.GenerationModel),
		TransparentIcon: icons.Transparent(rec.GenerationModel),
		InputImage:      rec.InputImage,
		VideoFrames:     frames,
		Scores:          scores,
		TotalScore:      TotalScore(rec, scores),
		ExplicitTotal:   rec.TotalScore != nil,
		TSR:             tsr,
		ChecklistLength: ChecklistLength(rec),
		VideoName:       rec.VideoName,
		CardID:          CardID(rec, index+1),
	}
}

// TransformAll transforms records in dataset order.
func TransformAll(records []Record, icons IconTable) []Sample {
	out := make([]Sample, 0, len(records))
	for i, rec := range records {
		out = append(out, Transform(rec, i, icons))
	}
	return out
}
