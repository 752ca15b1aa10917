// internal/cards/record.go
package cards

// ScoreEntry is one judged checklist criterion as stored in the dataset.
type ScoreEntry struct {
	ID       string   `json:"id,omitempty"`
	RawScore *float64 `json:"raw_score,omitempty"`
}

// Categories holds the category labels attached to a record.
type Categories struct {
	Category1 string  `json:"category1,omitempty"`
	Category2 string  `json:"category2,omitempty"`
	Category3 *string `json:"category3,omitempty"`
}

// Record is one evaluated (video, prompt variant) pair from the static dataset.
// Optional numeric fields are pointers so that an absent value and an explicit
// zero stay distinguishable.
type Record struct {
	VideoName       string       `json:"video_name"`
	VideoPath       string       `json:"video_path"`
	InputImage      string       `json:"inputImage,omitempty"`
	VideoFrames     []string     `json:"videoFrames,omitempty"`
	Scores          []ScoreEntry `json:"scores,omitempty"`
	SampleScore     *float64     `json:"sample_score,omitempty"`
	TotalScore      *float64     `json:"total_score,omitempty"`
	Categories      *Categories  `json:"categories,omitempty"`
	PromptText      string       `json:"prompt_text,omitempty"`
	StrictPrompt    string       `json:"strict_prompt,omitempty"`
	RelaxPrompt     string       `json:"relax_prompt,omitempty"`
	PromptType      string       `json:"prompt_type,omitempty"`
	GenerationModel string       `json:"generation_model,omitempty"`
	ChecklistLength *int         `json:"checklist_length,omitempty"`
	EvalMethod      string       `json:"eval_method,omitempty"`
	JudgeModel      string       `json:"judge_model,omitempty"`
	ID              *int         `json:"id,omitempty"`
}

// Prompt variants.
const (
	PromptRelax  = "relax"
	PromptStrict = "strict"
)

// Score is a (criterion label, score) pair shown in the bar chart.
type Score struct {
	Module string  `json:"module"`
	Score  float64 `json:"score"`
}

// Sample is the display-ready view model for one card.
type Sample struct {
	ID              int      `json:"id"`
	Prompt          string   `json:"prompt"`
	PromptType      string   `json:"promptType"`
	Difficulty      string   `json:"difficulty"`
	ModelName       string   `json:"modelName"`
	ModelIcon       string   `json:"modelIcon,omitempty"`
	TransparentIcon bool     `json:"transparentIcon"`
	InputImage      string   `json:"inputImage,omitempty"`
	VideoFrames     []string `json:"videoFrames"`
	Scores          []Score  `json:"scores"`
	TotalScore      float64  `json:"totalScore"`
	ExplicitTotal   bool     `json:"explicitTotal"`
	TSR             float64  `json:"tsr"`
	ChecklistLength int      `json:"checklistLength"`
	VideoName       string   `json:"videoName"`
	CardID          string   `json:"cardId"`
}

// FinalScore is TotalScore divided by ChecklistLength when the record carried
// an explicit total. Otherwise it is the mean of the per-criterion scores, or 0
// when there are none.
func (s Sample) FinalScore() float64 {
	if s.ExplicitTotal && s.ChecklistLength > 0 {
		return s.TotalScore / float64(s.ChecklistLength)
	}
	if len(s.Scores) == 0 {
		return 0
	}
	var sum float64
	for _, sc := range s.Scores {
		sum += sc.Score
	}
	return sum / float64(len(s.Scores))
}
