package server

import (
	"github.com/abhisek/trans/internal/quiz"
)

// stateView is the JSON shape of a quiz snapshot. The expected answer is
// only exposed through feedback, after it has been answered.
type stateView struct {
	Mode          string        `json:"mode"`
	Direction     string        `json:"direction"`
	Phase         string        `json:"phase"`
	Step          string        `json:"step"`
	Index         int           `json:"index"`
	Total         int           `json:"total"`
	Phrase        string        `json:"phrase,omitempty"`
	Instruction   string        `json:"instruction,omitempty"`
	Hint          string        `json:"hint,omitempty"`
	HintAvailable bool          `json:"hint_available"`
	Choices       []string      `json:"choices,omitempty"`
	Selected      string        `json:"selected,omitempty"`
	Input         string        `json:"input,omitempty"`
	Score         scoreView     `json:"score"`
	Feedback      *feedbackView `json:"feedback,omitempty"`
	Result        *resultView   `json:"result,omitempty"`
	Generation    uint64        `json:"generation"`
	Ignored       string        `json:"ignored,omitempty"`
}

type scoreView struct {
	Correct    int `json:"correct"`
	Answered   int `json:"answered"`
	Points     int `json:"points"`
	Streak     int `json:"streak"`
	BestStreak int `json:"best_streak"`
	TimeLeft   int `json:"time_left"`
}

type feedbackView struct {
	Correct    bool    `json:"correct"`
	Expected   string  `json:"expected"`
	Given      string  `json:"given"`
	Similarity float64 `json:"similarity"`
	Tier       string  `json:"tier"`
	Message    string  `json:"message"`
	TimedOut   bool    `json:"timed_out"`
	Milestone  int     `json:"milestone,omitempty"`
}

type resultView struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Ratio   float64 `json:"ratio"`
}

func newStateView(st quiz.State) stateView {
	p := st.Prompt()
	v := stateView{
		Mode:          st.Mode.String(),
		Direction:     st.Direction.String(),
		Phase:         st.Phase.String(),
		Step:          st.Step.String(),
		Index:         st.Question.Index,
		Total:         st.Len(),
		Phrase:        p.Phrase,
		Instruction:   p.Instruction,
		Hint:          p.Hint,
		HintAvailable: st.HintAvailable(),
		Choices:       p.Choices,
		Selected:      st.Question.Selected,
		Input:         st.Input,
		Score: scoreView{
			Correct:    st.Score.Correct,
			Answered:   st.Score.Answered,
			Points:     st.Score.Points,
			Streak:     st.Score.Streak,
			BestStreak: st.Score.BestStreak,
			TimeLeft:   st.Score.TimeLeft,
		},
		Generation: st.Generation,
	}
	if fb := st.Last; fb != nil {
		v.Feedback = &feedbackView{
			Correct:    fb.Correct,
			Expected:   fb.Expected,
			Given:      fb.Given,
			Similarity: fb.Similarity,
			Tier:       fb.Tier.String(),
			Message:    fb.Tier.Message(),
			TimedOut:   fb.TimedOut,
			Milestone:  fb.Milestone,
		}
	}
	if st.Completed() {
		res := st.Result()
		v.Result = &resultView{Correct: res.Correct, Total: res.Total, Ratio: res.Ratio}
	}
	return v
}
