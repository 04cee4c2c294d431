package store

import (
	"context"
	"errors"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Quiz session actions.
const (
	QuizActionStart = "start"
	QuizActionRetry = "retry"
	QuizActionEnd   = "end"
)

// QuizSessionEventData records a quiz starting, restarting or finishing.
type QuizSessionEventData struct {
	SessionID    string
	Action       string
	Mode         string
	Direction    string
	SourceLang   string
	TargetLang   string
	RunLength    int
	Answered     int
	Correct      int
	Points       int
	BestStreak   int
	DurationSecs int
}

// QuizAnswerEventData records one graded answer or timeout.
type QuizAnswerEventData struct {
	SessionID     string
	QuestionIndex int
	Prompt        string
	Expected      string
	Given         string
	Correct       bool
	Similarity    float64
	TimedOut      bool
	TimeMs        int64
}

// QuizSessionSummary is a finished quiz as shown by `trans history`.
type QuizSessionSummary struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	SessionID    string
	Mode         string
	Direction    string
	SourceLang   string
	TargetLang   string
	RunLength    int
	Answered     int
	Correct      int
	Points       int
	BestStreak   int
	DurationSecs int
}

// Accuracy returns Correct/Answered, or 0 when nothing was answered.
func (s QuizSessionSummary) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// LLMRequestEventData captures a single LLM request.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM requests by purpose or by model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendQuizSession(ctx context.Context, data QuizSessionEventData) error
	AppendQuizAnswer(ctx context.Context, data QuizAnswerEventData) error

	// QueryQuizSessions returns finished quizzes, newest first.
	QueryQuizSessions(ctx context.Context, opts QueryOpts) ([]QuizSessionSummary, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns the event with the given ID, or nil if missing.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// ErrNotFound is returned when a record addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// Entry is a saved translation. Favorites and recent history share it.
type Entry struct {
	ID         int       `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
}

const (
	MaxFavorites = 100
	MaxRecent    = 50
)

// FavoriteRepo keeps the user's starred translations.
type FavoriteRepo interface {
	// Add stores e unless an identical favorite exists. The returned bool is
	// false for a duplicate. The oldest favorites beyond MaxFavorites are dropped.
	Add(ctx context.Context, e Entry) (Entry, bool, error)

	// List returns favorites, newest first.
	List(ctx context.Context) ([]Entry, error)

	// Remove deletes one favorite. It returns ErrNotFound for an unknown id.
	Remove(ctx context.Context, id int) error
	Clear(ctx context.Context) error
}

// RecentRepo keeps the most recent translations.
type RecentRepo interface {
	// Record stores e as the newest entry, replacing any entry with the same
	// input. Entries beyond MaxRecent are dropped.
	Record(ctx context.Context, e Entry) (Entry, error)
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}

// Preferences are the user's last used settings.
type Preferences struct {
	Version       int    `json:"version"`
	SourceLang    string `json:"source_lang,omitempty"`
	TargetLang    string `json:"target_lang,omitempty"`
	Style         string `json:"style,omitempty"`
	QuizMode      string `json:"quiz_mode,omitempty"`
	QuizDirection string `json:"quiz_direction,omitempty"`
}

// PreferencesSnapshot is a point-in-time capture of Preferences.
type PreferencesSnapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      Preferences
}

// PreferencesRepo manages preference snapshots.
type PreferencesRepo interface {
	// Save stores a new snapshot, assigning its sequence.
	Save(ctx context.Context, prefs Preferences) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*PreferencesSnapshot, error)

	// Prune deletes all but the keep most recent snapshots.
	Prune(ctx context.Context, keep int) error
}
