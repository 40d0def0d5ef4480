package models

// TaskDifficulty buckets tasks for display and gating
type TaskDifficulty string

const (
	DifficultyEasy   TaskDifficulty = "Easy"
	DifficultyMedium TaskDifficulty = "Medium"
	DifficultyHard   TaskDifficulty = "Hard"
)

// Fixed onboarding task ids. Telegram and Instagram follow the scripted
// first-failure rule; the survey approves on first submission. All three
// carry zero reward and instead unlock the one-time onboarding bonus.
const (
	TaskTelegram  = "telegram"
	TaskInstagram = "instagram"
	TaskSurvey    = "survey"
)

// OnboardingBonusAmount is credited once when all three onboarding tasks
// are complete.
const OnboardingBonusAmount = 10.0

// TokenRef is a token option attached to posting tasks
type TokenRef struct {
	Symbol string `json:"symbol"`
	URL    string `json:"url"`
}

// Task is a static catalog entry. The catalog is embedded at build time and
// immutable at runtime; there is no tasks table.
type Task struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Difficulty   TaskDifficulty `json:"difficulty"`
	Reward       float64        `json:"reward"`
	Link         string         `json:"link,omitempty"`
	Instructions string         `json:"instructions"`
	Type         string         `json:"type,omitempty"`
	ImageURL     string         `json:"image_url,omitempty"`
	IsHot        bool           `json:"is_hot,omitempty"`
	Tokens       []TokenRef     `json:"tokens,omitempty"`
}

// IsOnboardingSocial reports whether the id is one of the two social
// onboarding tasks governed by the scripted first-failure rule.
func IsOnboardingSocial(id string) bool {
	return id == TaskTelegram || id == TaskInstagram
}

// IsOnboarding reports whether the id is any of the three onboarding tasks.
func IsOnboarding(id string) bool {
	return IsOnboardingSocial(id) || id == TaskSurvey
}

// CountsTowardCompleted reports whether an approved submission for this id
// increments the profile's tasks_completed counter. The two social
// onboarding tasks are excluded; the survey never writes a submission row
// so it is excluded implicitly.
func CountsTowardCompleted(id string) bool {
	return !IsOnboardingSocial(id)
}
