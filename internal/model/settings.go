package model

import (
	"strings"
	"unicode/utf8"
)

// GameMode selects how answers are collected and resolved
type GameMode string

const (
	ModeClassic GameMode = "classic" // everyone answers, resolve when all have answered
	ModeFFA     GameMode = "ffa"     // first correct answer ends the round
	ModeTeam    GameMode = "team"    // teams alternate turns
)

// Valid reports whether m is a known mode
func (m GameMode) Valid() bool {
	switch m {
	case ModeClassic, ModeFFA, ModeTeam:
		return true
	}
	return false
}

const (
	MinQuestionCount = 1
	MaxQuestionCount = 50
	MinOptionCount   = 2
	MaxOptionCount   = 6
	MaxTopicLength   = 100

	DefaultTopic         = "General knowledge"
	DefaultQuestionCount = 10
	DefaultOptionCount   = 4
)

// RoomSettings is written by the host before play starts
type RoomSettings struct {
	Topic         string     `json:"topic" bson:"topic"`
	QuestionCount int        `json:"questionCount" bson:"questionCount"`
	Difficulty    Difficulty `json:"difficulty" bson:"difficulty"`
	OptionCount   int        `json:"optionCount" bson:"optionCount"`
	Mode          GameMode   `json:"gameMode" bson:"gameMode"`
}

// DefaultRoomSettings returns the settings a fresh room starts with
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		Topic:         DefaultTopic,
		QuestionCount: DefaultQuestionCount,
		Difficulty:    DifficultyMedium,
		OptionCount:   DefaultOptionCount,
		Mode:          ModeClassic,
	}
}

// SettingsUpdate is a partial settings change; nil fields are left alone
type SettingsUpdate struct {
	Topic         *string     `json:"topic,omitempty"`
	QuestionCount *int        `json:"questionCount,omitempty"`
	Difficulty    *Difficulty `json:"difficulty,omitempty"`
	OptionCount   *int        `json:"optionCount,omitempty"`
	Mode          *GameMode   `json:"gameMode,omitempty"`
}

// Apply returns s with the update applied. Numeric fields are clamped into
// their bounds, a blank topic falls back to the default and unknown enum
// values are reported through ok=false without changing anything.
func (s RoomSettings) Apply(u SettingsUpdate) (RoomSettings, bool) {
	out := s
	if u.Difficulty != nil {
		if !u.Difficulty.Valid() {
			return s, false
		}
		out.Difficulty = *u.Difficulty
	}
	if u.Mode != nil {
		if !u.Mode.Valid() {
			return s, false
		}
		out.Mode = *u.Mode
	}
	if u.Topic != nil {
		out.Topic = normalizeTopic(*u.Topic)
	}
	if u.QuestionCount != nil {
		out.QuestionCount = clamp(*u.QuestionCount, MinQuestionCount, MaxQuestionCount)
	}
	if u.OptionCount != nil {
		out.OptionCount = clamp(*u.OptionCount, MinOptionCount, MaxOptionCount)
	}
	return out, true
}

func normalizeTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return DefaultTopic
	}
	if utf8.RuneCountInString(topic) > MaxTopicLength {
		topic = string([]rune(topic)[:MaxTopicLength])
	}
	return topic
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
