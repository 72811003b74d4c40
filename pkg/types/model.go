package types

import "strings"

// ReasoningEffort is the "reasoning.effort" value sent to reasoning-capable models.
type ReasoningEffort string

const (
	EffortMinimal ReasoningEffort = "minimal"
	EffortLow     ReasoningEffort = "low"
	EffortMedium  ReasoningEffort = "medium"
	EffortHigh    ReasoningEffort = "high"
)

// ParseEffort maps a user supplied string onto a ReasoningEffort.
func ParseEffort(s string) (ReasoningEffort, bool) {
	switch e := ReasoningEffort(strings.ToLower(strings.TrimSpace(s))); e {
	case EffortMinimal, EffortLow, EffortMedium, EffortHigh:
		return e, true
	}
	return "", false
}

// Model names a chat model and its optional reasoning effort.
type Model struct {
	Name   string
	Effort ReasoningEffort
}

func (m Model) String() string {
	return m.Name
}

// IsZero reports whether no model name was set.
func (m Model) IsZero() bool {
	return strings.TrimSpace(m.Name) == ""
}

// ReasoningEffort returns the effort to send for this model.
// Only the gpt-5 family accepts one, and only when it was configured.
func (m Model) ReasoningEffort() (ReasoningEffort, bool) {
	if !strings.HasPrefix(m.Name, "gpt-5") || m.Effort == "" {
		return "", false
	}
	return m.Effort, true
}

// Predefined models.
var (
	LLMSmallNoReasoning  = Model{Name: "gpt-4.1-mini"}
	LLMMediumNoReasoning = Model{Name: "gpt-4.1"}
)

func LLMSmallReasoning(effort ReasoningEffort) Model {
	return Model{Name: "gpt-5-mini", Effort: effort}
}

func LLMMediumReasoning(effort ReasoningEffort) Model {
	return Model{Name: "gpt-5.1", Effort: effort}
}

// CustomModel names any model; effort may be empty.
func CustomModel(name string, effort ReasoningEffort) Model {
	return Model{Name: name, Effort: effort}
}

// DefaultModel is used when a request names no model.
var DefaultModel = LLMMediumNoReasoning

// UserLocation is a web search location hint.
type UserLocation struct {
	Type     string `json:"type" yaml:"type"`
	City     string `json:"city,omitempty" yaml:"city"`
	Region   string `json:"region,omitempty" yaml:"region"`
	Country  string `json:"country,omitempty" yaml:"country"`
	Timezone string `json:"timezone,omitempty" yaml:"timezone"`
}

// Map renders the location as a JSON object, skipping empty fields.
func (l UserLocation) Map() map[string]any {
	typ := l.Type
	if typ == "" {
		typ = "approximate"
	}
	out := map[string]any{"type": typ}
	for k, v := range map[string]string{
		"city":     l.City,
		"region":   l.Region,
		"country":  l.Country,
		"timezone": l.Timezone,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// UserLocationFromMap reads a location from decoded JSON arguments.
func UserLocationFromMap(m map[string]any) *UserLocation {
	if m == nil {
		return nil
	}
	str := func(k string) string {
		s, _ := m[k].(string)
		return s
	}
	return &UserLocation{
		Type:     str("type"),
		City:     str("city"),
		Region:   str("region"),
		Country:  str("country"),
		Timezone: str("timezone"),
	}
}
