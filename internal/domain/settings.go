package domain

// SettingsKey is the settings key under which the store persists its settings blob.
const SettingsKey = "treeboard.settings"

// FilterMode selects how non-matching tasks are presented.
type FilterMode string

const (
	FilterModeFilter FilterMode = "filter" // Drop subtrees without matches
	FilterModeShow   FilterMode = "show"   // Keep everything, consumer dims non-matches
)

// SortMode selects sibling ordering in projections.
type SortMode string

const (
	SortManual   SortMode = "manual"   // Sibling order (sortIndex)
	SortPriority SortMode = "priority" // High priority first, stable
)

// ScopeMode selects which root tasks form the working set.
type ScopeMode string

const (
	ScopeGlobal  ScopeMode = "global"  // All root tasks
	ScopeProject ScopeMode = "project" // One project (or the unassigned bucket)
	ScopeMulti   ScopeMode = "multi"   // Union of several projects
)

// ProjectScope is the first stage of the filter pipeline.
type ProjectScope struct {
	Mode     ScopeMode `json:"mode" yaml:"mode"`
	Project  string    `json:"project,omitempty" yaml:"project,omitempty"`   // ScopeProject: project id or UnassignedProjectID
	Projects []string  `json:"projects,omitempty" yaml:"projects,omitempty"` // ScopeMulti: project ids, may include UnassignedProjectID
}

// ViewPrefs are view preferences persisted with the settings blob.
type ViewPrefs struct {
	FilterMode   FilterMode   `json:"filterMode" yaml:"filterMode"`
	SortMode     SortMode     `json:"sortMode" yaml:"sortMode"`
	ProjectScope ProjectScope `json:"projectScope" yaml:"projectScope"`
}

// Settings is the JSON blob stored under SettingsKey.
type Settings struct {
	Teams      []Team    `json:"teams" yaml:"teams"`
	View       ViewPrefs `json:"view" yaml:"view"`
	NextTeamID int       `json:"nextTeamId" yaml:"nextTeamId"`
	Version    int       `json:"version" yaml:"version"`
}

// SettingsVersion is the current settings blob format.
const SettingsVersion = 1
