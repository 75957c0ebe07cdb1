package httpremote

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/runoshun/treeboard/internal/domain"
)

// wireMetadata is the snake_case form of domain.Metadata.
type wireMetadata struct {
	KanbanOrder *int   `json:"kanban_order"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Assignee    string `json:"assignee"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// wireTask is the snake_case form of a task, flat or nested.
// Fields are ordered to minimize memory padding.
type wireTask struct {
	Children    []wireTask   `json:"children,omitempty"`
	ProjectID   *string      `json:"project_id"`
	ParentID    *string      `json:"parent_id"`
	Metadata    wireMetadata `json:"metadata"`
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	SortIndex   int          `json:"sort_index"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toWireTask(t domain.FlatTask) wireTask {
	return wireTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		ProjectID:   nullable(t.ProjectID),
		ParentID:    nullable(t.ParentID),
		SortIndex:   t.SortIndex,
		Metadata: wireMetadata{
			Status:      string(t.Metadata.Status),
			Priority:    string(t.Metadata.Priority),
			Assignee:    t.Metadata.Assignee,
			StartDate:   t.Metadata.StartDate,
			EndDate:     t.Metadata.EndDate,
			KanbanOrder: t.Metadata.KanbanOrder,
		},
	}
}

func (w wireTask) flat() domain.FlatTask {
	md := domain.DefaultMetadata()
	if s := domain.Status(w.Metadata.Status); s.IsValid() {
		md.Status = s
	}
	if p := domain.Priority(w.Metadata.Priority); p.IsValid() {
		md.Priority = p
	}
	md.Assignee = w.Metadata.Assignee
	md.StartDate = w.Metadata.StartDate
	md.EndDate = w.Metadata.EndDate
	md.KanbanOrder = w.Metadata.KanbanOrder
	return domain.FlatTask{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		ProjectID:   deref(w.ProjectID),
		ParentID:    deref(w.ParentID),
		SortIndex:   w.SortIndex,
		Metadata:    md,
	}
}

// tree converts a nested wire task into a domain node.
func (w wireTask) tree() *domain.Task {
	f := w.flat()
	t := &domain.Task{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		ProjectID:   f.ProjectID,
		SortIndex:   f.SortIndex,
		Metadata:    f.Metadata,
		Children:    make([]*domain.Task, 0, len(w.Children)),
	}
	for _, c := range w.Children {
		t.Children = append(t.Children, c.tree())
	}
	return t
}

// taskPatchBody builds the sparse PATCH body for a task.
func taskPatchBody(p domain.TaskPatch) map[string]any {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.ProjectID != nil {
		body["project_id"] = nullable(*p.ProjectID)
	}
	if p.ParentID != nil {
		body["parent_id"] = nullable(*p.ParentID)
	}
	if p.SortIndex != nil {
		body["sort_index"] = *p.SortIndex
	}
	if m := p.Metadata; m != nil && !m.IsEmpty() {
		md := map[string]any{}
		if m.Status != nil {
			md["status"] = string(*m.Status)
		}
		if m.Priority != nil {
			md["priority"] = string(*m.Priority)
		}
		if m.Assignee != nil {
			md["assignee"] = *m.Assignee
		}
		if m.StartDate != nil {
			md["start_date"] = *m.StartDate
		}
		if m.EndDate != nil {
			md["end_date"] = *m.EndDate
		}
		if m.ClearKanbanOrder {
			md["kanban_order"] = nil
		}
		if m.KanbanOrder != nil {
			md["kanban_order"] = *m.KanbanOrder
		}
		body["metadata"] = md
	}
	return body
}

// jsonString encodes v as a JSON string value, the at-rest form of the project
// color maps and team ids. nil stays null.
func jsonString(v any) any {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return nil
	}
	return string(data)
}

func projectBody(p domain.Project) map[string]any {
	return map[string]any{
		"id":              p.ID,
		"name":            p.Name,
		"color":           p.Color,
		"status_colors":   jsonString(p.StatusColors),
		"priority_colors": jsonString(p.PriorityColors),
		"team_ids":        jsonString(p.TeamIDs),
	}
}

func projectPatchBody(p domain.ProjectPatch) map[string]any {
	body := map[string]any{}
	if p.Name != nil {
		body["name"] = *p.Name
	}
	if p.Color != nil {
		body["color"] = *p.Color
	}
	if p.ClearStatusColors {
		body["status_colors"] = nil
	}
	if p.StatusColors != nil {
		body["status_colors"] = jsonString(p.StatusColors)
	}
	if p.ClearPriorityColors {
		body["priority_colors"] = nil
	}
	if p.PriorityColors != nil {
		body["priority_colors"] = jsonString(p.PriorityColors)
	}
	if p.TeamIDs != nil {
		body["team_ids"] = jsonString(p.TeamIDs)
	}
	return body
}

// embedded returns the value itself, or the JSON it holds when the server sent
// the value as a string.
func embedded(r gjson.Result) gjson.Result {
	if r.Type == gjson.String {
		return gjson.Parse(r.String())
	}
	return r
}

func stringMap(r gjson.Result) map[string]string {
	r = embedded(r)
	if !r.IsObject() {
		return nil
	}
	out := map[string]string{}
	r.ForEach(func(k, v gjson.Result) bool {
		out[k.String()] = v.String()
		return true
	})
	return out
}

func parseProject(r gjson.Result) domain.Project {
	p := domain.Project{
		ID:    r.Get("id").String(),
		Name:  r.Get("name").String(),
		Color: r.Get("color").String(),
	}
	if m := stringMap(r.Get("status_colors")); m != nil {
		p.StatusColors = make(map[domain.Status]string, len(m))
		for k, v := range m {
			p.StatusColors[domain.Status(k)] = v
		}
	}
	if m := stringMap(r.Get("priority_colors")); m != nil {
		p.PriorityColors = make(map[domain.Priority]string, len(m))
		for k, v := range m {
			p.PriorityColors[domain.Priority(k)] = v
		}
	}
	if teams := embedded(r.Get("team_ids")); teams.IsArray() {
		for _, id := range teams.Array() {
			p.TeamIDs = append(p.TeamIDs, id.String())
		}
	}
	return p
}

// list returns the array under key, or the document itself when it is a bare array.
func list(body []byte, key string) []gjson.Result {
	doc := gjson.ParseBytes(body)
	if doc.IsArray() {
		return doc.Array()
	}
	return doc.Get(key).Array()
}

// ids reads a list of ids; entries may be plain strings or objects with the id
// under field.
func ids(items []gjson.Result, field string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.IsObject() {
			out = append(out, it.Get(field).String())
			continue
		}
		out = append(out, it.String())
	}
	return out
}
