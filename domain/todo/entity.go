package todo

// Priority is the urgency of a todo. Lower numbers are more urgent.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// DefaultPriority is assigned when a todo is created without one.
const DefaultPriority = PriorityMedium

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// Todo is the core domain entity representing a single task.
type Todo struct {
	ID       int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string   `gorm:"not null" json:"title"`
	Done     bool     `gorm:"not null" json:"done"`
	Priority Priority `gorm:"not null" json:"priority"`
	Deadline *Date    `json:"deadline"`
}

// TableName returns the table name for the Todo model.
func (Todo) TableName() string {
	return "todos"
}

// Draft holds the caller-supplied fields of a todo that does not exist yet.
type Draft struct {
	Title    string   `json:"title"`
	Priority Priority `json:"priority"`
	Deadline *Date    `json:"deadline,omitempty"`
}

// NewDraft returns a draft with the default priority and no deadline.
func NewDraft(title string) Draft {
	return Draft{Title: title, Priority: DefaultPriority}
}

// Validate checks the draft before it reaches a repository.
func (d Draft) Validate() error {
	if !d.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// Build turns the draft into a pending Todo with the given id.
func (d Draft) Build(id int64) Todo {
	return Todo{
		ID:       id,
		Title:    d.Title,
		Done:     false,
		Priority: d.Priority,
		Deadline: d.Deadline.Clone(),
	}
}

// Patch is a partial update. Nil fields are left untouched.
// Deadline is only applied when DeadlineSet is true, so a nil Deadline with
// DeadlineSet clears it.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Done        *bool     `json:"done,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Deadline    *Date     `json:"deadline,omitempty"`
	DeadlineSet bool      `json:"deadline_set,omitempty"`
}

// DonePatch returns a patch that only changes the completion flag.
func DonePatch(done bool) Patch {
	return Patch{Done: &done}
}

// Validate checks the patch before it reaches a repository.
func (p Patch) Validate() error {
	if p.Priority != nil && !p.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// IsEmpty reports whether applying p would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Done == nil && p.Priority == nil && !p.DeadlineSet
}

// Apply writes the present fields of p onto t.
func (p Patch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DeadlineSet {
		t.Deadline = p.Deadline.Clone()
	}
}
