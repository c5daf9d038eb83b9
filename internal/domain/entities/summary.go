package entities

// PlaceholderValue fills scalar summary fields the transcript never states,
// so downstream consumers need no null-checks.
const PlaceholderValue = "To be determined"

// StructuredSummary is the structured meeting-minutes header. Every field is
// always populated: scalars default to PlaceholderValue, lists to empty.
type StructuredSummary struct {
	Title          string   `json:"title"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	Attendants     []string `json:"attendants"`
	ProjectName    string   `json:"project_name"`
	Customer       string   `json:"customer"`
	TableOfContent []string `json:"table_of_content"`
	MainContent    string   `json:"main_content"`
}

// NewStructuredSummary creates a summary with all defaults applied.
func NewStructuredSummary() *StructuredSummary {
	s := &StructuredSummary{}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults replaces unset fields with their documented defaults.
func (s *StructuredSummary) ApplyDefaults() {
	if s.Title == "" {
		s.Title = "Meeting Minutes"
	}
	if s.Date == "" {
		s.Date = PlaceholderValue
	}
	if s.Time == "" {
		s.Time = PlaceholderValue
	}
	if s.Attendants == nil {
		s.Attendants = []string{}
	}
	if s.ProjectName == "" {
		s.ProjectName = PlaceholderValue
	}
	if s.Customer == "" {
		s.Customer = PlaceholderValue
	}
	if s.TableOfContent == nil {
		s.TableOfContent = []string{}
	}
	if s.MainContent == "" {
		s.MainContent = PlaceholderValue
	}
}
