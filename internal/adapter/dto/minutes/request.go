package minutes

// ProcessTextRequest is the body shared by the text-based endpoints. Language
// is a two-letter hint; when absent the server default applies.
type ProcessTextRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language" validate:"omitempty,len=2"`
}
