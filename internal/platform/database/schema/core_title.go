package schema

// CoreTitleTable represents the 'core.title' table
type CoreTitleTable struct {
	Table       string
	ID          string
	Name        string
	Year        string
	Description string
	CategoryID  string
}

// CoreTitle is the schema definition for core.title
var CoreTitle = CoreTitleTable{
	Table:       "core.title",
	ID:          "id",
	Name:        "name",
	Year:        "year",
	Description: "description",
	CategoryID:  "categoryid",
}

func (t CoreTitleTable) Columns() []string {
	return []string{t.ID, t.Name, t.Year, t.Description, t.CategoryID}
}
