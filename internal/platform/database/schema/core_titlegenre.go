package schema

// TitleGenreTable represents the 'core.titlegenre' junction table
type TitleGenreTable struct {
	Table   string
	TitleID string
	GenreID string
}

// TitleGenre is the schema definition for core.titlegenre
var TitleGenre = TitleGenreTable{
	Table:   "core.titlegenre",
	TitleID: "titleid",
	GenreID: "genreid",
}
