package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table    string
	ID       string
	ReviewID string
	AuthorID string
	Body     string
	PubDate  string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:    "social.comment",
	ID:       "id",
	ReviewID: "reviewid",
	AuthorID: "authorid",
	Body:     "body",
	PubDate:  "pubdate",
}

func (t SocialCommentTable) Columns() []string {
	return []string{t.ID, t.ReviewID, t.AuthorID, t.Body, t.PubDate}
}
