package schema

// FeedPostTable represents the 'feed.post' table
type FeedPostTable struct {
	Table     string
	ID        string
	Title     string
	Content   string
	ImageURL  string
	CreatorID string
	Seq       string
	CreatedAt string
	UpdatedAt string
}

// FeedPost is the schema definition for feed.post
var FeedPost = FeedPostTable{
	Table:     "feed.post",
	ID:        "id",
	Title:     "title",
	Content:   "content",
	ImageURL:  "imageurl",
	CreatorID: "creatorid",
	Seq:       "seq",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
