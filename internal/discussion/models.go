package discussion

import (
	"encoding/json"
	"time"
)

type ThreadType string

const (
	ThreadTypeDiscussion ThreadType = "discussion"
	ThreadTypeQuestion   ThreadType = "question"
)

// Topic is a discussion category. Children only ever go one level deep.
type Topic struct {
	ID       *string `json:"id,omitempty"`
	Name     string  `json:"name"`
	Children []Topic `json:"children,omitempty"`
}

type Thread struct {
	ID                 string     `json:"id"`
	CourseID           string     `json:"course_id"`
	TopicID            string     `json:"topic_id"`
	Type               ThreadType `json:"type"`
	Title              string     `json:"title"`
	RawBody            string     `json:"raw_body"`
	RenderedBody       string     `json:"rendered_body"`
	Author             string     `json:"author"`
	AuthorLabel        string     `json:"author_label"`
	CommentCount       int        `json:"comment_count"`
	UnreadCommentCount int        `json:"unread_comment_count"`
	ResponseCount      int        `json:"response_count"`
	Pinned             bool       `json:"pinned"`
	Closed             bool       `json:"closed"`
	Following          bool       `json:"following"`
	AbuseFlagged       bool       `json:"abuse_flagged"`
	Voted              bool       `json:"voted"`
	VoteCount          int        `json:"vote_count"`
	Read               bool       `json:"read"`
	HasEndorsed        bool       `json:"has_endorsed"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

// Comment is either a response to a thread or a reply to a response.
type Comment struct {
	ID              string     `json:"id"`
	ThreadID        string     `json:"thread_id"`
	ParentID        *string    `json:"parent_id"`
	RawBody         string     `json:"raw_body"`
	RenderedBody    string     `json:"rendered_body"`
	Author          string     `json:"author"`
	AuthorLabel     string     `json:"author_label"`
	Endorsed        bool       `json:"endorsed"`
	EndorsedBy      string     `json:"endorsed_by"`
	EndorsedByLabel string     `json:"endorsed_by_label"`
	EndorsedAt      *time.Time `json:"endorsed_at"`
	AbuseFlagged    bool       `json:"abuse_flagged"`
	Voted           bool       `json:"voted"`
	VoteCount       int        `json:"vote_count"`
	ChildCount      int        `json:"child_count"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
	Children        []Comment  `json:"-"`
}

type NewThread struct {
	CourseID string     `json:"course_id"`
	TopicID  string     `json:"topic_id"`
	Type     ThreadType `json:"type"`
	Title    string     `json:"title"`
	RawBody  string     `json:"raw_body"`
}

type NewComment struct {
	ThreadID string `json:"thread_id"`
	ParentID string `json:"parent_id,omitempty"`
	RawBody  string `json:"raw_body"`
}

type commentPayload struct {
	Comment
	Children []json.RawMessage `json:"children"`
}
