package db

import "time"

type ResponseRecord struct {
	Id       string `json:"id"`
	ThreadId string `json:"thread_id"`

	Author    string     `json:"author"`
	RawBody   string     `json:"raw_body"`
	CreatedAt *time.Time `json:"created_at"`
}
