package models

import "time"

type Draft struct {
	ID        string `bson:"_id" json:"id"` // uuid v4
	SessionID string `bson:"session_id" json:"session_id"`
	JobKey    string `bson:"job_key" json:"job_key"`

	Role    string `bson:"role,omitempty" json:"role,omitempty"`
	Company string `bson:"company,omitempty" json:"company,omitempty"`

	FileName string `bson:"file_name" json:"file_name"` // email_draft_YYYYMMDD_HHMMSS.txt
	Location string `bson:"location" json:"location"`   // path or object URL
	Body     string `bson:"body" json:"body"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
