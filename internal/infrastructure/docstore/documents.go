package docstore

import "time"

// PollDocument は Polls コレクションに保存される data ペイロード。
type PollDocument struct {
	Question                string           `bson:"question" json:"question"`
	Choices                 []ChoiceDocument `bson:"choices" json:"choices"`
	IsMultipleAnswerOptions bool             `bson:"is_multiple_answer_options" json:"is_multiple_answer_options"`
	ExpiresAt               *time.Time       `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedBy               string           `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt               time.Time        `bson:"created_at" json:"created_at"`
}

// ChoiceDocument は選択肢 1 件分の埋め込みドキュメント。
type ChoiceDocument struct {
	ID    string         `bson:"id" json:"id"`
	Text  string         `bson:"text" json:"text"`
	Votes []VoteDocument `bson:"votes" json:"votes"`
}

// VoteDocument は選択肢に対する回答 1 件。
type VoteDocument struct {
	VoterID string    `bson:"voter_id" json:"voter_id"`
	CastAt  time.Time `bson:"cast_at" json:"cast_at"`
}

// FailedNotificationDocument は送信できなかった通知を再送用に保持する。
type FailedNotificationDocument struct {
	Target      string            `bson:"target" json:"target"`
	Payload     map[string]string `bson:"payload" json:"payload"`
	Error       string            `bson:"error" json:"error"`
	Attempts    int               `bson:"attempts" json:"attempts"`
	Status      string            `bson:"status" json:"status"`
	CreatedAt   time.Time         `bson:"createdAt" json:"createdAt"`
	LastTriedAt time.Time         `bson:"lastTriedAt" json:"lastTriedAt"`
}
