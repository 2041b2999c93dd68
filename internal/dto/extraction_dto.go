package dto

import "time"

type CreateSessionResponse struct {
	Id        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SelectFileRequest is the metadata of an uploaded "file" part.
type SelectFileRequest struct {
	Filename string `validate:"required,max=255"`
	MimeType string `validate:"max=255"`
}

type FileSummary struct {
	Name     string `json:"name"`
	Size     int    `json:"size"`
	MimeType string `json:"mime_type"`
}

type ConfidenceView struct {
	Score   float64 `json:"score"`
	Percent int     `json:"percent"`
	Tier    string  `json:"tier"`
	Color   string  `json:"color"`
}

// FieldView is one rendered row of the result table.
type FieldView struct {
	Key        string         `json:"key"`
	Label      string         `json:"label"`
	Value      string         `json:"value"`
	Found      bool           `json:"found"`
	Confidence ConfidenceView `json:"confidence"`
}

// UIStateResponse is everything the page needs to render one session.
type UIStateResponse struct {
	SessionId   string       `json:"session_id"`
	Status      string       `json:"status"`
	File        *FileSummary `json:"file"`
	CanSubmit   bool         `json:"can_submit"`
	SubmitLabel string       `json:"submit_label"`
	Error       string       `json:"error,omitempty"`
	Fields      []FieldView  `json:"fields,omitempty"`
}

// StateChangedMessage is pushed over the websocket after every transition.
type StateChangedMessage struct {
	Type  string          `json:"type"`
	State UIStateResponse `json:"state"`
}
