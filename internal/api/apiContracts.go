package api

import "time"

type AskResponse struct {
	ChatId     string   `json:"chat_id" example:"chat_550"`
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources,omitempty"`
	Sufficient bool     `json:"sufficient"`
	Cached     bool     `json:"cached,omitempty"`
}

type SyncJobResponse struct {
	Id             string    `json:"id" example:"job_cz109"`
	Trigger        string    `json:"trigger" example:"incremental"`
	Status         string    `json:"status" example:"RUNNING"`
	Revision       string    `json:"revision,omitempty"`
	FilesTotal     int       `json:"files_total"`
	FilesProcessed int       `json:"files_processed"`
	FilesFailed    int       `json:"files_failed"`
	ChunksCreated  int       `json:"chunks_created"`
	ChunksUpdated  int       `json:"chunks_updated"`
	ChunksDeleted  int       `json:"chunks_deleted"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time,omitempty"`
	Error          *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type AskRequest struct {
	Question string `json:"question" validate:"required"`
	ChatId   string `json:"chat_id,omitempty"`
}

type ChangeEntryPayload struct {
	Path   string `json:"path" validate:"required"`
	Status string `json:"status" validate:"required" enums:"added,modified,removed"`
}

type ChangeNotification struct {
	Revision string               `json:"revision" validate:"required"`
	Changes  []ChangeEntryPayload `json:"changes" validate:"required"`
}

type SyncRequest struct {
	Ref   string `json:"ref,omitempty" example:"main"`
	Force bool   `json:"force,omitempty"`
}

// BotUpdate is the inbound chat-platform payload: one message from one chat.
type BotUpdate struct {
	UpdateId int64 `json:"update_id"`
	Message  struct {
		Chat struct {
			Id int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}
