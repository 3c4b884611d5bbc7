package adapter

import (
	"fmt"
	"net/http"

	"github.com/akolanti/PolicyRAG/internal/api"
	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("sync/status/%s", id),
	}
}

func ToSyncJobResponse(job syncModel.SyncJob) api.SyncJobResponse {

	var errorPtr *api.APIError
	if job.ErrorMessage != "" {
		errorPtr = &api.APIError{
			Code:    http.StatusInternalServerError,
			Message: job.ErrorMessage,
		}
	}

	return api.SyncJobResponse{
		Id:             job.Id,
		Trigger:        string(job.Trigger),
		Status:         string(job.Status),
		Revision:       job.Revision,
		FilesTotal:     job.FilesTotal,
		FilesProcessed: job.FilesProcessed,
		FilesFailed:    job.FilesFailed,
		ChunksCreated:  job.ChunksCreated,
		ChunksUpdated:  job.ChunksUpdated,
		ChunksDeleted:  job.ChunksDeleted,
		StartTime:      job.StartTime,
		EndTime:        job.EndTime,
		Error:          errorPtr,
	}
}

// ToChangeEntries validates and converts a change notification payload.
// Unknown statuses are a classification error and reject the whole request.
func ToChangeEntries(payload []api.ChangeEntryPayload) ([]syncModel.ChangeEntry, error) {
	entries := make([]syncModel.ChangeEntry, 0, len(payload))
	for _, p := range payload {
		status := syncModel.ChangeStatus(p.Status)
		switch status {
		case syncModel.ChangeAdded, syncModel.ChangeModified, syncModel.ChangeRemoved:
		default:
			return nil, fmt.Errorf("unknown change status %q for %q", p.Status, p.Path)
		}
		if p.Path == "" {
			return nil, fmt.Errorf("change entry with empty path")
		}
		entries = append(entries, syncModel.ChangeEntry{Path: p.Path, Status: status})
	}
	return entries, nil
}

func ToAskResponse(chatId string, answer string, sources []string, sufficient bool, cached bool) api.AskResponse {
	return api.AskResponse{
		ChatId:     chatId,
		Answer:     answer,
		Sources:    sources,
		Sufficient: sufficient,
		Cached:     cached,
	}
}

func BadRequest(id string, error string, code int) api.SyncJobResponse {
	return api.SyncJobResponse{
		Id: id,
		Error: &api.APIError{
			Code:    code,
			Message: error,
		},
	}
}
