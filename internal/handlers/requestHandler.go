package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/PolicyRAG/internal/adapter"
	"github.com/akolanti/PolicyRAG/internal/adapter/utils"
	"github.com/akolanti/PolicyRAG/internal/api"
	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

var logRH *logger_i.Logger

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// AskHandler godoc
// @Summary      Ask a policy question
// @Description  Runs the full grounded answer pipeline synchronously: memory assembly, retrieval, evidence gate, composition. Returns the canonical no-evidence message when the corpus has nothing relevant.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest  true  "Question and optional Chat ID"
// @Success      200      {object}  api.AskResponse "The grounded answer"
// @Failure      400      {object}  api.SyncJobResponse "Invalid request data"
// @Failure      500      {object}  api.SyncJobResponse "Pipeline failure"
// @Router       /ask [post]
func AskHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.AskRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Ask handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Question == "" {
			logRH.Warn("Bad Ask Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatId, "Bad Request")
			return
		}

		chatId := requestData.ChatId
		if chatId == "" {
			chatId = utils.GetNewUUID()
			logRH.Debug(" New Chat request : ", "chatID:", chatId)
		}

		result, err := handlerInstance.ragService.Ask(request.Context(), chatId, requestData.Question)
		if err != nil {
			logRH.Error("Ask pipeline failed", "chatId", chatId, "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, chatId, "Internal Server Error")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAskResponse(chatId, result.Answer, result.Sources, result.Sufficient, result.Cached))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// WebhookChangesHandler godoc
// @Summary      Receive a corpus change notification
// @Description  Accepts a signed change notification, queues an incremental sync job and acknowledges immediately. Progress is available via the status endpoint.
// @Tags         Synchronization
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChangeNotification  true  "Revision and changed paths"
// @Success      202      {object}  api.InitJobResponse  "Sync job queued"
// @Failure      400      {object}  api.SyncJobResponse  "Malformed notification"
// @Router       /webhook/changes [post]
func WebhookChangesHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var notification api.ChangeNotification
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Webhook handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&notification); err != nil || notification.Revision == "" {
			logRH.Warn("Bad Change Notification: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		changes, err := adapter.ToChangeEntries(notification.Changes)
		if err != nil {
			logRH.Warn("Rejected change notification", "error", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
			return
		}

		jobId, err := EnqueueIncremental(traceId(request.Context()), notification.Revision, changes)
		if err != nil {
			logRH.Error("Cannot set up sync job", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Internal Server Error")
			return
		}

		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(jobId))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// SyncHandler godoc
// @Summary      Trigger a full corpus resync
// @Description  Queues a full resync at the given ref. Without force, a resync at the already-synced revision processes zero files.
// @Tags         Synchronization
// @Accept       json
// @Produce      json
// @Param        request  body      api.SyncRequest  false  "Ref and force flag"
// @Success      202      {object}  api.InitJobResponse  "Sync job queued"
// @Failure      500      {object}  api.SyncJobResponse  "Job setup failure"
// @Router       /sync [post]
func SyncHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.SyncRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Sync handler reader :", err)
			}
		}(request.Body)
		// an empty body means "sync the default ref"
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil && err != io.EOF {
			logRH.Warn("Bad Sync Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}
		if requestData.Ref == "" {
			requestData.Ref = config.DefaultSyncRef
		}

		jobId, err := EnqueueFull(traceId(request.Context()), requestData.Ref, requestData.Force)
		if err != nil {
			logRH.Error("Cannot set up sync job", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Internal Server Error")
			return
		}

		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(jobId))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetSyncStatusHandler godoc
// @Summary      Get sync job status
// @Description  Retrieves the audit record of a sync run using its ID.
// @Tags         Synchronization
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Sync Job ID"
// @Success      200  {object}  api.SyncJobResponse "The current state of the job"
// @Failure      404  {object}  api.SyncJobResponse "Job not found"
// @Router       /sync/status/{id} [get]
func GetSyncStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if idString == "" {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}
		result, isFound := GetSyncJob(idString, traceId(r.Context()))
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToSyncJobResponse(result))
	}
}

// ResetChatHandler godoc
// @Summary      Reset a conversation
// @Description  Clears the message log and the rolling summary of a chat. The session record itself survives.
// @Tags         Questions
// @Produce      json
// @Param        id   path  string  true  "Chat ID"
// @Success      204  "Conversation cleared"
// @Failure      500  {object}  api.SyncJobResponse "Reset failure"
// @Router       /chat/{id}/reset [post]
func ResetChatHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		chatId := utils.GetChiURLParam(r, "id")
		if chatId == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "chat id is required")
			return
		}

		if err := handlerInstance.ragService.ResetChat(r.Context(), chatId); err != nil {
			logRH.Error("Reset failed", "chatId", chatId, "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, chatId, "Internal Server Error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
