package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/PolicyRAG/internal/bot"
	"github.com/akolanti/PolicyRAG/internal/handlers"
	"github.com/akolanti/PolicyRAG/internal/metrics"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)

var AskHandler = Wrap(handlers.AskHandler)
var SyncHandler = Wrap(handlers.SyncHandler)
var GetSyncStatusHandler = Wrap(handlers.GetSyncStatusHandler)
var ResetChatHandler = Wrap(handlers.ResetChatHandler)

// the webhook and the bot callback are authenticated by their own secrets,
// not by the API bearer token
var WebhookChangesHandler = WrapSigned(handlers.WebhookChangesHandler)
var BotUpdateHandler = WrapBot(bot.UpdateHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

// WrapSigned authenticates by HMAC signature over the raw body instead of
// the bearer token.
func WrapSigned(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := requestResponseStruct{req: r, writer: rec}
		re.logger = logger_i.NewLogger("middleware")
		re.logger.Info("New signed request received")
		re = injectTrace(re)
		re = verifySignature(re)
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

// WrapBot authenticates by the bot platform's secret-token header.
func WrapBot(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := requestResponseStruct{req: r, writer: rec}
		re.logger = logger_i.NewLogger("middleware")
		re = injectTrace(re)
		re = verifyBotSecret(re)
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	//TODO:make this cleaner
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		return re //stop here if rate limit fails
	}

	return re
}
