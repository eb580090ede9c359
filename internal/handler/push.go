package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hardiksingla/insightboard/internal/api"
	"github.com/hardiksingla/insightboard/internal/gmail"
	"github.com/hardiksingla/insightboard/internal/logger"
	"github.com/hardiksingla/insightboard/internal/middleware/metrics"
	"github.com/hardiksingla/insightboard/internal/service"
	"github.com/hardiksingla/insightboard/internal/utils"
)

// EmailPush receives Pub/Sub push deliveries for the watched mailbox.
//
// A missing or undecodable payload is acknowledged with 200: such messages
// carry nothing to process and a non-2xx would make Pub/Sub redeliver them
// forever. Malformed request JSON is still a 400 (a misconfigured pusher
// should notice). Auth failures return 401 without touching the cursor.
func (h *Handler) EmailPush(w http.ResponseWriter, r *http.Request) {
	if h.sync == nil {
		http.Error(w, "Email ingestion is not configured", http.StatusServiceUnavailable)
		return
	}

	var envelope api.PushEnvelope
	if err := utils.Decode(r.Body, &envelope); err != nil {
		metrics.PushNotifications.WithLabelValues("malformed").Inc()
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if envelope.Message.Data == "" {
		metrics.PushNotifications.WithLabelValues("empty").Inc()
		w.WriteHeader(http.StatusOK)
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
	if err != nil {
		logger.Log.Warn("push data is not valid base64", "error", err)
		metrics.PushNotifications.WithLabelValues("empty").Inc()
		w.WriteHeader(http.StatusOK)
		return
	}

	var payload api.PushPayload
	if err := json.Unmarshal(decoded, &payload); err != nil || payload.HistoryId.String() == "" {
		logger.Log.Warn("push payload carries no history id", "error", err)
		metrics.PushNotifications.WithLabelValues("empty").Inc()
		w.WriteHeader(http.StatusOK)
		return
	}

	err = h.sync.HandleNotification(r.Context(), service.Notification{
		EmailAddress: payload.EmailAddress,
		HistoryId:    payload.HistoryId.String(),
	})
	if err != nil {
		if errors.Is(err, gmail.ErrAuthRequired) {
			metrics.PushNotifications.WithLabelValues("auth_failed").Inc()
			http.Error(w, "Mailbox authorization expired", http.StatusUnauthorized)
			return
		}
		metrics.PushNotifications.WithLabelValues("failed").Inc()
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	metrics.PushNotifications.WithLabelValues("processed").Inc()
	w.WriteHeader(http.StatusOK)
}
