package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/hardiksingla/insightboard/internal/domain"
	"github.com/hardiksingla/insightboard/internal/errors"
	"github.com/hardiksingla/insightboard/internal/gmail"
	"github.com/hardiksingla/insightboard/internal/logger"
)

// Notification is a decoded Gmail push.
type Notification struct {
	EmailAddress string
	HistoryId    domain.HistoryId
}

// ForwardRequest is what gets handed to the ingestion endpoint for one new
// mail: the first body line is the link, the sender owns the resulting post.
type ForwardRequest struct {
	EmailId     string
	Subject     string
	SenderEmail string
	Url         string
}

// to mock service in tests
type SyncService interface {
	HandleNotification(ctx context.Context, n Notification) error
}

type Sync struct {
	mail    MailAPI
	storage SyncStorage
	forward Forwarder
	account string // used when a push carries no address
}

type MailAPI interface {
	Profile(ctx context.Context, user string) (domain.HistoryId, error)
	HistoryAdded(ctx context.Context, user string, startHistoryId domain.HistoryId) ([]string, error)
	Message(ctx context.Context, user, id string) (gmail.Message, error)
}

type SyncStorage interface {
	Setting(key string) (string, error)
	UpsertSetting(key, value string) error
}

type Forwarder interface {
	Forward(ctx context.Context, req ForwardRequest) error
}

func NewSync(mail MailAPI, storage SyncStorage, forward Forwarder, account string) *Sync {
	if account == "" {
		account = "me"
	}
	return &Sync{mail: mail, storage: storage, forward: forward, account: account}
}

var bracketedEmail = regexp.MustCompile(`<([^>]+)>`)

// HandleNotification is the push protocol:
//
//  1. No stored cursor: store the account's current history id and exit
//     without processing anything. The first push only arms the cursor.
//  2. Otherwise list message-added history since the cursor and forward one
//     ingestion request per new message. Per-message failures are logged
//     and skipped, never aborting the batch.
//  3. Advance the cursor to the notification's history id once the batch
//     completes, regardless of per-message outcomes. A message whose
//     forward failed is not retried by a later push (at-most-once).
//
// Mail API failures before the cursor write leave the cursor untouched, so
// the next push replays the same window.
func (s *Sync) HandleNotification(ctx context.Context, n Notification) error {
	account := n.EmailAddress
	if account == "" {
		account = s.account
	}

	cursor, err := s.storage.Setting(domain.SettingLastSeenHistoryId)
	if err != nil {
		if !errors.IsNotFound(err) {
			return err
		}
		return s.bootstrap(ctx, account)
	}

	messageIds, err := s.mail.HistoryAdded(ctx, account, cursor)
	if err != nil {
		return err
	}
	logger.Log.Info("processing gmail history window", "from", cursor, "to", n.HistoryId, "messages", len(messageIds))

	for _, id := range messageIds {
		if err := s.forwardMessage(ctx, account, id); err != nil {
			logger.Log.Error("failed to forward message, skipping", "message", id, "error", err)
		}
	}

	if err := s.storage.UpsertSetting(domain.SettingLastSeenHistoryId, n.HistoryId); err != nil {
		return err
	}
	logger.Log.Info("advanced gmail cursor", "historyId", n.HistoryId)
	return nil
}

// bootstrap arms the cursor from the account's current history id. The
// triggering push is deliberately not retro-processed.
func (s *Sync) bootstrap(ctx context.Context, account string) error {
	historyId, err := s.mail.Profile(ctx, account)
	if err != nil {
		return err
	}
	if err := s.storage.UpsertSetting(domain.SettingLastSeenHistoryId, historyId); err != nil {
		return err
	}
	logger.Log.Info("initial gmail sync, stored starting cursor", "historyId", historyId)
	return nil
}

func (s *Sync) forwardMessage(ctx context.Context, account, id string) error {
	msg, err := s.mail.Message(ctx, account, id)
	if err != nil {
		return err
	}

	sender := ""
	if m := bracketedEmail.FindStringSubmatch(msg.From); m != nil {
		sender = m[1]
	}

	lines := strings.Split(msg.Body, "\n")
	link := strings.TrimSpace(lines[0])

	return s.forward.Forward(ctx, ForwardRequest{
		EmailId:     id,
		Subject:     msg.Subject,
		SenderEmail: sender,
		Url:         link,
	})
}
