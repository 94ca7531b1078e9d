package slack

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

const (
	colorSuccess = "good"
	colorFailure = "danger"
)

// Notifier posts action results to a Slack channel
type Notifier struct {
	client  *slack.Client
	channel string
}

var _ interfaces.AuditNotifier = (*Notifier)(nil)

// Option configures a Notifier
type Option func(*options)

type options struct {
	apiURL string
}

// WithAPIURL overrides the Slack API endpoint
func WithAPIURL(url string) Option {
	return func(o *options) {
		o.apiURL = url
	}
}

// NewNotifier creates a notifier posting to channel with a bot token
func NewNotifier(token, channel string, opts ...Option) (*Notifier, error) {
	if token == "" || channel == "" {
		return nil, goerr.New("Slack token and channel are required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var clientOpts []slack.Option
	if o.apiURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(o.apiURL))
	}

	return &Notifier{
		client:  slack.New(token, clientOpts...),
		channel: channel,
	}, nil
}

// Notify posts one message describing the signal and its result
func (n *Notifier) Notify(ctx context.Context, signal model.DecodedSignal, result *model.ActionResult) error {
	if result == nil {
		return nil
	}

	color := colorSuccess
	status := "succeeded"
	if !result.Success {
		color = colorFailure
		status = "failed"
	}
	text := fmt.Sprintf("DAO action `%s` %s on %s", signal.Key(), status, signal.RepoURL)

	fields := []slack.AttachmentField{
		{Title: "Result", Value: string(result.Action), Short: true},
		{Title: "Resource", Value: signal.Resource, Short: true},
		{Title: "DAO", Value: signal.DAO, Short: true},
		{Title: "Chain", Value: signal.ChainID.String(), Short: true},
		{Title: "Executor", Value: signal.Executor, Short: true},
		{Title: "Transaction", Value: signal.TxHash + "#" + strconv.FormatUint(uint64(signal.LogIndex), 10)},
	}
	if result.Error != "" {
		fields = append(fields, slack.AttachmentField{Title: "Error", Value: result.Error})
	}

	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAttachments(slack.Attachment{
			Color:  color,
			Fields: fields,
		}),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V("channel", n.channel), goerr.V("tx_hash", signal.TxHash))
	}
	return nil
}
