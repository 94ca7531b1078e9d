package config

import (
	slackinfra "github.com/cogni-dao/cogni-git-admin/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds audit notification configuration
type Slack struct {
	Token   string `masq:"secret"`
	Channel string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-token",
			Usage:       "Slack bot token for action audit messages",
			Destination: &c.Token,
			Sources:     cli.EnvVars("COGNI_SLACK_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel for action audit messages",
			Destination: &c.Channel,
			Sources:     cli.EnvVars("COGNI_SLACK_CHANNEL"),
		},
	}
}

// NewNotifier returns nil when Slack is not configured
func (c *Slack) NewNotifier() (*slackinfra.Notifier, error) {
	if c.Token == "" || c.Channel == "" {
		return nil, nil
	}
	return slackinfra.NewNotifier(c.Token, c.Channel)
}
