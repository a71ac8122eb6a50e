// Package mailer wraps the transactional email provider. Template content
// stays minimal on purpose; the provider renders nothing, it only delivers.
// Every send carries a bounded timeout; timeouts surface as ErrTimeout rather
// than a generic transport error.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/valais-ski/fis-inscriptions-api/internal/config"
)

var ErrTimeout = errors.New("email provider request timed out")

const defaultSendTimeout = 30 * time.Second

type Client struct {
	client  *resend.Client
	from    string
	replyTo string
	timeout time.Duration
}

func New(conf *config.EmailConfig) *Client {
	timeout := conf.Timeout
	if timeout == 0 {
		timeout = defaultSendTimeout
	}

	return &Client{
		client:  resend.NewClient(conf.APIKey),
		from:    conf.From,
		replyTo: conf.ReplyTo,
		timeout: timeout,
	}
}

// SendInscriptionPDF mails the entry form to the race organizers with the
// rendered PDF attached.
func (c *Client) SendInscriptionPDF(ctx context.Context, to []string, subject string, body string, pdf []byte, filename string) error {
	return c.send(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      to,
		ReplyTo: c.replyTo,
		Subject: subject,
		Html:    body,
		Attachments: []*resend.Attachment{
			{
				Filename: filename,
				Content:  pdf,
			},
		},
	})
}

// SendNotification delivers a plain notification to the organization roster.
func (c *Client) SendNotification(ctx context.Context, to []string, subject string, lines []string) error {
	return c.send(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      to,
		ReplyTo: c.replyTo,
		Subject: subject,
		Html:    "<p>" + strings.Join(lines, "</p><p>") + "</p>",
	})
}

func (c *Client) send(ctx context.Context, params *resend.SendEmailRequest) error {
	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.client.Emails.SendWithContext(tctx, params); err != nil {
		var urlErr *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		return fmt.Errorf("c.client.Emails.SendWithContext -> %w", err)
	}

	return nil
}
