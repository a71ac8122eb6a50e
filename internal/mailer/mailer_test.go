package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/valais-ski/fis-inscriptions-api/internal/config"
)

func TestSendSurfacesTimeout(t *testing.T) {
	c := New(&config.EmailConfig{
		APIKey:  "test-key",
		From:    "inscriptions@example.com",
		Timeout: time.Nanosecond,
	})

	err := c.SendNotification(context.Background(), []string{"chief@example.com"}, "Inscriptions", []string{"hello"})
	require.ErrorIs(t, err, ErrTimeout)
}

func TestNewDefaultsTheTimeout(t *testing.T) {
	c := New(&config.EmailConfig{APIKey: "test-key", From: "inscriptions@example.com"})
	require.Equal(t, defaultSendTimeout, c.timeout)
}
