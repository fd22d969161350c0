package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/fuel-alert/internal/config"
)

func TestResendSenderSend(t *testing.T) {
	var gotAuth string
	var gotBody resendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	sender := NewResendSender(config.MailerConfig{
		ResendBaseURL:  srv.URL,
		ResendAPIKey:   "re_test",
		TimeoutSeconds: 5,
	}, "Fuel Alert", "alerts@example.com")

	err := sender.Send(context.Background(), "user@example.com", "subject line", "<p>body</p>")
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", gotAuth)
	assert.Equal(t, "Fuel Alert <alerts@example.com>", gotBody.From)
	assert.Equal(t, []string{"user@example.com"}, gotBody.To)
	assert.Equal(t, "subject line", gotBody.Subject)
	assert.Equal(t, "<p>body</p>", gotBody.HTML)
}

func TestResendSenderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	sender := NewResendSender(config.MailerConfig{
		ResendBaseURL:  srv.URL,
		ResendAPIKey:   "bad",
		TimeoutSeconds: 5,
	}, "Fuel Alert", "alerts@example.com")

	err := sender.Send(context.Background(), "user@example.com", "s", "b")
	assert.ErrorContains(t, err, "status 401")
}

func TestNewSenderSelection(t *testing.T) {
	s, err := NewSender(config.MailerConfig{Provider: "dryrun"}, "Fuel Alert", "alerts@example.com")
	require.NoError(t, err)
	assert.IsType(t, &DryRunSender{}, s)

	s, err = NewSender(config.MailerConfig{Provider: "resend", TimeoutSeconds: 5}, "Fuel Alert", "alerts@example.com")
	require.NoError(t, err)
	assert.IsType(t, &ResendSender{}, s)

	_, err = NewSender(config.MailerConfig{Provider: "smoke-signal"}, "Fuel Alert", "alerts@example.com")
	assert.Error(t, err)
}

func TestDryRunSenderAlwaysSucceeds(t *testing.T) {
	s := &DryRunSender{}
	assert.NoError(t, s.Send(context.Background(), "user@example.com", "s", "b"))
}
