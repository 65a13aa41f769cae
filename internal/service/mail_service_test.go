package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendMailer_Send(t *testing.T) {
	var got Email
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", WithResendEndpoint(srv.URL), WithResendHTTPClient(srv.Client()))
	receipt, err := m.Send(context.Background(), &Email{
		From:    "Owner <owner@example.com>",
		To:      []string{"jo@x.com"},
		Subject: "Hi",
		HTML:    "<p>hi</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794", receipt.ID)
	assert.JSONEq(t, `{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`, string(receipt.Raw))
	assert.Equal(t, []string{"jo@x.com"}, got.To)
	assert.Equal(t, "<p>hi</p>", got.HTML)
}

func TestResendMailer_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", WithResendEndpoint(srv.URL))
	_, err := m.Send(context.Background(), &Email{To: []string{"x"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "Invalid to field")
}

func TestResendMailer_RequiresAPIKey(t *testing.T) {
	_, err := NewResendMailer("").Send(context.Background(), &Email{})

	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestTelegramService_SendContactMessage(t *testing.T) {
	var got telegramMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewTelegramService("token", "chat")
	s.baseURL = srv.URL

	require.NoError(t, s.SendContactMessage(context.Background(), "<Jo>", "jo@x.com", "Hello & bye"))
	assert.Equal(t, "chat", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Contains(t, got.Text, "&lt;Jo&gt;")
	assert.Contains(t, got.Text, "Hello &amp; bye")
}

func TestTelegramService_NotConfigured(t *testing.T) {
	s := NewTelegramService("", "")

	assert.False(t, s.Configured())
	assert.ErrorIs(t, s.SendContactMessage(context.Background(), "a", "b", "c"), ErrNotConfigured)
}
