package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/storefront/internal/domain"
)

func newTestSender(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("", time.Second)
	assert.Error(t, err)
}

func TestSend(t *testing.T) {
	msg := Message{
		Name:              "Aisha Khan",
		Email:             "aisha@example.com",
		Message:           "Do you run sunrise tours?",
		VerificationToken: "tok_abc",
	}

	t.Run("success returns the backend confirmation", func(t *testing.T) {
		c := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var got map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, "Aisha Khan", got["name"])
			assert.Equal(t, "tok_abc", got["token"])

			w.Write([]byte(`{"message": "Thanks, we'll be in touch."}`))
		})

		reply, err := c.Send(context.Background(), msg)
		require.NoError(t, err)
		assert.Equal(t, "Thanks, we'll be in touch.", reply)
	})

	t.Run("backend rejection keeps its wording", func(t *testing.T) {
		c := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message": "Verification failed"}`))
		})

		_, err := c.Send(context.Background(), msg)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EREJECTED))
		assert.Equal(t, "Verification failed", domain.ErrorMessage(err))
	})

	t.Run("error status without a message is unavailable", func(t *testing.T) {
		c := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{}`))
		})

		_, err := c.Send(context.Background(), msg)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EUNAVAILABLE))
	})

	t.Run("network failure is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		c, err := NewClient(srv.URL, time.Second)
		require.NoError(t, err)
		srv.Close()

		_, err = c.Send(context.Background(), msg)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EUNAVAILABLE))
	})
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Send(context.Background(), Message{})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EUNAVAILABLE))
}
