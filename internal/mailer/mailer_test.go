package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOTP(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL, "shared-secret")
	err := client.SendOTP(context.Background(), "student@bbdu.org", "042137")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"email":  "student@bbdu.org",
		"otp":    "042137",
		"secret": "shared-secret",
	}, got)
}

func TestSendOTP_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, "shared-secret")
	err := client.SendOTP(context.Background(), "student@bbdu.org", "042137")
	assert.Error(t, err)
}

func TestSendOTP_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, "shared-secret")
	err := client.SendOTP(context.Background(), "student@bbdu.org", "042137")
	assert.Error(t, err)
}
