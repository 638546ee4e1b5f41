package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	config "github.com/archstack/fieldreport/configs"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.AIConfig{
		APIKey:          "test-key",
		BaseURL:         srv.URL,
		ChatModel:       "test-chat",
		TranscribeModel: "test-whisper",
		RequestTimeout:  5 * time.Second,
	}
	return NewClient(cfg, logrus.New()).(*Client), srv
}

func TestClient_Complete(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-chat", req.Model)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Equal(t, "user", req.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "<html>report</html>"}},
			},
		})
	})

	out, err := client.Complete(context.Background(), "be helpful", "write a report")
	require.NoError(t, err)
	require.Equal(t, "<html>report</html>", out)
}

func TestClient_CompleteUpstreamError(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	_, err := client.Complete(context.Background(), "sys", "prompt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestClient_CompleteEmptyChoices(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), "sys", "prompt")
	require.Error(t, err)
}

func TestClient_Transcribe(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "test-whisper", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "visit.m4a", header.Filename)

		_, _ = w.Write([]byte(`{"text":"foundation looks sound"}`))
	})

	text, err := client.Transcribe(context.Background(), "visit.m4a", strings.NewReader("fake audio bytes"))
	require.NoError(t, err)
	require.Equal(t, "foundation looks sound", text)
}

func TestClient_TranscribeUpstreamError(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"unsupported format"}}`))
	})

	_, err := client.Transcribe(context.Background(), "visit.xyz", strings.NewReader("bytes"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
}
