package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-helpdesk-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamingBackend(chunks int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "no flusher", http.StatusInternalServerError)
			return
		}
		for i := 0; i < chunks; i++ {
			fmt.Fprintf(w, `{"message":{"content":"chunk%d "},"done":false}`+"\n", i)
			flusher.Flush()
			time.Sleep(time.Millisecond)
		}
		fmt.Fprintln(w, `{"message":{"content":""},"done":true}`)
	}))
}

func TestChatStreamDeliversDeltasUntilDone(t *testing.T) {
	srv := streamingBackend(3)
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "test-model")
	deltas, err := provider.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	var content string
	var sawDone bool
	for d := range deltas {
		require.NoError(t, d.Err)
		if d.Done {
			sawDone = true
			break
		}
		content += d.Content
	}
	assert.True(t, sawDone)
	assert.Equal(t, "chunk0 chunk1 chunk2 ", content)
}

func TestChatStreamStopsWhenReaderCancels(t *testing.T) {
	srv := streamingBackend(200)
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "test-model")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deltas, err := provider.ChatStream(ctx, []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	// Consume one delta, then walk away the way a disconnected client does.
	<-deltas
	cancel()

	closed := make(chan struct{})
	go func() {
		for range deltas {
		}
		close(closed)
	}()

	select {
	case <-closed:
		// Producer exited and closed the channel; nothing is left blocked on
		// a send, and the response body has been released.
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not terminate after the reader cancelled")
	}
}
