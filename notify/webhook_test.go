package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {

	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	NewWebhook(srv.URL).Send("[매수완료] 005930 2주 70000원")

	assert.Equal(t, "[매수완료] 005930 2주 70000원", got["text"])
}

func TestRelay(t *testing.T) {

	received := make(chan string, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		received <- body["text"]
	}))
	defer srv.Close()

	ch := make(chan string, 2)
	go NewWebhook(srv.URL).Relay(ch)

	ch <- "first"
	ch <- "second"
	close(ch)

	assert.Equal(t, "first", <-received)
	assert.Equal(t, "second", <-received)
}

func TestSend_EmptyURLDoesNotPanic(t *testing.T) {

	done := make(chan struct{})
	go func() {
		NewWebhook("").Send("dropped")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send with empty url must return immediately")
	}
}
