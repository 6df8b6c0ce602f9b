package feed

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/bookshelf/backend/internal/model/book"
	feedservice "github.com/zhouzirui/bookshelf/backend/internal/service/feed"
)

func setupServer(t *testing.T) (*httptest.Server, *feedservice.Hub) {
	t.Helper()
	hub := feedservice.NewHub(nil)
	handler := New(hub, 4, nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv, hub
}

func TestSSEStreamsEvents(t *testing.T) {
	srv, hub := setupServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/books/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)
	_, err = reader.ReadString('\n')
	require.NoError(t, err)

	hub.Publish(book.Event{Type: book.EventDeleted, BookID: "gone"})

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: deleted\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "data: "))
	assert.Contains(t, line, `"bookId":"gone"`)
}

func TestWebSocketStreamsEvents(t *testing.T) {
	srv, hub := setupServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/books/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	hub.Publish(book.Event{Type: book.EventCreated, BookID: "fresh", Book: &book.Book{ID: "fresh", Name: "New"}})

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev book.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, book.EventCreated, ev.Type)
	assert.Equal(t, "fresh", ev.BookID)
	require.NotNil(t, ev.Book)
	assert.Equal(t, "New", ev.Book.Name)
}
