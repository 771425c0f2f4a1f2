package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepnotes/internal/app/client/guard"
	"keepnotes/internal/app/client/session"
	"keepnotes/internal/domain/item"
	"keepnotes/internal/domain/user"
	"keepnotes/internal/utils/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	sess := session.New(session.NewMemoryStore(), logger.Discard())
	require.NoError(t, sess.Init(session.Tokens{Access: "tok", Refresh: "ref", Login: "ann"}))

	c := New(Options{BaseURL: srv.URL, Timeout: 5 * time.Second}, sess, guard.New(), logger.Discard())
	return c, srv
}

func TestResource_ListNormalizesAndSendsStatus(t *testing.T) {
	var gotQuery, gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notes", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `[{"_id":"1","title":"a"},{"id":"2","title":"b","trashed":true}]`)
	})

	notes, err := c.Notes.List(context.Background(), item.StateActive)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
	assert.Equal(t, "Bearer tok", gotAuth)

	require.Len(t, notes, 2)
	assert.Equal(t, "1", notes[0].ID)
	assert.Equal(t, item.StateActive, notes[0].State)
	assert.Equal(t, item.StateTrashed, notes[1].State)

	_, err = c.Notes.List(context.Background(), item.StateTrashed)
	require.NoError(t, err)
	assert.Equal(t, "status=trashed", gotQuery)
}

func TestResource_ListNullBodyIsEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})

	urls, err := c.URLs.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, urls)
	assert.Empty(t, urls)
}

func TestTransport_UnauthorizedTearsDownSession(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"token expired"}`)
	})
	require.NoError(t, c.Guard().Begin(guard.OpArchive, "note:9"))

	_, err := c.Reminders.List(context.Background(), item.StateActive)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Equal(t, "token expired", err.Error())

	assert.False(t, c.Session().Authenticated())
	assert.Zero(t, c.Guard().Len())
}

func TestTransport_ForbiddenIsAuthFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Notes.Update(context.Background(), "1", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.False(t, c.Session().Authenticated())
	assert.False(t, c.Guard().InFlight(guard.OpUpdate, "note:1"))
}

func TestTransport_ServerErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusConflict, `{"message":"cannot trash archived item"}`, "cannot trash archived item"},
		{"error field", http.StatusBadRequest, `{"error":"bad id"}`, "bad id"},
		{"huma detail", http.StatusUnprocessableEntity, `{"title":"Unprocessable Entity","detail":"title is required"}`, "title is required"},
		{"no body", http.StatusNotFound, ``, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Notes.Archive(context.Background(), "5")
			var se *ServerError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.message, se.Message)
			assert.NotErrorIs(t, err, ErrAuthenticationFailed)
			assert.True(t, c.Session().Authenticated())
			assert.False(t, Retryable(err))
		})
	}
}

func TestTransport_NetworkError(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.Notes.List(context.Background(), item.StateActive)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)

	var ne *NetworkError
	assert.ErrorAs(t, err, &ne)
	assert.True(t, Retryable(err))
	assert.True(t, c.Session().Authenticated())
}

func TestResource_ConcurrentDeleteRejected(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	var calls int
	var mu sync.Mutex

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(entered)
		<-unblock
		w.WriteHeader(http.StatusNoContent)
	})

	done := make(chan error, 1)
	go func() {
		_, err := c.Notes.Delete(context.Background(), "42", false)
		done <- err
	}()

	<-entered
	_, err := c.Notes.Delete(context.Background(), "42", false)
	assert.ErrorIs(t, err, guard.ErrOperationInProgress)

	// Другой вид операции и другой тип сущности не блокируются
	assert.False(t, c.Guard().InFlight(guard.OpDelete, "reminder:42"))

	close(unblock)
	require.NoError(t, <-done)
	assert.Zero(t, c.Guard().Len())

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestResource_DeletePermanent(t *testing.T) {
	var gotQuery, gotMethod string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})

	out, err := c.Reminders.Delete(context.Background(), "7", true)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "permanent=true", gotQuery)
	assert.False(t, out.HasItem)
	assert.Equal(t, "reminder deleted permanently", out.Message)

	out, err = c.Reminders.Delete(context.Background(), "7", false)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
	assert.Equal(t, "reminder moved to trash", out.Message)
}

func TestResource_MutationsReturnRecord(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/urls/3/archive":
			_, _ = io.WriteString(w, `{"_id":"3","url":"https://go.dev","lifecycleState":"archived"}`)
		case "/urls/3/unarchive":
			_, _ = io.WriteString(w, `{"message":"unarchived","url":{"_id":"3","url":"https://go.dev"}}`)
		case "/urls/3/restore":
			_, _ = io.WriteString(w, `{"message":"restored"}`)
		}
	})
	ctx := context.Background()

	out, err := c.URLs.Action(ctx, "3", item.ActionArchive)
	require.NoError(t, err)
	require.True(t, out.HasItem)
	assert.Equal(t, item.StateArchived, out.Item.State)

	out, err = c.URLs.Unarchive(ctx, "3")
	require.NoError(t, err)
	require.True(t, out.HasItem)
	assert.Equal(t, "3", out.Item.ID)
	assert.Equal(t, "unarchived", out.Message)

	out, err = c.URLs.Restore(ctx, "3")
	require.NoError(t, err)
	assert.False(t, out.HasItem)

	assert.Equal(t, []string{"PUT /urls/3/archive", "PUT /urls/3/unarchive", "PUT /urls/3/restore"}, paths)
}

func TestResource_CreateSendsBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var n item.Note
		require.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		assert.Equal(t, "groceries", n.Title)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id":"srv-1","title":"groceries","lifecycleState":"active"}`)
	})

	created, err := c.Notes.Create(context.Background(), &item.Note{Title: "groceries"})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)
}

func TestClient_LoginAcceptsBothTokenFields(t *testing.T) {
	for _, body := range []string{
		`{"token":"T1","user":{"username":"ann"}}`,
		`{"accessToken":"T1","refreshToken":"R1","user":{"username":"ann"}}`,
	} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/login", r.URL.Path)
			_, _ = io.WriteString(w, body)
		})
		require.NoError(t, c.Session().Teardown("test"))

		_, err := c.Login(context.Background(), user.LoginRequest{EmailOrUsername: "ann", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "T1", c.Session().Token())
		assert.Equal(t, "ann", c.Session().Login())
	}
}

func TestClient_LoginWrongPasswordKeepsNoSession(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"invalid credentials"}`)
	})
	require.NoError(t, c.Session().Teardown("test"))

	_, err := c.Login(context.Background(), user.LoginRequest{EmailOrUsername: "ann", Password: "bad"})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestClient_RefreshRotatesToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req user.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ref", req.RefreshToken)
		_, _ = io.WriteString(w, `{"accessToken":"tok2"}`)
	})

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, "tok2", c.Session().Token())
	assert.Equal(t, "ref", c.Session().RefreshToken())
}

func TestClient_LogoutClearsSessionEvenOnFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout-all", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.LogoutAll(context.Background())
	assert.Error(t, err)
	assert.False(t, c.Session().Authenticated())
}

func TestClient_BulkPayload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trash/bulk/move", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"items":[{"type":"note","id":"1"},{"type":"url","id":"2"}]}`, string(body))
		_, _ = io.WriteString(w, `{"succeeded":[{"type":"note","id":"1"}],"failed":[{"type":"url","id":"2","error":"not found"}]}`)
	})

	res, err := c.BulkTrash(context.Background(), []item.Ref{{Type: item.KindNote, ID: "1"}, {Type: item.KindURL, ID: "2"}})
	require.NoError(t, err)
	assert.Equal(t, []item.Ref{{Type: item.KindNote, ID: "1"}}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, item.KindURL, res.Failed[0].Type)
	assert.Equal(t, "not found", res.Failed[0].Error)
}

func TestClient_SearchQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "milk", r.URL.Query().Get("q"))
		assert.Equal(t, "notes", r.URL.Query().Get("type"))
		assert.Empty(t, r.URL.Query().Get("status"))
		_, _ = io.WriteString(w, `{"notes":[{"_id":"1","title":"milk"}]}`)
	})

	l, err := c.Search(context.Background(), "milk", item.SearchFilter{Type: item.KindNote})
	require.NoError(t, err)
	require.Len(t, l.Notes, 1)
	assert.Equal(t, "1", l.Notes[0].ID)
	assert.NotNil(t, l.URLs)
}

func TestClient_RecordClickSwallowsErrors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	u, ok := c.RecordClick(context.Background(), "9")
	assert.False(t, ok)
	assert.Nil(t, u)
}

func TestClient_Download(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/4/download", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Disposition", `attachment; filename="todo.txt"`)
		_, _ = io.WriteString(w, "buy milk")
	})

	d, err := c.Download(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, "todo.txt", d.FileName)
	assert.Equal(t, []byte("buy milk"), d.Data)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&ServerError{Status: http.StatusBadGateway}))
	assert.False(t, Retryable(&ServerError{Status: http.StatusConflict}))
	assert.True(t, Retryable(&NetworkError{Op: "GET /", Err: errors.New("reset")}))
	assert.False(t, Retryable(errors.New("other")))
}
