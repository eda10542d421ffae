package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBackend is a minimal in-memory stand-in for the Flask service.
type fakeBackend struct {
	nextID int64
	books  []Book
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/addbook", func(w http.ResponseWriter, r *http.Request) {
		var b Book
		_ = json.NewDecoder(r.Body).Decode(&b)
		f.nextID++
		b.ID = f.nextID
		f.books = append(f.books, b)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Book added successfully"})
	})

	mux.HandleFunc("/editbook", func(w http.ResponseWriter, r *http.Request) {
		var b Book
		_ = json.NewDecoder(r.Body).Decode(&b)
		for i := range f.books {
			if f.books[i].ID == b.ID {
				f.books[i] = b
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Book updated successfully"})
	})

	mux.HandleFunc("/deletebook", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BookID int64 `json:"book_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		kept := f.books[:0]
		for _, b := range f.books {
			if b.ID != body.BookID {
				kept = append(kept, b)
			}
		}
		f.books = kept
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Book deleted successfully"})
	})

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username == "reader" && creds.Password == "hunter2" {
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "Logged in", "user_id": 7})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	})

	mux.HandleFunc("/change_password", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Current password is incorrect"})
	})

	mux.HandleFunc("/books/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/books/")
		parts := strings.Split(rest, "/")
		userID, _ := strconv.ParseInt(parts[0], 10, 64)

		if len(parts) == 2 && parts[1] == "counts" {
			counts := Counts{}
			for _, b := range f.books {
				if b.UserID != userID {
					continue
				}
				counts.Total++
				switch b.Read {
				case StatusRead:
					counts.Read++
				case StatusNotRead:
					counts.NotRead++
				case StatusCurrentlyReading:
					counts.CurrentlyReading++
				}
			}
			_ = json.NewEncoder(w).Encode(counts)
			return
		}

		status := ""
		if len(parts) == 2 {
			switch parts[1] {
			case "read":
				status = StatusRead
			case "not_read":
				status = StatusNotRead
			case "currently_reading":
				status = StatusCurrentlyReading
			}
		}
		out := []Book{}
		for _, b := range f.books {
			if b.UserID == userID && (status == "" || b.Read == status) {
				out = append(out, b)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	return mux
}

func newTestClient(t *testing.T) (*Client, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return NewClient(server.URL, zap.NewNop()), backend
}

func TestAddBookBumpsCounts(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	before, err := client.Counts(ctx, 7)
	require.NoError(t, err)

	dune := Book{
		UserID: 7,
		Title:  "Dune",
		Author: "Herbert",
		Year:   1965,
		Rating: 5,
		Read:   StatusNotRead,
	}
	require.NoError(t, client.AddBook(ctx, dune))

	after, err := client.Counts(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, before.Total+1, after.Total)
	assert.Equal(t, before.NotRead+1, after.NotRead)
	assert.Equal(t, before.Read, after.Read)
	assert.Equal(t, before.CurrentlyReading, after.CurrentlyReading)
}

func TestNoOpEditKeepsSectionIdentical(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.AddBook(ctx, Book{UserID: 7, Title: "Dune", Author: "Herbert", Year: 1965, Rating: 5, Read: StatusNotRead}))
	require.NoError(t, client.AddBook(ctx, Book{UserID: 7, Title: "Hyperion", Author: "Simmons", Year: 1989, Rating: 4, Read: StatusNotRead}))

	before, err := client.ListBooks(ctx, 7, SectionNotRead)
	require.NoError(t, err)
	require.Len(t, before, 2)

	// resubmit identical fields
	require.NoError(t, client.EditBook(ctx, before[0]))

	after, err := client.ListBooks(ctx, 7, SectionNotRead)
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)
}

func TestDeleteBookRemovesFromSection(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.AddBook(ctx, Book{UserID: 7, Title: "Dune", Author: "Herbert", Year: 1965, Rating: 5, Read: StatusRead}))
	books, err := client.ListBooks(ctx, 7, SectionRead)
	require.NoError(t, err)
	require.Len(t, books, 1)

	require.NoError(t, client.DeleteBook(ctx, books[0].ID, 7))

	books, err = client.ListBooks(ctx, 7, SectionRead)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestLogin(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	id, err := client.Login(ctx, "reader", "hunter2")
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
}

func TestLoginSurfacesServerErrorVerbatim(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Login(context.Background(), "reader", "wrong")
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusUnauthorized, serverErr.Status)
	assert.Equal(t, "Invalid credentials", serverErr.Message)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.ChangePassword(context.Background(), 7, "nope", "new")
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "Current password is incorrect", serverErr.Message)
}

func TestNetworkFailureReturnsError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", zap.NewNop())
	_, err := client.Counts(context.Background(), 7)
	assert.Error(t, err)
}
