package ui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookquest/api"
	"bookquest/openlibrary"
)

func catalogBooks(prefix string, n int) []api.Book {
	books := make([]api.Book, n)
	for i := range books {
		books[i] = api.Book{
			Title:  fmt.Sprintf("%s %d", prefix, i+1),
			Author: "Frank Herbert",
			Read:   api.StatusNotRead,
			Rating: 5,
		}
	}
	return books
}

func resultTitles(books []api.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestSearchLoadMoreKeepsFirstPage(t *testing.T) {
	m := NewShelvesModel(&Deps{})
	m.mode = shelvesSearch
	m.searchQuery = "dune"
	m.searchLoading = true

	first := catalogBooks("dune", openlibrary.PageSize)
	m, _ = m.Update(searchResultsMsg{Query: "dune", Page: 1, Books: first})
	require.Equal(t, resultTitles(first), resultTitles(m.searchResults))
	require.Equal(t, 1, m.searchPage)

	second := catalogBooks("dune messiah", 3)
	m, _ = m.Update(searchResultsMsg{Query: "dune", Page: 2, Books: second})

	assert.Equal(t,
		append(resultTitles(first), resultTitles(second)...),
		resultTitles(m.searchResults))
	assert.Equal(t, 2, m.searchPage)
	assert.Len(t, m.searchList.Items(), openlibrary.PageSize+3)
	assert.False(t, m.searchLoading)
}

func TestSearchFreshQueryReplacesResults(t *testing.T) {
	m := NewShelvesModel(&Deps{})
	m.mode = shelvesSearch
	m.searchQuery = "dune"
	m, _ = m.Update(searchResultsMsg{Query: "dune", Page: 1, Books: catalogBooks("dune", 4)})

	m.searchQuery = "hyperion"
	m, _ = m.Update(searchResultsMsg{Query: "hyperion", Page: 1, Books: catalogBooks("hyperion", 2)})

	assert.Equal(t, []string{"hyperion 1", "hyperion 2"}, resultTitles(m.searchResults))
	assert.Equal(t, 1, m.searchPage)
}

func TestSearchStaleQueryResultsDropped(t *testing.T) {
	m := NewShelvesModel(&Deps{})
	m.mode = shelvesSearch
	m.searchQuery = "dune"
	m, _ = m.Update(searchResultsMsg{Query: "dune", Page: 1, Books: catalogBooks("dune", 2)})

	// a slow response for a query the user already abandoned
	m, _ = m.Update(searchResultsMsg{Query: "neuromancer", Page: 1, Books: catalogBooks("neuromancer", 4)})

	assert.Equal(t, []string{"dune 1", "dune 2"}, resultTitles(m.searchResults))
	assert.Equal(t, 1, m.searchPage)
	assert.Len(t, m.searchList.Items(), 2)
}
