package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() BookForm {
	return BookForm{
		Title:  "Dune",
		Author: "Herbert",
		Year:   "1965",
		Rating: "5",
		Read:   StatusNotRead,
	}
}

func TestValidFormPasses(t *testing.T) {
	assert.NoError(t, validForm().Validate())
}

func TestFieldValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookForm)
		want   string
	}{
		{"title too long", func(f *BookForm) { f.Title = strings.Repeat("x", 201) }, "200 characters"},
		{"author too long", func(f *BookForm) { f.Author = strings.Repeat("x", 201) }, "200 characters"},
		{"year not numeric", func(f *BookForm) { f.Year = "MCMLXV" }, "Year"},
		{"year negative", func(f *BookForm) { f.Year = "-1965" }, "Year"},
		{"year too long", func(f *BookForm) { f.Year = "1234567" }, "Year"},
		{"rating not integer", func(f *BookForm) { f.Rating = "4.5" }, "Rating"},
		{"rating zero", func(f *BookForm) { f.Rating = "0" }, "Rating"},
		{"rating too high", func(f *BookForm) { f.Rating = "6" }, "Rating"},
		{"bad status", func(f *BookForm) { f.Read = "maybe" }, "Read status"},
		{"bad finished date", func(f *BookForm) { f.Read = StatusRead; f.FinishedReading = "15/01/2024" }, "Finished date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			err := form.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBoundaryValuesAccepted(t *testing.T) {
	form := validForm()
	form.Title = strings.Repeat("x", 200)
	form.Author = strings.Repeat("x", 200)
	form.Year = "123456"
	form.Rating = "1"
	assert.NoError(t, form.Validate())
}

func TestBookDropsFinishedDateUnlessRead(t *testing.T) {
	form := validForm()
	form.FinishedReading = "2024-01-15"

	book, err := form.Book(0, 7)
	require.NoError(t, err)
	assert.Empty(t, book.FinishedReading)

	form.Read = StatusRead
	book, err = form.Book(0, 7)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", book.FinishedReading)
}

func TestBookConversion(t *testing.T) {
	book, err := validForm().Book(3, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 3, book.ID)
	assert.EqualValues(t, 7, book.UserID)
	assert.Equal(t, 1965, book.Year)
	assert.Equal(t, 5, book.Rating)
}

func TestFormFromBookRoundTrip(t *testing.T) {
	original, err := validForm().Book(3, 7)
	require.NoError(t, err)

	again, err := FormFromBook(original).Book(3, 7)
	require.NoError(t, err)
	assert.Equal(t, original, again)
}
