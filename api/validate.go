package api

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BookForm carries raw user input for the add/edit form. Everything is
// validated locally before any request is issued.
type BookForm struct {
	Title           string `validate:"required,max=200"`
	Author          string `validate:"required,max=200"`
	Year            string `validate:"required,year,max=6"`
	Rating          string `validate:"required,rating"`
	Read            string `validate:"required,oneof='not read' 'read' 'currently reading'"`
	ImageURL        string `validate:"omitempty,url"`
	FinishedReading string `validate:"omitempty,datetime=2006-01-02"`
}

var yearPattern = regexp.MustCompile(`^\d+$`)

var formValidator = func() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("year", func(fl validator.FieldLevel) bool {
		return yearPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= 1 && n <= 5
	})
	return v
}()

// Validate checks the form and returns a message suitable for an inline
// alert, or nil.
func (f BookForm) Validate() error {
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	switch verrs[0].Field() {
	case "Title", "Author":
		return errors.New("Title and Author must be 200 characters or less.")
	case "Year":
		return errors.New("Year must be a valid number of at most 6 digits.")
	case "Rating":
		return errors.New("Rating must be an integer between 1 and 5.")
	case "Read":
		return errors.New("Read status must be one of: not read, read, currently reading.")
	case "ImageURL":
		return errors.New("Image URL must be a valid URL.")
	case "FinishedReading":
		return errors.New("Finished date must look like 2006-01-02.")
	default:
		return err
	}
}

// Book converts a validated form into the wire shape. The finished date is
// only meaningful for status "read" and is dropped otherwise.
func (f BookForm) Book(bookID, userID int64) (Book, error) {
	if err := f.Validate(); err != nil {
		return Book{}, err
	}

	year, _ := strconv.Atoi(f.Year)
	rating, _ := strconv.Atoi(strings.TrimSpace(f.Rating))

	finished := ""
	if f.Read == StatusRead {
		finished = f.FinishedReading
	}

	return Book{
		ID:              bookID,
		UserID:          userID,
		Title:           f.Title,
		Author:          f.Author,
		Year:            year,
		Read:            f.Read,
		Rating:          rating,
		ImageURL:        f.ImageURL,
		FinishedReading: finished,
	}, nil
}

// FormFromBook prefills the form for editing.
func FormFromBook(b Book) BookForm {
	return BookForm{
		Title:           b.Title,
		Author:          b.Author,
		Year:            strconv.Itoa(b.Year),
		Rating:          strconv.Itoa(b.Rating),
		Read:            b.Read,
		ImageURL:        b.ImageURL,
		FinishedReading: b.FinishedReading,
	}
}
