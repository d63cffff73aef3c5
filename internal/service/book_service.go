package service

import (
	"context"
	"errors"

	"anoa.com/librarydesk/internal/dto"
	"anoa.com/librarydesk/internal/model"
	"anoa.com/librarydesk/internal/repository"
	"anoa.com/librarydesk/pkg/apperror"
	"gorm.io/gorm"
)

type BookService interface {
	List(ctx context.Context, query string) ([]*model.Book, error)
	Get(ctx context.Context, id uint) (*model.Book, error)
	Create(ctx context.Context, req dto.CreateBookRequest) (uint, error)
	Update(ctx context.Context, id uint, req dto.UpdateBookRequest) error
	Delete(ctx context.Context, id uint) error
}

type bookService struct {
	books repository.BookRepository
	trxs  repository.TransactionRepository
}

func NewBookService(books repository.BookRepository, trxs repository.TransactionRepository) BookService {
	return &bookService{books: books, trxs: trxs}
}

func (s *bookService) List(ctx context.Context, query string) ([]*model.Book, error) {
	return s.books.FindAll(ctx, query)
}

func (s *bookService) Get(ctx context.Context, id uint) (*model.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) Create(ctx context.Context, req dto.CreateBookRequest) (uint, error) {
	isbn := normalizeOptional(req.ISBN)
	if isbn != nil {
		inUse, err := s.books.ISBNInUse(ctx, *isbn, 0)
		if err != nil {
			return 0, err
		}
		if inUse {
			return 0, apperror.ErrDuplicateISBN
		}
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	book := &model.Book{
		Title:             req.Title,
		Author:            req.Author,
		Category:          req.Category,
		ISBN:              isbn,
		Quantity:          quantity,
		AvailableQuantity: quantity,
	}

	if err := s.books.Create(ctx, book); err != nil {
		return 0, err
	}

	return book.ID, nil
}

// Update applies the stock delta (new quantity minus old) to the availability
// counter. Reducing stock below the number of copies on loan is rejected.
func (s *bookService) Update(ctx context.Context, id uint, req dto.UpdateBookRequest) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	isbn := normalizeOptional(req.ISBN)
	if isbn != nil && (current.ISBN == nil || *current.ISBN != *isbn) {
		inUse, err := s.books.ISBNInUse(ctx, *isbn, id)
		if err != nil {
			return err
		}
		if inUse {
			return apperror.ErrDuplicateISBN
		}
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = current.Quantity
	}

	book := &model.Book{
		ID:       id,
		Title:    req.Title,
		Author:   req.Author,
		Category: req.Category,
		ISBN:     isbn,
		Quantity: quantity,
	}

	return s.books.UpdateWithDelta(ctx, book, quantity-current.Quantity)
}

func (s *bookService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	outstanding, err := s.trxs.CountOutstandingByBook(ctx, id)
	if err != nil {
		return err
	}
	if outstanding > 0 {
		return apperror.ErrBookInUse
	}

	return s.books.Delete(ctx, id)
}
