package rpc

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Book is the remote metadata record of a stored book.
type Book struct {
	ID         string
	Title      string
	Author     string
	Locator    string
	UploadedAt time.Time
}

func (m *Book) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.Title)
	b = appendString(b, 3, m.Author)
	b = appendString(b, 4, m.Locator)
	return appendTime(b, 5, m.UploadedAt)
}

func (m *Book) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.ID)
	case 2:
		return consumeString(typ, b, &m.Title)
	case 3:
		return consumeString(typ, b, &m.Author)
	case 4:
		return consumeString(typ, b, &m.Locator)
	case 5:
		return consumeTime(typ, b, &m.UploadedAt)
	}
	return skipField(num, typ, b)
}

type RegisterRequest struct {
	Username string
	Password string
}

func (m *RegisterRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	return appendString(b, 2, m.Password)
}

func (m *RegisterRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.Username)
	case 2:
		return consumeString(typ, b, &m.Password)
	}
	return skipField(num, typ, b)
}

type RegisterResponse struct {
	UserID string
}

func (m *RegisterResponse) appendWire(b []byte) []byte {
	return appendString(b, 1, m.UserID)
}

func (m *RegisterResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.UserID)
	}
	return skipField(num, typ, b)
}

type LoginRequest struct {
	Username string
	Password string
}

func (m *LoginRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	return appendString(b, 2, m.Password)
}

func (m *LoginRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.Username)
	case 2:
		return consumeString(typ, b, &m.Password)
	}
	return skipField(num, typ, b)
}

type LoginResponse struct {
	UserID      string
	AccessToken string
}

func (m *LoginResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.UserID)
	return appendString(b, 2, m.AccessToken)
}

func (m *LoginResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.UserID)
	case 2:
		return consumeString(typ, b, &m.AccessToken)
	}
	return skipField(num, typ, b)
}

type PutBookRequest struct {
	OwnerID string
	Book    Book
}

func (m *PutBookRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.OwnerID)
	return appendMessage(b, 2, &m.Book)
}

func (m *PutBookRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.OwnerID)
	case 2:
		return consumeMessage(typ, b, &m.Book)
	}
	return skipField(num, typ, b)
}

type PutBookResponse struct {
	Book Book
}

func (m *PutBookResponse) appendWire(b []byte) []byte {
	return appendMessage(b, 1, &m.Book)
}

func (m *PutBookResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeMessage(typ, b, &m.Book)
	}
	return skipField(num, typ, b)
}

type ListBooksRequest struct {
	OwnerID string
}

func (m *ListBooksRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.OwnerID)
}

func (m *ListBooksRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.OwnerID)
	}
	return skipField(num, typ, b)
}

type ListBooksResponse struct {
	Books []Book
}

func (m *ListBooksResponse) appendWire(b []byte) []byte {
	for i := range m.Books {
		b = appendMessage(b, 1, &m.Books[i])
	}
	return b
}

func (m *ListBooksResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num != 1 {
		return skipField(num, typ, b)
	}
	var book Book
	n, err := consumeMessage(typ, b, &book)
	if err != nil {
		return 0, err
	}
	m.Books = append(m.Books, book)
	return n, nil
}

type DeleteBookRequest struct {
	OwnerID string
	BookID  string
}

func (m *DeleteBookRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.OwnerID)
	return appendString(b, 2, m.BookID)
}

func (m *DeleteBookRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.OwnerID)
	case 2:
		return consumeString(typ, b, &m.BookID)
	}
	return skipField(num, typ, b)
}

type DeleteBookResponse struct{}

func (m *DeleteBookResponse) appendWire(b []byte) []byte { return b }

func (m *DeleteBookResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	return skipField(num, typ, b)
}

// PresignUploadRequest asks for a PUT URL for the blob of one book. The
// object key is derived from owner and book, so repeated uploads overwrite.
type PresignUploadRequest struct {
	OwnerID string
	BookID  string
}

func (m *PresignUploadRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.OwnerID)
	return appendString(b, 2, m.BookID)
}

func (m *PresignUploadRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.OwnerID)
	case 2:
		return consumeString(typ, b, &m.BookID)
	}
	return skipField(num, typ, b)
}

type PresignUploadResponse struct {
	Locator string
	URL     string
}

func (m *PresignUploadResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Locator)
	return appendString(b, 2, m.URL)
}

func (m *PresignUploadResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.Locator)
	case 2:
		return consumeString(typ, b, &m.URL)
	}
	return skipField(num, typ, b)
}

type PresignDownloadRequest struct {
	OwnerID string
	Locator string
}

func (m *PresignDownloadRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.OwnerID)
	return appendString(b, 2, m.Locator)
}

func (m *PresignDownloadRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.OwnerID)
	case 2:
		return consumeString(typ, b, &m.Locator)
	}
	return skipField(num, typ, b)
}

type PresignDownloadResponse struct {
	URL string
}

func (m *PresignDownloadResponse) appendWire(b []byte) []byte {
	return appendString(b, 1, m.URL)
}

func (m *PresignDownloadResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.URL)
	}
	return skipField(num, typ, b)
}
