// Package baas describes the hosted backend the booking API leans on: JSON record
// tables, a public storage bucket, and named serverless functions.
package baas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRecordNotFound is returned by RecordStore.Update and Delete for unknown ids.
var ErrRecordNotFound = errors.New("record not found")

// Known tables. RecordStore adapters refuse anything else.
const (
	TableServices = "services"
	TableGallery  = "gallery"
)

var allowedTables = map[string]struct{}{
	TableServices: {},
	TableGallery:  {},
}

// CheckTable guards table names before they reach SQL.
func CheckTable(table string) error {
	if _, ok := allowedTables[table]; !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}

// Record is a JSON document stored under a table.
type Record struct {
	ID        string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordStore provides CRUD by table name.
type RecordStore interface {
	Insert(ctx context.Context, table, id string, data json.RawMessage) (Record, error)
	Get(ctx context.Context, table, id string) (Record, bool, error)
	List(ctx context.Context, table string) ([]Record, error)
	Update(ctx context.Context, table, id string, data json.RawMessage) (Record, error)
	Delete(ctx context.Context, table, id string) error
}

// StoredFile describes an uploaded object.
type StoredFile struct {
	Key      string
	URL      string
	Size     int64
	MimeType string
	ETag     string
}

// FileStorage uploads blobs and hands back a public URL.
type FileStorage interface {
	Upload(ctx context.Context, key string, data []byte, mimeType string) (StoredFile, error)
	Delete(ctx context.Context, key string) error
}

// FunctionInvoker calls a named function with a JSON body. out may be nil.
type FunctionInvoker interface {
	Invoke(ctx context.Context, name string, payload any, out any) error
}
