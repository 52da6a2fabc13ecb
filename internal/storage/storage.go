package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the provider rejects the credential (HTTP 401).
	ErrUnauthorized = errors.New("storage: unauthorized")
	// ErrNoUploadHref is returned when an upload slot response carries no href.
	ErrNoUploadHref = errors.New("storage: upload slot has no href")
	// ErrUploadMethod is returned when an upload slot asks for anything but PUT.
	ErrUploadMethod = errors.New("storage: unsupported upload method")
)

// StatusError reports an HTTP status the caller did not expect.
type StatusError struct {
	Op     string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Code)
}

// FolderState tells how EnsureFolder found the destination.
type FolderState int

const (
	FolderCreated FolderState = iota
	FolderExisted
)

func (s FolderState) String() string {
	if s == FolderExisted {
		return "existed"
	}
	return "created"
}

// Account is the part of the account-info response the backup needs.
type Account struct {
	DisplayName string
}

// UploadSlot is a write-capable reference handed out by the provider.
type UploadSlot struct {
	Href      string `json:"href"`
	Method    string `json:"method"`
	Templated bool   `json:"templated"`
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
	Path     string `json:"path"`
}

// Client captures the cloud disk operations the backup run needs.
type Client interface {
	CheckAuth(ctx context.Context) (Account, error)
	EnsureFolder(ctx context.Context, folder string) (FolderState, error)
	RequestUploadSlot(ctx context.Context, path string, overwrite bool) (UploadSlot, error)
	PutBytes(ctx context.Context, slot UploadSlot, data []byte, contentType string) error
	GetObjectInfo(ctx context.Context, path string) (ObjectInfo, error)
}

// ObjectPath joins a folder and a file name into a disk path: /folder/file.
func ObjectPath(folder, file string) string {
	return "/" + folder + "/" + file
}
