package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDownload indicates the source document could not be fetched.
	ErrDownload = errors.New("download failed")

	// ErrInvalidConfiguration indicates inconsistent settings, such as a chunk
	// overlap that is not smaller than the chunk size.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrRetrieval indicates the relevant chunks for a query could not be found.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrChatInvocation indicates the chat provider did not produce an answer.
	ErrChatInvocation = errors.New("chat invocation failed")
)

// DownloadError describes a non-success HTTP response for the source document.
type DownloadError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("Failed to download file: %s", e.Status)
}

// Unwrap lets errors.Is match ErrDownload.
func (e *DownloadError) Unwrap() error { return ErrDownload }
