package statement

import (
	"context"
	"fmt"
	"io"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

// DefaultContentType is used when the client does not declare one.
const DefaultContentType = "application/octet-stream"

// Upload is a file received from a client.
// Size is the declared size; the stored size is measured while writing.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

func validateUpload(upload *Upload, maxSize int64) error {
	if upload == nil || upload.Content == nil || upload.Size == 0 {
		return domainerror.NewStatementError(
			domainerror.ErrCodeEmptyFile,
			"the uploaded file is empty",
			domainerror.ErrEmptyFile,
		)
	}
	if maxSize > 0 && upload.Size > maxSize {
		return fileTooLarge(maxSize)
	}
	return nil
}

func fileTooLarge(maxSize int64) error {
	return domainerror.NewStatementError(
		domainerror.ErrCodeFileTooLarge,
		fmt.Sprintf("file exceeds the maximum size of %d bytes", maxSize),
		domainerror.ErrFileTooLarge,
	)
}

// store writes the upload under key, enforcing maxSize on the actual content.
func store(ctx context.Context, storage adapter.DocumentStorage, key string, upload *Upload, maxSize int64) (entity.StoredFile, error) {
	contentType := upload.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	content := upload.Content
	if maxSize > 0 {
		content = io.LimitReader(upload.Content, maxSize+1)
	}

	written, err := storage.Save(ctx, key, content, contentType)
	if err != nil {
		return entity.StoredFile{}, storageFailure(err)
	}
	if maxSize > 0 && written > maxSize {
		discard(ctx, storage, key)
		return entity.StoredFile{}, fileTooLarge(maxSize)
	}
	if written == 0 {
		discard(ctx, storage, key)
		return entity.StoredFile{}, domainerror.NewStatementError(
			domainerror.ErrCodeEmptyFile,
			"the uploaded file is empty",
			domainerror.ErrEmptyFile,
		)
	}

	return entity.StoredFile{
		FileName:    upload.FileName,
		ContentType: contentType,
		Size:        written,
		StorageKey:  key,
	}, nil
}
