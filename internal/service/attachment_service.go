package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/Sakilalakmal/nexus-app/internal/storage"
)

type AttachmentService struct {
	s3 *storage.S3Storage
}

func NewAttachmentService(s3 *storage.S3Storage) *AttachmentService {
	return &AttachmentService{s3: s3}
}

// Attachment describes a stored upload. URL is what goes into a message's
// image_url; Key addresses the object for the media handler.
type Attachment struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// UploadAttachment processes an uploaded image and stores it as a JPEG under
// the workspace's attachment prefix. Keys are random, so objects are
// immutable once written and the media handler can cache them forever.
func (s *AttachmentService) UploadAttachment(ctx context.Context, workspaceID, uploaderID string, fileReader io.Reader, publicAPIBaseURL string) (*Attachment, error) {
	if s.s3 == nil {
		return nil, ErrStorageNotConfigured
	}
	publicAPIBaseURL = strings.TrimRight(strings.TrimSpace(publicAPIBaseURL), "/")
	if publicAPIBaseURL == "" {
		return nil, errors.New("missing public api base url")
	}

	opts := storage.DefaultAttachmentOptions()
	jpegBytes, contentType, outSize, err := storage.ProcessAttachmentImage(fileReader, opts)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("attachments/%s/%s/%s.jpg", workspaceID, uploaderID, uuid.NewString())
	st, err := s.s3.PutObject(ctx, key, bytes.NewReader(jpegBytes), outSize, contentType)
	if err != nil {
		return nil, err
	}

	return &Attachment{
		URL:         publicAPIBaseURL + "/media/" + key,
		Key:         key,
		ContentType: contentType,
		SizeBytes:   st.Size,
	}, nil
}

// DeleteAttachment removes a stored object. Callers scope the key to their
// workspace before getting here.
func (s *AttachmentService) DeleteAttachment(ctx context.Context, key string) error {
	if s.s3 == nil {
		return ErrStorageNotConfigured
	}
	return s.s3.DeleteObject(ctx, key)
}
