// Package ingest turns uploaded files into inline image payloads that can be stored directly
// inside collection documents.
package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yeremiapane/paradise-cafe/utils"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxBytes bounds a single file read into memory.
	DefaultMaxBytes = 8 << 20

	fallbackMIME = "application/octet-stream"
)

var (
	ErrEmptyFile = errors.New("file is empty")
	ErrTooLarge  = errors.New("file exceeds size limit")
)

// ImagePayload is a data URL: "data:<mime>;base64,<data>".
type ImagePayload string

// Valid reports whether the payload can be used as an image reference.
func (p ImagePayload) Valid() bool {
	return strings.HasPrefix(string(p), "data:image/") && strings.Contains(string(p), ";base64,")
}

// MIME returns the media type embedded in the payload, or "" when there is none.
func (p ImagePayload) MIME() string {
	rest, ok := strings.CutPrefix(string(p), "data:")
	if !ok {
		return ""
	}
	mime, _, ok := strings.Cut(rest, ";")
	if !ok {
		return ""
	}
	return mime
}

// IngestionError collects the files that could not be encoded.
type IngestionError struct {
	Failures map[int]error
	Names    map[int]string
}

func (e *IngestionError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for i, err := range e.Failures {
		parts = append(parts, fmt.Sprintf("#%d %s: %v", i, e.Names[i], err))
	}
	return "ingest: " + strings.Join(parts, "; ")
}

// Encoder reads files fully into memory and encodes them as data URLs.
type Encoder struct {
	MaxBytes int64
}

func NewEncoder(maxBytes int64) *Encoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Encoder{MaxBytes: maxBytes}
}

// EncodeReader reads r to the end. hint is used when the content type cannot be sniffed.
func (e *Encoder) EncodeReader(r io.Reader, hint string) (ImagePayload, error) {
	data, err := io.ReadAll(io.LimitReader(r, e.MaxBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(data)) > e.MaxBytes {
		return "", fmt.Errorf("%w: limit %d bytes", ErrTooLarge, e.MaxBytes)
	}

	return Encode(data, hint), nil
}

// EncodeFile encodes one uploaded file.
func (e *Encoder) EncodeFile(fh *multipart.FileHeader) (ImagePayload, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return e.EncodeReader(f, fh.Header.Get("Content-Type"))
}

// EncodeFiles encodes every file concurrently and returns payloads in input order. A file that
// fails leaves an empty payload at its index and is reported in the returned *IngestionError.
func (e *Encoder) EncodeFiles(ctx context.Context, files []*multipart.FileHeader) ([]ImagePayload, error) {
	payloads := make([]ImagePayload, len(files))
	failures := make([]error, len(files))

	g, _ := errgroup.WithContext(ctx)
	for i, fh := range files {
		g.Go(func() error {
			payload, err := e.EncodeFile(fh)
			if err != nil {
				failures[i] = err
				return nil
			}
			payloads[i] = payload
			return nil
		})
	}
	_ = g.Wait()

	ierr := &IngestionError{Failures: map[int]error{}, Names: map[int]string{}}
	for i, err := range failures {
		if err != nil {
			ierr.Failures[i] = err
			ierr.Names[i] = files[i].Filename
			utils.ErrorLogger.WithError(err).WithField("file", files[i].Filename).Warn("image ingestion failed")
		}
	}
	if len(ierr.Failures) > 0 {
		return payloads, ierr
	}
	return payloads, nil
}

// Encode builds a data URL from raw bytes.
func Encode(data []byte, hint string) ImagePayload {
	mime := mimetype.Detect(data).String()
	if (mime == fallbackMIME || strings.HasPrefix(mime, "text/plain")) && hint != "" {
		mime = hint
	}
	// drop parameters such as "; charset=utf-8"
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	var buf bytes.Buffer
	buf.Grow(len(mime) + 13 + base64.StdEncoding.EncodedLen(len(data)))
	buf.WriteString("data:")
	buf.WriteString(mime)
	buf.WriteString(";base64,")
	buf.WriteString(base64.StdEncoding.EncodeToString(data))
	return ImagePayload(buf.String())
}

// BatchIDs returns n identifiers of the form {ms}{suffix}-{i} for one bulk upload.
func BatchIDs(batch time.Time, n int) []string {
	prefix := utils.BatchPrefix(batch)
	ids := make([]string, n)
	for i := range ids {
		ids[i] = utils.BatchID(prefix, i)
	}
	return ids
}
