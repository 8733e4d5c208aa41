package delivery

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"time"
)

// ZipSink writes each document as an entry of a zip archive.
type ZipSink struct {
	zw       *zip.Writer
	modified time.Time
	names    map[string]int
}

// NewZipSink starts an archive on w. Close must be called to finish it.
func NewZipSink(w io.Writer, modified time.Time) *ZipSink {
	return &ZipSink{zw: zip.NewWriter(w), modified: modified, names: make(map[string]int)}
}

func (s *ZipSink) Deliver(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	header := &zip.FileHeader{
		Name:     s.uniqueName(doc.FileName),
		Method:   zip.Deflate,
		Modified: s.modified,
	}
	w, err := s.zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create zip entry: %w", err)
	}
	if _, err := w.Write(doc.Data); err != nil {
		return fmt.Errorf("write zip entry: %w", err)
	}
	return nil
}

// Close finalizes the archive.
func (s *ZipSink) Close() error {
	return s.zw.Close()
}

func (s *ZipSink) uniqueName(name string) string {
	n := s.names[name]
	s.names[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%d_%s", n+1, name)
}

// MemorySink keeps documents in memory, in delivery order.
type MemorySink struct {
	Documents []Document
}

func (s *MemorySink) Deliver(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Documents = append(s.Documents, doc)
	return nil
}
