package fonts

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/mamadbah2/collection-desk/pkg/clients/webfont"
)

//go:embed assets
var assets embed.FS

// Source is one step of the font chain.
type Source interface {
	Origin() Origin
	Load(ctx context.Context) ([]byte, error)
}

// EmbeddedSource reads a font compiled into the binary.
type EmbeddedSource struct {
	fsys fs.FS
	name string
}

// NewEmbeddedSource reads name from the binary's assets directory.
func NewEmbeddedSource(name string) *EmbeddedSource {
	return &EmbeddedSource{fsys: assets, name: path.Join("assets", name)}
}

func (s *EmbeddedSource) Origin() Origin { return OriginEmbedded }

func (s *EmbeddedSource) Load(context.Context) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, s.name)
	if err != nil {
		return nil, fmt.Errorf("read embedded font %s: %w", s.name, err)
	}
	return data, nil
}

// FileSource reads a font from disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Origin() Origin { return OriginFile }

func (s *FileSource) Load(context.Context) ([]byte, error) {
	if s.path == "" {
		return nil, fmt.Errorf("font path not configured: %w", fs.ErrNotExist)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	return data, nil
}

// RemoteSource downloads a web font.
type RemoteSource struct {
	client webfont.Client
}

func NewRemoteSource(client webfont.Client) *RemoteSource {
	return &RemoteSource{client: client}
}

func (s *RemoteSource) Origin() Origin { return OriginRemote }

func (s *RemoteSource) Load(ctx context.Context) ([]byte, error) {
	if s.client == nil {
		return nil, fmt.Errorf("web font client not configured")
	}
	return s.client.FetchFont(ctx)
}
