package avatar

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// FileSource reads an avatar from the local filesystem
type FileSource struct {
	Path string
}

func (s FileSource) Read(_ context.Context) ([]byte, string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, "", readError(s.Path, err)
	}
	if err := sizeCheck(info.Size()); err != nil {
		return nil, "", err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, "", readError(s.Path, err)
	}
	defer f.Close()

	// one extra byte detects a file that grew after Stat
	data, err := io.ReadAll(io.LimitReader(f, MaxSize+1))
	if err != nil {
		return nil, "", readError(s.Path, err)
	}

	return data, mime.TypeByExtension(filepath.Ext(s.Path)), nil
}

// BytesSource wraps avatar bytes already in memory, such as a form upload
type BytesSource struct {
	Data     []byte
	MIMEType string
}

func (s BytesSource) Read(_ context.Context) ([]byte, string, error) {
	return s.Data, s.MIMEType, nil
}
