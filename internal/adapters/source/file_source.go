package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"telegram-reply-tracker/internal/ports"
)

// maxRequestSize ограничивает размер читаемого запроса.
const maxRequestSize = 1 << 20

// FileSource реализует интерфейс DataSource для чтения JSON-запроса из
// файла, указанного в командной строке. Путь "-" означает стандартный ввод.
type FileSource struct {
	path  string
	stdin io.Reader
}

// NewFileSource создает новый экземпляр FileSource.
func NewFileSource(path string) ports.DataSource {
	return &FileSource{path: path, stdin: os.Stdin}
}

// Fetch читает запрос и проверяет, что он является корректным JSON.
func (s *FileSource) Fetch() ([]byte, error) {
	var r io.Reader
	switch s.path {
	case "":
		return nil, fmt.Errorf("file path is not set")
	case "-":
		r = s.stdin
	default:
		f, err := os.Open(s.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", s.path, err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxRequestSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(data) > maxRequestSize {
		return nil, fmt.Errorf("request in %s exceeds %d bytes", s.path, maxRequestSize)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("request in %s is not valid JSON", s.path)
	}
	return data, nil
}
