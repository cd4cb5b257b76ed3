package source

import (
	"encoding/json"
	"fmt"

	"telegram-reply-tracker/internal/ports"
)

// RequestSource реализует интерфейс DataSource для запроса, собранного из
// флагов командной строки.
type RequestSource struct {
	request any
}

// NewRequestSource создает новый экземпляр RequestSource.
func NewRequestSource(request any) ports.DataSource {
	return &RequestSource{request: request}
}

// Fetch сериализует запрос в JSON.
func (s *RequestSource) Fetch() ([]byte, error) {
	if s.request == nil {
		return nil, fmt.Errorf("request is not set")
	}
	data, err := json.Marshal(s.request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return data, nil
}
