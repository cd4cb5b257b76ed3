package parser

import (
	"encoding/json"
	"fmt"

	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/ports"
)

// JsonParser реализует интерфейс Parser для разбора JSON-ответа API.
type JsonParser struct{}

// NewJsonParser создает новый экземпляр JsonParser.
func NewJsonParser() ports.Parser {
	return &JsonParser{}
}

// Parse преобразует срез байт с JSON в структуру ReplyResponse.
func (p *JsonParser) Parse(data []byte) (*domain.ReplyResponse, error) {
	var resp domain.ReplyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json: %w", err)
	}
	return &resp, nil
}
