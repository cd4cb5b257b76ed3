package parser

import (
	"testing"
)

func TestJsonParser(t *testing.T) {
	t.Run("NewJsonParser создает корректный экземпляр", func(t *testing.T) {
		parser := NewJsonParser()
		if parser == nil {
			t.Error("Ожидался экземпляр JsonParser, получен nil")
		}
	})

	t.Run("Разбор корректного JSON", func(t *testing.T) {
		parser := &JsonParser{}
		testData := `{
			"reply": {
				"chat_id": -100,
				"message_id": 5242880,
				"quote": {"text": {"text": "hello", "entities": []}, "position": 3, "is_manual": true},
				"origin": {"@type": "messageOriginChannel", "chat_id": -1000000000050, "message_id": 3145728, "author_signature": "Ann"},
				"origin_send_date": 1000,
				"content": {"@type": "messagePhoto", "file_id": 1}
			},
			"changed": true,
			"diagnostics": [{"kind": "quote_sanitized", "details": "entity out of bounds"}]
		}`

		resp, err := parser.Parse([]byte(testData))
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		if resp.Reply.ChatID != -100 {
			t.Errorf("Ожидался chat_id -100, получено %d", resp.Reply.ChatID)
		}
		if resp.Reply.MessageID != 5<<20 {
			t.Errorf("Ожидался message_id %d, получено %d", 5<<20, resp.Reply.MessageID)
		}
		if resp.Reply.Quote == nil || resp.Reply.Quote.Text.Text != "hello" || !resp.Reply.Quote.IsManual {
			t.Errorf("Цитата разобрана неверно: %+v", resp.Reply.Quote)
		}
		if resp.Reply.Origin == nil || resp.Reply.Origin.AuthorSignature != "Ann" {
			t.Errorf("Источник разобран неверно: %+v", resp.Reply.Origin)
		}
		if resp.Reply.Content == nil || resp.Reply.Content.Type != "messagePhoto" {
			t.Errorf("Содержимое разобрано неверно: %+v", resp.Reply.Content)
		}
		if !resp.Changed {
			t.Error("Ожидался признак изменения")
		}
		if len(resp.Diagnostics) != 1 || resp.Diagnostics[0].Kind != "quote_sanitized" {
			t.Errorf("Диагностики разобраны неверно: %+v", resp.Diagnostics)
		}
	})

	t.Run("Разбор пустого ответа", func(t *testing.T) {
		parser := &JsonParser{}
		resp, err := parser.Parse([]byte(`{"reply": {"chat_id": 0, "message_id": 0, "origin_send_date": 0}}`))
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}
		if resp.Reply.Quote != nil || resp.Reply.Origin != nil || resp.Reply.Content != nil {
			t.Errorf("Ожидался пустой ответ, получено %+v", resp.Reply)
		}
	})

	t.Run("Ошибка разбора некорректного JSON", func(t *testing.T) {
		parser := &JsonParser{}
		resp, err := parser.Parse([]byte(`{"reply": `))
		if err == nil {
			t.Error("Ожидалась ошибка для некорректного JSON, получено nil")
		}
		if resp != nil {
			t.Error("Ожидался nil результат для некорректного JSON")
		}
	})
}
