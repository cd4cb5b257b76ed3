package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	t.Run("NewFileSource создает корректный экземпляр", func(t *testing.T) {
		assert.NotNil(t, NewFileSource("request.json"))
	})

	t.Run("Fetch возвращает ошибку для пустого пути", func(t *testing.T) {
		data, err := (&FileSource{}).Fetch()

		assert.Nil(t, data)
		assert.EqualError(t, err, "file path is not set")
	})

	t.Run("Fetch возвращает ошибку для несуществующего файла", func(t *testing.T) {
		_, err := (&FileSource{path: "non_existing_file.json"}).Fetch()

		assert.ErrorContains(t, err, "failed to open file")
	})

	t.Run("Fetch читает файл", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "request.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"chat_id": -100}`), 0644))

		data, err := NewFileSource(path).Fetch()

		require.NoError(t, err)
		assert.JSONEq(t, `{"chat_id": -100}`, string(data))
	})

	t.Run("Fetch читает стандартный ввод", func(t *testing.T) {
		source := &FileSource{path: "-", stdin: strings.NewReader(`{"store": true}`)}

		data, err := source.Fetch()

		require.NoError(t, err)
		assert.JSONEq(t, `{"store": true}`, string(data))
	})

	t.Run("Fetch отклоняет некорректный JSON", func(t *testing.T) {
		source := &FileSource{path: "-", stdin: strings.NewReader(`{"store": `)}

		_, err := source.Fetch()

		assert.ErrorContains(t, err, "not valid JSON")
	})

	t.Run("Fetch отклоняет слишком большой запрос", func(t *testing.T) {
		source := &FileSource{path: "-", stdin: strings.NewReader(`"` + strings.Repeat("a", maxRequestSize) + `"`)}

		_, err := source.Fetch()

		assert.ErrorContains(t, err, "exceeds")
	})
}

func TestRequestSource(t *testing.T) {
	t.Run("Fetch сериализует запрос", func(t *testing.T) {
		source := NewRequestSource(map[string]any{"chat_id": -100, "message_id": 10})

		data, err := source.Fetch()

		require.NoError(t, err)
		assert.JSONEq(t, `{"chat_id": -100, "message_id": 10}`, string(data))
	})

	t.Run("Fetch возвращает ошибку для пустого запроса", func(t *testing.T) {
		data, err := NewRequestSource(nil).Fetch()

		assert.Nil(t, data)
		assert.ErrorContains(t, err, "request is not set")
	})

	t.Run("Fetch возвращает ошибку сериализации", func(t *testing.T) {
		_, err := NewRequestSource(map[string]any{"bad": make(chan int)}).Fetch()

		assert.ErrorContains(t, err, "failed to marshal request")
	})
}
