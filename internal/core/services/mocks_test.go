package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"telegram-reply-tracker/internal/domain"
)

// mockNotifier — мок для интерфейса ports.ChangeNotifier.
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyReplyChanged(ctx context.Context, event domain.ReplyChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// mockMetrics — мок для интерфейса ports.ReplyMetrics.
type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) ObserveParsed(source string) {
	m.Called(source)
}

func (m *mockMetrics) ObserveDiagnostic(kind string) {
	m.Called(kind)
}

func (m *mockMetrics) ObserveChange(changed bool) {
	m.Called(changed)
}
