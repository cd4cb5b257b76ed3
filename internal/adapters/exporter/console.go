package exporter

import (
	"fmt"
	"io"
	"os"

	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/ports"
)

// ConsoleExporter реализует интерфейс Exporter для вывода ответа в консоль.
type ConsoleExporter struct {
	out io.Writer
}

// NewConsoleExporter создает новый экземпляр ConsoleExporter, пишущий в stdout.
func NewConsoleExporter() ports.Exporter {
	return &ConsoleExporter{out: os.Stdout}
}

// NewWriterExporter создает новый экземпляр ConsoleExporter, пишущий в w.
func NewWriterExporter(w io.Writer) ports.Exporter {
	return &ConsoleExporter{out: w}
}

// Export выводит сведения об ответе в читаемом виде.
func (e *ConsoleExporter) Export(resp *domain.ReplyResponse) error {
	if resp == nil {
		return fmt.Errorf("nothing to export")
	}

	w := &errWriter{w: e.out}
	r := resp.Reply
	w.printf("--- Reply ---\n")
	if r.MessageID == 0 && r.Origin == nil {
		w.printf("Not a reply.\n")
	} else {
		if r.MessageID != 0 {
			w.printf("Message: %d in chat %d\n", r.MessageID, r.ChatID)
		} else {
			w.printf("Message: unavailable\n")
		}
		if r.Origin != nil {
			w.printf("Origin: %s\n", describeOrigin(r.Origin))
		}
		if r.OriginSendDate != 0 {
			w.printf("Sent at: %d\n", r.OriginSendDate)
		}
		if r.Content != nil {
			w.printf("Content: %s\n", r.Content.Type)
		}
		if r.Quote != nil {
			kind := "auto"
			if r.Quote.IsManual {
				kind = "manual"
			}
			w.printf("Quote (%s, position %d): %q\n", kind, r.Quote.Position, r.Quote.Text.Text)
		}
	}
	if resp.Changed {
		w.printf("Changed: yes\n")
	}
	if len(resp.Diagnostics) > 0 {
		w.printf("--- Diagnostics ---\n")
		for i, d := range resp.Diagnostics {
			w.printf("%d. %s: %s\n", i+1, d.Kind, d.Details)
		}
	}
	return w.err
}

func describeOrigin(o *domain.ClientMessageOrigin) string {
	switch o.Type {
	case "messageOriginUser":
		return fmt.Sprintf("user %d", o.SenderUserID)
	case "messageOriginHiddenUser":
		return fmt.Sprintf("hidden user %q", o.SenderName)
	case "messageOriginImport":
		return fmt.Sprintf("imported from %q", o.SenderName)
	case "messageOriginChat":
		return withSignature(fmt.Sprintf("chat %d", o.SenderChatID), o.AuthorSignature)
	case "messageOriginChannel":
		return withSignature(fmt.Sprintf("channel %d post %d", o.ChatID, o.MessageID), o.AuthorSignature)
	default:
		return o.Type
	}
}

func withSignature(s, signature string) string {
	if signature == "" {
		return s
	}
	return fmt.Sprintf("%s signed %q", s, signature)
}

// errWriter запоминает первую ошибку записи
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
