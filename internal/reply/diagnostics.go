package reply

import (
	"fmt"

	"telegram-reply-tracker/internal/domain"
)

// DiagnosticKind — вид аномалии в заголовке ответа.
type DiagnosticKind string

const (
	DiagnosticMissingHeader           DiagnosticKind = "missing_header"
	DiagnosticScheduledReplyInvalid   DiagnosticKind = "scheduled_reply_invalid"
	DiagnosticScheduledReplyCrossChat DiagnosticKind = "scheduled_reply_cross_chat"
	DiagnosticScheduledSelfReply      DiagnosticKind = "scheduled_self_reply"
	DiagnosticScheduledReplyExternal  DiagnosticKind = "scheduled_reply_external"
	DiagnosticInvalidReplyPeer        DiagnosticKind = "invalid_reply_peer"
	DiagnosticInvalidReplyTarget      DiagnosticKind = "invalid_reply_target"
	DiagnosticOutOfOrderReply         DiagnosticKind = "out_of_order_reply"
	DiagnosticPeerWithoutTarget       DiagnosticKind = "peer_without_target"
	DiagnosticInvalidOriginDate       DiagnosticKind = "invalid_origin_date"
	DiagnosticInvalidOrigin           DiagnosticKind = "invalid_origin"
	DiagnosticUnsupportedReplyMedia   DiagnosticKind = "unsupported_reply_media"
	DiagnosticQuoteSanitized          DiagnosticKind = "quote_sanitized"
)

// Diagnostic описывает аномалию, найденную при разборе заголовка, с
// контекстом, достаточным для её воспроизведения.
type Diagnostic struct {
	Kind    DiagnosticKind
	Host    domain.MessageFullID
	Target  domain.MessageFullID
	Details string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: reply to %s in %s: %s", d.Kind, d.Target, d.Host, d.Details)
}

// DiagnosticsToClient возвращает клиентское представление диагностик.
func DiagnosticsToClient(diags []Diagnostic) []domain.ClientDiagnostic {
	if len(diags) == 0 {
		return nil
	}
	out := make([]domain.ClientDiagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, domain.ClientDiagnostic{Kind: string(d.Kind), Details: d.String()})
	}
	return out
}
