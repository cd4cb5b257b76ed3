package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/term"

	"telegram-reply-tracker/internal/adapters/exporter"
	"telegram-reply-tracker/internal/adapters/parser"
	"telegram-reply-tracker/internal/adapters/source"
	"telegram-reply-tracker/internal/ports"
)

// endpoints сопоставляет режим клиента с маршрутом API
var endpoints = map[string]string{
	"parse": "/api/v1/replies/parse",
	"input": "/api/v1/replies/input",
}

func main() {
	var (
		serverAddr string
		mode       string
		chatID     int64
		messageID  int64
		replyChat  int64
		replyTo    int64
	)
	flag.StringVar(&serverAddr, "server", "http://localhost:8080", "Server address")
	flag.StringVar(&mode, "mode", "parse", "Request kind: parse, input or get")
	flag.Int64Var(&chatID, "chat", 0, "Owner chat id")
	flag.Int64Var(&messageID, "message", 0, "Owner message id")
	flag.Int64Var(&replyChat, "reply-chat", 0, "Chat of the replied message, input mode without a request file")
	flag.Int64Var(&replyTo, "reply-to", 0, "Replied message id, input mode without a request file")
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}

	var (
		resp *http.Response
		err  error
	)
	if mode == "get" {
		resp, err = client.Get(fmt.Sprintf("%s/api/v1/replies/%d/%d", serverAddr, chatID, messageID))
	} else {
		endpoint, ok := endpoints[mode]
		if !ok {
			log.Fatalf("Unknown mode %q", mode)
		}
		var src ports.DataSource
		switch {
		case flag.NArg() == 1:
			src = source.NewFileSource(flag.Arg(0))
		case mode == "input" && replyTo != 0:
			src = source.NewRequestSource(map[string]any{
				"owner":    map[string]int64{"chat_id": chatID, "message_id": messageID},
				"reply_to": map[string]int64{"chat_id": replyChat, "message_id": replyTo},
			})
		case !term.IsTerminal(int(os.Stdin.Fd())):
			src = source.NewFileSource("-")
		default:
			log.Fatal("Request file is required. Usage: client [flags] <request.json | ->")
		}
		body, fetchErr := src.Fetch()
		if fetchErr != nil {
			log.Fatalf("Failed to read request: %v", fetchErr)
		}
		resp, err = client.Post(serverAddr+endpoint, "application/json", bytes.NewReader(body))
	}
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	result, err := parser.NewJsonParser().Parse(data)
	if err != nil {
		log.Fatalf("Failed to decode response: %v", err)
	}
	if err := exporter.NewConsoleExporter().Export(result); err != nil {
		log.Fatalf("Failed to print response: %v", err)
	}
}
