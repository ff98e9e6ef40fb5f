package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgError "github.com/AzielCF/az-planner/pkg/error"
)

type capturedSend struct {
	path    string
	payload map[string]string
}

func newFakeAPI(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*Client, *[]capturedSend) {
	t.Helper()

	var sends []capturedSend
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		send := capturedSend{path: r.URL.Path}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			payload := map[string]string{}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode body: %v", err)
			}
			send.payload = payload
		}
		sends = append(sends, send)
		respond(w, r)
	}))
	t.Cleanup(server.Close)

	return NewClientWithBase(server.URL), &sends
}

func okResponse(w http.ResponseWriter, _ *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}

func TestSendPhoto_URLPayload(t *testing.T) {
	client, sends := newFakeAPI(t, okResponse)

	err := client.SendPhoto(context.Background(), "123:abc", "-100777", "https://picsum.photos/seed/x/800/600", "<b>Title</b>\n\nBody")
	if err != nil {
		t.Fatalf("SendPhoto() unexpected error: %v", err)
	}

	if len(*sends) != 1 {
		t.Fatalf("expected 1 API call, got %d", len(*sends))
	}
	send := (*sends)[0]
	if send.path != "/bot123:abc/sendPhoto" {
		t.Fatalf("wrong path %q", send.path)
	}
	if send.payload["chat_id"] != "-100777" {
		t.Fatalf("wrong chat_id %q", send.payload["chat_id"])
	}
	if send.payload["photo"] != "https://picsum.photos/seed/x/800/600" {
		t.Fatalf("wrong photo %q", send.payload["photo"])
	}
	if send.payload["parse_mode"] != "HTML" {
		t.Fatalf("parse_mode %q, want HTML", send.payload["parse_mode"])
	}
	if !strings.Contains(send.payload["caption"], "<b>Title</b>") {
		t.Fatalf("caption lost its markup: %q", send.payload["caption"])
	}
}

func TestSendPhoto_SurfacesDescriptionVerbatim(t *testing.T) {
	client, _ := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":          false,
			"error_code":  400,
			"description": "Bad Request: chat not found",
		})
	})

	err := client.SendPhoto(context.Background(), "123:abc", "-1", "https://example.com/a.png", "caption")
	if err == nil {
		t.Fatalf("SendPhoto() expected an error")
	}
	if _, ok := err.(pkgError.DeliveryError); !ok {
		t.Fatalf("expected DeliveryError, got %T", err)
	}
	if err.Error() != "Bad Request: chat not found" {
		t.Fatalf("description must surface verbatim, got %q", err.Error())
	}
}

func TestSendPhoto_UnreadableResponse(t *testing.T) {
	client, _ := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream exploded</html>"))
	})

	err := client.SendPhoto(context.Background(), "123:abc", "-1", "https://example.com/a.png", "caption")
	if err == nil {
		t.Fatalf("SendPhoto() expected an error")
	}
	if _, ok := err.(pkgError.DeliveryError); !ok {
		t.Fatalf("expected DeliveryError, got %T", err)
	}
}
