package email

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend(t *testing.T) {
	var received postmarkEmail
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"MessageID": "test-id"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", WithAPIURL(server.URL), WithHTTPClient(server.Client()))

	err := client.Send("alice@example.com", "Your Expense Report", "Reminder: Add your expenses today!", "", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotToken != "test-token" {
		t.Errorf("server token = %q, want %q", gotToken, "test-token")
	}
	if received.To != "alice@example.com" {
		t.Errorf("To = %q, want %q", received.To, "alice@example.com")
	}
	if received.From != "noreply@example.com" {
		t.Errorf("From = %q, want %q", received.From, "noreply@example.com")
	}
	if received.Subject != "Your Expense Report" {
		t.Errorf("Subject = %q", received.Subject)
	}
	if len(received.Attachments) != 0 {
		t.Errorf("unexpected attachments: %+v", received.Attachments)
	}
}

func TestSendWithAttachment(t *testing.T) {
	var received postmarkEmail

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", WithAPIURL(server.URL))

	data := []byte("Title,Amount\nLunch,12.50\n")
	if err := client.Send("bob@example.com", "Your Expense Report", "Attached is your expense report.", "report.csv", data); err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(received.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(received.Attachments))
	}
	if received.Attachments[0].Name != "report.csv" {
		t.Errorf("attachment name = %q", received.Attachments[0].Name)
	}
	decoded, err := base64.StdEncoding.DecodeString(received.Attachments[0].Content)
	if err != nil {
		t.Fatalf("decode attachment: %v", err)
	}
	if string(decoded) != string(data) {
		t.Errorf("attachment content = %q", decoded)
	}
}

func TestSendNotConfigured(t *testing.T) {
	client := NewClient("", "noreply@example.com")

	if err := client.Send("alice@example.com", "s", "b", "", nil); err == nil {
		t.Fatal("expected error for unconfigured client")
	}
}

func TestSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", WithAPIURL(server.URL))

	if err := client.Send("alice@example.com", "s", "b", "", nil); err == nil {
		t.Fatal("expected error for API failure")
	}
}
