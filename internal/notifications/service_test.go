package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hornetflow/internal/config"
	"hornetflow/internal/logging"
	"hornetflow/internal/notifications"
	"hornetflow/internal/workflow"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := &config.Config{}
	svc := notifications.NewService(cfg)
	if err := svc.NotifyRunCompleted(context.Background(), "run-1", 3, 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	priority string
	tags     string
	body     string
}

func captureServer(t *testing.T) (*httptest.Server, *[]captured) {
	t.Helper()
	var requests []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			priority: r.Header.Get("Priority"),
			tags:     r.Header.Get("Tags"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func ntfyConfig(topic string) *config.Config {
	cfg := &config.Config{}
	cfg.Notifications.NtfyTopic = topic
	cfg.Notifications.RequestTimeout = 5
	return cfg
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	server, requests := captureServer(t)
	svc := notifications.NewService(ntfyConfig(server.URL))
	ctx := context.Background()

	if err := svc.NotifyRunStarted(ctx, "run-1", "watcher"); err != nil {
		t.Fatalf("NotifyRunStarted: %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, "run-1", 2, 3); err != nil {
		t.Fatalf("NotifyRunCompleted: %v", err)
	}
	if err := svc.NotifyRunFailed(ctx, "run-2", "no manifests found"); err != nil {
		t.Fatalf("NotifyRunFailed: %v", err)
	}

	if len(*requests) != 3 {
		t.Fatalf("got %d requests, want 3", len(*requests))
	}
	got := *requests
	if got[0].title != "Hornet Flow - Run Started" || !strings.Contains(got[0].body, "watcher") {
		t.Fatalf("started = %+v", got[0])
	}
	if !strings.Contains(got[1].body, "2/3 components") || got[1].priority != "high" {
		t.Fatalf("completed = %+v", got[1])
	}
	if !strings.Contains(got[2].body, "no manifests found") || got[2].tags != "hornet-flow,error,alert" {
		t.Fatalf("failed = %+v", got[2])
	}
}

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic not found", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	svc := notifications.NewService(ntfyConfig(server.URL))
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestAttachNotifiesOnCompletion(t *testing.T) {
	server, requests := captureServer(t)
	svc := notifications.NewService(ntfyConfig(server.URL))

	dispatcher := workflow.NewDispatcher(logging.NewNop())
	notifications.Attach(dispatcher, svc)

	dispatcher.Trigger(workflow.EventCompleted, workflow.Payload{
		"run_id":    "run-9",
		"status":    "ok",
		"succeeded": 4,
		"total":     4,
	})
	dispatcher.Trigger(workflow.EventCompleted, workflow.Payload{
		"run_id": "run-10",
		"status": "validation_error",
		"error":  "components is required",
	})

	if len(*requests) != 2 {
		t.Fatalf("got %d requests, want 2", len(*requests))
	}
	got := *requests
	if !strings.Contains(got[0].body, "4/4 components") {
		t.Fatalf("success notification = %+v", got[0])
	}
	if !strings.Contains(got[1].body, "components is required") {
		t.Fatalf("failure notification = %+v", got[1])
	}
}
