package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hornetflow/internal/config"
	"hornetflow/internal/workflow"
)

const userAgent = "Hornet-Flow/0.1.0"

// Service defines the notification surface exposed to workflow runs.
type Service interface {
	NotifyRunStarted(ctx context.Context, runID, trigger string) error
	NotifyRunCompleted(ctx context.Context, runID string, succeeded, total int) error
	NotifyRunFailed(ctx context.Context, runID, message string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := cfg.NotifyTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

// Attach registers notification handlers on the dispatcher. Started runs
// notify quietly; completion notifies success or failure based on the
// recorded status.
func Attach(dispatcher *workflow.Dispatcher, service Service) {
	dispatcher.Register(workflow.EventStarted, func(p workflow.Payload) error {
		runID, _ := p["run_id"].(string)
		trigger, _ := p["trigger"].(string)
		return service.NotifyRunStarted(context.Background(), runID, trigger)
	})
	dispatcher.Register(workflow.EventCompleted, func(p workflow.Payload) error {
		runID, _ := p["run_id"].(string)
		status, _ := p["status"].(string)
		if status != "ok" {
			message, _ := p["error"].(string)
			return service.NotifyRunFailed(context.Background(), runID, message)
		}
		succeeded, _ := p["succeeded"].(int)
		total, _ := p["total"].(int)
		return service.NotifyRunCompleted(context.Background(), runID, succeeded, total)
	})
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, runID, trigger string) error {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		trigger = "cli"
	}
	data := payload{
		title:   "Hornet Flow - Run Started",
		message: fmt.Sprintf("Workflow run %s started (%s)", runID, trigger),
		tags:    []string{"hornet-flow", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, runID string, succeeded, total int) error {
	data := payload{
		title:    "Hornet Flow - Run Complete",
		message:  fmt.Sprintf("Workflow run %s complete: %d/%d components processed", runID, succeeded, total),
		tags:     []string{"hornet-flow", "run", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, runID, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "unknown"
	}
	data := payload{
		title:    "Hornet Flow - Run Failed",
		message:  fmt.Sprintf("Workflow run %s failed: %s", runID, message),
		tags:     []string{"hornet-flow", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Hornet Flow - Test",
		message:  "Notification system test",
		tags:     []string{"hornet-flow", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, string) error     { return nil }
func (noopService) NotifyRunCompleted(context.Context, string, int, int) error { return nil }
func (noopService) NotifyRunFailed(context.Context, string, string) error      { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }
