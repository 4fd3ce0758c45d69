package analytics

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const (
	EventAppOpened   = "app_opened"
	EventTasksLoaded = "tasks_loaded"
	EventTaskCreated = "task_created"
	EventTaskToggled = "task_toggled"
	EventTaskEdited  = "task_edited"
	EventTaskDeleted = "task_deleted"
)

var (
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasklist_events_total",
			Help: "Task list events by name",
		},
		[]string{"event", "platform"},
	)

	tasksGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tasklist_tasks",
			Help: "Number of tasks currently in the list",
		},
	)
)

// Envelope is what we attach to every event.
type Envelope struct {
	SessionID    string
	Platform     string
	AppVersion   string
	DeviceLocale string
}

// FromRequest extracts event envelope fields from request headers.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "web", "cli":
	case "":
		platform = "web"
	default:
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	return Envelope{
		SessionID:    strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:     platform,
		AppVersion:   strings.TrimSpace(r.Header.Get("X-App-Version")),
		DeviceLocale: locale,
	}
}

// CLI is the envelope used by the terminal client.
func CLI(version string) Envelope {
	return Envelope{Platform: "cli", AppVersion: version}
}

type Recorder struct {
	log *logrus.Entry
}

func NewRecorder(log *logrus.Entry) *Recorder {
	return &Recorder{log: log}
}

// Log records one event. Callers pass sanitized props: never raw task text.
func (rec *Recorder) Log(ctx context.Context, env Envelope, eventName string, props map[string]any) {
	if eventName == "" {
		return
	}
	eventsTotal.WithLabelValues(eventName, env.Platform).Inc()

	fields := logrus.Fields{
		"event":    eventName,
		"platform": env.Platform,
	}
	if env.SessionID != "" {
		fields["session_id"] = env.SessionID
	}
	if env.AppVersion != "" {
		fields["app_version"] = env.AppVersion
	}
	if env.DeviceLocale != "" {
		fields["device_locale"] = env.DeviceLocale
	}
	for k, v := range props {
		fields["prop_"+k] = v
	}
	rec.log.WithContext(ctx).WithFields(fields).Info("event")
}

// TrackCount keeps the tasks gauge in step with the list size.
func TrackCount(n int) {
	tasksGauge.Set(float64(n))
}
