package notifier

import (
	"log/slog"

	"github.com/avetisov/jobscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new job matches to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with platform, company, title, location, and URL.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(jobs []model.Job) error {
	for _, j := range jobs {
		args := []any{"platform", j.Platform, "company", j.Company, "title", j.Title, "location", j.Location, "url", j.URL}
		if !j.PostedAt.IsZero() {
			args = append(args, "posted_at", j.PostedAt)
		}
		n.logger.Info("new job", args...)
	}
	return nil
}
