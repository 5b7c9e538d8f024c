package app

import (
	"context"
	"os"
	"time"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
)

// ReloadTemplates replaces the document templates with those of the page
// at path. Cards built afterwards use the new markup.
func (s *Session) ReloadTemplates(ctx context.Context, path string) error {
	return s.Do(ctx, "templates.reload", func(context.Context) error {
		return s.reloadTemplates(path)
	})
}

func (s *Session) reloadTemplates(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &PartError{Part: "templates", Action: "reload", Err: err}
	}
	defer f.Close()

	if err := s.doc.ReloadTemplates(f); err != nil {
		return &PartError{Part: "templates", Action: "reload", Err: err}
	}
	s.log.WithField("path", path).Info("templates reloaded")
	return nil
}

// WatchTemplates reloads the templates whenever the file at path changes.
// The watcher is closed when the session stops.
func (s *Session) WatchTemplates(ctx context.Context, path string, delay time.Duration) error {
	return s.Do(ctx, "templates.watch", func(context.Context) error {
		if s.watcher != nil {
			return nil
		}
		w, err := dom.WatchTemplates(path, dom.WatchConfig{
			Delay: delay,
			OnChange: func(path string) {
				s.post("templates.reload", func(context.Context) error {
					return s.reloadTemplates(path)
				})
			},
			OnError: func(err error) {
				s.log.WithError(err).Warn("template watcher")
			},
		})
		if err != nil {
			return &PartError{Part: "templates", Action: "watch", Err: err}
		}
		s.watcher = w
		s.log.WithField("path", w.Path()).Info("watching templates")
		return nil
	})
}
