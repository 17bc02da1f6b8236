// Package backup copies uploaded images and archived invoices into dated
// folders once a day and prunes old copies.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Vidhyalakshmi16/svm-mobiles/config"
	"go.uber.org/zap"
)

const stampLayout = "2006-01-02_15-04-05"

// Scheduler runs the daily backup. Sources maps a folder name inside each
// snapshot to the directory copied there.
type Scheduler struct {
	sources   map[string]string
	dir       string
	retention time.Duration
	hour, min int
	log       *zap.Logger
	now       func() time.Time
}

func NewScheduler(cfg config.BackupConfig, sources map[string]string, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		sources:   sources,
		dir:       cfg.Dir,
		retention: cfg.Retention,
		hour:      cfg.Hour,
		min:       cfg.Minute,
		log:       log.Named("backup"),
		now:       time.Now,
	}
}

// NextRun is the first scheduled time strictly after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is done, taking a snapshot at the configured time each day.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := s.NextRun(s.now())
		s.log.Info("next backup scheduled", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if dest, err := s.RunOnce(); err != nil {
			s.log.Error("backup failed", zap.Error(err))
		} else {
			s.log.Info("backup written", zap.String("dir", dest))
		}
		s.Cleanup()
	}
}

// RunOnce writes one snapshot and returns its directory. Missing source
// directories are skipped.
func (s *Scheduler) RunOnce() (string, error) {
	dest := filepath.Join(s.dir, s.now().Format(stampLayout))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", err
	}
	for name, src := range s.sources {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyDir(src, filepath.Join(dest, name)); err != nil {
			return dest, fmt.Errorf("back up %s: %w", name, err)
		}
	}
	return dest, nil
}

// Cleanup removes snapshots older than the retention period. The age comes
// from the folder name, or its modification time for foreign folders.
func (s *Scheduler) Cleanup() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Error("read backup directory", zap.Error(err))
		return
	}
	cutoff := s.now().Add(-s.retention)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		taken, err := time.ParseInLocation(stampLayout, entry.Name(), time.Local)
		if err != nil {
			info, statErr := entry.Info()
			if statErr != nil {
				continue
			}
			taken = info.ModTime()
		}
		if !taken.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			s.log.Error("remove old backup", zap.String("dir", path), zap.Error(err))
		} else {
			s.log.Info("removed old backup", zap.String("dir", path))
		}
	}
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
