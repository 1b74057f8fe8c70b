package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"note-keeper/internal/repository/sqlite"
	"note-keeper/internal/storage"
)

// Snapshotter periodically copies the database into object storage and
// prunes old copies.
type Snapshotter interface {
	Start(ctx context.Context) error
	Shutdown()
	RunOnce(ctx context.Context) (string, error)
}

type Config struct {
	Bucket    string
	KeyPrefix string
	Interval  time.Duration
	Keep      int
	TempDir   string
	Logger    *logrus.Logger
}

type snapshotter struct {
	cfg     Config
	db      *sql.DB
	storage storage.Service
	now     func() time.Time

	mu     sync.Mutex
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewSnapshotter(cfg Config, db *sql.DB, store storage.Service) Snapshotter {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	return &snapshotter{
		cfg:     cfg,
		db:      db,
		storage: store,
		now:     time.Now,
	}
}

func (s *snapshotter) Start(ctx context.Context) error {
	if s.cfg.Bucket == "" {
		return fmt.Errorf("backup bucket is required")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.runLogged(runCtx)
			}
		}
	}()
	return nil
}

// Shutdown stops the ticker loop and takes one last snapshot.
func (s *snapshotter) Shutdown() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	ctx, done := context.WithTimeout(context.Background(), time.Minute)
	defer done()
	s.runLogged(ctx)
}

func (s *snapshotter) runLogged(ctx context.Context) {
	location, err := s.RunOnce(ctx)
	if err != nil {
		s.cfg.Logger.WithError(err).Warn("database snapshot failed")
		return
	}
	s.cfg.Logger.WithField("location", location).Info("database snapshot uploaded")
}

// RunOnce snapshots, uploads and prunes, returning the uploaded location.
func (s *snapshotter) RunOnce(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp(s.cfg.TempDir, "notes-snapshot-")
	if err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	defer os.RemoveAll(dir)

	name := fmt.Sprintf("notes-%s-%s.db", s.now().UTC().Format("20060102T150405Z"), uuid.NewString())
	local := filepath.Join(dir, name)
	if err := sqlite.Snapshot(ctx, s.db, local); err != nil {
		return "", err
	}

	location, err := s.storage.UploadFile(ctx, local, s.cfg.Bucket, path.Join(s.cfg.KeyPrefix, name))
	if err != nil {
		return "", err
	}

	if err := s.prune(ctx); err != nil {
		s.cfg.Logger.WithError(err).Warn("prune snapshots")
	}
	return location, nil
}

func (s *snapshotter) prune(ctx context.Context) error {
	if s.cfg.Keep <= 0 {
		return nil
	}

	prefix := "notes-"
	if s.cfg.KeyPrefix != "" {
		prefix = s.cfg.KeyPrefix + "/" + prefix
	}
	objects, err := s.storage.ListObjects(ctx, s.cfg.Bucket, prefix)
	if err != nil {
		return err
	}
	if len(objects) <= s.cfg.Keep {
		return nil
	}

	// keys embed a sortable UTC timestamp
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	stale := objects[:len(objects)-s.cfg.Keep]
	keys := make([]string, len(stale))
	for i := range stale {
		keys[i] = stale[i].Key
	}
	return s.storage.DeleteObjects(ctx, s.cfg.Bucket, keys)
}
