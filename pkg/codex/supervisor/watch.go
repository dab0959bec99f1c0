package supervisor

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// binaryWatcher reports changes to one file. Its zero value never fires.
type binaryWatcher struct {
	w       *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
}

// watch watches the directory holding binaryPath so that replacing the
// file by rename is seen too.
func (s *Supervisor) watch() (*binaryWatcher, error) {
	if s.binaryPath == "" {
		return &binaryWatcher{}, nil
	}

	path, err := filepath.Abs(s.binaryPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", s.binaryPath, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()

		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	bw := &binaryWatcher{
		w:       w,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go bw.loop(path, s.logger)

	return bw, nil
}

func (bw *binaryWatcher) loop(path string, logger *zap.Logger) {
	defer close(bw.done)

	for {
		select {
		case ev, ok := <-bw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Chmod) == 0 {
				continue
			}
			logger.Debug("codex executable changed", zap.String("path", path), zap.Stringer("op", ev.Op))
			select {
			case bw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-bw.w.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

// events returns nil when nothing is watched, which blocks forever in a
// select.
func (bw *binaryWatcher) events() <-chan struct{} {
	return bw.changed
}

func (bw *binaryWatcher) close() {
	if bw.w == nil {
		return
	}
	_ = bw.w.Close()
	<-bw.done
}
