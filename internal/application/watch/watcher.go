package watch

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-claude-timeline/internal/core/model"
	"github.com/penwyp/go-claude-timeline/internal/util"
)

// FileWatcher reports changes to .jsonl files below a set of roots.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	events  chan model.FileEvent
	done    chan struct{}
}

func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		events:  make(chan model.FileEvent, 100),
		done:    make(chan struct{}),
	}

	for _, path := range paths {
		fw.addTree(path)
	}

	go fw.processEvents()

	return fw, nil
}

// addTree watches root and every directory below it. Unreadable entries are skipped.
func (fw *FileWatcher) addTree(root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.watcher.Add(p); err != nil {
				util.LogWarnf("Cannot watch %s: %v", p, err)
			}
		}
		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				fw.addTree(event.Name)
			}

			if strings.EqualFold(filepath.Ext(event.Name), ".jsonl") {
				select {
				case fw.events <- model.FileEvent{Path: event.Name, Operation: event.Op.String()}:
				default:
					// a refresh is already pending; dropping is harmless
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())

		case <-fw.done:
			return
		}
	}
}

func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	close(fw.done)
	return fw.watcher.Close()
}
