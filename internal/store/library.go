// Package store implements the YAML-file-backed story library that backs
// the assistant's query and mutation channels.
package store

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"sync"

	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
	"github.com/pennwright/inkwell/internal/story"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

type libraryFile struct {
	Stories []*story.Story `yaml:"stories"`
}

// Library owns one story file. One process edits a file at a time; the
// flock guards against a second inkwell instance opening the same file.
type Library struct {
	path     string
	mu       sync.RWMutex
	stories  []*story.Story
	fileLock *flock.Flock
}

// Open loads a story library file and acquires its lock. A missing file
// yields an empty library that is created on first save.
func Open(path string) (*Library, error) {
	fileLock := flock.New(path + ".lock")
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire story lock: %w", err)
	}
	if !locked {
		return nil, inkwellErrors.Busy(fmt.Sprintf("story file %s is open in another inkwell process", path))
	}

	lib := &Library{path: path, fileLock: fileLock}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("Story file not found, starting empty", "path", path)
			return lib, nil
		}
		fileLock.Unlock()
		return nil, fmt.Errorf("read story file: %w", err)
	}

	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		fileLock.Unlock()
		return nil, fmt.Errorf("parse story file: %w", err)
	}
	lib.stories = file.Stories
	return lib, nil
}

// Close releases the story file lock.
func (l *Library) Close() error {
	if l.fileLock == nil {
		return nil
	}
	return l.fileLock.Unlock()
}

// Stories returns a deep-copied snapshot of the library. Each call reads
// current state; callers never share passage pointers with the library.
func (l *Library) Stories() []*story.Story {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*story.Story, 0, len(l.stories))
	for _, s := range l.stories {
		out = append(out, s.Clone())
	}
	return out
}

// Dispatch applies one mutation action and persists the result.
func (l *Library) Dispatch(a story.Action) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := story.WithID(l.stories, a.StoryID)
	if !ok {
		return inkwellErrors.NotFound(fmt.Sprintf("story %s", a.StoryID))
	}

	switch a.Type {
	case story.ActionCreatePassage:
		if err := applyCreate(s, a); err != nil {
			return err
		}
	case story.ActionUpdatePassage:
		if err := applyUpdate(s, a); err != nil {
			return err
		}
	case story.ActionDeletePassage:
		if err := applyDelete(s, a); err != nil {
			return err
		}
	default:
		return inkwellErrors.InvalidInput(fmt.Sprintf("unknown action type %q", a.Type))
	}

	return l.save()
}

func applyCreate(s *story.Story, a story.Action) error {
	if a.Props.Name == nil || *a.Props.Name == "" {
		return inkwellErrors.InvalidInput("createPassage requires a name")
	}
	p := &story.Passage{
		ID:   a.PassageID,
		Name: *a.Props.Name,
	}
	if p.ID == "" {
		p.ID = story.NewID()
	}
	if a.Props.Text != nil {
		p.Text = *a.Props.Text
	}
	if a.Props.Tags != nil {
		p.Tags = *a.Props.Tags
	}
	if a.Props.Left != nil {
		p.Left = *a.Props.Left
	}
	if a.Props.Top != nil {
		p.Top = *a.Props.Top
	}
	s.Passages = append(s.Passages, p)
	return nil
}

func applyUpdate(s *story.Story, a story.Action) error {
	p, ok := s.PassageWithID(a.PassageID)
	if !ok {
		return inkwellErrors.NotFound(fmt.Sprintf("passage %s", a.PassageID))
	}
	if a.Props.Name != nil {
		p.Name = *a.Props.Name
	}
	if a.Props.Text != nil {
		p.Text = *a.Props.Text
	}
	if a.Props.Tags != nil {
		p.Tags = *a.Props.Tags
	}
	if a.Props.Left != nil {
		p.Left = *a.Props.Left
	}
	if a.Props.Top != nil {
		p.Top = *a.Props.Top
	}
	return nil
}

func applyDelete(s *story.Story, a story.Action) error {
	for i, p := range s.Passages {
		if p.ID == a.PassageID {
			s.Passages = append(s.Passages[:i], s.Passages[i+1:]...)
			return nil
		}
	}
	return inkwellErrors.NotFound(fmt.Sprintf("passage %s", a.PassageID))
}

func (l *Library) save() error {
	data, err := yaml.Marshal(libraryFile{Stories: l.stories})
	if err != nil {
		return fmt.Errorf("marshal story file: %w", err)
	}
	if err := atomic.WriteFile(l.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write story file: %w", err)
	}
	return nil
}

// Add inserts a story into the library and persists it. Used by the CLI
// when seeding a new file.
func (l *Library) Add(s *story.Story) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s.ID == "" {
		s.ID = story.NewID()
	}
	l.stories = append(l.stories, s)
	return l.save()
}
