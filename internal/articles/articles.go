// Package articles persists fetched Wikipedia article text on disk, one JSON
// document per player QID. Writes go through a temp file and rename so a
// crash mid-write never leaves a partial document behind; a document either
// exists completely or not at all.
package articles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Article is the durable record of a successful fetch.
type Article struct {
	QID             string    `json:"qid"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Extract         string    `json:"extract"`
	LastRevision    string    `json:"last_revision,omitempty"`
	AttemptedTitles []string  `json:"attempted_titles,omitempty"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// Store reads and writes article documents under a single directory.
type Store struct {
	dir string
}

var qidPattern = regexp.MustCompile(`^Q[0-9]+$`)

// NewStore creates the article directory if needed and returns a store over it.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("article directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create article directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(qid string) string {
	return filepath.Join(s.dir, qid+".json")
}

func validQID(qid string) error {
	if !qidPattern.MatchString(qid) {
		return fmt.Errorf("invalid qid %q", qid)
	}
	return nil
}

// Has reports whether an article document exists for the QID.
func (s *Store) Has(qid string) bool {
	if validQID(qid) != nil {
		return false
	}
	info, err := os.Stat(s.path(qid))
	return err == nil && info.Mode().IsRegular()
}

// Save writes the article document atomically. The temp file lives in the
// same directory so the final rename stays on one filesystem.
func (s *Store) Save(article *Article) error {
	if article == nil {
		return errors.New("article is nil")
	}
	if err := validQID(article.QID); err != nil {
		return err
	}
	if article.FetchedAt.IsZero() {
		article.FetchedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return fmt.Errorf("encode article %s: %w", article.QID, err)
	}

	tmp, err := os.CreateTemp(s.dir, article.QID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp article file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write article %s: %w", article.QID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync article %s: %w", article.QID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp article file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(article.QID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish article %s: %w", article.QID, err)
	}
	return nil
}

// Load reads the article document for a QID. Missing documents return
// fs.ErrNotExist.
func (s *Store) Load(qid string) (*Article, error) {
	if err := validQID(qid); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(qid))
	if err != nil {
		return nil, err
	}
	article := &Article{}
	if err := json.Unmarshal(data, article); err != nil {
		return nil, fmt.Errorf("decode article %s: %w", qid, err)
	}
	return article, nil
}

// Keys returns the QIDs of all persisted articles in sorted order. Temp
// files from interrupted writes are ignored.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan article directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		qid, ok := strings.CutSuffix(name, ".json")
		if !ok || validQID(qid) != nil {
			continue
		}
		keys = append(keys, qid)
	}
	sort.Strings(keys)
	return keys, nil
}

// Remove deletes the article document for a QID if present.
func (s *Store) Remove(qid string) error {
	if err := validQID(qid); err != nil {
		return err
	}
	err := os.Remove(s.path(qid))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove article %s: %w", qid, err)
	}
	return nil
}
