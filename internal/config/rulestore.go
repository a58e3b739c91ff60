package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

//go:embed rules/*.yaml
var embeddedRules embed.FS

// RuleStore loads year-versioned rule documents and caches them for the
// lifetime of the store. A cached RuleSet is never mutated.
type RuleStore struct {
	fsys  fs.FS
	mu    sync.RWMutex
	cache map[int]*domain.RuleSet
	group singleflight.Group
}

// NewRuleStore creates a store reading "<year>.yaml" documents from fsys.
func NewRuleStore(fsys fs.FS) *RuleStore {
	return &RuleStore{
		fsys:  fsys,
		cache: make(map[int]*domain.RuleSet),
	}
}

// NewEmbeddedRuleStore creates a store backed by the rule documents shipped
// with the binary.
func NewEmbeddedRuleStore() *RuleStore {
	sub, err := fs.Sub(embeddedRules, "rules")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return NewRuleStore(sub)
}

// NewDirRuleStore creates a store reading rule documents from a directory.
func NewDirRuleStore(dir string) (*RuleStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("rules directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rules directory %s is not a directory", dir)
	}
	return NewRuleStore(os.DirFS(dir)), nil
}

// Load returns the RuleSet for a fiscal year. Unknown years fail with an
// UnsupportedYearError; a nearby year is never substituted.
func (rs *RuleStore) Load(year int) (*domain.RuleSet, error) {
	rs.mu.RLock()
	cached, ok := rs.cache[year]
	rs.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := rs.group.Do(strconv.Itoa(year), func() (interface{}, error) {
		rs.mu.RLock()
		cached, ok := rs.cache[year]
		rs.mu.RUnlock()
		if ok {
			return cached, nil
		}

		rules, err := rs.read(year)
		if err != nil {
			return nil, err
		}
		rs.mu.Lock()
		rs.cache[year] = rules
		rs.mu.Unlock()
		return rules, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.RuleSet), nil
}

// Years lists the fiscal years for which a rule document exists.
func (rs *RuleStore) Years() []int {
	matches, err := fs.Glob(rs.fsys, "*.yaml")
	if err != nil {
		return nil
	}
	years := make([]int, 0, len(matches))
	for _, m := range matches {
		y, err := strconv.Atoi(strings.TrimSuffix(path.Base(m), ".yaml"))
		if err == nil {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

func (rs *RuleStore) read(year int) (*domain.RuleSet, error) {
	data, err := fs.ReadFile(rs.fsys, fmt.Sprintf("%d.yaml", year))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &domain.UnsupportedYearError{Year: year, Supported: rs.Years()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rules for %d: %w", year, err)
	}

	var rules domain.RuleSet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil {
		return nil, &domain.ConfigurationError{Year: year, Key: "document", Reason: err.Error()}
	}
	if err := checkRequiredKeys(data, year); err != nil {
		return nil, err
	}

	if err := ValidateRuleSet(&rules, year); err != nil {
		return nil, err
	}
	return &rules, nil
}
