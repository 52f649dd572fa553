package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

type fakeLocator struct {
	handle domain.ValidatorHandle
	err    error
	calls  int
	mu     sync.Mutex
}

func (f *fakeLocator) Locate() (domain.ValidatorHandle, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.handle, f.err
}

// fakeRunner returns canned stdout keyed by file name.
type fakeRunner struct {
	stdout map[string]string
	errs   map[string]error
	mu     sync.Mutex
	seen   []domain.ValidationRequest
}

func (f *fakeRunner) Run(ctx context.Context, handle domain.ValidatorHandle, req domain.ValidationRequest) (*domain.RawOutput, error) {
	f.mu.Lock()
	f.seen = append(f.seen, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &domain.CancelledError{Op: "validation", Err: err}
	}
	if err := f.errs[req.File]; err != nil {
		return nil, err
	}
	return &domain.RawOutput{File: req.File, Stdout: []byte(f.stdout[req.File])}, nil
}

type fakeFetcher struct {
	err   error
	calls int
	body  []byte
}

func (f *fakeFetcher) Fetch(ctx context.Context, version string, rid domain.RuntimeID, dest string) (*domain.FetchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(dest, f.body, 0755); err != nil {
		return nil, err
	}
	return &domain.FetchResult{
		Runtime: rid,
		Version: version,
		URL:     "https://example.com/" + version + "/" + rid.ArtifactName(),
		Path:    dest,
		SHA256:  "abc123",
		Bytes:   int64(len(f.body)),
	}, nil
}

type memManifests struct {
	saved   map[string]*domain.InstallManifest
	loadErr error
	saveErr error
}

func newMemManifests() *memManifests {
	return &memManifests{saved: map[string]*domain.InstallManifest{}}
}

func (m *memManifests) Load(binDir string) (*domain.InstallManifest, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved[binDir], nil
}

func (m *memManifests) Save(binDir string, man *domain.InstallManifest) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[binDir] = man
	return nil
}

func (m *memManifests) Remove(binDir string) error {
	delete(m.saved, binDir)
	return nil
}

var errBoom = errors.New("boom")
