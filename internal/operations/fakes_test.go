package operations

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kebairia/catbackup/internal/config"
	"github.com/kebairia/catbackup/internal/logger"
	"github.com/kebairia/catbackup/internal/storage"
)

var errNetwork = errors.New("connection refused")

// fakeStorage records every call and answers from its fields.
type fakeStorage struct {
	authErr   error
	folderErr error
	folder    storage.FolderState
	slotErr   map[string]error // by target path
	putErr    map[string]error // by slot href
	infoErr   error

	authCalls   int
	folderCalls int
	slotCalls   []string
	putCalls    []string
	infoCalls   []string
	putBodies   map[string][]byte
}

func (f *fakeStorage) CheckAuth(ctx context.Context) (storage.Account, error) {
	f.authCalls++
	if f.authErr != nil {
		return storage.Account{}, f.authErr
	}
	return storage.Account{DisplayName: "Tester"}, nil
}

func (f *fakeStorage) EnsureFolder(ctx context.Context, folder string) (storage.FolderState, error) {
	f.folderCalls++
	return f.folder, f.folderErr
}

func (f *fakeStorage) RequestUploadSlot(ctx context.Context, path string, overwrite bool) (storage.UploadSlot, error) {
	f.slotCalls = append(f.slotCalls, path)
	if !overwrite {
		return storage.UploadSlot{}, errors.New("overwrite flag not set")
	}
	if err := f.slotErr[path]; err != nil {
		return storage.UploadSlot{}, err
	}
	return storage.UploadSlot{Href: "https://upload.example" + path, Method: http.MethodPut}, nil
}

func (f *fakeStorage) PutBytes(ctx context.Context, slot storage.UploadSlot, data []byte, contentType string) error {
	f.putCalls = append(f.putCalls, slot.Href)
	if contentType != ImageContentType {
		return errors.New("wrong content type " + contentType)
	}
	if f.putBodies == nil {
		f.putBodies = map[string][]byte{}
	}
	f.putBodies[slot.Href] = data
	return f.putErr[slot.Href]
}

func (f *fakeStorage) GetObjectInfo(ctx context.Context, path string) (storage.ObjectInfo, error) {
	f.infoCalls = append(f.infoCalls, path)
	if f.infoErr != nil {
		return storage.ObjectInfo{}, f.infoErr
	}
	return storage.ObjectInfo{
		Size:     int64(1000 + len(path)),
		Created:  "2026-10-15T10:00:00+00:00",
		Modified: "2026-10-15T10:00:01+00:00",
		Path:     "disk:" + path,
	}, nil
}

func (f *fakeStorage) calls() int {
	return f.authCalls + f.folderCalls + len(f.slotCalls) + len(f.putCalls) + len(f.infoCalls)
}

// fakeImages returns "jpeg:<text>" unless the text is listed in fail.
type fakeImages struct {
	fail  map[string]bool
	calls []string
}

func (f *fakeImages) Fetch(ctx context.Context, text string) ([]byte, error) {
	f.calls = append(f.calls, text)
	if f.fail[text] {
		return nil, errors.New("image api: unexpected status: 500")
	}
	return []byte("jpeg:" + text), nil
}

// countingPacer counts pauses instead of sleeping.
type countingPacer struct{ waits int }

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return nil
}

// recordingProgress keeps every Advance.
type recordingProgress struct {
	total    int
	advanced []string
	finished bool
}

func (p *recordingProgress) Start(total int) { p.total = total }
func (p *recordingProgress) Advance(file string, ok bool) {
	status := "fail"
	if ok {
		status = "ok"
	}
	p.advanced = append(p.advanced, status+" "+file)
}
func (p *recordingProgress) Finish() { p.finished = true }

var fixedNow = time.Unix(1760522400, 0)

type harness struct {
	om       *OperationManager
	storage  *fakeStorage
	images   *fakeImages
	pacer    *countingPacer
	progress *recordingProgress
	dir      string
}

func newHarness(dir string, st *fakeStorage, imgs *fakeImages) *harness {
	cfg := config.Config{
		Storage: config.StorageConfig{Folder: "cats"},
		Backup:  config.BackupConfig{OutputDirectory: dir},
	}
	h := &harness{
		storage:  st,
		images:   imgs,
		pacer:    &countingPacer{},
		progress: &recordingProgress{},
		dir:      dir,
	}
	h.om = NewOperationManager(cfg, "token",
		WithStorage(st),
		WithImages(imgs),
		WithPacer(h.pacer),
		WithProgress(h.progress),
		WithLogger(logger.Nop()),
		WithClock(func() time.Time { return fixedNow }),
	)
	return h
}

func hasPrefixAll(items []string, prefix string) bool {
	for _, it := range items {
		if !strings.HasPrefix(it, prefix) {
			return false
		}
	}
	return true
}
