package operations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kebairia/catbackup/internal/catimage"
	"github.com/kebairia/catbackup/internal/config"
	"github.com/kebairia/catbackup/internal/logger"
	"github.com/kebairia/catbackup/internal/storage"
)

// ImageSource produces the picture for a caption.
type ImageSource interface {
	Fetch(ctx context.Context, text string) ([]byte, error)
}

// Progress receives one Advance per processed item.
type Progress interface {
	Start(total int)
	Advance(file string, ok bool)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(int)            {}
func (nopProgress) Advance(string, bool) {}
func (nopProgress) Finish()              {}

// Option overrides a collaborator of the OperationManager.
type Option func(*OperationManager)

// OperationManager runs the backup: preflight, per-caption pipeline and the
// final write of the collected records.
type OperationManager struct {
	cfg      config.Config
	storage  storage.Client
	images   ImageSource
	pacer    Pacer
	progress Progress
	log      logger.Logger
	now      func() time.Time
}

// WithStorage replaces the cloud disk client.
func WithStorage(c storage.Client) Option {
	return func(om *OperationManager) { om.storage = c }
}

// WithImages replaces the image source.
func WithImages(src ImageSource) Option {
	return func(om *OperationManager) { om.images = src }
}

// WithPacer replaces the pause taken after every item.
func WithPacer(p Pacer) Option {
	return func(om *OperationManager) { om.pacer = p }
}

// WithProgress attaches a progress indicator.
func WithProgress(p Progress) Option {
	return func(om *OperationManager) { om.progress = p }
}

// WithLogger replaces the logger.
func WithLogger(l logger.Logger) Option {
	return func(om *OperationManager) { om.log = l }
}

// WithClock replaces the clock used to name the backup info file.
func WithClock(now func() time.Time) Option {
	return func(om *OperationManager) { om.now = now }
}

// NewOperationManager wires the real disk client and image fetcher from cfg,
// then applies opts on top.
func NewOperationManager(cfg config.Config, token string, opts ...Option) *OperationManager {
	om := &OperationManager{
		cfg: cfg,
		storage: storage.NewDisk(token,
			storage.WithBaseURL(cfg.Storage.BaseURL),
			storage.WithAuthScheme(cfg.Storage.AuthScheme),
			storage.WithTimeouts(cfg.Storage.AccountTimeout, cfg.Storage.RequestTimeout),
		),
		images: catimage.NewFetcher(
			catimage.WithBaseURL(cfg.Images.BaseURL),
			catimage.WithSize(cfg.Images.Width, cfg.Images.Height),
			catimage.WithStyle(cfg.Images.Color, cfg.Images.Type),
			catimage.WithTimeout(cfg.Images.Timeout),
		),
		pacer:    NewPacer(cfg.Backup),
		progress: nopProgress{},
		log:      logger.Global(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(om)
	}
	return om
}

// Folder is the destination folder on the disk.
func (om *OperationManager) Folder() string {
	return om.cfg.Storage.Folder
}

func newRunID() string {
	return uuid.NewString()
}
