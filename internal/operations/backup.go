package operations

import (
	"context"
	"errors"

	"github.com/kebairia/catbackup/internal/logger"
	"github.com/kebairia/catbackup/internal/storage"
)

var (
	// ErrCredentialRejected aborts a run whose token the storage refuses.
	ErrCredentialRejected = errors.New("storage token rejected")
	// ErrFolderUnavailable aborts a run whose destination folder cannot be ensured.
	ErrFolderUnavailable = errors.New("destination folder unavailable")
)

// runState is what one run accumulates: the records in input order and the
// number of uploads that went through.
type runState struct {
	records   []BackupRecord
	succeeded int
}

func (s *runState) add(rec BackupRecord) {
	s.records = append(s.records, rec)
	s.succeeded++
}

// BackupAll archives one picture per text, strictly in order.
//
// The run stops before any item when the token is rejected or the folder
// cannot be ensured. A failing item is logged and skipped. After every item,
// failed or not, the pacer pauses. The collected records are then written to
// the backup info file.
func (om *OperationManager) BackupAll(ctx context.Context, texts []string) Report {
	runID := newRunID()
	log := om.log.With("run_id", runID)
	report := Report{RunID: runID, Folder: om.Folder(), Total: len(texts)}

	log.Info("backup started", "folder", om.Folder(), "items", len(texts))

	// 1) Preflight
	if err := om.preflight(ctx, log); err != nil {
		report.Aborted = true
		report.AbortReason = err.Error()
		return report
	}

	// 2) Items
	state := &runState{}
	om.progress.Start(len(texts))
	for i, text := range texts {
		if ctx.Err() != nil {
			log.Warn("backup interrupted", "processed", i, "total", len(texts), "error", ctx.Err())
			break
		}

		name := SanitizeText(text)
		rec, ok := om.backupOne(ctx, log, text, name)
		if ok {
			state.add(rec)
		}
		om.progress.Advance(name+ImageExt, ok)

		if err := om.pacer.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("pacing wait failed", "error", err)
		}
	}
	om.progress.Finish()

	report.Records = state.records
	report.Succeeded = state.succeeded

	// 3) Persist
	report.InfoFile = om.persist(log, state.records)

	log.Info("backup finished",
		"succeeded", report.Succeeded,
		"total", report.Total,
		"info_file", report.InfoFile,
	)
	return report
}

// Preflight checks the token and makes sure the destination folder exists.
func (om *OperationManager) Preflight(ctx context.Context) error {
	return om.preflight(ctx, om.log.With("run_id", newRunID()))
}

func (om *OperationManager) preflight(ctx context.Context, log logger.Logger) error {
	if !om.checkCredential(ctx, log) {
		return ErrCredentialRejected
	}
	if !om.ensureFolder(ctx, log) {
		return ErrFolderUnavailable
	}
	return nil
}

// backupOne runs fetch, upload and metadata lookup for a single caption.
// A caption that sanitizes to an empty name fails before the image request.
func (om *OperationManager) backupOne(ctx context.Context, log logger.Logger, text, name string) (BackupRecord, bool) {
	if name == "" {
		log.Error("caption has no usable characters for a file name", "text", text)
		return BackupRecord{}, false
	}

	data := om.fetchImage(ctx, log, text)
	if data == nil {
		return BackupRecord{}, false
	}

	rec := om.uploadImage(ctx, log, data, name)
	if rec == nil {
		return BackupRecord{}, false
	}
	return *rec, true
}

// checkCredential reports whether the storage accepts the token.
func (om *OperationManager) checkCredential(ctx context.Context, log logger.Logger) bool {
	acc, err := om.storage.CheckAuth(ctx)
	if err != nil {
		var se *storage.StatusError
		switch {
		case errors.Is(err, storage.ErrUnauthorized):
			log.Error("invalid token", "status", 401)
		case errors.As(err, &se):
			log.Error("invalid token", "status", se.Code)
		default:
			log.Error("storage connection failed", "error", err)
		}
		return false
	}

	user := acc.DisplayName
	if user == "" {
		user = "unknown"
	}
	log.Info("token is valid", "user", user)
	return true
}

// ensureFolder creates the destination folder; an existing one is fine.
func (om *OperationManager) ensureFolder(ctx context.Context, log logger.Logger) bool {
	folder := om.Folder()
	state, err := om.storage.EnsureFolder(ctx, folder)
	if err != nil {
		if errors.Is(err, storage.ErrUnauthorized) {
			log.Error("authorization failed, check the storage token", "folder", folder)
		} else {
			log.Error("folder creation failed", "folder", folder, "error", err)
		}
		return false
	}

	if state == storage.FolderExisted {
		log.Info("folder already exists", "folder", folder)
	} else {
		log.Info("folder created", "folder", folder)
	}
	return true
}

// fetchImage returns nil when no picture could be obtained.
func (om *OperationManager) fetchImage(ctx context.Context, log logger.Logger, text string) []byte {
	data, err := om.images.Fetch(ctx, text)
	if err != nil {
		log.Error("image request failed", "text", text, "error", err)
		return nil
	}
	if len(data) == 0 {
		log.Error("image response was empty", "text", text)
		return nil
	}
	log.Info("image received", "text", text, "bytes", len(data))
	return data
}

// uploadImage performs the two-step upload and returns nil when either step
// fails. Existing objects at the target path are overwritten.
func (om *OperationManager) uploadImage(ctx context.Context, log logger.Logger, data []byte, name string) *BackupRecord {
	filename := name + ImageExt
	target := storage.ObjectPath(om.Folder(), filename)

	slot, err := om.storage.RequestUploadSlot(ctx, target, true)
	if err != nil {
		log.Error("upload link request failed", "file", filename, "error", err)
		return nil
	}

	if err := om.storage.PutBytes(ctx, slot, data, ImageContentType); err != nil {
		log.Error("file upload failed", "file", filename, "error", err)
		return nil
	}
	log.Info("file uploaded", "file", filename)

	rec := om.fileInfo(ctx, log, name)
	return &rec
}

// fileInfo always returns a record. When the lookup fails the record keeps
// the known path and zero values elsewhere.
func (om *OperationManager) fileInfo(ctx context.Context, log logger.Logger, name string) BackupRecord {
	filename := name + ImageExt
	target := storage.ObjectPath(om.Folder(), filename)

	info, err := om.storage.GetObjectInfo(ctx, target)
	if err != nil {
		log.Error("file info request failed", "file", filename, "error", err)
		return BackupRecord{
			Filename: filename,
			Path:     target,
			Text:     name,
		}
	}

	return BackupRecord{
		Filename: filename,
		Size:     info.Size,
		Created:  info.Created,
		Modified: info.Modified,
		Path:     info.Path,
		Text:     name,
	}
}

// persist writes the records and returns the file name, or "" when nothing
// was written.
func (om *OperationManager) persist(log logger.Logger, records []BackupRecord) string {
	path, err := SaveBackupInfo(om.cfg.Backup.OutputDirectory, records, om.now())
	if errors.Is(err, ErrNothingToSave) {
		log.Warn("no backup info to save")
		return ""
	}
	if err != nil {
		log.Error("saving backup info failed", "error", err)
		return ""
	}

	if om.cfg.Backup.Compress {
		compressed, err := CompressZstd(path)
		if err != nil {
			log.Error("compressing backup info failed", "file", path, "error", err)
		} else {
			path = compressed
		}
	}

	log.Info("backup info saved", "records", len(records), "file", path)
	return path
}
