package bulkmail

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/bulkmail/pkg/storage"
)

// ArchiveLog uploads the log file at path to <S3_LOG_PREFIX>/<runID>.log.
// It does nothing when no bucket or prefix is configured.
func (a *App) ArchiveLog(ctx context.Context, path, runID string) error {
	if a.store == nil || a.cfg.Storage.LogPrefix == "" || path == "" {
		return nil
	}

	info, err := storage.PutFile(ctx, a.store, path,
		storage.WithPrefix(a.cfg.Storage.LogPrefix),
		storage.WithKey(runID+".log"),
	)
	if err != nil {
		return err
	}

	a.log.InfoContext(ctx, "log archived",
		slog.String("bucket", a.store.Bucket()),
		slog.String("key", info.Key),
	)
	return nil
}
