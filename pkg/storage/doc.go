// Package storage reads and writes run artifacts on S3-compatible object
// storage.
//
// Contact lists and templates may be given as "s3://<key>" paths, resolved
// against the configured bucket by Files. Local paths are read from disk:
//
//	store, err := storage.New(cfg)
//	if err != nil {
//		return err
//	}
//	files := storage.NewFiles(store)
//	rc, err := files.Open(ctx, "s3://campaigns/march/contacts.csv")
//
// After a run the log file can be archived with PutFile:
//
//	_, err = storage.PutFile(ctx, store, "email_sender.log",
//		storage.WithPrefix(cfg.LogPrefix),
//		storage.WithKey(runID+".log"),
//	)
package storage
