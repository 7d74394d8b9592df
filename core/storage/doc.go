// Package storage provides the durable property store.
//
// A property value is a tagged union (Value): either Text, kept byte-for-byte,
// or a JSON object, kept in compact form. The tag decides the content type a
// value is served with.
//
// # Backends
//
//   - file: one JSON record per key in the storage directory (default). Writes go
//     through a temp file and an atomic rename; the directory is locked with flock.
//   - sqlite: a gorm-managed "properties" table in <path>/properties.db.
//   - mysql: the same table in a MySQL database (core/database settings).
//   - s3: one object per key below the <path>/ prefix of a MinIO/S3 bucket.
//
// Every backend implements Store and is safe for concurrent use.
//
// # Usage
//
//	store, err := storage.Open(storage.Config{Driver: "file", Path: "/var/lib/propstore"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	v, _ := storage.ParseBody(`{"on":true}`)
//	err = store.Set(ctx, "lamp", v)
package storage
