package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDispatchID = "dispatch_id"
	KeyPlatform   = "platform"
	KeyTarget     = "target"
	KeyOutputPath = "output_path"
	KeyScenes     = "scenes"
	KeySizeBytes  = "size_bytes"
	KeyResult     = "result"
	KeyVersion    = "version"
	KeyCommit     = "commit"
	KeyDurationMS = "duration_ms"
	KeySchedule   = "schedule"
	KeyPath       = "path"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func DispatchID(id string) slog.Attr  { return slog.String(KeyDispatchID, id) }
func Platform(p string) slog.Attr     { return slog.String(KeyPlatform, p) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func OutputPath(p string) slog.Attr   { return slog.String(KeyOutputPath, p) }
func Scenes(n int) slog.Attr          { return slog.Int(KeyScenes, n) }
func SizeBytes(n int64) slog.Attr     { return slog.Int64(KeySizeBytes, n) }
func Result(r string) slog.Attr       { return slog.String(KeyResult, r) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Commit(c string) slog.Attr       { return slog.String(KeyCommit, c) }
func Schedule(expr string) slog.Attr  { return slog.String(KeySchedule, expr) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
