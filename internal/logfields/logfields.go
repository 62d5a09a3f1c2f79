package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyPhase      = "phase"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyURI        = "uri"
	KeyExtension  = "extension"
	KeyTransform  = "transform"
	KeyFormat     = "format"
	KeyCount      = "count"
	KeyAddr       = "addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Phase(name string) slog.Attr      { return slog.String(KeyPhase, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func URI(u string) slog.Attr           { return slog.String(KeyURI, u) }
func Extension(ext string) slog.Attr   { return slog.String(KeyExtension, ext) }
func Transform(name string) slog.Attr  { return slog.String(KeyTransform, name) }
func Format(f string) slog.Attr        { return slog.String(KeyFormat, f) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Addr(a string) slog.Attr          { return slog.String(KeyAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
