package logfields

import "log/slog"

// Canonical log field names shared by every package that logs.
const (
	KeyStage      = "stage"
	KeyCompound   = "compound"
	KeyMember     = "member"
	KeyGroup      = "group"
	KeyKind       = "kind"
	KeyFile       = "file"
	KeyLine       = "line"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyRunID      = "run_id"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Compound(name string) slog.Attr  { return slog.String(KeyCompound, name) }
func Member(name string) slog.Attr    { return slog.String(KeyMember, name) }
func Group(name string) slog.Attr     { return slog.String(KeyGroup, name) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
