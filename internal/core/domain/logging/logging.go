package logging

import "context"

type LogEntry struct {
	Key   string
	Value interface{}
}

func Entry(k string, v interface{}) LogEntry {
	return LogEntry{Key: k, Value: v}
}

type Logger interface {
	Debug(ctx context.Context, msg string, entries ...LogEntry)
	Info(ctx context.Context, msg string, entries ...LogEntry)
	Warning(ctx context.Context, msg string, entries ...LogEntry)
	Error(ctx context.Context, msg string, entries ...LogEntry)
}

// Error logs an unexpected error together with the given entries.
func Error(ctx context.Context, log Logger, err error, entries ...LogEntry) {
	entries = append(entries, Entry("err", err))
	log.Error(ctx, "Unexpected error occurred.", entries...)
}

type entriesKey struct{}

// WithEntries returns a context whose entries are added to every record
// logged with it.
func WithEntries(ctx context.Context, entries ...LogEntry) context.Context {
	existing := EntriesFrom(ctx)
	merged := make([]LogEntry, 0, len(existing)+len(entries))
	merged = append(merged, existing...)
	merged = append(merged, entries...)
	return context.WithValue(ctx, entriesKey{}, merged)
}

func EntriesFrom(ctx context.Context) []LogEntry {
	if ctx == nil {
		return nil
	}
	entries, _ := ctx.Value(entriesKey{}).([]LogEntry)
	return entries
}
