package journal

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/nalgeon/be"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "journal.db"), quietLogger())
	be.Err(t, err, nil)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	be.Err(t, s.Record(ctx, Entry{
		RunID: "run-1", MessageID: "m1", ThreadID: "t1",
		Sender: "Bob <bob@x.com>", Subject: "Question", Sentiment: "neutral",
		Disposition: "MarkedReadSent", Draft: "Sure!", RecordedAt: at,
	}), nil)
	be.Err(t, s.Record(ctx, Entry{
		RunID: "run-1", MessageID: "m2", Disposition: "Failed", Error: "smtp down",
	}), nil)

	got, err := s.Recent(ctx, 10)
	be.Err(t, err, nil)
	be.Equal(t, len(got), 2)

	be.Equal(t, got[0].MessageID, "m2")
	be.Equal(t, got[0].Error, "smtp down")
	be.Equal(t, got[0].ThreadID, "")
	be.True(t, !got[0].RecordedAt.IsZero())

	be.Equal(t, got[1].MessageID, "m1")
	be.Equal(t, got[1].Sender, "Bob <bob@x.com>")
	be.Equal(t, got[1].Draft, "Sure!")
	be.Equal(t, got[1].Disposition, "MarkedReadSent")
	be.True(t, got[1].RecordedAt.Equal(at))
}

func TestRecentLimit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		be.Err(t, s.Record(ctx, Entry{RunID: "r", MessageID: id, Disposition: "SkippedUnread"}), nil)
	}

	got, err := s.Recent(ctx, 2)
	be.Err(t, err, nil)
	be.Equal(t, len(got), 2)
	be.Equal(t, got[0].MessageID, "c")
	be.Equal(t, got[1].MessageID, "b")
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path, quietLogger())
	be.Err(t, err, nil)
	be.Err(t, s.Record(context.Background(), Entry{RunID: "r", MessageID: "m", Disposition: "MarkedReadSkipped"}), nil)
	be.Err(t, s.Close(), nil)

	s, err = Open(path, quietLogger())
	be.Err(t, err, nil)
	defer s.Close()
	got, err := s.Recent(context.Background(), 0)
	be.Err(t, err, nil)
	be.Equal(t, len(got), 1)
}
