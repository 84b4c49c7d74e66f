package walker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/daringdolphin/curate/models"
	"github.com/daringdolphin/curate/pkg/backoff"
	"github.com/daringdolphin/curate/pkg/drive"
)

// fakeLister serves a folder tree from memory, counting listings per folder
// and optionally failing some number of times with a rate-limit error.
type fakeLister struct {
	children  map[string][]drive.Item // folderID -> all children
	pageSize  int                     // 0 means one page per folder
	listCalls map[string]int
	failures  map[string]int // folderID -> rate-limit failures before success
	hardFail  map[string]error
}

func newFakeLister() *fakeLister {
	return &fakeLister{
		children:  make(map[string][]drive.Item),
		listCalls: make(map[string]int),
		failures:  make(map[string]int),
		hardFail:  make(map[string]error),
	}
}

func (f *fakeLister) ListChildren(_ context.Context, folderID, pageToken string) (*drive.Page, error) {
	f.listCalls[folderID]++
	if err, ok := f.hardFail[folderID]; ok {
		return nil, err
	}
	if f.failures[folderID] > 0 {
		f.failures[folderID]--
		return nil, &drive.RateLimitError{StatusCode: 429}
	}

	all := f.children[folderID]
	if f.pageSize <= 0 || len(all) <= f.pageSize {
		return &drive.Page{Items: all}, nil
	}

	start := 0
	if pageToken != "" {
		start = atoiOr(pageToken, 0)
	}
	end := start + f.pageSize
	next := ""
	if end < len(all) {
		next = itoa(end)
	} else {
		end = len(all)
	}
	return &drive.Page{Items: all[start:end], NextPageToken: next}, nil
}

func atoiOr(s string, def int) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func folder(id, name string) drive.Item {
	return drive.Item{ID: id, Name: name, MimeType: models.MimeFolder}
}

func doc(id, name, mime string, size int64) drive.Item {
	return drive.Item{ID: id, Name: name, MimeType: mime, Size: size, ModifiedTime: time.Unix(1700000000, 0)}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func instantPolicy(t *testing.T, maxAttempts int) *backoff.Policy {
	t.Helper()
	p := backoff.New(maxAttempts, time.Nanosecond, 0, drive.IsRateLimited)
	return p
}

func collect(t *testing.T, w *Walker, rootID string) []models.Descriptor {
	t.Helper()
	var got []models.Descriptor
	err := w.Scan(context.Background(), rootID, "Root", func(d models.Descriptor) error {
		got = append(got, d)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	return got
}

func TestScan_RootFileBeforeSubfolders(t *testing.T) {
	fl := newFakeLister()
	fl.children["root"] = []drive.Item{
		folder("A", "A"),
		folder("B", "B"),
		doc("d1", "report.docx", models.MimeDocx, 10*1024),
	}
	fl.children["A"] = []drive.Item{doc("d2", "inner.pdf", models.MimePDF, 500)}
	fl.children["B"] = nil

	w := New(fl, instantPolicy(t, 5), models.DefaultOversizeLimit, quietLogger())
	got := collect(t, w, "root")

	if len(got) != 2 {
		t.Fatalf("got %d descriptors, want 2", len(got))
	}
	if got[0].ID != "d1" || got[0].ParentPath != "" {
		t.Errorf("first descriptor = %+v, want root-level report.docx with empty path", got[0])
	}
	if got[1].ID != "d2" || got[1].ParentPath != "A" {
		t.Errorf("second descriptor = %+v, want inner.pdf under A", got[1])
	}
}

func TestScan_BreadthFirstPaths(t *testing.T) {
	fl := newFakeLister()
	fl.children["root"] = []drive.Item{folder("A", "Alpha")}
	fl.children["A"] = []drive.Item{folder("AB", "Beta"), doc("d1", "a.pdf", models.MimePDF, 1)}
	fl.children["AB"] = []drive.Item{doc("d2", "b.pdf", models.MimePDF, 1)}

	w := New(fl, instantPolicy(t, 5), 0, quietLogger())
	got := collect(t, w, "root")

	paths := map[string]string{}
	for _, d := range got {
		paths[d.ID] = d.ParentPath
	}
	if paths["d1"] != "Alpha" {
		t.Errorf("d1 path = %q, want Alpha", paths["d1"])
	}
	if paths["d2"] != "Alpha/Beta" {
		t.Errorf("d2 path = %q, want Alpha/Beta", paths["d2"])
	}
}

func TestScan_DeduplicatesFolders(t *testing.T) {
	// "shared" is reachable from both A and B; it must be listed once.
	fl := newFakeLister()
	fl.children["root"] = []drive.Item{folder("A", "A"), folder("B", "B")}
	fl.children["A"] = []drive.Item{folder("shared", "Shared")}
	fl.children["B"] = []drive.Item{folder("shared", "Shared")}
	fl.children["shared"] = []drive.Item{doc("d1", "x.pdf", models.MimePDF, 1)}

	w := New(fl, instantPolicy(t, 5), 0, quietLogger())
	got := collect(t, w, "root")

	if fl.listCalls["shared"] != 1 {
		t.Errorf("shared folder listed %d times, want 1", fl.listCalls["shared"])
	}
	if len(got) != 1 {
		t.Errorf("got %d descriptors, want 1", len(got))
	}
}

func TestScan_AccumulatesAllPages(t *testing.T) {
	fl := newFakeLister()
	fl.pageSize = 2
	fl.children["root"] = []drive.Item{
		doc("d1", "1.pdf", models.MimePDF, 1),
		doc("d2", "2.pdf", models.MimePDF, 1),
		doc("d3", "3.pdf", models.MimePDF, 1),
		doc("d4", "4.pdf", models.MimePDF, 1),
		doc("d5", "5.pdf", models.MimePDF, 1),
	}

	w := New(fl, instantPolicy(t, 5), 0, quietLogger())
	got := collect(t, w, "root")

	if len(got) != 5 {
		t.Fatalf("got %d descriptors, want 5", len(got))
	}
	if fl.listCalls["root"] != 3 {
		t.Errorf("root listed %d times, want 3 pages", fl.listCalls["root"])
	}
}

func TestScan_SkipsIneligibleAndFlagsOversize(t *testing.T) {
	fl := newFakeLister()
	fl.children["root"] = []drive.Item{
		doc("d1", "video.mp4", "video/mp4", 10),
		doc("d2", "big.docx", models.MimeDocx, 5*1024*1024),
		doc("d3", "note", models.MimeGoogleDoc, 0),
	}

	w := New(fl, instantPolicy(t, 5), models.DefaultOversizeLimit, quietLogger())
	got := collect(t, w, "root")

	if len(got) != 2 {
		t.Fatalf("got %d descriptors, want 2 (mp4 skipped)", len(got))
	}
	if !got[0].Oversize {
		t.Error("5MiB docx not flagged oversize")
	}
	if got[1].Oversize {
		t.Error("native doc flagged oversize")
	}
}

func TestScan_RecoversFromRateLimit(t *testing.T) {
	fl := newFakeLister()
	fl.children["root"] = []drive.Item{doc("d1", "a.pdf", models.MimePDF, 1)}
	fl.failures["root"] = 4 // attempts 1-4 rate limited, 5 succeeds

	w := New(fl, instantPolicy(t, 5), 0, quietLogger())
	got := collect(t, w, "root")

	if len(got) != 1 {
		t.Fatalf("got %d descriptors, want 1", len(got))
	}
	if fl.listCalls["root"] != 5 {
		t.Errorf("root listed %d times, want 5", fl.listCalls["root"])
	}
}

func TestScan_AbortsOnListingError(t *testing.T) {
	boom := errors.New("folder gone")
	fl := newFakeLister()
	fl.children["root"] = []drive.Item{folder("A", "A"), folder("B", "B")}
	fl.hardFail["A"] = boom
	fl.children["B"] = []drive.Item{doc("d1", "x.pdf", models.MimePDF, 1)}

	w := New(fl, instantPolicy(t, 5), 0, quietLogger())
	var got []models.Descriptor
	err := w.Scan(context.Background(), "root", "Root", func(d models.Descriptor) error {
		got = append(got, d)
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Scan() error = %v, want wrapped folder error", err)
	}
	if fl.listCalls["B"] != 0 {
		t.Error("scan continued past the failing folder")
	}
}

func TestScan_RateLimitExhaustionAborts(t *testing.T) {
	fl := newFakeLister()
	fl.children["root"] = nil
	fl.failures["root"] = 100

	w := New(fl, instantPolicy(t, 5), 0, quietLogger())
	err := w.Scan(context.Background(), "root", "Root", func(models.Descriptor) error { return nil })
	if !errors.Is(err, backoff.ErrRateLimitExceeded) {
		t.Fatalf("Scan() error = %v, want ErrRateLimitExceeded", err)
	}
}
