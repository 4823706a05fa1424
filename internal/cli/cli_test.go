package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/tasklist/internal/exitcode"
	"github.com/sandeepkv93/tasklist/internal/service"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/testutil"
)

func setupManager(t *testing.T) *service.StorageManager {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "tasklist.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	n := 0
	mgr, err := service.New(repo,
		service.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("%08x-0000-4000-8000-000000000000", n)
		}),
		service.WithClock(func() time.Time { return time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return mgr
}

func run(t *testing.T, mgr Manager, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = Run(context.Background(), mgr, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestHelp(t *testing.T) {
	stdout, stderr, code := run(t, nil, "help")
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("help: code=%d stderr=%q", code, stderr)
	}
	testutil.GoldenString(t, "help", stdout)
	if !IsHelp([]string{"--help"}) || IsHelp([]string{"list"}) || IsHelp(nil) {
		t.Fatal("unexpected IsHelp result")
	}
}

func TestAddAndList(t *testing.T) {
	mgr := setupManager(t)

	stdout, stderr, code := run(t, mgr, "add", "Buy milk", "Call mom", "Water plants")
	if code != exitcode.Success {
		t.Fatalf("add: code=%d stderr=%q", code, stderr)
	}
	if !strings.HasPrefix(stdout, "added 00000001  Buy milk\n") {
		t.Fatalf("unexpected add output: %q", stdout)
	}

	stdout, _, code = run(t, mgr, "list")
	if code != exitcode.Success {
		t.Fatalf("list: code=%d", code)
	}
	testutil.GoldenString(t, "list", stdout)
}

func TestListEmpty(t *testing.T) {
	stdout, _, code := run(t, setupManager(t), "ls")
	if code != exitcode.Success || stdout != "no tasks\n" {
		t.Fatalf("unexpected empty list: code=%d out=%q", code, stdout)
	}
}

func TestAddRejectsEmptyTitleBeforeStaging(t *testing.T) {
	mgr := setupManager(t)
	_, stderr, code := run(t, mgr, "add", "Buy milk", "")
	if code != exitcode.UserError || stderr != "error: task title is required\n" {
		t.Fatalf("expected empty title error, code=%d stderr=%q", code, stderr)
	}
	if mgr.HasChanges() || len(mgr.Tasks()) != 0 {
		t.Fatalf("rejected batch must not stage tasks: %v", mgr.Tasks())
	}

	_, stderr, code = run(t, mgr, "add")
	if code != exitcode.UserError || !strings.Contains(stderr, "requires a title") {
		t.Fatalf("expected missing title error, code=%d stderr=%q", code, stderr)
	}
}

func TestEditByPrefix(t *testing.T) {
	mgr := setupManager(t)
	run(t, mgr, "add", "Buy milk")

	stdout, stderr, code := run(t, mgr, "edit", "00000001", "Buy", "oat", "milk")
	if code != exitcode.Success {
		t.Fatalf("edit: code=%d stderr=%q", code, stderr)
	}
	if stdout != "updated 00000001  Buy oat milk\n" {
		t.Fatalf("unexpected edit output: %q", stdout)
	}
	tasks, _ := mgr.FetchAll(context.Background())
	if len(tasks) != 1 || tasks[0].Title != "Buy oat milk" {
		t.Fatalf("unexpected tasks after edit: %#v", tasks)
	}
}

func TestShowPrintsStoredTask(t *testing.T) {
	mgr := setupManager(t)
	run(t, mgr, "add", "  Buy milk ")

	stdout, stderr, code := run(t, mgr, "show", "00000001")
	if code != exitcode.Success {
		t.Fatalf("show: code=%d stderr=%q", code, stderr)
	}
	want := "id:      00000001-0000-4000-8000-000000000000\n" +
		"title:   \"  Buy milk \"\n" +
		"created: 2026-02-09T12:00:00Z\n" +
		"updated: 2026-02-09T12:00:00Z\n"
	if stdout != want {
		t.Fatalf("unexpected show output:\n%s", stdout)
	}

	_, stderr, code = run(t, mgr, "show")
	if code != exitcode.UserError || !strings.Contains(stderr, "show requires exactly one task ref") {
		t.Fatalf("expected usage error, code=%d stderr=%q", code, stderr)
	}
}

func TestRemoveByPrefix(t *testing.T) {
	mgr := setupManager(t)
	run(t, mgr, "add", "A", "B")

	stdout, stderr, code := run(t, mgr, "rm", "00000001")
	if code != exitcode.Success || stdout != "deleted 00000001  A\n" {
		t.Fatalf("rm: code=%d out=%q stderr=%q", code, stdout, stderr)
	}
	stdout, _, _ = run(t, mgr, "list")
	if stdout != "00000002  B\n" {
		t.Fatalf("expected only B, got %q", stdout)
	}
}

func TestRefErrors(t *testing.T) {
	mgr := setupManager(t)
	run(t, mgr, "add", "A", "B")

	_, stderr, code := run(t, mgr, "rm", "ffff")
	if code != exitcode.UserError || stderr != "error: task not found: ffff\n" {
		t.Fatalf("expected not found, code=%d stderr=%q", code, stderr)
	}

	_, stderr, code = run(t, mgr, "rm", "0000000")
	if code != exitcode.UserError || stderr != "error: ambiguous task reference: 0000000\n" {
		t.Fatalf("expected ambiguous ref, code=%d stderr=%q", code, stderr)
	}

	_, stderr, code = run(t, mgr, "edit", "00000001")
	if code != exitcode.UserError || !strings.Contains(stderr, "requires a task ref") {
		t.Fatalf("expected usage error, code=%d stderr=%q", code, stderr)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, code := run(t, setupManager(t), "frobnicate")
	if code != exitcode.UserError || stderr != "error: unknown command: frobnicate\n" {
		t.Fatalf("unexpected result: code=%d stderr=%q", code, stderr)
	}
}

func TestExportToStdoutAndFile(t *testing.T) {
	mgr := setupManager(t)
	run(t, mgr, "add", "Buy milk")

	stdout, stderr, code := run(t, mgr, "export", "-format", "csv")
	if code != exitcode.Success {
		t.Fatalf("export csv: code=%d stderr=%q", code, stderr)
	}
	if !strings.Contains(stdout, "00000001-0000-4000-8000-000000000000,Buy milk,") {
		t.Fatalf("unexpected csv export: %q", stdout)
	}

	path := filepath.Join(t.TempDir(), "tasks.pdf")
	stdout, stderr, code = run(t, mgr, "export", "-f", "pdf", "-o", path)
	if code != exitcode.Success {
		t.Fatalf("export pdf: code=%d stderr=%q", code, stderr)
	}
	if stdout != "exported pdf to "+path+"\n" {
		t.Fatalf("unexpected export message: %q", stdout)
	}
	raw, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(raw, []byte("%PDF-")) {
		t.Fatalf("expected pdf file, err=%v", err)
	}

	_, stderr, code = run(t, mgr, "export", "-format", "xml")
	if code != exitcode.UserError || !strings.Contains(stderr, "unknown export format") {
		t.Fatalf("expected format error, code=%d stderr=%q", code, stderr)
	}
}

func TestNilManager(t *testing.T) {
	_, stderr, code := run(t, nil, "list")
	if code != exitcode.StoreError || !strings.Contains(stderr, "store not available") {
		t.Fatalf("unexpected result: code=%d stderr=%q", code, stderr)
	}
}
