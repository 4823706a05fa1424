// Package cli runs one-shot task commands without the interactive list.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/exitcode"
	"github.com/sandeepkv93/tasklist/internal/export"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/service"
)

const usage = `usage: tasklist [command] [args]

With no command the interactive list is started.

commands:
  list                          list tasks
  show <ref>                    show one stored task
  add <title> [<title>...]      add one or more tasks in one save
  edit <ref> <title...>         change the title of a task
  rm <ref>                      delete a task
  export [-format f] [-o path]  export tasks as json, csv or pdf
  help                          show this help

<ref> is a task id or a unique prefix of one, as shown by list.
`

// Manager is the part of the storage manager the CLI drives.
type Manager interface {
	FetchAll(ctx context.Context) ([]model.Task, error)
	Insert(title string) (model.Task, error)
	SavePendingChanges(ctx context.Context) (bool, error)
	DiscardPendingChanges() int
	Lookup(ref string) (model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	Update(ctx context.Context, id, title string) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

// IsHelp reports whether args ask for usage only, which needs no store.
func IsHelp(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "help", "-h", "-help", "--help":
		return true
	default:
		return false
	}
}

// Run executes the command in args and returns the process exit code.
func Run(ctx context.Context, mgr Manager, args []string, out, errOut io.Writer) int {
	if len(args) == 0 || IsHelp(args) {
		fmt.Fprint(out, usage)
		return exitcode.Success
	}
	if mgr == nil {
		fmt.Fprintln(errOut, "error: store not available")
		return exitcode.StoreError
	}

	name, rest := args[0], args[1:]
	switch name {
	case "list", "ls":
		return runList(ctx, mgr, out, errOut)
	case "show":
		return runShow(ctx, mgr, rest, out, errOut)
	case "add":
		return runAdd(ctx, mgr, rest, out, errOut)
	case "edit":
		return runEdit(ctx, mgr, rest, out, errOut)
	case "rm", "delete":
		return runDelete(ctx, mgr, rest, out, errOut)
	case "export":
		return runExport(ctx, mgr, rest, out, errOut)
	default:
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
}

func runList(ctx context.Context, mgr Manager, out, errOut io.Writer) int {
	tasks, err := mgr.FetchAll(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(out, "no tasks")
		return exitcode.Success
	}
	for _, t := range tasks {
		fmt.Fprintf(out, "%s  %s\n", t.ShortID(), t.Title)
	}
	return exitcode.Success
}

func runShow(ctx context.Context, mgr Manager, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: show requires exactly one task ref")
		return exitcode.UserError
	}
	ref, err := mgr.Lookup(args[0])
	if err != nil {
		return reportError(errOut, err)
	}
	task, err := mgr.Get(ctx, ref.ID)
	if err != nil {
		return reportError(errOut, err)
	}
	fmt.Fprintf(out, "id:      %s\n", task.ID)
	fmt.Fprintf(out, "title:   %q\n", task.Title)
	fmt.Fprintf(out, "created: %s\n", task.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "updated: %s\n", task.UpdatedAt.UTC().Format(time.RFC3339))
	return exitcode.Success
}

func runAdd(ctx context.Context, mgr Manager, titles []string, out, errOut io.Writer) int {
	if len(titles) == 0 {
		fmt.Fprintln(errOut, "error: add requires a title")
		return exitcode.UserError
	}
	// Reject the whole batch before staging anything.
	for _, title := range titles {
		if err := model.ValidateTitle(title); err != nil {
			fmt.Fprintln(errOut, "error: task title is required")
			return exitcode.UserError
		}
	}

	added := make([]model.Task, 0, len(titles))
	for _, title := range titles {
		task, err := mgr.Insert(title)
		if err != nil {
			mgr.DiscardPendingChanges()
			return reportError(errOut, err)
		}
		added = append(added, task)
	}
	if _, err := mgr.SavePendingChanges(ctx); err != nil {
		mgr.DiscardPendingChanges()
		return reportError(errOut, err)
	}
	for _, t := range added {
		fmt.Fprintf(out, "added %s  %s\n", t.ShortID(), t.Title)
	}
	return exitcode.Success
}

func runEdit(ctx context.Context, mgr Manager, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: edit requires a task ref and a title")
		return exitcode.UserError
	}
	title := strings.Join(args[1:], " ")
	if err := model.ValidateTitle(title); err != nil {
		fmt.Fprintln(errOut, "error: task title is required")
		return exitcode.UserError
	}
	task, err := mgr.Lookup(args[0])
	if err != nil {
		return reportError(errOut, err)
	}
	updated, err := mgr.Update(ctx, task.ID, title)
	if err != nil {
		return reportError(errOut, err)
	}
	fmt.Fprintf(out, "updated %s  %s\n", updated.ShortID(), updated.Title)
	return exitcode.Success
}

func runDelete(ctx context.Context, mgr Manager, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: rm requires exactly one task ref")
		return exitcode.UserError
	}
	task, err := mgr.Lookup(args[0])
	if err != nil {
		return reportError(errOut, err)
	}
	if err := mgr.Delete(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}
	fmt.Fprintf(out, "deleted %s  %s\n", task.ShortID(), task.Title)
	return exitcode.Success
}

func runExport(ctx context.Context, mgr Manager, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var format, path string
	fs.StringVar(&format, "format", "json", "")
	fs.StringVar(&format, "f", "json", "")
	fs.StringVar(&path, "o", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", fs.Arg(0))
		return exitcode.UserError
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		fmt.Fprintf(errOut, "error: unknown export format: %s\n", format)
		return exitcode.UserError
	}

	data, err := export.NewExporter(mgr).Export(ctx, f)
	if err != nil {
		return reportError(errOut, err)
	}
	if path == "" {
		if _, err := out.Write(data); err != nil {
			fmt.Fprintf(errOut, "error: write export: %v\n", err)
			return exitcode.StoreError
		}
		return exitcode.Success
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(errOut, "error: write export: %v\n", err)
		return exitcode.StoreError
	}
	fmt.Fprintf(out, "exported %s to %s\n", f, path)
	return exitcode.Success
}

func reportError(errOut io.Writer, err error) int {
	var se *service.Error
	if !errors.As(err, &se) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StoreError
	}
	switch se.Kind {
	case service.KindNotFound:
		fmt.Fprintf(errOut, "error: task not found: %s\n", se.ID)
		return exitcode.UserError
	case service.KindInvalid:
		switch {
		case errors.Is(err, model.ErrEmptyTitle):
			fmt.Fprintln(errOut, "error: task title is required")
		case errors.Is(err, model.ErrAmbiguousRef):
			fmt.Fprintf(errOut, "error: ambiguous task reference: %s\n", se.ID)
		default:
			fmt.Fprintf(errOut, "error: %v\n", se.Err)
		}
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: store error: %v\n", se.Err)
		return exitcode.StoreError
	}
}
