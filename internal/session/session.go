package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"dupesweep/internal/finder"
	"dupesweep/internal/fsops"
	"dupesweep/internal/history"
	"dupesweep/internal/metrics"
	"dupesweep/internal/safety"
)

var errReadInput = errors.New("could not read input")

// Options configures a Session. Input and Output default to the
// process stdin/stdout; tests inject scripted readers and buffers.
type Options struct {
	Input     io.Reader
	Output    io.Writer
	Logger    *log.Logger
	Finder    *finder.Finder
	Deleter   fsops.Deleter
	History   *history.DB // nil disables history
	Protected []string    // extra validator entries from config
	DryRun    bool
	Action    string // history action label for real deletions
}

// Session drives the interactive find-and-delete conversation
type Session struct {
	in        *bufio.Reader
	out       io.Writer
	logger    *log.Logger
	finder    *finder.Finder
	deleter   fsops.Deleter
	history   *history.DB
	protected []string
	dryRun    bool
	action    string
}

func New(opts Options) *Session {
	in := opts.Input
	if in == nil {
		in = os.Stdin
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	f := opts.Finder
	if f == nil {
		f = finder.New(logger, true)
	}
	var deleter fsops.Deleter = opts.Deleter
	if deleter == nil {
		deleter = fsops.OSDeleter{}
	}
	action := opts.Action
	if action == "" {
		action = history.ActionDeleted
	}
	return &Session{
		in:        bufio.NewReader(in),
		out:       out,
		logger:    logger,
		finder:    f,
		deleter:   deleter,
		history:   opts.History,
		protected: opts.Protected,
		dryRun:    opts.DryRun,
		action:    action,
	}
}

// Run prompts for a target file name, scans root for exact-name
// matches, lists them and drives the keep/delete loop. Any traversal
// or deletion failure aborts the run with that error.
func (s *Session) Run(root string) error {
	target, err := s.prompt("Provide the name of the file you want to search (including its extension):")
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	target = strings.TrimSpace(target)

	records, err := s.finder.Scan(root, target)
	if err != nil {
		metrics.ErrorsTotal.Inc()
		return err
	}

	if len(records) == 0 {
		fmt.Fprintf(s.out, "No files named %q found under %s.\n", target, root)
		return nil
	}

	for i, rec := range records {
		fmt.Fprintf(s.out, "Entry %d\n%s\n", i+1, rec.Describe())
	}

	answer, err := s.prompt("Do you want to keep every file? (y/n)")
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if strings.TrimSpace(answer) == "y" {
		fmt.Fprintln(s.out, "Good bye!")
		return nil
	}

	validator := safety.NewValidator(root, s.protected)
	return s.deletionLoop(records, validator)
}

// deletionLoop repeatedly prompts for a 1-based index or "done".
// Deleting entry i swap-removes it: the last entry takes slot i and
// subsequent indices refer to the shortened collection. An
// out-of-range number ends the loop without deleting anything; a
// non-numeric entry re-prompts.
func (s *Session) deletionLoop(records []finder.FileRecord, validator *safety.Validator) error {
	for {
		answer, err := s.prompt("Provide the number of the file you want to delete, or write done to quit:")
		if errors.Is(err, io.EOF) && strings.TrimSpace(answer) == "" {
			fmt.Fprintln(s.out, "Good bye!")
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		cleaned := strings.TrimSpace(answer)
		if cleaned == "done" {
			fmt.Fprintln(s.out, "Good bye!")
			return nil
		}

		index, convErr := strconv.Atoi(cleaned)
		if convErr != nil {
			fmt.Fprintln(s.out, "Invalid number provided.")
			continue
		}
		if index < 1 || index > len(records) {
			fmt.Fprintln(s.out, "Provide one of the listed numbers!")
			return nil
		}

		rec := records[index-1]
		records[index-1] = records[len(records)-1]
		records = records[:len(records)-1]

		if err := s.deleteRecord(rec, validator); err != nil {
			return err
		}

		if s.dryRun {
			fmt.Fprintf(s.out, "Would delete %s (dry run).\n", rec.Path)
		} else {
			fmt.Fprintf(s.out, "Deleted %s.\n", rec.Path)
		}
	}
}

// deleteRecord validates the target, performs (or skips, in dry-run)
// the deletion and records the outcome. Deletion failures are fatal.
func (s *Session) deleteRecord(rec finder.FileRecord, validator *safety.Validator) error {
	if err := validator.ValidateDeleteTarget(rec.Path); err != nil {
		s.recordHistory(s.action, rec, err.Error())
		metrics.ErrorsTotal.Inc()
		return fmt.Errorf("refusing to delete %s: %w", rec.Path, err)
	}

	if s.dryRun {
		s.recordHistory(history.ActionDryRun, rec, "")
		metrics.DeletionsTotal.WithLabelValues(history.ActionDryRun).Inc()
		return nil
	}

	if err := s.deleter.Remove(rec.Path); err != nil {
		s.recordHistory(s.action, rec, err.Error())
		metrics.ErrorsTotal.Inc()
		return fmt.Errorf("delete %s: %w", rec.Path, err)
	}

	s.recordHistory(s.action, rec, "")
	metrics.DeletionsTotal.WithLabelValues(s.action).Inc()
	return nil
}

// recordHistory is best-effort: a failed insert is logged, not fatal
func (s *Session) recordHistory(action string, rec finder.FileRecord, errMsg string) {
	if s.history == nil {
		return
	}
	if err := s.history.RecordAction(action, rec, errMsg); err != nil {
		s.logger.Printf("failed to record history for %s: %v", rec.Path, err)
	}
}

// prompt prints message and reads one line. On EOF the partial line is
// returned together with io.EOF so callers can decide.
func (s *Session) prompt(message string) (string, error) {
	fmt.Fprintln(s.out, message)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return line, err
		}
		return "", fmt.Errorf("%w: %v", errReadInput, err)
	}
	return line, nil
}
