package sequence

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Parse reads records in the two-line format: a header line starting with
// '>' carrying the description, followed by exactly one line of residues.
//
// Multi-line sequences are not supported. Blank lines are skipped, a second
// header before a sequence line replaces the pending header, a trailing
// header with no sequence is dropped, and residue lines with no pending
// header are ignored. Only read failures are reported as errors.
func Parse(r io.Reader) ([]*Record, error) {
	records := make([]*Record, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var pending *Record
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}

		if line[0] == HeaderPrefix {
			pending = &Record{Description: line[1:]}
			continue
		}

		if pending != nil {
			pending.Sequence = line
			records = append(records, pending)
			pending = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	return records, nil
}

// ReadFile reads records from a file.
func ReadFile(path string) ([]*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Write writes records in the format read by Parse.
func Write(w io.Writer, records []*Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := bw.WriteString(rec.ToFASTA()); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	return bw.Flush()
}
