package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"usage-report/internal/model"
)

// TimestampLayout matches the date and time columns joined by a space (DD/MM/YYYY HH:MM:SS).
// Single-digit days, months and hours are accepted.
const TimestampLayout = "2/1/2006 15:04:05"

const logFields = 4

// ParseResult is the outcome of reading a transition log.
// Records keep the order of the input rows.
type ParseResult struct {
	Records  []model.LogRecord
	Warnings []string

	// Total counts data rows seen; Skipped counts rows dropped for any reason.
	Total   int
	Skipped int
}

// LoadLogCSV reads a transition log from disk.
func LoadLogCSV(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.NewError(model.KindIO, "CSV file not found", err)
		}
		return nil, model.NewError(model.KindIO, "failed to open CSV file", err)
	}
	defer f.Close()
	return ParseLogCSV(f)
}

// ParseLogCSV reads semicolon-delimited rows of (entry_id, state, date, time).
//
// Rows with a field count other than 4 are skipped silently. Rows with an unparseable
// timestamp or state are skipped with a warning. Only a failing reader aborts the parse.
func ParseLogCSV(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	res := &ParseResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Total++
				res.Skipped++
				res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: %v", perr.StartLine, perr.Err))
				continue
			}
			return nil, model.NewError(model.KindIO, "failed to read CSV file", err)
		}

		res.Total++
		line, _ := reader.FieldPos(0)
		if len(row) != logFields {
			res.Skipped++
			continue
		}

		rec, err := parseLogRow(row, line)
		if err != nil {
			res.Skipped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func parseLogRow(row []string, line int) (model.LogRecord, error) {
	entry := strings.TrimSpace(strings.TrimPrefix(row[0], "\ufeff"))

	state, err := model.ParseState(strings.TrimSpace(row[1]))
	if err != nil {
		return model.LogRecord{}, err
	}

	raw := strings.TrimSpace(row[2]) + " " + strings.TrimSpace(row[3])
	ts, err := time.ParseInLocation(TimestampLayout, raw, time.UTC)
	if err != nil {
		return model.LogRecord{}, fmt.Errorf("invalid timestamp %q, expected DD/MM/YYYY HH:MM:SS", raw)
	}

	return model.LogRecord{
		EntryID:   entry,
		State:     state,
		Timestamp: ts,
		Line:      line,
	}, nil
}
