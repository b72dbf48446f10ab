package usage

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// WriteHourlyCSV writes one row per hour of day with the accumulated active time.
func WriteHourlyCSV(w io.Writer, h Hourly) error {
	cw := csv.NewWriter(w)

	header := []string{
		"hour",
		"minutes",
		"seconds",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for hour, d := range h {
		row := []string{
			strconv.Itoa(hour),
			fmtFloat(d.Minutes()),
			strconv.FormatInt(int64(d.Seconds()), 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveHourlyCSV writes the hourly table to path, replacing any existing file.
func SaveHourlyCSV(path string, h Hourly) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteHourlyCSV(f, h)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
