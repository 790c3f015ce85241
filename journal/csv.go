package journal

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVJournal writes run output as three CSV files. Rows are flushed per
// record so a crashed run still leaves usable output.
type CSVJournal struct {
	fills      *csv.Writer
	equity     *csv.Writer
	rejections *csv.Writer
	files      []*os.File
}

func NewCSV(fillsPath, equityPath, rejectionsPath string) (*CSVJournal, error) {
	j := &CSVJournal{}

	open := func(path string, header []string) (*csv.Writer, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		j.files = append(j.files, f)
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return nil, err
		}
		w.Flush()
		return w, w.Error()
	}

	var err error
	if j.fills, err = open(fillsPath, []string{"fill_id", "logical_time", "symbol", "side", "quantity", "fill_price"}); err != nil {
		j.Close()
		return nil, err
	}
	if j.equity, err = open(equityPath, []string{"logical_time", "equity"}); err != nil {
		j.Close()
		return nil, err
	}
	if j.rejections, err = open(rejectionsPath, []string{"logical_time", "symbol", "side", "check", "reason"}); err != nil {
		j.Close()
		return nil, err
	}

	return j, nil
}

func (j *CSVJournal) RecordFill(f FillRecord) error {
	err := j.fills.Write([]string{
		f.FillID,
		strconv.FormatInt(f.LogicalTime, 10),
		f.Symbol,
		f.Side,
		strconv.FormatInt(f.Quantity, 10),
		f.FillPrice.String(),
	})
	if err != nil {
		return err
	}
	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSVJournal) RecordEquity(e EquityRecord) error {
	err := j.equity.Write([]string{
		strconv.FormatInt(e.LogicalTime, 10),
		e.Equity.String(),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) RecordRejection(r RejectionRecord) error {
	err := j.rejections.Write([]string{
		strconv.FormatInt(r.LogicalTime, 10),
		r.Symbol,
		r.Side,
		r.Check,
		r.Reason,
	})
	if err != nil {
		return err
	}
	j.rejections.Flush()
	return j.rejections.Error()
}

func (j *CSVJournal) Close() error {
	var first error
	for _, f := range j.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
