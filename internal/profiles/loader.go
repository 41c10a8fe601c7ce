package profiles

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	founderIDColumn  = "startup_id"
	investorIDColumn = "investor_id"
)

// LoadFounders reads the founders CSV at path. Rows without a startup_id are
// dropped; malformed numeric cells decode to zero instead of failing the load.
func LoadFounders(path string, logger *zap.Logger) (*Founders, error) {
	rows, err := loadRows(path, founderIDColumn, logger)
	if err != nil {
		return nil, err
	}

	founders := &Founders{}
	for _, row := range rows {
		founder := &Founder{}
		if err := decodeRow(row, founder); err != nil {
			return nil, fmt.Errorf("decoding founder row %q: %w", row[founderIDColumn], err)
		}
		founders.Items = append(founders.Items, founder)
	}

	return founders, nil
}

// LoadInvestors reads the investors CSV at path with the same row handling as
// LoadFounders.
func LoadInvestors(path string, logger *zap.Logger) (*Investors, error) {
	rows, err := loadRows(path, investorIDColumn, logger)
	if err != nil {
		return nil, err
	}

	investors := &Investors{}
	for _, row := range rows {
		investor := &Investor{}
		if err := decodeRow(row, investor); err != nil {
			return nil, fmt.Errorf("decoding investor row %q: %w", row[investorIDColumn], err)
		}
		investors.Items = append(investors.Items, investor)
	}

	return investors, nil
}

// loadRows reads a CSV file into one map per row, keyed by the header names.
// Rows missing the id column are dropped and counted.
func loadRows(path, idColumn string, logger *zap.Logger) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	// Rows with a trailing empty cell are common in exported sheets.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %q: %w", path, err)
	}

	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	idIdx := -1
	for i, name := range header {
		if name == idColumn {
			idIdx = i
		}
	}
	if idIdx == -1 {
		return nil, fmt.Errorf("id column %q not found in %q", idColumn, path)
	}

	var rows []map[string]string
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		if idIdx >= len(record) || strings.TrimSpace(record[idIdx]) == "" {
			dropped++
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" || i >= len(record) {
				continue
			}
			row[name] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}

	if dropped > 0 && logger != nil {
		logger.Warn("dropped rows with missing id",
			zap.String("path", path),
			zap.String("id_column", idColumn),
			zap.Int("dropped", dropped),
		)
	}

	return rows, nil
}

func decodeRow(row map[string]string, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook:       numericCellHook,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(row)
}

// numericCellHook normalizes string cells headed for numeric fields: currency
// formatting is stripped and anything unparseable decodes as zero, so one bad
// cell never fails the whole load.
func numericCellHook(from reflect.Kind, to reflect.Kind, data any) (any, error) {
	if from != reflect.String {
		return data, nil
	}

	switch to {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
	default:
		return data, nil
	}

	cell, ok := data.(string)
	if !ok {
		return data, nil
	}

	cell = strings.TrimSpace(cell)
	cell = strings.TrimPrefix(cell, "$")
	cell = strings.ReplaceAll(cell, ",", "")

	if cell == "" {
		return "0", nil
	}

	if _, err := strconv.ParseFloat(cell, 64); err != nil {
		return "0", nil
	}

	return cell, nil
}
