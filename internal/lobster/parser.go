// Package lobster reads LOBSTER message files into normalized market
// events. This is the feed boundary: the engine only ever sees parsed,
// validated events.
package lobster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/efreitasn/lobsim/internal/domain"
)

// Column layout of a header-less LOBSTER message row.
const (
	colTimestamp = iota
	colKind
	colOrderID
	colSize
	colPrice
	colDirection
	columnCount
)

// ParseFile reads and parses a LOBSTER message file.
func ParseFile(path string) ([]domain.MarketEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open message file: %w", err)
	}
	defer f.Close()

	events, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// Parse reads a header-less six-column LOBSTER message stream:
// timestamp (seconds), type, order id, size, price (integer, already at
// domain.PriceScale units), direction (1 = buy, -1 = sell). Prices stay
// in their native fixed-point unit; no float conversion happens here.
func Parse(r io.Reader) ([]domain.MarketEvent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = columnCount
	cr.TrimLeadingSpace = true

	var events []domain.MarketEvent
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		ev, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseRow(rec []string) (domain.MarketEvent, error) {
	ts, err := strconv.ParseFloat(strings.TrimSpace(rec[colTimestamp]), 64)
	if err != nil {
		return domain.MarketEvent{}, fmt.Errorf("timestamp %q: %w", rec[colTimestamp], err)
	}

	kind, err := strconv.Atoi(strings.TrimSpace(rec[colKind]))
	if err != nil {
		return domain.MarketEvent{}, fmt.Errorf("type %q: %w", rec[colKind], err)
	}
	if kind < 1 || kind > 7 {
		return domain.MarketEvent{}, fmt.Errorf("type %d out of range", kind)
	}

	orderID, err := strconv.ParseInt(strings.TrimSpace(rec[colOrderID]), 10, 64)
	if err != nil {
		return domain.MarketEvent{}, fmt.Errorf("order id %q: %w", rec[colOrderID], err)
	}

	size, err := strconv.ParseInt(strings.TrimSpace(rec[colSize]), 10, 64)
	if err != nil {
		return domain.MarketEvent{}, fmt.Errorf("size %q: %w", rec[colSize], err)
	}
	if size <= 0 {
		return domain.MarketEvent{}, fmt.Errorf("size %d must be positive", size)
	}

	price, err := strconv.ParseInt(strings.TrimSpace(rec[colPrice]), 10, 64)
	if err != nil {
		return domain.MarketEvent{}, fmt.Errorf("price %q: %w", rec[colPrice], err)
	}

	var side domain.Side
	switch strings.TrimSpace(rec[colDirection]) {
	case "1":
		side = domain.SideBuy
	case "-1":
		side = domain.SideSell
	default:
		return domain.MarketEvent{}, fmt.Errorf("direction %q must be 1 or -1", rec[colDirection])
	}

	return domain.MarketEvent{
		Timestamp: ts,
		Kind:      domain.EventKind(kind),
		OrderID:   orderID,
		Size:      size,
		Price:     price,
		Direction: side,
	}, nil
}
