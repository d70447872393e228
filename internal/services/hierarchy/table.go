package hierarchy

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"iseesync/internal/api"
	"iseesync/internal/models"
)

// Table is a flat, column-ordered view ready for CSV or console output.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Flatten turns the raw hierarchy into a table with one levelN column per
// tree depth, so each row reads as the full ancestor chain of an asset.
// Path ids that resolve to no asset in the input render as "Unknown".
func Flatten(assets []models.Asset) *Table {
	if len(assets) == 0 {
		return &Table{}
	}

	nameByID := make(map[string]string, len(assets))
	maxDepth := 0
	for i := range assets {
		nameByID[assets[i].ID] = assets[i].Name
		if len(assets[i].Path) > maxDepth {
			maxDepth = len(assets[i].Path)
		}
	}

	columns := make([]string, 0, maxDepth+4)
	for i := 1; i <= maxDepth; i++ {
		columns = append(columns, fmt.Sprintf("level%d", i))
	}
	columns = append(columns, "name", "_id", "type", "path_ids")

	rows := make([][]string, 0, len(assets))
	for i := range assets {
		asset := &assets[i]
		row := make([]string, 0, len(columns))
		for level := 0; level < maxDepth; level++ {
			if level < len(asset.Path) {
				name, ok := nameByID[asset.Path[level]]
				if !ok {
					name = "Unknown"
				}
				row = append(row, name)
			} else {
				row = append(row, "")
			}
		}
		row = append(row, asset.Name, asset.ID, asset.Type.Label(), strings.Join(asset.Path, "/"))
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}
}

// WriteCSV writes the table with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to a file.
func (t *Table) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := t.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// NetworkRow is one device of the wireless mesh, flattened out of the
// nested per-gateway status tree.
type NetworkRow struct {
	MAC         string
	Coordinator string
	Type        string
	LastCom     string
	Battery     *float64
	ChildCount  int
}

// FlattenNetwork walks the nested network status depth-first. Each device
// is attributed to the nearest coordinator above it.
func FlattenNetwork(network []map[string]api.NetworkNode) []NetworkRow {
	var rows []NetworkRow

	var walk func(nodes map[string]api.NetworkNode, coordinator string)
	walk = func(nodes map[string]api.NetworkNode, coordinator string) {
		for mac, node := range nodes {
			rows = append(rows, NetworkRow{
				MAC:         mac,
				Coordinator: coordinator,
				Type:        node.Type,
				LastCom:     node.LastCom,
				Battery:     node.Battery,
				ChildCount:  len(node.Children),
			})
			next := coordinator
			if node.Type == "C" {
				next = mac
			}
			if len(node.Children) > 0 {
				walk(node.Children, next)
			}
		}
	}

	for _, gateway := range network {
		walk(gateway, "")
	}
	return rows
}

// NetworkTable renders network rows as a table.
func NetworkTable(rows []NetworkRow) *Table {
	table := &Table{
		Columns: []string{"mac", "coordinator", "type", "last_com", "batt", "child_count"},
	}
	for _, r := range rows {
		batt := ""
		if r.Battery != nil {
			batt = strconv.FormatFloat(*r.Battery, 'f', -1, 64)
		}
		table.Rows = append(table.Rows, []string{
			r.MAC, r.Coordinator, r.Type, r.LastCom, batt, strconv.Itoa(r.ChildCount),
		})
	}
	return table
}

// FlattenTrends unrolls trend results into one row per statistic.
func FlattenTrends(trends []api.TrendResult) *Table {
	table := &Table{
		Columns: []string{"meas_id", "asset_id", "status", "type", "value", "time"},
	}
	for _, result := range trends {
		for _, stat := range result.Statistics {
			value := ""
			if stat.Value != nil {
				value = strconv.FormatFloat(*stat.Value, 'f', -1, 64)
			}
			table.Rows = append(table.Rows, []string{
				result.ID, result.Asset, stat.Status, stat.GlobalType, value, result.AcqEnd,
			})
		}
	}
	return table
}
