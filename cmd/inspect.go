package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var (
	inspectFormat     string
	inspectSampleRows int
	inspectHistory    bool
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [database-path]",
	Short: "Inspect the raw tables of a store",
	Long: `Inspect the schema and raw rows of the shared store or session history.

The database is opened read-only. Without a path the shared store is
inspected; --history selects the session history database instead.

Examples:
  water-eject inspect                          # Raw shared_kv keys
  water-eject inspect --history --sample 10    # Latest session rows
  water-eject inspect --format json            # Machine-readable dump`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cfg.Paths().SharedDBPath()
		if inspectHistory {
			dbPath = cfg.Paths().SessionDBPath()
		}
		if len(args) > 0 {
			dbPath = args[0]
		}

		switch inspectFormat {
		case "text", "json":
		default:
			return fmt.Errorf("unsupported format: %s (supported: text, json)", inspectFormat)
		}
		return inspectDatabase(cmd.OutOrStdout(), dbPath)
	},
}

// TableInfo describes one table for inspection output
type TableInfo struct {
	Name    string              `json:"name"`
	Rows    int                 `json:"rows"`
	Columns []ColumnInfo        `json:"columns"`
	Sample  []map[string]string `json:"sample,omitempty"`
}

// ColumnInfo describes one column
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

func inspectDatabase(out io.Writer, dbPath string) error {
	db, err := internal.OpenDatabase(dbPath)
	if err != nil {
		return &internal.StorageError{Path: dbPath, Op: "open", Err: err}
	}
	defer func() { _ = db.Close() }()

	names, err := getTables(db)
	if err != nil {
		return fmt.Errorf("failed to get tables: %w", err)
	}

	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		info, err := describeTable(db, name, inspectSampleRows)
		if err != nil {
			internal.LogWarn("Error inspecting table %s: %v", name, err)
			continue
		}
		tables = append(tables, info)
	}

	if inspectFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"database": dbPath, "tables": tables})
	}

	if len(tables) == 0 {
		fmt.Fprintln(out, "⚠️  No tables found in database")
		return nil
	}
	fmt.Fprintf(out, "📋 Database: %s\n", dbPath)
	fmt.Fprintf(out, "📊 Found %d table(s)\n\n", len(tables))
	for _, t := range tables {
		printTable(out, t)
		fmt.Fprintln(out)
	}
	return nil
}

func getTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func describeTable(db *sql.DB, name string, sampleRows int) (TableInfo, error) {
	info := TableInfo{Name: name}

	// Table names come from sqlite_master, not user input.
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", name)).Scan(&info.Rows); err != nil {
		return info, fmt.Errorf("failed to get row count: %w", err)
	}

	var err error
	if info.Columns, err = getTableSchema(db, name); err != nil {
		return info, fmt.Errorf("failed to get schema: %w", err)
	}

	if info.Rows > 0 && sampleRows > 0 {
		if info.Sample, err = sampleData(db, name, info.Columns, sampleRows); err != nil {
			return info, fmt.Errorf("failed to sample rows: %w", err)
		}
	}
	return info, nil
}

func getTableSchema(db *sql.DB, tableName string) ([]ColumnInfo, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var cid int
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			continue
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk == 1
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func sampleData(db *sql.DB, tableName string, columns []ColumnInfo, limit int) ([]map[string]string, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	colNames := make([]string, len(columns))
	for i, col := range columns {
		colNames[i] = fmt.Sprintf("%q", col.Name)
	}

	// Newest rows first for the session table; key order for the rest.
	order := "rowid DESC"
	if tableName == "shared_kv" {
		order = "key"
	}
	query := fmt.Sprintf("SELECT %s FROM %q ORDER BY %s LIMIT %d", strings.Join(colNames, ", "), tableName, order, limit)
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sample []map[string]string
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if values[i] == nil {
				row[col.Name] = "<NULL>"
				continue
			}
			valStr := fmt.Sprintf("%v", values[i])
			if len(valStr) > 200 {
				valStr = valStr[:200] + "..."
			}
			row[col.Name] = valStr
		}
		sample = append(sample, row)
	}
	return sample, rows.Err()
}

func printTable(out io.Writer, t TableInfo) {
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(out, "📦 Table: %s\n", t.Name)
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(out, "📊 Rows: %d\n\n", t.Rows)

	fmt.Fprintf(out, "📐 Schema:\n")
	for _, col := range t.Columns {
		pk := ""
		if col.PrimaryKey {
			pk = " [PRIMARY KEY]"
		}
		notNull := ""
		if col.NotNull {
			notNull = " NOT NULL"
		}
		fmt.Fprintf(out, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
	}

	if len(t.Sample) == 0 {
		return
	}
	fmt.Fprintf(out, "\n📄 Sample Data (%d rows):\n", len(t.Sample))
	for i, row := range t.Sample {
		fmt.Fprintf(out, "\n  Row %d:\n", i+1)
		for _, col := range t.Columns {
			fmt.Fprintf(out, "    %s: %s\n", col.Name, row[col.Name])
		}
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of sample rows to show")
	inspectCmd.Flags().BoolVar(&inspectHistory, "history", false, "Inspect the session history database")
}
