package recording

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/tebeka/atexit"
)

// ClickHouseRecorder is a DataRecorder that stores data in a ClickHouse
// database using batched inserts.
type ClickHouseRecorder struct {
	conn clickhouse.Conn

	mu         sync.Mutex
	tables     map[string]*table
	batchSize  int
	entryCount int
}

// NewClickHouseRecorder connects to the ClickHouse server at addr and
// records into the given database. Credentials are read from the
// TRACEMARK_CH_USERNAME and TRACEMARK_CH_PASSWORD environment
// variables.
func NewClickHouseRecorder(addr, database string) *ClickHouseRecorder {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: os.Getenv("TRACEMARK_CH_USERNAME"),
			Password: os.Getenv("TRACEMARK_CH_PASSWORD"),
		},
	})
	if err != nil {
		panic(err)
	}

	r := &ClickHouseRecorder{
		conn:      conn,
		tables:    make(map[string]*table),
		batchSize: 100000,
	}

	atexit.Register(func() { r.Flush() })

	return r
}

func (r *ClickHouseRecorder) columnType(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return "String"
	case reflect.Float32:
		return "Float32"
	case reflect.Float64:
		return "Float64"
	case reflect.Bool:
		return "Bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64:
		return "Int64"
	default:
		return "UInt64"
	}
}

// CreateTable creates a MergeTree table whose columns are the fields of
// sampleEntry.
func (r *ClickHouseRecorder) CreateTable(tableName string, sampleEntry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := reflect.TypeOf(sampleEntry)

	columns := make([]string, 0, types.NumField())
	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)
		columns = append(columns,
			field.Name+" "+r.columnType(field.Type.Kind()))
	}

	ddl := "CREATE TABLE IF NOT EXISTS " + tableName +
		" (\n\t" + strings.Join(columns, ",\n\t") + "\n)" +
		" ENGINE = MergeTree() ORDER BY tuple()"

	err := r.conn.Exec(context.Background(), ddl)
	if err != nil {
		panic(err)
	}

	r.tables[tableName] = &table{
		structType: types,
		entries:    []any{},
	}
}

// InsertData buffers one entry for the named table.
func (r *ClickHouseRecorder) InsertData(tableName string, entry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, exists := r.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	table.entries = append(table.entries, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.flushLocked()
	}
}

// ListTables returns the names of all created tables.
func (r *ClickHouseRecorder) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables := make([]string, 0, len(r.tables))
	for table := range r.tables {
		tables = append(tables, table)
	}

	return tables
}

// Flush sends all the buffered entries to the server.
func (r *ClickHouseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flushLocked()
}

func (r *ClickHouseRecorder) flushLocked() {
	if r.entryCount == 0 {
		return
	}

	for tableName, table := range r.tables {
		if len(table.entries) == 0 {
			continue
		}

		r.sendBatch(tableName, table)
	}

	r.entryCount = 0
}

func (r *ClickHouseRecorder) sendBatch(tableName string, table *table) {
	ctx := context.Background()

	batch, err := r.conn.PrepareBatch(ctx, "INSERT INTO "+tableName)
	if err != nil {
		panic(err)
	}

	for _, entry := range table.entries {
		values := reflect.ValueOf(entry)

		row := make([]any, 0, values.NumField())
		for i := 0; i < values.NumField(); i++ {
			row = append(row, values.Field(i).Interface())
		}

		err := batch.Append(row...)
		if err != nil {
			panic(err)
		}
	}

	err = batch.Send()
	if err != nil {
		panic(err)
	}

	table.entries = nil
}
