package recording

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/fatih/structs"

	// Need to use MySQL connections.
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

type dbConnection struct {
	*sql.DB

	username  string
	password  string
	ipAddress string
	port      int
	dbName    string
}

func (c *dbConnection) init(dbName string) {
	c.dbName = dbName

	c.getCredentials()
	c.connect()
}

func (c *dbConnection) getCredentials() {
	c.username = os.Getenv("TRACEMARK_DB_USERNAME")
	if c.username == "" {
		panic(`database username is not set, ` +
			`use environment variable TRACEMARK_DB_USERNAME to set it.`)
	}

	c.password = os.Getenv("TRACEMARK_DB_PASSWORD")
	c.ipAddress = os.Getenv("TRACEMARK_DB_IP")
	if c.ipAddress == "" {
		c.ipAddress = "127.0.0.1"
	}

	portString := os.Getenv("TRACEMARK_DB_PORT")
	if portString == "" {
		portString = "3306"
	}
	port, err := strconv.Atoi(portString)
	if err != nil {
		panic(err)
	}
	c.port = port
}

func (c *dbConnection) connect() {
	connectStr := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		c.username, c.password, c.ipAddress, c.port, c.dbName)
	db, err := sql.Open("mysql", connectStr)
	if err != nil {
		panic(err)
	}

	c.DB = db
}

func (c *dbConnection) mustExecute(query string) sql.Result {
	res, err := c.Exec(query)
	if err != nil {
		panic(err)
	}

	return res
}

// MySQLWriter is a DataRecorder that stores data in a MySQL database.
type MySQLWriter struct {
	dbConnection

	tables     map[string]*table
	batchSize  int
	entryCount int
}

// NewMySQLWriter returns a new MySQLWriter. A new database with a
// generated name is created to hold the tables.
func NewMySQLWriter() *MySQLWriter {
	w := &MySQLWriter{
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	w.Init()

	atexit.Register(func() { w.Flush() })

	return w
}

// Init establishes a connection to MySQL and creates a database.
func (t *MySQLWriter) Init() {
	t.dbConnection.init("")
	t.createDatabase()
}

func (t *MySQLWriter) createDatabase() {
	dbName := "tracemark_" + xid.New().String()
	t.dbName = dbName
	log.Printf("Marks are collected in database: %s\n", dbName)

	t.mustExecute("CREATE DATABASE " + dbName)
	t.mustExecute("USE " + dbName)
}

func (t *MySQLWriter) columnType(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return "varchar(200)"
	case reflect.Float32, reflect.Float64:
		return "double"
	case reflect.Bool:
		return "bool"
	default:
		return "bigint"
	}
}

// CreateTable creates a table whose columns are the fields of
// sampleEntry.
func (t *MySQLWriter) CreateTable(tableName string, sampleEntry any) {
	types := reflect.TypeOf(sampleEntry)

	columns := make([]string, 0, types.NumField())
	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)
		columns = append(columns,
			field.Name+" "+t.columnType(field.Type.Kind())+" null")
	}

	t.mustExecute("CREATE TABLE " + tableName +
		" (\n\t" + strings.Join(columns, ",\n\t") + "\n);")
	t.mustExecute("ALTER TABLE " + tableName + " ENGINE=InnoDB;")

	t.tables[tableName] = &table{
		structType: types,
		entries:    []any{},
	}
}

// InsertData buffers one entry for the named table.
func (t *MySQLWriter) InsertData(tableName string, entry any) {
	table, exists := t.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		t.Flush()
	}
}

// ListTables returns the names of all created tables.
func (t *MySQLWriter) ListTables() []string {
	tables := make([]string, 0, len(t.tables))
	for table := range t.tables {
		tables = append(tables, table)
	}

	return tables
}

// Flush writes all the buffered entries into the database.
func (t *MySQLWriter) Flush() {
	if t.entryCount == 0 {
		return
	}

	for tableName, table := range t.tables {
		if len(table.entries) == 0 {
			continue
		}

		t.flushTable(tableName, table)
	}

	t.entryCount = 0
}

func (t *MySQLWriter) flushTable(tableName string, table *table) {
	n := structs.Names(table.entries[0])
	placeholder := "(" + strings.Repeat("?, ", len(n)-1) + "?),"

	sqlStr := "INSERT INTO " + tableName + " VALUES "
	vals := []interface{}{}

	for _, entry := range table.entries {
		sqlStr += placeholder

		values := reflect.ValueOf(entry)
		for i := 0; i < values.NumField(); i++ {
			vals = append(vals, values.Field(i).Interface())
		}
	}

	sqlStr = strings.TrimSuffix(sqlStr, ",")

	stmt, err := t.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	_, err = stmt.Exec(vals...)
	if err != nil {
		panic(err)
	}

	err = stmt.Close()
	if err != nil {
		panic(err)
	}

	table.entries = nil
}
