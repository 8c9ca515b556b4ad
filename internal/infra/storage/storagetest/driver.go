// Package storagetest подменяет PostgreSQL в тестах репозиториев:
// драйвер database/sql записывает каждый запрос с аргументами
// и отвечает заранее заданными строками.
package storagetest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

// Query запрос, дошедший до драйвера
type Query struct {
	SQL  string
	Args []interface{}
}

// Response ответ драйвера на запрос.
// Пустой Rows для QueryRow означает sql.ErrNoRows.
type Response struct {
	Columns      []string
	Rows         [][]driver.Value
	RowsAffected int64
	Err          error
}

// Recorder хранит запросы и решает, что на них ответить
type Recorder struct {
	mu      sync.Mutex
	queries []Query
	respond func(query string) Response
}

// New открывает *sql.DB поверх записывающего драйвера
func New(t testing.TB) (*sql.DB, *Recorder) {
	t.Helper()

	rec := &Recorder{respond: func(string) Response { return Response{} }}
	db := sql.OpenDB(connector{rec: rec})
	t.Cleanup(func() { _ = db.Close() })

	return db, rec
}

// Respond задаёт ответ на каждый следующий запрос
func (r *Recorder) Respond(fn func(query string) Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.respond = fn
}

// RespondRows отвечает одними и теми же строками на любой запрос
func (r *Recorder) RespondRows(columns []string, rows ...[]driver.Value) {
	r.Respond(func(string) Response { return Response{Columns: columns, Rows: rows} })
}

// Queries возвращает записанные запросы по порядку
func (r *Recorder) Queries() []Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Query(nil), r.queries...)
}

// Last возвращает последний запрос. Без запросов тест падает.
func (r *Recorder) Last(t testing.TB) Query {
	t.Helper()

	queries := r.Queries()
	if len(queries) == 0 {
		t.Fatal("storagetest: no queries recorded")
	}
	return queries[len(queries)-1]
}

func (r *Recorder) record(query string, args []driver.NamedValue) Response {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]interface{}, len(args))
	for i, arg := range args {
		values[i] = arg.Value
	}
	// Пробелы схлопываются: многострочные суффиксы сравниваются как одна строка
	r.queries = append(r.queries, Query{SQL: strings.Join(strings.Fields(query), " "), Args: values})

	return r.respond(query)
}

type connector struct {
	rec *Recorder
}

func (c connector) Connect(context.Context) (driver.Conn, error) {
	return &conn{rec: c.rec}, nil
}

func (c connector) Driver() driver.Driver {
	return drv{rec: c.rec}
}

type drv struct {
	rec *Recorder
}

func (d drv) Open(string) (driver.Conn, error) {
	return &conn{rec: d.rec}, nil
}

type conn struct {
	rec *Recorder
}

var errPrepare = errors.New("storagetest: prepared statements are not supported")

func (c *conn) Prepare(string) (driver.Stmt, error) {
	return nil, errPrepare
}

func (c *conn) Close() error {
	return nil
}

func (c *conn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *conn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return tx{}, nil
}

// CheckNamedValue пропускает аргументы как есть, чтобы тест видел исходные типы
func (c *conn) CheckNamedValue(*driver.NamedValue) error {
	return nil
}

func (c *conn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	resp := c.rec.record(query, args)
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &rows{columns: resp.Columns, values: resp.Rows}, nil
}

func (c *conn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	resp := c.rec.record(query, args)
	if resp.Err != nil {
		return nil, resp.Err
	}
	return result(resp.RowsAffected), nil
}

// tx ничего не фиксирует: запросы пишутся сразу
type tx struct{}

func (tx) Commit() error   { return nil }
func (tx) Rollback() error { return nil }

type rows struct {
	columns []string
	values  [][]driver.Value
	pos     int
}

func (r *rows) Columns() []string {
	return r.columns
}

func (r *rows) Close() error {
	return nil
}

func (r *rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.values) {
		return io.EOF
	}
	copy(dest, r.values[r.pos])
	r.pos++
	return nil
}

type result int64

func (r result) LastInsertId() (int64, error) {
	return 0, errors.New("storagetest: LastInsertId is not supported")
}

func (r result) RowsAffected() (int64, error) {
	return int64(r), nil
}
