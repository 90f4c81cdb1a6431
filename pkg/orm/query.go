// Package orm wraps gorm with a small chainable query builder that records
// every terminal call in the db query-duration histogram.
package orm

import (
	"context"
	"time"

	"github.com/shashiranjanraj/estoque/pkg/metrics"
	"gorm.io/gorm"
)

type Query struct {
	db *gorm.DB
}

// On starts a query against db.
func On(ctx context.Context, db *gorm.DB) *Query {
	return &Query{db: db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Select(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Select(query, args...)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

// First loads the first matching row; gorm.ErrRecordNotFound when none.
func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

func (q *Query) Create(value interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(value).Error
}

// Updates writes every key in values, zero values included.
func (q *Query) Updates(values map[string]interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("update", time.Now())
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

func (q *Query) Delete(value interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := q.db.Delete(value)
	return res.RowsAffected, res.Error
}

// Exec runs a raw statement.
func (q *Query) Exec(sql string, args ...interface{}) error {
	defer metrics.ObserveDBQuery("exec", time.Now())
	return q.db.Exec(sql, args...).Error
}

// Scan runs a raw query and scans the result into dest.
func (q *Query) Scan(dest interface{}, sql string, args ...interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Raw(sql, args...).Scan(dest).Error
}

// Transaction runs fn inside a database transaction.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	defer metrics.ObserveDBQuery("transaction", time.Now())
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}
