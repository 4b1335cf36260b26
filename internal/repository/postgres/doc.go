// Package postgres implements the service repositories against PostgreSQL
// through database/sql and lib/pq. The schema lives in migrations/.
package postgres
