// Package repository implements table-level CRUD over sqlx for any struct tagged with db columns.
//
// Fields tagged table:"other" column:"x" are read from a joined table and never written.
// Fields tagged readonly:"true" are read but left to the database on insert.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/shared/constant"
	"hostel/shared/dto"
	"hostel/shared/logger"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

type column struct {
	name  string
	table string
	alias string
}

func (c column) selector() string {
	if c.alias != constant.Empty {
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	}

	return c.table + "." + c.name
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// preparer is satisfied by both *sqlx.DB and *sqlx.Tx.
type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entitas       string
	primaryColumn string
	columns       []column
	join          string
	InsertColumns []string
}

type joiner interface {
	GetJoinQuery() string
}

func NewRepository[T any](entitasName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := constant.Empty
	if j, ok := any(zero).(joiner); ok {
		join = j.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entitas:       entitasName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entitas, op))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entitas, err)
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
}

func (repo *Repository[T]) selectList(only ...string) string {
	selectors := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		selectors = append(selectors, col.selector())
	}

	return strings.Join(selectors, ", ")
}

// sortable reports whether sortBy names a selected column, bare or table qualified.
func (repo *Repository[T]) sortable(sortBy string) bool {
	return slices.ContainsFunc(repo.columns, func(col column) bool {
		return sortBy == col.table+"."+col.name || (col.table == repo.table && sortBy == col.name)
	})
}

func (repo *Repository[T]) orderAndPage(params dto.QueryParams, args map[string]any) string {
	clauses := []string{}

	dir := strings.ToUpper(params.SortDir)
	if repo.sortable(params.SortBy) && (dir == dto.SortDirAsc || dir == dto.SortDirDesc) {
		clauses = append(clauses, fmt.Sprintf("ORDER BY %s %s", params.SortBy, dir))
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		clauses = append(clauses, "LIMIT :limit")

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			clauses = append(clauses, "OFFSET :offset")
		}
	}

	return strings.Join(clauses, " ")
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, value any, op string) (err error) {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	query := repo.insertQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = exec.NamedExecContext(ctx, query, value); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, model, "Insert")
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.insert(ctx, sqltx, model, "InsertTx")
}

// InsertBulk writes every model in one multi-row statement.
func (repo *Repository[T]) InsertBulk(ctx context.Context, models []T) error {
	if len(models) == 0 {
		return nil
	}

	return repo.insert(ctx, repo.db.Write, models, "InsertBulk")
}

func (repo *Repository[T]) InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []T) error {
	if len(models) == 0 {
		return nil
	}

	return repo.insert(ctx, sqltx, models, "InsertBulkTx")
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (exist bool, err error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == constant.Empty {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = namedGet(ctx, repo.db.Read, query, args, &exist); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// get returns the zero T when nothing matches.
func (repo *Repository[T]) get(ctx context.Context, prep preparer, op, lock string, filter dto.FilterGroup, columns ...string) (model T, err error) {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	query := strings.Join(nonEmpty("SELECT", repo.selectList(columns...), "FROM", repo.table, repo.join, where, lock), " ")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = namedGet(ctx, prep, query, args, &model)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, "Get", constant.Empty, filter, columns...)
}

func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, "GetTx", constant.Empty, filter, columns...)
}

// GetForUpdateTx reads one row and holds its row lock until sqltx ends.
func (repo *Repository[T]) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, "GetForUpdateTx", "FOR UPDATE OF "+repo.table, filter, columns...)
}

func (repo *Repository[T]) getAll(ctx context.Context, prep preparer, op string, params dto.QueryParams, filter dto.FilterGroup, columns ...string) (models []T, err error) {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	tail := repo.orderAndPage(params, args)

	query := strings.Join(nonEmpty("SELECT", repo.selectList(columns...), "FROM", repo.table, repo.join, where, tail), " ")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := prep.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if err = stmt.SelectContext(ctx, &models, args); err != nil {
		return nil, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, repo.db.Read, "GetAll", params, filter, columns...)
}

func (repo *Repository[T]) GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, sqltx, "GetAllTx", params, filter, columns...)
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (count int, err error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	query := strings.Join(nonEmpty(fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s", repo.table, repo.primaryColumn, repo.table), repo.join, where), " ")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = namedGet(ctx, repo.db.Read, query, args, &count); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) delete(ctx context.Context, exec execer, op string, filter dto.FilterGroup) (err error) {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == constant.Empty {
		return errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "delete data", err)
	}

	return nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	return repo.delete(ctx, repo.db.Write, "Delete", filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) error {
	return repo.delete(ctx, sqltx, "DeleteTx", filter)
}

// update sets the columns in mod. Filter arguments win over mod values that share a name,
// so callers keep filter ArgNames distinct from column names when both are present.
func (repo *Repository[T]) update(ctx context.Context, exec execer, op string, mod map[string]any, filter dto.FilterGroup) (err error) {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == constant.Empty {
		return errRequiredFilter
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, setList(mod), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	params := maps.Clone(mod)
	maps.Copy(params, args)

	if _, err = exec.NamedExecContext(ctx, query, params); err != nil {
		return repo.fail(scope, "update data", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, repo.db.Write, "Update", mod, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, sqltx, "UpdateTx", mod, filter)
}

// BuildWhereClause renders filter as a WHERE clause, or an empty string when filter has no conditions.
func (repo *Repository[T]) BuildWhereClause(_ context.Context, filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == constant.Empty {
		return constant.Empty, map[string]any{}
	}

	return "WHERE " + where, args
}

func namedGet(ctx context.Context, prep preparer, query string, args map[string]any, dest any) error {
	stmt, err := prep.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
}

// setList renders "a = :a, b = :b" in column order so the statement text is stable.
func setList(mod map[string]any) string {
	cols := slices.Sorted(maps.Keys(mod))

	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = fmt.Sprintf("%s = :%s", col, col)
	}

	return strings.Join(assignments, ", ")
}

func nonEmpty(parts ...string) []string {
	return slices.DeleteFunc(parts, func(part string) bool {
		return strings.TrimSpace(part) == constant.Empty
	})
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, embeddedInsert := getColumns(table, field.Type)
			columns = append(columns, embedded...)
			insertColumns = append(insertColumns, embeddedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == constant.Empty || dbTag == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == constant.Empty {
			source = table
		}

		if source == table && field.Tag.Get("readonly") != "true" {
			insertColumns = append(insertColumns, dbTag)
		}

		if name := field.Tag.Get("column"); name != constant.Empty {
			columns = append(columns, column{name: name, table: source, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: source})
		}
	}

	return columns, insertColumns
}
