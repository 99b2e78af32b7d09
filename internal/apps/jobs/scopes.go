package jobs

import (
	"strings"

	"gorm.io/gorm"
)

// allValues is the filter value meaning "no filter".
const allValues = "ALL"

func Active() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true)
	}
}

// Exact filters column by value unless value is empty or ALL.
func Exact(column, value string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" || value == allValues {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

// Contains is a case-insensitive substring filter on column.
func Contains(column, value string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(likeClause(column), likePattern(value))
	}
}

// Search matches value against any of the columns.
func Search(value string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" || len(columns) == 0 {
			return db
		}
		pattern := likePattern(value)
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = likeClause(col)
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func likeClause(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '\\'"
}

// likePattern matches value literally; % and _ in user input are not wildcards.
func likePattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}
