package mysql

import (
	"strings"

	"gorm.io/gorm/clause"
)

// forUpdate renders SELECT ... FOR UPDATE on MySQL; sqlite ignores it.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// likeContains builds a lowercase LIKE pattern using '!' as escape character,
// which MySQL and SQLite both accept in an ESCAPE clause.
func likeContains(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
