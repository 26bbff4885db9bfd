package compose

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/nauticalab/devenv-compose/internal/environment"
)

// DatabaseEngine is the family of database server running in the database service
type DatabaseEngine string

const (
	EngineMySQL    DatabaseEngine = "mysql"
	EnginePostgres DatabaseEngine = "postgres"
)

// Client commands run inside the database container. Credentials come from
// the container's own environment.
var databaseClients = map[DatabaseEngine]map[Operation]string{
	EngineMySQL: {
		OpDump:    `mysqldump --user="$MYSQL_USER" --password="$MYSQL_PASSWORD" --single-transaction "$MYSQL_DATABASE"`,
		OpRestore: `mysql --user="$MYSQL_USER" --password="$MYSQL_PASSWORD" "$MYSQL_DATABASE"`,
	},
	EnginePostgres: {
		OpDump:    `pg_dump --clean --if-exists --username="$POSTGRES_USER" "$POSTGRES_DB"`,
		OpRestore: `psql --quiet --username="$POSTGRES_USER" "$POSTGRES_DB"`,
	},
}

// EngineFor infers the database engine from a database version such as
// "mariadb:10.11" or "postgres:16". MySQL-compatible servers are the default.
func EngineFor(databaseVersion string) DatabaseEngine {
	v := strings.ToLower(strings.TrimSpace(databaseVersion))
	if strings.HasPrefix(v, "postgres") {
		return EnginePostgres
	}
	return EngineMySQL
}

// databaseCommand builds the shell line streaming the database to (dump) or from (restore) path
func databaseCommand(base []string, rec environment.Record, op Operation, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrMissingPathArgument
	}

	client := databaseClients[EngineFor(rec.DatabaseVersion)][op]
	args := append(base, "exec", "-T", DatabaseService, "sh", "-c", client)

	redirect := " > "
	if op == OpRestore {
		redirect = " < "
	}
	return shellquote.Join(args...) + redirect + shellquote.Join(path), nil
}
