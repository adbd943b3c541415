/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sql

import (
	"sort"
	"strings"

	ferrors "sqlsplit/internal/errors"
)

// Dialect is the database-family layer of the keyword tables. It only
// changes how words are classified; the splitting algorithm is the same
// for every dialect.
type Dialect struct {
	name    string
	aliases []string
	layer   keywordLayer
}

// Name returns the canonical dialect name.
func (d *Dialect) Name() string {
	return d.name
}

// Classify looks word up case-insensitively in the common, general and
// dialect layers, in that order. The first hit wins.
func (d *Dialect) Classify(word string) (TokenKind, bool) {
	upper := strings.ToUpper(word)
	if kind, ok := commonKeywords[upper]; ok {
		return kind, true
	}
	if kind, ok := generalKeywords[upper]; ok {
		return kind, true
	}
	if d != nil {
		if kind, ok := d.layer[upper]; ok {
			return kind, true
		}
	}
	return Name, false
}

// Keywords returns every word that classifies as kind under this dialect,
// with layer priority applied.
func (d *Dialect) Keywords(kind TokenKind) []string {
	seen := make(map[string]bool)
	var out []string
	layers := []keywordLayer{commonKeywords, generalKeywords}
	if d != nil {
		layers = append(layers, d.layer)
	}
	for _, layer := range layers {
		for w, k := range layer {
			if seen[w] {
				continue
			}
			seen[w] = true
			if k == kind {
				out = append(out, w)
			}
		}
	}
	sort.Strings(out)
	return out
}

var (
	// PostgreSQL is the default dialect; CockroachDB shares its layer.
	PostgreSQL = &Dialect{
		name:    "postgresql",
		aliases: []string{"postgres", "pg", "cockroachdb"},
		layer:   postgresKeywords,
	}
	Oracle = &Dialect{
		name:  "oracle",
		layer: oracleKeywords,
	}
	MySQL = &Dialect{
		name:    "mysql",
		aliases: []string{"mariadb"},
		layer:   mysqlKeywords,
	}
	SQLServer = &Dialect{
		name:    "sqlserver",
		aliases: []string{"mssql", "tsql"},
		layer:   sqlserverKeywords,
	}
	SQLite = &Dialect{
		name:  "sqlite",
		layer: sqliteKeywords,
	}
	Cassandra = &Dialect{
		name:    "cassandra",
		aliases: []string{"cql"},
		layer:   cassandraKeywords,
	}
	// Generic has no dialect layer.
	Generic = &Dialect{name: "generic"}
)

// DefaultDialect is used by Tokenize and Split.
var DefaultDialect = PostgreSQL

var registry = []*Dialect{PostgreSQL, Oracle, MySQL, SQLServer, SQLite, Cassandra, Generic}

// Dialects returns the canonical names of the registered dialects.
func Dialects() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.name
	}
	return names
}

// LookupDialect returns the dialect registered under name or one of its
// aliases. The empty name selects DefaultDialect.
func LookupDialect(name string) (*Dialect, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultDialect, nil
	}
	for _, d := range registry {
		if d.name == name {
			return d, nil
		}
		for _, a := range d.aliases {
			if a == name {
				return d, nil
			}
		}
	}
	return nil, ferrors.UnknownDialect(name, Dialects())
}

var postgresKeywords = newLayer(map[TokenKind][]string{
	Keyword: {
		"WINDOW", "PARTITION", "OVER", "PERFORM", "NOTICE", "PLPGSQL",
		"INHERIT", "INDEXES", "BYTEA", "BIGSERIAL", "BOX", "CHARACTER", "CIDR",
		"CIRCLE", "INET", "JSON", "JSONB", "LINE", "LSEG", "MACADDR", "MONEY",
		"PATH", "PG_LSN", "POINT", "POLYGON", "SMALLSERIAL", "TSQUERY",
		"TSVECTOR", "TXID_SNAPSHOT", "UUID", "XML", "FOR", "IN", "LOOP",
	},
	NameBuiltin: {
		"BOOL", "TIMESTAMPTZ", "TIMETZ", "INT2", "INT4", "FLOAT4", "FLOAT8",
	},
})

var oracleKeywords = newLayer(map[TokenKind][]string{
	Keyword: {
		"ARCHIVE", "ARCHIVELOG", "BACKUP", "BECOME", "BLOCK", "BODY", "CANCEL",
		"CHANGE", "COMPILE", "CONTENTS", "CONTROLFILE", "DATAFILE", "DBA",
		"DISMOUNT", "DOUBLE", "DUMP", "EVENTS", "EXCEPTIONS", "EXPLAIN",
		"EXTENT", "EXTERNALLY", "FLUSH", "FREELIST", "FREELISTS", "INDICATOR",
		"INITRANS", "INSTANCE", "LAYER", "LINK", "LISTS", "LOGFILE", "MANAGE",
		"MANUAL", "MAXDATAFILES", "MAXINSTANCES", "MAXLOGFILES",
		"MAXLOGHISTORY", "MAXLOGMEMBERS", "MAXTRANS", "MINEXTENTS", "MODULE",
		"MOUNT", "NOARCHIVELOG", "NOCACHE", "NOCYCLE", "NOMAXVALUE",
		"NOMINVALUE", "NOORDER", "NORESETLOGS", "NORMAL", "NOSORT", "OPTIMAL",
		"OWN", "PACKAGE", "PARALLEL", "PCTINCREASE", "PCTUSED", "PLAN",
		"PRIVATE", "PROFILE", "QUOTA", "RECOVER", "RESETLOGS", "RESTRICTED",
		"REUSE", "ROLES", "SAVEPOINT", "SCN", "SECTION", "SEGMENT", "SHARED",
		"SNAPSHOT", "SORT", "STATEMENT_ID", "STOP", "SWITCH", "TABLES",
		"TABLESPACE", "THREAD", "TIME", "TRACING", "TRANSACTION", "TRIGGERS",
		"UNLIMITED", "UNLOCK",
	},
})

var mysqlKeywords = newLayer(map[TokenKind][]string{
	Keyword: {
		"ZEROFILL", "DUPLICATE", "REGEXP", "SQL_CALC_FOUND_ROWS", "KILL",
		"DATABASES", "TABLES", "ELSEIF", "LEAVE", "REPEAT", "SIGNAL",
		"RESIGNAL", "EXIT", "UNDO", "HANDLER",
	},
	NameBuiltin: {
		"MEDIUMINT", "MEDIUMTEXT", "LONGTEXT", "TINYTEXT", "MEDIUMBLOB",
		"LONGBLOB", "TINYBLOB", "DATETIME", "ENUM", "JSON", "BOOL", "VARBINARY",
	},
})

var sqlserverKeywords = newLayer(map[TokenKind][]string{
	Keyword: {
		"TOP", "NOLOCK", "TRY", "CATCH", "THROW", "RAISERROR", "PRINT", "PIVOT",
		"UNPIVOT", "APPLY", "OPENJSON", "OPENQUERY", "TRAN", "NOCOUNT",
		"XACT_ABORT", "WAITFOR", "BREAK", "CLUSTERED", "NONCLUSTERED", "INCLUDE",
	},
	NameBuiltin: {
		"UNIQUEIDENTIFIER", "DATETIME2", "DATETIMEOFFSET", "SMALLDATETIME",
		"MONEY", "SMALLMONEY", "NTEXT", "IMAGE", "SQL_VARIANT", "HIERARCHYID",
		"GEOGRAPHY", "GEOMETRY", "ROWVERSION", "DATETIME",
	},
})

var sqliteKeywords = newLayer(map[TokenKind][]string{
	Keyword: {
		"AUTOINCREMENT", "PRAGMA", "ATTACH", "DETACH", "GLOB", "REGEXP",
		"VIRTUAL", "INDEXED", "CONFLICT", "FAIL",
	},
})

var cassandraKeywords = newLayer(map[TokenKind][]string{
	Keyword: {
		"KEYSPACE", "KEYSPACES", "REPLICATION", "DURABLE_WRITES", "ALLOW",
		"FILTERING", "TTL", "WRITETIME", "TOKEN", "BATCH", "APPLY", "UNLOGGED",
		"MATERIALIZED", "CLUSTERING", "COMPACT", "ENTRIES",
	},
	NameBuiltin: {
		"COUNTER", "ASCII", "VARINT", "TIMEUUID", "INET", "LIST", "FROZEN",
		"TUPLE", "DURATION",
	},
})
