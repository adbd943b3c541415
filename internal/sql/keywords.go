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

// keywordLayer maps an upper-cased word to its token kind.
type keywordLayer map[string]TokenKind

// newLayer flattens kind-grouped word lists into a lookup table.
// A word must appear under a single kind within one layer.
func newLayer(groups map[TokenKind][]string) keywordLayer {
	n := 0
	for _, words := range groups {
		n += len(words)
	}
	layer := make(keywordLayer, n)
	for kind, words := range groups {
		for _, w := range words {
			layer[w] = kind
		}
	}
	return layer
}

// words returns the layer's entries of the given kind.
func (l keywordLayer) words(kind TokenKind) []string {
	var out []string
	for w, k := range l {
		if k == kind {
			out = append(out, w)
		}
	}
	return out
}

// commonKeywords holds the high-frequency words checked first.
var commonKeywords = newLayer(map[TokenKind][]string{
	KeywordDML: {
		"SELECT", "INSERT", "DELETE", "UPDATE", "UPSERT", "REPLACE", "MERGE",
	},
	KeywordDDL: {
		"DROP", "CREATE", "ALTER",
	},
	Keyword: {
		"WHERE", "FROM", "INNER", "JOIN", "STRAIGHT_JOIN", "AND", "OR", "LIKE",
		"ON", "IN", "SET", "BY", "GROUP", "ORDER", "LEFT", "OUTER", "FULL",
		"IF", "END", "THEN", "LOOP", "AS", "ELSE", "FOR", "WHILE", "CASE",
		"WHEN", "MIN", "MAX", "DISTINCT",
	},
})

// generalKeywords is the broad reserved-word and built-in type set shared
// by every dialect.
var generalKeywords = newLayer(map[TokenKind][]string{
	Keyword: {
		"ABORT", "ABS", "ABSOLUTE", "ADA", "ADD", "ADMIN", "AFTER",
		"AGGREGATE", "ALIAS", "ALL", "ALLOCATE", "ANALYSE", "ANALYZE", "ANY",
		"ARRAYLEN", "ARE", "ASENSITIVE", "ASSERTION", "ASSIGNMENT",
		"ASYMMETRIC", "AT", "ATOMIC", "AUDIT", "AUTHORIZATION",
		"AUTO_INCREMENT", "AVG", "BACKWARD", "BEFORE", "BEGIN", "BETWEEN",
		"BITVAR", "BIT_LENGTH", "BOTH", "BREADTH", "CACHE", "CALL", "CALLED",
		"CARDINALITY", "CASCADE", "CASCADED", "CAST", "CATALOG",
		"CATALOG_NAME", "CHAIN", "CHARACTERISTICS", "CHARACTER_LENGTH",
		"CHARACTER_SET_CATALOG", "CHARACTER_SET_NAME", "CHARACTER_SET_SCHEMA",
		"CHAR_LENGTH", "CHARSET", "CHECK", "CHECKED", "CHECKPOINT", "CLASS",
		"CLASS_ORIGIN", "CLOB", "CLOSE", "CLUSTER", "COALESCE", "COBOL",
		"COLLATE", "COLLATION", "COLLATION_CATALOG", "COLLATION_NAME",
		"COLLATION_SCHEMA", "COLLECT", "COLUMN", "COLUMN_NAME", "COMPRESS",
		"COMMAND_FUNCTION", "COMMAND_FUNCTION_CODE", "COMMENT", "COMMITTED",
		"COMPLETION", "CONCURRENTLY", "CONDITION_NUMBER", "CONNECT",
		"CONNECTION", "CONNECTION_NAME", "CONSTRAINT", "CONSTRAINTS",
		"CONSTRAINT_CATALOG", "CONSTRAINT_NAME", "CONSTRAINT_SCHEMA",
		"CONSTRUCTOR", "CONTAINS", "CONTINUE", "CONVERSION", "CONVERT", "COPY",
		"CORRESPONDING", "COUNT", "CREATEDB", "CREATEUSER", "CROSS", "CUBE",
		"CURRENT", "CURRENT_DATE", "CURRENT_PATH", "CURRENT_ROLE",
		"CURRENT_TIME", "CURRENT_TIMESTAMP", "CURRENT_USER", "CURSOR",
		"CURSOR_NAME", "CYCLE", "DATA", "DATABASE", "DATETIME_INTERVAL_CODE",
		"DATETIME_INTERVAL_PRECISION", "DAY", "DEALLOCATE", "DECLARE",
		"DEFAULT", "DEFAULTS", "DEFERRABLE", "DEFERRED", "DEFINED", "DEFINER",
		"DELIMITER", "DELIMITERS", "DEREF", "DESCRIBE", "DESCRIPTOR",
		"DESTROY", "DESTRUCTOR", "DETERMINISTIC", "DIAGNOSTICS", "DICTIONARY",
		"DISABLE", "DISCONNECT", "DISPATCH", "DO", "DOMAIN", "DYNAMIC",
		"DYNAMIC_FUNCTION", "DYNAMIC_FUNCTION_CODE", "EACH", "ENABLE",
		"ENCODING", "ENCRYPTED", "END-EXEC", "ENGINE", "EQUALS", "ESCAPE",
		"EVERY", "EXCEPT", "EXCEPTION", "EXCLUDING", "EXCLUSIVE", "EXEC",
		"EXECUTE", "EXISTING", "EXISTS", "EXPLAIN", "EXTERNAL", "EXTRACT",
		"FALSE", "FETCH", "FILE", "FINAL", "FIRST", "FORCE", "FOREACH",
		"FOREIGN", "FORTRAN", "FORWARD", "FOUND", "FREE", "FREEZE", "FULL",
		"FUNCTION", "GENERAL", "GENERATED", "GET", "GLOBAL", "GO", "GOTO",
		"GRANT", "GRANTED", "GROUPING", "HAVING", "HIERARCHY", "HOLD", "HOUR",
		"HOST", "IDENTIFIED", "IDENTITY", "IGNORE", "ILIKE", "IMMEDIATE",
		"IMMUTABLE", "IMPLEMENTATION", "IMPLICIT", "INCLUDING", "INCREMENT",
		"INDEX", "INDITCATOR", "INFIX", "INHERITS", "INITIAL", "INITIALIZE",
		"INITIALLY", "INOUT", "INPUT", "INSENSITIVE", "INSTANTIABLE",
		"INSTEAD", "INTERSECT", "INTO", "INVOKER", "IS", "ISNULL", "ISOLATION",
		"ITERATE", "KEY", "KEY_MEMBER", "KEY_TYPE", "LANCOMPILER", "LANGUAGE",
		"LARGE", "LAST", "LATERAL", "LEADING", "LENGTH", "LESS", "LEVEL",
		"LIMIT", "LISTEN", "LOAD", "LOCAL", "LOCALTIME", "LOCALTIMESTAMP",
		"LOCATION", "LOCATOR", "LOCK", "LOWER", "MAP", "MATCH", "MAXEXTENTS",
		"MAXVALUE", "MESSAGE_LENGTH", "MESSAGE_OCTET_LENGTH", "MESSAGE_TEXT",
		"METHOD", "MINUTE", "MINUS", "MINVALUE", "MOD", "MODE", "MODIFIES",
		"MODIFY", "MONTH", "MORE", "MOVE", "MUMPS", "NAMES", "NATIONAL",
		"NATURAL", "NCHAR", "NCLOB", "NEW", "NEXT", "NO", "NOAUDIT",
		"NOCOMPRESS", "NOCREATEDB", "NOCREATEUSER", "NONE", "NOT", "NOTFOUND",
		"NOTHING", "NOTIFY", "NOTNULL", "NOWAIT", "NULL", "NULLABLE", "NULLIF",
		"OBJECT", "OCTET_LENGTH", "OF", "OFF", "OFFLINE", "OFFSET", "OIDS",
		"OLD", "ONLINE", "ONLY", "OPEN", "OPERATION", "OPERATOR", "OPTION",
		"OPTIONS", "ORDINALITY", "OUT", "OUTPUT", "OVERLAPS", "OVERLAY",
		"OVERRIDING", "OWNER", "QUARTER", "PAD", "PARAMETER", "PARAMETERS",
		"PARAMETER_MODE", "PARAMETER_NAME", "PARAMETER_ORDINAL_POSITION",
		"PARAMETER_SPECIFIC_CATALOG", "PARAMETER_SPECIFIC_NAME",
		"PARAMETER_SPECIFIC_SCHEMA", "PARTIAL", "PASCAL", "PCTFREE", "PENDANT",
		"PLACING", "PLI", "POSITION", "POSTFIX", "PRECISION", "PREFIX",
		"PREORDER", "PREPARE", "PRESERVE", "PRIMARY", "PRIOR", "PRIVILEGES",
		"PROCEDURAL", "PROCEDURE", "PUBLIC", "RAISE", "RAW", "READ", "READS",
		"RECHECK", "RECURSIVE", "REF", "REFERENCES", "REFERENCING", "REINDEX",
		"RELATIVE", "RENAME", "REPEATABLE", "RESET", "RESOURCE", "RESTART",
		"RESTRICT", "RESULT", "RETURN", "RETURNED_LENGTH",
		"RETURNED_OCTET_LENGTH", "RETURNED_SQLSTATE", "RETURNING", "RETURNS",
		"REVOKE", "RIGHT", "ROLE", "ROLLUP", "ROUTINE", "ROUTINE_CATALOG",
		"ROUTINE_NAME", "ROUTINE_SCHEMA", "ROW", "ROWS", "ROW_COUNT", "RULE",
		"SAVE_POINT", "SCALE", "SCHEMA", "SCHEMA_NAME", "SCOPE", "SCROLL",
		"SEARCH", "SECOND", "SECURITY", "SELF", "SENSITIVE", "SEQUENCE",
		"SERIALIZABLE", "SERVER_NAME", "SESSION", "SESSION_USER", "SETOF",
		"SETS", "SHARE", "SHOW", "SIMILAR", "SIMPLE", "SIZE", "SOME", "SOURCE",
		"SPACE", "SPECIFIC", "SPECIFICTYPE", "SPECIFIC_NAME", "SQL", "SQLBUF",
		"SQLCODE", "SQLERROR", "SQLEXCEPTION", "SQLSTATE", "SQLWARNING",
		"STABLE", "STATEMENT", "STATIC", "STATISTICS", "STDIN", "STDOUT",
		"STORAGE", "STRICT", "STRUCTURE", "STYPE", "SUBCLASS_ORIGIN",
		"SUBLIST", "SUBSTRING", "SUCCESSFUL", "SUM", "SYMMETRIC", "SYNONYM",
		"SYSID", "SYSTEM", "SYSTEM_USER", "TABLE", "TABLE_NAME", "TEMP",
		"TEMPLATE", "TEMPORARY", "TERMINATE", "THAN", "TIMESTAMP",
		"TIMEZONE_HOUR", "TIMEZONE_MINUTE", "TO", "TOAST", "TRAILING",
		"TRANSATION", "TRANSACTIONS_COMMITTED", "TRANSACTIONS_ROLLED_BACK",
		"TRANSATION_ACTIVE", "TRANSFORM", "TRANSFORMS", "TRANSLATE",
		"TRANSLATION", "TREAT", "TRIGGER", "TRIGGER_CATALOG", "TRIGGER_NAME",
		"TRIGGER_SCHEMA", "TRIM", "TRUE", "TRUNCATE", "TRUSTED", "TYPE", "UID",
		"UNCOMMITTED", "UNDER", "UNENCRYPTED", "UNION", "UNIQUE", "UNKNOWN",
		"UNLISTEN", "UNNAMED", "UNNEST", "UNTIL", "UPPER", "USAGE", "USE",
		"USER", "USER_DEFINED_TYPE_CATALOG", "USER_DEFINED_TYPE_NAME",
		"USER_DEFINED_TYPE_SCHEMA", "USING", "VACUUM", "VALID", "VALIDATE",
		"VALIDATOR", "VALUES", "VARIABLE", "VERBOSE", "VERSION", "VIEW",
		"VOLATILE", "WEEK", "WHENEVER", "WITHOUT", "WORK", "WRITE", "YEAR",
		"ZONE",
	},
	KeywordOrder: {
		"ASC", "DESC",
	},
	KeywordDML: {
		"COMMIT", "ROLLBACK", "START",
	},
	KeywordCTE: {
		"WITH",
	},
	NameBuiltin: {
		"ARRAY", "BIGINT", "BINARY", "BIT", "BLOB", "BOOLEAN", "CHAR",
		"CHARACTER", "DATE", "DEC", "DECIMAL", "FILE_TYPE", "FLOAT", "INT",
		"INT8", "INTEGER", "INTERVAL", "LONG", "NATURALN", "NVARCHAR",
		"NUMBER", "NUMERIC", "PLS_INTEGER", "POSITIVE", "POSITIVEN", "REAL",
		"ROWID", "ROWLABEL", "ROWNUM", "SERIAL", "SERIAL8", "SIGNED",
		"SIGNTYPE", "SIMPLE_DOUBLE", "SIMPLE_FLOAT", "SIMPLE_INTEGER",
		"SMALLINT", "SYS_REFCURSOR", "TEXT", "TINYINT", "UNSIGNED", "UROWID",
		"UTL_FILE", "VARCHAR", "VARCHAR2", "VARYING",
	},
	Name: {
		"SYSDATE",
	},
})
