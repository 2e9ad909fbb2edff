package content

// Vocabulary tables feeding the generator. Split the way spec.md's tier
// table splits them: each tier adds a character class on top of the one
// below it.

var commonWords = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "time",
	"place", "work", "word", "world", "system", "program", "function",
	"value", "number", "string", "object", "method", "result", "error",
	"data", "file", "line", "code", "test", "build", "run", "start",
	"stop", "read", "write", "open", "close", "list", "array", "table",
	"index", "key", "name", "type", "class", "field", "record", "group",
	"level", "score", "speed", "text", "input", "output", "state",
	"event", "queue", "stack", "buffer", "thread", "process", "signal",
	"socket", "packet", "stream", "cursor", "screen", "render", "frame",
	"session", "window", "cache", "memory", "disk", "network", "client",
	"server", "request", "response", "header", "body", "token", "parse",
	"compile", "deploy", "commit", "branch", "merge", "clone", "fetch",
}

var punctuationRunes = []rune{'.', ',', '!', '?', ':', ';', '\'', '"', '-'}

var symbolRunes = []rune{'@', '#', '%', '&', '*', '+', '=', '~', '^'}

var bracketRunes = []rune{'(', ')', '[', ']', '{', '}', '<', '>'}

var operatorTokens = []string{
	"==", "!=", "<=", ">=", "&&", "||", "->", "=>", "::", "+=", "-=", "*=",
}

// technicalLexicon is the fixed lexicon of programming terms used to
// compute technical_contribution (§4.3) and to bias tiers 6-10. The
// CamelCase/SnakeCase/Operators drill categories draw from their own
// token tables instead.
var technicalLexicon = []string{
	"func", "return", "class", "import", "const", "struct", "interface",
	"error", "nil", "async", "await", "public", "private", "static",
	"void", "int", "string", "bool", "true", "false", "null", "var",
	"let", "this", "self", "def", "end", "then", "else", "elif", "match",
	"case", "switch", "break", "continue", "throw", "catch", "try",
	"finally", "package", "module", "export", "default", "extends",
	"implements", "override", "abstract", "enum", "namespace", "yield",
}

var camelCaseTokens = []string{
	"getUserName", "setValue", "isValidInput", "toString", "parseConfig",
	"handleRequest", "computeScore", "renderFrame", "loadProfile",
	"saveSession", "validateToken", "fetchResult", "buildIndex",
	"updateState", "resetCursor",
}

var snakeCaseTokens = []string{
	"get_user_name", "set_value", "is_valid_input", "to_string",
	"parse_config", "handle_request", "compute_score", "render_frame",
	"load_profile", "save_session", "validate_token", "fetch_result",
	"build_index", "update_state", "reset_cursor",
}

var digitTokens = []string{
	"0", "1", "2", "3", "7", "8", "9", "10", "16", "32", "42", "64", "100",
	"128", "256", "404", "500", "1000", "2024", "3000",
}
