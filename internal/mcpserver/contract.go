package mcpserver

// TaskFormatContract describes the canonical task record format that
// LLM consumers should follow when constructing import payloads.
const TaskFormatContract = `# Task Record Format

An import payload is a JSON **list** of task records. Anything else is
rejected. Individual records are never rejected: missing or malformed
fields are coerced to defaults.

## Record

` + "```" + `json
{
  "id": "1717243200000-0-a1b2c3d4",
  "text": "buy milk",
  "completed": false,
  "priority": "normal",
  "due": "2024-03-10",
  "category": "errands",
  "created_at": "2024-03-01T08:00:00Z",
  "order": 0
}
` + "```" + `

## Rules

1. **id** — opaque string. Omit it and one is generated.
2. **text** — free text. Blank text is retained on import (interactive
   edits that blank a task delete it instead).
3. **completed** — boolean; loose values (0/1, "true"/"false") are coerced.
4. **priority** — one of ` + "`high`, `normal`, `low`" + `. Anything else
   becomes ` + "`normal`" + `.
5. **due** — ISO date ` + "`YYYY-MM-DD`" + ` or omitted. Unparseable dates
   are dropped.
6. **created_at** — RFC 3339 timestamp, ISO date, or unix milliseconds.
   Defaults to the import time.
7. **order** — integer manual position; lower sorts first, gaps are fine.
   If any record lacks a unique integer order, the whole payload is
   renumbered by list position.
8. A successful import **replaces the entire collection**. Export output
   is always a valid import payload.
`
