package mysql

const insertSearchSQL = `
INSERT INTO search_log
  (location, category, query, results, status, reason)
VALUES
  (?, ?, ?, ?, ?, ?)
`

// Newest first; matches idx_search_log_created.
const recentSearchesSQL = `
SELECT id, location, category, query, results, status, reason, created_at
FROM search_log
ORDER BY created_at DESC, id DESC
LIMIT ?
`
