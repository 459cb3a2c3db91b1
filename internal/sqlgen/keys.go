package sqlgen

import (
	"AcctEventSQL/internal/catalog"
	"AcctEventSQL/internal/extract"
)

// Keys are the running-number prefixes and document-number patterns that
// scope the cleanup statements.
type Keys struct {
	Keys  []string `json:"keys"`
	Likes []string `json:"likes"`
}

// DeriveKeys builds "<sn_no>-<pn_no>" keys from every row carrying both
// parts, deduplicated in first-occurrence order. Rows missing either part
// are skipped.
func DeriveKeys(rows []extract.Row) Keys {
	out := Keys{Keys: []string{}, Likes: []string{}}
	seen := make(map[string]struct{}, len(rows))
	for i := range rows {
		head, tail := rows[i].Get(catalog.KeyHeadColumn), rows[i].Get(catalog.KeyTailColumn)
		if head.IsNull() || tail.IsNull() {
			continue
		}
		key := head.String() + "-" + tail.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Keys = append(out.Keys, key)
		out.Likes = append(out.Likes, key+"%")
	}
	return out
}
