// internal/app/features/games/filter.go
package games

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/suraj4124/gamesphere/internal/app/system/normalize"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// errFilter marks a query the client got wrong. Its message is returned
// to the client as is.
var errFilter = errors.New("invalid filter")

func filterErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errFilter, fmt.Sprintf(format, args...))
}

// reservedParams are query keys that are not filters.
var reservedParams = map[string]bool{"page": true, "limit": true, "sort": true, "select": true}

// filterField describes one filterable API field.
type filterField struct {
	column  string
	parse   func(string) (any, error)
	ordered bool // allows gt/gte/lt/lte
}

var filterFields = map[string]filterField{
	"sport":            {column: "sport", parse: parseSport},
	"skillLevel":       {column: "skill_level", parse: parseSkill},
	"location":         {column: "location_ci", parse: parseLocation},
	"maxPlayers":       {column: "max_players", parse: parseInt, ordered: true},
	"entryFee":         {column: "entry_fee", parse: parseFloat, ordered: true},
	"date":             {column: "date", parse: parseDate, ordered: true},
	"organizer":        {column: "organizer_id", parse: parseObjectID},
	"requiresApproval": {column: "requires_approval", parse: parseBool},
}

// sortColumns maps sortable API fields to stored names.
var sortColumns = map[string]string{
	"sport":            "sport",
	"skillLevel":       "skill_level",
	"location":         "location_ci",
	"maxPlayers":       "max_players",
	"entryFee":         "entry_fee",
	"date":             "date",
	"organizer":        "organizer_id",
	"requiresApproval": "requires_approval",
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
}

var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
	"ne":  "$ne",
}

// splitKey splits "maxPlayers[gte]" into ("maxPlayers", "gte"). A plain key
// has an empty op.
func splitKey(key string) (field, op string, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, "", nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", filterErr("malformed query parameter %q", key)
	}
	return key[:open], key[open+1 : len(key)-1], nil
}

// parseFilter turns list query parameters into a MongoDB filter. Only
// known fields and operators are accepted, so no client-supplied operator
// or field name ever reaches the query.
func parseFilter(q url.Values) (bson.M, error) {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	filter := bson.M{}
	for _, key := range keys {
		if reservedParams[key] {
			continue
		}
		if strings.Contains(key, "$") {
			return nil, filterErr("query parameter %q is not allowed", key)
		}
		vals := q[key]
		if len(vals) != 1 {
			return nil, filterErr("query parameter %q given more than once", key)
		}
		raw := normalize.QueryParam(vals[0])
		if strings.HasPrefix(raw, "$") {
			return nil, filterErr("value for %q is not allowed", key)
		}

		field, op, err := splitKey(key)
		if err != nil {
			return nil, err
		}

		if field == "status" {
			expr, err := statusExpr(op, raw)
			if err != nil {
				return nil, err
			}
			if expr != nil {
				filter["$expr"] = expr
			}
			continue
		}

		def, ok := filterFields[field]
		if !ok {
			return nil, filterErr("cannot filter by %q", field)
		}
		mop := "$eq"
		if op != "" {
			if mop, ok = operators[op]; !ok {
				return nil, filterErr("unknown operator %q for %s", op, field)
			}
		}
		if !def.ordered && mop != "$eq" && mop != "$ne" && mop != "$in" {
			return nil, filterErr("operator %q is not supported for %s", op, field)
		}

		var val any
		if mop == "$in" {
			list := bson.A{}
			for _, part := range strings.Split(raw, ",") {
				v, err := def.parse(strings.TrimSpace(part))
				if err != nil {
					return nil, filterErr("%s: %v", field, err)
				}
				list = append(list, v)
			}
			val = list
		} else {
			v, err := def.parse(raw)
			if err != nil {
				return nil, filterErr("%s: %v", field, err)
			}
			val = v
		}

		// A game open to all levels matches any requested level.
		if field == "skillLevel" {
			mop, val = widenSkill(mop, val)
		}

		cond, _ := filter[def.column].(bson.M)
		if cond == nil {
			cond = bson.M{}
			filter[def.column] = cond
		}
		if _, dup := cond[mop]; dup {
			return nil, filterErr("conflicting filters for %s", field)
		}
		cond[mop] = val
	}
	return filter, nil
}

func widenSkill(op string, val any) (string, any) {
	switch op {
	case "$eq":
		if val == models.SkillAllLevels {
			return op, val
		}
		return "$in", bson.A{val, models.SkillAllLevels}
	case "$in":
		list := val.(bson.A)
		for _, v := range list {
			if v == models.SkillAllLevels {
				return op, list
			}
		}
		return op, append(list, models.SkillAllLevels)
	}
	return op, val
}

// statusExpr translates status=open|full into a comparison of the roster
// size against max_players. "in" with both statuses matches everything.
func statusExpr(op, raw string) (bson.M, error) {
	var want []string
	switch op {
	case "", "ne":
		want = []string{strings.ToLower(raw)}
	case "in":
		for _, s := range strings.Split(raw, ",") {
			want = append(want, strings.ToLower(strings.TrimSpace(s)))
		}
	default:
		return nil, filterErr("operator %q is not supported for status", op)
	}

	open, full := false, false
	for _, s := range want {
		switch s {
		case models.GameStatusOpen:
			open = true
		case models.GameStatusFull:
			full = true
		default:
			return nil, filterErr("status must be open or full")
		}
	}
	if op == "ne" {
		open, full = !open, !full
	}

	size := bson.M{"$size": bson.M{"$ifNull": bson.A{"$players", bson.A{}}}}
	switch {
	case open && full:
		return nil, nil
	case open:
		return bson.M{"$lt": bson.A{size, "$max_players"}}, nil
	default:
		return bson.M{"$gte": bson.A{size, "$max_players"}}, nil
	}
}

// parseSort reads "sort=a,-b". The default is newest first. _id is always
// appended as a tiebreak in the direction of the primary key so paging is
// stable.
func parseSort(raw string) (bson.D, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "-createdAt"
	}

	var out bson.D
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(part, "-") {
			dir, part = -1, part[1:]
		} else {
			part = strings.TrimPrefix(part, "+")
		}
		col, ok := sortColumns[part]
		if !ok {
			return nil, filterErr("cannot sort by %q", part)
		}
		if seen[col] {
			continue
		}
		seen[col] = true
		out = append(out, bson.E{Key: col, Value: dir})
	}
	if len(out) == 0 {
		return nil, filterErr("sort must name at least one field")
	}
	return append(out, bson.E{Key: "_id", Value: out[0].Value}), nil
}

func parseSport(s string) (any, error) {
	sp := normalize.Sport(s)
	for _, known := range models.Sports {
		if sp == known {
			return sp, nil
		}
	}
	return nil, fmt.Errorf("unknown sport %q", s)
}

func parseSkill(s string) (any, error) {
	lvl := normalize.SkillLevel(s)
	switch lvl {
	case models.SkillBeginner, models.SkillIntermediate, models.SkillPro, models.SkillAllLevels:
		return lvl, nil
	}
	return nil, fmt.Errorf("unknown skill level %q", s)
}

func parseLocation(s string) (any, error) {
	if s == "" {
		return nil, errors.New("empty location")
	}
	return text.Fold(s), nil
}

func parseInt(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", s)
	}
	return n, nil
}

func parseFloat(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

func parseDate(s string) (any, error) {
	return parseTime(s)
}

func parseObjectID(s string) (any, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid id", s)
	}
	return oid, nil
}

func parseBool(s string) (any, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not true or false", s)
	}
	return b, nil
}

// dateLayouts are the accepted spellings of a game date, most specific
// first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseTime parses a date in any of dateLayouts. Values without a zone are
// taken as UTC.
func parseTime(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a valid date", s)
}
