package model

import "strconv"

// Wire codec for round documents.
//
// The remote backend cannot distinguish an ordered list from a mapping, so
// every fixed-length sequence is encoded as an index-keyed mapping on the
// wire and decoded back into its 18-element form, defaulting any missing
// index to the type's zero value. The conversion is exact and lossless for
// round-tripping.

// EncodeGroupRound produces the wire document for a group round.
func EncodeGroupRound(g *GroupRound) map[string]any {
	players := make(map[string]any, len(g.Players))
	for uid, p := range g.Players {
		players[uid] = EncodePlayer(p)
	}
	scores := make(map[string]any, len(g.Scores))
	for uid, s := range g.Scores {
		scores[uid] = EncodeScores(s)
	}
	tracking := make(map[string]any, len(g.Tracking))
	for uid, t := range g.Tracking {
		tracking[uid] = EncodeTracking(t)
	}
	currentHole := make(map[string]any, len(g.CurrentHole))
	for uid, h := range g.CurrentHole {
		currentHole[uid] = h
	}
	doc := map[string]any{
		"meta":        EncodeMeta(g.Meta),
		"players":     players,
		"scores":      scores,
		"tracking":    tracking,
		"currentHole": currentHole,
	}
	if len(g.FinishedPlayers) > 0 {
		finished := make(map[string]any, len(g.FinishedPlayers))
		for uid, done := range g.FinishedPlayers {
			if done {
				finished[uid] = true
			}
		}
		doc["finishedPlayers"] = finished
	}
	return doc
}

// EncodeMeta produces the wire form of the metadata block.
func EncodeMeta(m RoundMeta) map[string]any {
	return map[string]any{
		"courseId":   m.CourseID,
		"tee":        m.Tee,
		"teeLabel":   m.TeeLabel,
		"date":       m.Date,
		"createdBy":  m.CreatedBy,
		"createdAt":  m.CreatedAt,
		"finishedAt": m.FinishedAt,
		"status":     string(m.Status),
	}
}

// EncodePlayer produces the wire form of one players entry.
func EncodePlayer(p RoundPlayer) map[string]any {
	return map[string]any{
		"name":     p.Name,
		"joinedAt": p.JoinedAt,
	}
}

// EncodeScores produces the index-keyed wire form of a score sequence.
func EncodeScores(s Scores) map[string]any {
	out := make(map[string]any, HolesPerRound)
	for i, v := range s {
		out[strconv.Itoa(i)] = v
	}
	return out
}

// EncodeTracking produces the wire form of a tracking block.
func EncodeTracking(t PlayerTracking) map[string]any {
	return map[string]any{
		"putts":             encodeInts(t.Putts),
		"fairway":           encodeBools(t.Fairway),
		"gir":               encodeBools(t.GIR),
		"mulligans":         encodeInts(t.Mulligans),
		"mulliganLocations": encodeLocations(t.MulliganLocations),
		"penalties":         encodeInts(t.Penalties),
		"penaltyLocations":  encodeLocations(t.PenaltyLocations),
	}
}

func encodeInts(arr [HolesPerRound]int) map[string]any {
	out := make(map[string]any, HolesPerRound)
	for i, v := range arr {
		out[strconv.Itoa(i)] = v
	}
	return out
}

func encodeBools(arr [HolesPerRound]bool) map[string]any {
	out := make(map[string]any, HolesPerRound)
	for i, v := range arr {
		out[strconv.Itoa(i)] = v
	}
	return out
}

func encodeLocations(arr [HolesPerRound][]string) map[string]any {
	out := make(map[string]any, HolesPerRound)
	for i, tags := range arr {
		if tags == nil {
			out[strconv.Itoa(i)] = nil
			continue
		}
		vals := make([]any, len(tags))
		for j, tag := range tags {
			vals[j] = tag
		}
		out[strconv.Itoa(i)] = vals
	}
	return out
}

// EncodeRound produces the wire form of a flattened round, used for the
// solo active slot and the saved-round archive.
func EncodeRound(r *Round) map[string]any {
	players := make([]any, len(r.Players))
	for i, name := range r.Players {
		players[i] = name
	}
	scores := make(map[string]any, len(r.Scores))
	for name, s := range r.Scores {
		scores[name] = EncodeScores(s)
	}
	tracking := make(map[string]any, len(r.Tracking))
	for name, t := range r.Tracking {
		tracking[name] = EncodeTracking(t)
	}
	doc := map[string]any{
		"courseId":    r.CourseID,
		"tee":         r.Tee,
		"teeLabel":    r.TeeLabel,
		"date":        r.Date,
		"players":     players,
		"scores":      scores,
		"tracking":    tracking,
		"currentHole": r.CurrentHole,
	}
	if r.ID != "" {
		doc["id"] = r.ID
	}
	if r.GroupCode != "" {
		doc["groupCode"] = string(r.GroupCode)
	}
	if r.CreatedBy != "" {
		doc["createdBy"] = r.CreatedBy
	}
	if r.Status != "" {
		doc["status"] = string(r.Status)
	}
	return doc
}

// DecodeRound parses a flattened round document, returning nil when the
// value is not a mapping.
func DecodeRound(value any) *Round {
	doc, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	r := &Round{
		ID:          asString(doc["id"]),
		CourseID:    asString(doc["courseId"]),
		Tee:         asString(doc["tee"]),
		TeeLabel:    asString(doc["teeLabel"]),
		Date:        asString(doc["date"]),
		Scores:      map[string]Scores{},
		Tracking:    map[string]PlayerTracking{},
		CurrentHole: asInt(doc["currentHole"]),
		GroupCode:   RoundCode(asString(doc["groupCode"])),
		CreatedBy:   asString(doc["createdBy"]),
		Status:      RoundStatus(asString(doc["status"])),
	}
	if names, ok := doc["players"].([]any); ok {
		for _, n := range names {
			r.Players = append(r.Players, asString(n))
		}
	}
	for _, name := range r.Players {
		r.Scores[name] = decodeInts(asMap(doc["scores"])[name])
		r.Tracking[name] = DecodeTracking(asMap(doc["tracking"])[name])
	}
	return r
}

// DecodeGroupRound parses a wire document into a GroupRound. A document
// that is not a mapping, or whose metadata block is missing, is corrupt.
func DecodeGroupRound(code RoundCode, value any) (*GroupRound, error) {
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, ErrRoundCorrupted
	}
	metaRaw, ok := doc["meta"].(map[string]any)
	if !ok {
		return nil, ErrRoundCorrupted
	}

	g := &GroupRound{
		Code:            code,
		Meta:            decodeMeta(metaRaw),
		Players:         map[string]RoundPlayer{},
		Scores:          map[string]Scores{},
		Tracking:        map[string]PlayerTracking{},
		CurrentHole:     map[string]int{},
		FinishedPlayers: map[string]bool{},
	}

	for uid, raw := range asMap(doc["players"]) {
		p := asMap(raw)
		g.Players[uid] = RoundPlayer{
			Name:     asString(p["name"]),
			JoinedAt: asInt64(p["joinedAt"]),
		}
	}
	for uid := range g.Players {
		g.Scores[uid] = decodeInts(asMap(doc["scores"])[uid])
		g.Tracking[uid] = DecodeTracking(asMap(doc["tracking"])[uid])
		g.CurrentHole[uid] = asInt(asMap(doc["currentHole"])[uid])
	}
	for uid, v := range asMap(doc["finishedPlayers"]) {
		if b, ok := v.(bool); ok && b {
			g.FinishedPlayers[uid] = true
		}
	}
	return g, nil
}

func decodeMeta(raw map[string]any) RoundMeta {
	return RoundMeta{
		CourseID:   asString(raw["courseId"]),
		Tee:        asString(raw["tee"]),
		TeeLabel:   asString(raw["teeLabel"]),
		Date:       asString(raw["date"]),
		CreatedBy:  asString(raw["createdBy"]),
		CreatedAt:  asInt64(raw["createdAt"]),
		FinishedAt: asInt64(raw["finishedAt"]),
		Status:     RoundStatus(asString(raw["status"])),
	}
}

// DecodeTracking parses one wire tracking block, defaulting every missing
// index to its zero value.
func DecodeTracking(value any) PlayerTracking {
	raw := asMap(value)
	return PlayerTracking{
		Putts:             decodeInts(raw["putts"]),
		Fairway:           decodeBools(raw["fairway"]),
		GIR:               decodeBools(raw["gir"]),
		Mulligans:         decodeInts(raw["mulligans"]),
		MulliganLocations: decodeLocations(raw["mulliganLocations"]),
		Penalties:         decodeInts(raw["penalties"]),
		PenaltyLocations:  decodeLocations(raw["penaltyLocations"]),
	}
}

func decodeInts(value any) (out [HolesPerRound]int) {
	for i := 0; i < HolesPerRound; i++ {
		out[i] = asInt(wireIndex(value, i))
	}
	return out
}

func decodeBools(value any) (out [HolesPerRound]bool) {
	for i := 0; i < HolesPerRound; i++ {
		// Numeric truthiness tolerated for data written by older clients.
		switch v := wireIndex(value, i).(type) {
		case bool:
			out[i] = v
		case float64:
			out[i] = v != 0
		case int:
			out[i] = v != 0
		}
	}
	return out
}

func decodeLocations(value any) (out [HolesPerRound][]string) {
	for i := 0; i < HolesPerRound; i++ {
		raw, ok := wireIndex(value, i).([]any)
		if !ok {
			continue
		}
		tags := make([]string, 0, len(raw))
		for _, t := range raw {
			tags = append(tags, asString(t))
		}
		out[i] = tags
	}
	return out
}

// wireIndex reads index i from an index-keyed mapping, tolerating a plain
// array form as well.
func wireIndex(value any, i int) any {
	switch v := value.(type) {
	case map[string]any:
		return v[strconv.Itoa(i)]
	case []any:
		if i < len(v) {
			return v[i]
		}
	}
	return nil
}

func asMap(value any) map[string]any {
	m, _ := value.(map[string]any)
	return m
}

func asString(value any) string {
	s, _ := value.(string)
	return s
}

func asInt(value any) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func asInt64(value any) int64 {
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	return 0
}
