package timeline

import (
	"encoding/json"
	"time"

	"github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/logging"
	"github.com/Elmersong/HealthKey/internal/model"
)

// Field names used by older persisted schema versions.
//
//	v1/v2: { id, eventDefId (or "type"), timestamp, extras: {
//	         urineColor, stoolColor, isAbnormal, satietyPercent,
//	         waterMl, note } }
//
// The current schema stores eventTypeId, startTime, optional endTime
// and a typed extra bag. Excretion color appears across versions as a
// direct token or a 0-100 severity number; both normalize into the
// ColorValue variant.
var (
	typeAliases  = []string{"eventTypeId", "eventDefId", "type"}
	startAliases = []string{"startTime", "timestamp", "time"}
	endAliases   = []string{"endTime", "end"}
	extraAliases = []string{"extra", "extras"}
)

// knownRecordKeys are the top-level fields the migrator interprets.
// Anything else is preserved under the extra bag's catch-all.
var knownRecordKeys = func() map[string]bool {
	keys := map[string]bool{"id": true}
	for _, group := range [][]string{typeAliases, startAliases, endAliases, extraAliases} {
		for _, k := range group {
			keys[k] = true
		}
	}
	return keys
}()

// Migrate normalizes a raw persisted event snapshot of any prior
// version into the current shape. It is idempotent: migrating an
// already-current snapshot yields an equal collection. Records with no
// usable start instant are dropped and counted, never silently kept.
func Migrate(data []byte) ([]*model.LogEvent, int, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, errors.NewSystemErrorWithOp("migration", "corrupt event snapshot", err)
	}

	events := make([]*model.LogEvent, 0, len(raw))
	dropped := 0
	for _, rec := range raw {
		evt, ok := migrateRecord(rec)
		if !ok {
			dropped++
			logging.Warn("dropping unparseable record", logging.KeyOperation, "migration")
			continue
		}
		events = append(events, evt)
	}
	return events, dropped, nil
}

func migrateRecord(rec map[string]json.RawMessage) (*model.LogEvent, bool) {
	evt := &model.LogEvent{}

	// Start instant is the one thing a record cannot live without.
	start, ok := firstTime(rec, startAliases)
	if !ok {
		return nil, false
	}
	evt.Start = start

	if end, ok := firstTime(rec, endAliases); ok {
		evt.End = end
	}

	if id, ok := firstString(rec, []string{"id"}); ok && id != "" {
		evt.ID = id
	} else {
		evt.ID = model.NewID()
	}

	evt.EventTypeID, _ = firstString(rec, typeAliases)
	if evt.EventTypeID == "" {
		return nil, false
	}

	for _, key := range extraAliases {
		if rawExtra, ok := rec[key]; ok {
			evt.Extra = migrateExtra(rawExtra)
			break
		}
	}

	// Unmatched top-level fields are kept, not discarded: they move
	// into the extra bag's catch-all alongside unknown extra keys.
	for k, v := range rec {
		if knownRecordKeys[k] {
			continue
		}
		if evt.Extra == nil {
			evt.Extra = &model.ExtraFields{}
		}
		if evt.Extra.Other == nil {
			evt.Extra.Other = make(map[string]json.RawMessage)
		}
		evt.Extra.Other[k] = append(json.RawMessage(nil), v...)
	}

	if evt.Extra.IsEmpty() {
		evt.Extra = nil
	}
	return evt, true
}

// legacyExtraKeys are extra fields the current schema understands,
// including their pre-rename spellings. Anything else is preserved
// verbatim under Other.
var legacyExtraKeys = map[string]bool{
	"satietyPercent": true, "waterMl": true,
	"intensityPercent": true, "sleepDepthPercent": true,
	"color": true, "urineColor": true, "stoolColor": true,
	"abnormal": true, "isAbnormal": true,
	"note": true, "other": true,
}

func migrateExtra(raw json.RawMessage) *model.ExtraFields {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	out := &model.ExtraFields{}
	out.SatietyPercent = intField(fields, "satietyPercent")
	out.WaterMl = intField(fields, "waterMl")
	out.IntensityPercent = intField(fields, "intensityPercent")
	out.SleepDepthPercent = intField(fields, "sleepDepthPercent")

	if b := boolField(fields, "abnormal"); b != nil {
		out.Abnormal = b
	} else {
		out.Abnormal = boolField(fields, "isAbnormal")
	}

	if n := stringField(fields, "note"); n != nil {
		out.Note = n
	}

	out.Color = migrateColor(fields)

	// A current-schema bag nests its catch-all under "other"; fold it
	// back flat so migration stays idempotent.
	if rawOther, ok := fields["other"]; ok {
		var other map[string]json.RawMessage
		if err := json.Unmarshal(rawOther, &other); err == nil && len(other) > 0 {
			out.Other = make(map[string]json.RawMessage, len(other))
			for k, v := range other {
				out.Other[k] = append(json.RawMessage(nil), v...)
			}
		}
	}

	for k, v := range fields {
		if legacyExtraKeys[k] {
			continue
		}
		if out.Other == nil {
			out.Other = make(map[string]json.RawMessage)
		}
		out.Other[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// migrateColor resolves the overloaded excretion-color field. Current
// snapshots carry the tagged variant under "color"; legacy ones carry
// urineColor/stoolColor as either a "#rrggbb" token or a bare 0-100
// severity number.
func migrateColor(fields map[string]json.RawMessage) *model.ColorValue {
	if raw, ok := fields["color"]; ok {
		var cv model.ColorValue
		if err := json.Unmarshal(raw, &cv); err == nil && (cv.Severity != nil || cv.Token != "") {
			return &cv
		}
	}
	for _, key := range []string{"urineColor", "stoolColor"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var token string
		if err := json.Unmarshal(raw, &token); err == nil && token != "" {
			return model.DirectColor(token)
		}
		var severity float64
		if err := json.Unmarshal(raw, &severity); err == nil {
			return model.SeverityColor(int(severity))
		}
	}
	return nil
}

func firstString(rec map[string]json.RawMessage, keys []string) (string, bool) {
	for _, key := range keys {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
	}
	return "", false
}

func firstTime(rec map[string]json.RawMessage, keys []string) (time.Time, bool) {
	for _, key := range keys {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		var t time.Time
		if err := json.Unmarshal(raw, &t); err == nil && !t.IsZero() {
			return t, true
		}
		// Epoch milliseconds, as produced by the oldest revisions.
		var ms int64
		if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
			return time.UnixMilli(ms), true
		}
	}
	return time.Time{}, false
}

func intField(fields map[string]json.RawMessage, key string) *int {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	n := int(f)
	return &n
}

func boolField(fields map[string]json.RawMessage, key string) *bool {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil
	}
	return &b
}

func stringField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}
