package model

import "encoding/json"

// ExtraFields is the sparse, optional detail bag attached to a log
// event. Nil pointers mean "not recorded"; which fields a given event
// type is expected to carry is a presentation concern, not a stored
// invariant. Fields from older schema versions that have no current
// home are preserved in Other rather than discarded.
type ExtraFields struct {
	SatietyPercent    *int        `json:"satietyPercent,omitempty"`
	WaterMl           *int        `json:"waterMl,omitempty"`
	IntensityPercent  *int        `json:"intensityPercent,omitempty"`
	SleepDepthPercent *int        `json:"sleepDepthPercent,omitempty"`
	Color             *ColorValue `json:"color,omitempty"`
	Abnormal          *bool       `json:"abnormal,omitempty"`
	Note              *string     `json:"note,omitempty"`

	Other map[string]json.RawMessage `json:"other,omitempty"`
}

// IsEmpty returns true if no field is recorded.
func (x *ExtraFields) IsEmpty() bool {
	if x == nil {
		return true
	}
	return x.SatietyPercent == nil && x.WaterMl == nil &&
		x.IntensityPercent == nil && x.SleepDepthPercent == nil &&
		x.Color == nil && x.Abnormal == nil && x.Note == nil &&
		len(x.Other) == 0
}

// Clone returns a deep copy of the bag.
func (x *ExtraFields) Clone() *ExtraFields {
	if x == nil {
		return nil
	}
	out := &ExtraFields{}
	out.SatietyPercent = cloneInt(x.SatietyPercent)
	out.WaterMl = cloneInt(x.WaterMl)
	out.IntensityPercent = cloneInt(x.IntensityPercent)
	out.SleepDepthPercent = cloneInt(x.SleepDepthPercent)
	if x.Color != nil {
		c := *x.Color
		out.Color = &c
	}
	if x.Abnormal != nil {
		b := *x.Abnormal
		out.Abnormal = &b
	}
	if x.Note != nil {
		s := *x.Note
		out.Note = &s
	}
	if len(x.Other) > 0 {
		out.Other = make(map[string]json.RawMessage, len(x.Other))
		for k, v := range x.Other {
			out.Other[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// Merge applies every recorded field of patch over the receiver,
// leaving untouched fields unchanged.
func (x *ExtraFields) Merge(patch *ExtraFields) {
	if patch == nil {
		return
	}
	if patch.SatietyPercent != nil {
		x.SatietyPercent = cloneInt(patch.SatietyPercent)
	}
	if patch.WaterMl != nil {
		x.WaterMl = cloneInt(patch.WaterMl)
	}
	if patch.IntensityPercent != nil {
		x.IntensityPercent = cloneInt(patch.IntensityPercent)
	}
	if patch.SleepDepthPercent != nil {
		x.SleepDepthPercent = cloneInt(patch.SleepDepthPercent)
	}
	if patch.Color != nil {
		c := *patch.Color
		x.Color = &c
	}
	if patch.Abnormal != nil {
		b := *patch.Abnormal
		x.Abnormal = &b
	}
	if patch.Note != nil {
		s := *patch.Note
		x.Note = &s
	}
	for k, v := range patch.Other {
		if x.Other == nil {
			x.Other = make(map[string]json.RawMessage)
		}
		x.Other[k] = append(json.RawMessage(nil), v...)
	}
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}

// Int returns a pointer to n, for building sparse bags.
func Int(n int) *int { return &n }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s.
func String(s string) *string { return &s }
