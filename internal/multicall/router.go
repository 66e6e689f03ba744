package multicall

import (
	"math/big"
)

// Slot is the routed outcome of one call for one entity.
// Exactly one of Text, Integer or Integers is set for typed decodings when Err is nil.
// Custom decodings keep the raw Result and leave interpretation to the caller.
type Slot struct {
	Reference string
	Decoding  Decoding
	Context   Context
	Result    CallResult

	Text     string
	Integer  *big.Int
	Integers []*big.Int

	Err error
}

// Defined reports whether the slot holds a usable value. A custom slot is
// defined when its call succeeded and its return data decoded.
func (s Slot) Defined() bool {
	if s.Decoding.Kind == DecodeCustom {
		return s.Result.Err() == nil
	}
	return s.Err == nil
}

// IntegerString renders Integer in base 10, or "" when undefined.
func (s Slot) IntegerString() string {
	if s.Integer == nil {
		return ""
	}
	return s.Integer.String()
}

// IntegerStrings renders Integers in base 10.
func (s Slot) IntegerStrings() []string {
	out := make([]string, len(s.Integers))
	for i, n := range s.Integers {
		out[i] = n.String()
	}
	return out
}

// Routed maps entity id to the slots recorded for it, keyed by call reference.
type Routed map[string]map[string]Slot

// Entity returns the slots for id; the map is empty when none were routed.
func (r Routed) Entity(id string) map[string]Slot {
	if slots, ok := r[id]; ok {
		return slots
	}
	return map[string]Slot{}
}

// Route regroups a batch by the entity id carried in each descriptor's context.
// Descriptors sharing an entity id merge; a reference seen twice for the same
// entity keeps the one from the descriptor submitted last.
func Route(batch *BatchResult) Routed {
	routed := make(Routed)
	if batch == nil {
		return routed
	}

	for _, d := range batch.Descriptors {
		id, ok := d.Context.ID()
		if !ok {
			continue
		}
		slots, ok := routed[id]
		if !ok {
			slots = make(map[string]Slot, len(d.Calls))
			routed[id] = slots
		}
		for _, c := range d.Calls {
			slots[c.Reference] = decodeSlot(d, c)
		}
	}

	return routed
}

func decodeSlot(d *DescriptorResult, c CallResult) Slot {
	s := Slot{
		Reference: c.Reference,
		Decoding:  d.Decoding,
		Context:   d.Context,
		Result:    c,
	}
	if d.Decoding.Kind == DecodeCustom {
		return s
	}
	if err := c.Err(); err != nil {
		s.Err = err
		return s
	}

	switch d.Decoding.Kind {
	case DecodeText:
		s.Text, s.Err = TextAt(c.Values, 0)
	case DecodeInteger:
		s.Integer, s.Err = BigIntAt(c.Values, 0)
	case DecodeIntegerArray:
		s.Integers, s.Err = integers(c.Values)
	}
	return s
}

// integers flattens every output, expanding integer slices in place.
func integers(values []any) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(values))
	for _, v := range values {
		if arr, ok := v.([]*big.Int); ok {
			for _, n := range arr {
				out = append(out, new(big.Int).Set(n))
			}
			continue
		}
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, ErrNoOutput
	}
	return out, nil
}
