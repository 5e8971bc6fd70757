package doc

import (
	"encoding/json"
	"fmt"
)

// Scalar and Size are unions on the wire (number | string). Their codecs
// live here so node.go stays about structure, not encoding.

func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.Ref != "" {
		return json.Marshal(s.Ref)
	}
	return json.Marshal(s.Num)
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = Scalar{Num: num}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("scalar must be a number or string: %w", err)
	}
	if IsVarRef(str) {
		*s = Scalar{Ref: str}
		return nil
	}
	*s = Scalar{Num: ParseLoose(str)}
	return nil
}

func (s Size) MarshalJSON() ([]byte, error) {
	switch {
	case s.Ref != "":
		return json.Marshal(s.Ref)
	case s.Keyword != "":
		return json.Marshal(s.Keyword)
	default:
		return json.Marshal(s.Px)
	}
}

func (s *Size) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = Size{Px: num}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("size must be a number or string: %w", err)
	}
	switch {
	case IsVarRef(str):
		*s = Size{Ref: str}
	case str == SizeFitContent || str == SizeFillContainer:
		*s = Size{Keyword: str}
	// Legacy sizing shorthand from .pen files.
	case str == "hug":
		*s = Size{Keyword: SizeFitContent}
	case str == "fill":
		*s = Size{Keyword: SizeFillContainer}
	default:
		*s = Size{Px: ParseLoose(str)}
	}
	return nil
}
